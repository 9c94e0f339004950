package agnes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-hotspot/types"
)

func TestCutTwoClusters(t *testing.T) {
	points := testPoints()
	d := buildDendrogram(t, points, types.CompleteLinkage)

	labels := Cut(d, 0.05)
	require.Len(t, labels, len(points))

	// Butuan members share one label, Surigao members another.
	assert.Equal(t, labels[0], labels[1])
	assert.Equal(t, labels[0], labels[2])
	assert.Equal(t, labels[3], labels[4])
	assert.Equal(t, labels[3], labels[5])
	assert.NotEqual(t, labels[0], labels[3])

	// Labels are compacted in order of first appearance.
	assert.Equal(t, 0, labels[0])
	assert.Equal(t, 1, labels[3])
}

func TestCutThresholdExtremes(t *testing.T) {
	points := testPoints()
	d := buildDendrogram(t, points, types.CompleteLinkage)

	// Below every merge height: all singletons.
	labels := Cut(d, 1e-9)
	seen := make(map[int]bool)
	for _, l := range labels {
		seen[l] = true
	}
	assert.Len(t, seen, len(points))

	// Above the root height: one cluster.
	labels = Cut(d, 1000)
	for _, l := range labels {
		assert.Equal(t, 0, l)
	}
}

func TestCutPartitionTotality(t *testing.T) {
	points := testPoints()
	for _, linkage := range []types.Linkage{types.CompleteLinkage, types.SingleLinkage, types.AverageLinkage} {
		d := buildDendrogram(t, points, linkage)
		for _, threshold := range []float64{0.001, 0.02, 0.05, 0.5, 2.0} {
			labels := Cut(d, threshold)
			require.Len(t, labels, len(points), "every point must receive exactly one label")
			for _, l := range labels {
				assert.GreaterOrEqual(t, l, 0)
			}
		}
	}
}

// Complete linkage guarantee: every cluster's diameter is bounded by the
// cut threshold.
func TestCutCompleteLinkageDiameterBound(t *testing.T) {
	points := append(testPoints(),
		types.Point{ID: "x1", Latitude: 8.71, Longitude: 125.74},
		types.Point{ID: "x2", Latitude: 8.76, Longitude: 125.71},
		types.Point{ID: "x3", Latitude: 8.74, Longitude: 125.78},
	)
	m, err := NewDistanceMatrix(points, EuclideanDegrees)
	require.NoError(t, err)
	d := Build(m, types.CompleteLinkage, nil)

	for _, threshold := range []float64{0.01, 0.05, 0.1, 0.5} {
		labels := Cut(d, threshold)
		for i := range points {
			for j := range points {
				if labels[i] == labels[j] {
					assert.LessOrEqual(t, m.At(i, j), threshold,
						"points %d and %d share a cluster but are %.4f apart (threshold %.4f)",
						i, j, m.At(i, j), threshold)
				}
			}
		}
	}
}

// Growing the threshold never shrinks a cluster and never increases the
// number of clusters.
func TestCutMonotonicGrowth(t *testing.T) {
	points := testPoints()
	d := buildDendrogram(t, points, types.CompleteLinkage)

	thresholds := []float64{0.005, 0.01, 0.03, 0.05, 0.2, 1.0}
	var prevLabels []int
	var prevSizes map[int]int

	for _, threshold := range thresholds {
		labels := Cut(d, threshold)
		sizes := make(map[int]int)
		for _, l := range labels {
			sizes[l]++
		}

		if prevLabels != nil {
			assert.LessOrEqual(t, len(sizes), len(prevSizes), "cluster count grew with threshold %.3f", threshold)
			// Each point's new cluster is at least as large as its old one.
			for i := range labels {
				assert.GreaterOrEqual(t, sizes[labels[i]], prevSizes[prevLabels[i]],
					"cluster of point %d shrank when threshold grew to %.3f", i, threshold)
			}
		}
		prevLabels = labels
		prevSizes = sizes
	}
}
