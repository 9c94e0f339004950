package agnes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-hotspot/types"
)

func casualtyPoints() []types.Point {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []types.Point{
		{ID: "a1", Latitude: 9.00, Longitude: 125.50, Killed: 1, Injured: 0, Municipality: "Butuan City", Timestamp: base},
		{ID: "a2", Latitude: 9.01, Longitude: 125.51, Killed: 0, Injured: 1, Municipality: "Butuan City", Timestamp: base.AddDate(0, 0, 1)},
		{ID: "a3", Latitude: 9.02, Longitude: 125.52, Killed: 1, Injured: 1, Municipality: "Butuan City", Timestamp: base.AddDate(0, 0, 2)},
		{ID: "b1", Latitude: 8.50, Longitude: 126.00, Killed: 0, Injured: 1, Municipality: "Surigao City", Timestamp: base.AddDate(0, 1, 0)},
		{ID: "b2", Latitude: 8.51, Longitude: 126.01, Killed: 1, Injured: 0, Municipality: "Surigao City", Timestamp: base.AddDate(0, 1, 1)},
		{ID: "b3", Latitude: 8.52, Longitude: 126.02, Killed: 0, Injured: 1, Municipality: "Surigao City", Timestamp: base.AddDate(0, 1, 2)},
	}
}

func clusterAndBuild(t *testing.T, points []types.Point, threshold float64, minSize int) ([]types.Cluster, []types.UnclusteredPoint) {
	t.Helper()
	m, err := NewDistanceMatrix(points, EuclideanDegrees)
	require.NoError(t, err)
	labels := Cut(Build(m, types.CompleteLinkage, nil), threshold)
	clusters, unclustered, err := BuildClusters(points, labels, minSize, EuclideanDegrees)
	require.NoError(t, err)
	return clusters, unclustered
}

func TestBuildClustersTwoHotspots(t *testing.T) {
	points := casualtyPoints()
	clusters, unclustered, err := BuildClusters(points, []int{0, 0, 0, 1, 1, 1}, 3, EuclideanDegrees)
	require.NoError(t, err)
	require.Len(t, clusters, 2)
	assert.Empty(t, unclustered)

	butuan := clusters[0]
	assert.Equal(t, 3, butuan.AccidentCount)
	assert.Equal(t, 2, butuan.KilledCount)
	assert.Equal(t, 2, butuan.InjuredCount)
	assert.Equal(t, "Butuan City", butuan.PrimaryLocation)
	assert.Equal(t, []string{"a1", "a2", "a3"}, butuan.MemberIDs)

	// Centroid is the arithmetic mean of member coordinates.
	assert.InDelta(t, 9.01, butuan.Lat, 1e-9)
	assert.InDelta(t, 125.51, butuan.Long, 1e-9)

	// Bounds are componentwise min/max.
	assert.Equal(t, types.BoundingBox{MinLat: 9.00, MaxLat: 9.02, MinLon: 125.50, MaxLon: 125.52}, butuan.BoundingBox)

	// Radius reaches the farthest member.
	assert.InDelta(t, EuclideanDegrees(9.01, 125.51, 9.00, 125.50), butuan.Radius, 1e-9)

	// Date range covers exactly the member timestamps.
	assert.Equal(t, points[0].Timestamp, butuan.DateRangeStart)
	assert.Equal(t, points[2].Timestamp, butuan.DateRangeEnd)
}

func TestBuildClustersPartitionTotality(t *testing.T) {
	points := casualtyPoints()
	clusters, unclustered := clusterAndBuild(t, points, 0.05, 3)

	seen := make(map[string]int)
	for _, c := range clusters {
		for _, id := range c.MemberIDs {
			seen[id]++
		}
		assert.GreaterOrEqual(t, c.AccidentCount, 3, "survivors respect the minimum size")
	}
	for _, up := range unclustered {
		seen[up.PointID]++
	}

	require.Len(t, seen, len(points))
	for id, n := range seen {
		assert.Equal(t, 1, n, "point %s appears %d times", id, n)
	}
}

func TestBuildClustersUndersizedGroupRetained(t *testing.T) {
	// Scenario B: one point 10 degrees away from all others never forms a
	// size-1 cluster; it is retained as unclustered.
	points := append(casualtyPoints(), types.Point{ID: "far", Latitude: 19.0, Longitude: 125.5})
	clusters, unclustered := clusterAndBuild(t, points, 0.05, 3)

	require.Len(t, clusters, 2)
	require.Len(t, unclustered, 1)
	assert.Equal(t, "far", unclustered[0].PointID)
	assert.Equal(t, 1, unclustered[0].GroupSize)
}

func TestBuildClustersScenarioA(t *testing.T) {
	// Three points mutually within 0.01 degrees, threshold 0.05,
	// minimum size 3: exactly one cluster of three.
	points := []types.Point{
		{ID: "s1", Latitude: 9.000, Longitude: 125.500, Municipality: "Butuan City"},
		{ID: "s2", Latitude: 9.005, Longitude: 125.503, Municipality: "Butuan City"},
		{ID: "s3", Latitude: 9.008, Longitude: 125.498, Municipality: "Butuan City"},
	}
	clusters, unclustered := clusterAndBuild(t, points, 0.05, 3)

	require.Len(t, clusters, 1)
	assert.Empty(t, unclustered)
	assert.Equal(t, 3, clusters[0].AccidentCount)
}

func TestBuildClustersPrimaryLocationTieBreak(t *testing.T) {
	points := []types.Point{
		{ID: "t1", Latitude: 9.00, Longitude: 125.50, Municipality: "Butuan City"},
		{ID: "t2", Latitude: 9.01, Longitude: 125.51, Municipality: "Cabadbaran"},
		{ID: "t3", Latitude: 9.02, Longitude: 125.52, Municipality: "Cabadbaran"},
		{ID: "t4", Latitude: 9.03, Longitude: 125.53, Municipality: "Butuan City"},
	}
	clusters, _, err := BuildClusters(points, []int{0, 0, 0, 0}, 3, EuclideanDegrees)
	require.NoError(t, err)
	require.Len(t, clusters, 1)

	// Both municipalities occur twice; first occurrence in input order wins.
	assert.Equal(t, "Butuan City", clusters[0].PrimaryLocation)
	assert.Equal(t, []string{"Butuan City", "Cabadbaran"}, clusters[0].Municipalities)
}

func TestBuildClustersDimensionMismatch(t *testing.T) {
	_, _, err := BuildClusters(casualtyPoints(), []int{0, 0}, 3, EuclideanDegrees)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}
