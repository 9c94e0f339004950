package agnes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-hotspot/types"
)

func validatedFixture(t *testing.T) ([]types.Cluster, []types.Point) {
	t.Helper()
	points := casualtyPoints()
	clusters, _, err := BuildClusters(points, []int{0, 0, 0, 1, 1, 1}, 3, EuclideanDegrees)
	require.NoError(t, err)
	return clusters, points
}

func TestValidateWellSeparatedClusters(t *testing.T) {
	clusters, points := validatedFixture(t)
	m := Validate(clusters, points, EuclideanDegrees)

	require.NotNil(t, m)
	assert.Equal(t, 2, m.NumClusters)
	assert.Equal(t, 6, m.TotalPoints)

	require.NotNil(t, m.Silhouette)
	require.NotNil(t, m.DaviesBouldin)
	require.NotNil(t, m.CalinskiHarabasz)

	// Two tight towns ~0.7 degrees apart: near-perfect separation.
	assert.Greater(t, *m.Silhouette, 0.9)
	assert.LessOrEqual(t, *m.Silhouette, 1.0)
	assert.GreaterOrEqual(t, *m.DaviesBouldin, 0.0)
	assert.Less(t, *m.DaviesBouldin, 0.1)
	assert.Greater(t, *m.CalinskiHarabasz, 0.0)

	assert.Equal(t, "excellent", m.Quality)
}

func TestValidateMetricsRanges(t *testing.T) {
	// A sloppier partition: split the Butuan points across both clusters.
	points := casualtyPoints()
	clusters, _, err := BuildClusters(points, []int{0, 0, 1, 1, 1, 0}, 3, EuclideanDegrees)
	require.NoError(t, err)
	require.Len(t, clusters, 2)

	m := Validate(clusters, points, EuclideanDegrees)
	require.NotNil(t, m.Silhouette)
	assert.GreaterOrEqual(t, *m.Silhouette, -1.0)
	assert.LessOrEqual(t, *m.Silhouette, 1.0)
	assert.GreaterOrEqual(t, *m.DaviesBouldin, 0.0)
	assert.GreaterOrEqual(t, *m.CalinskiHarabasz, 0.0)
}

func TestValidateSingleClusterUndefined(t *testing.T) {
	points := casualtyPoints()
	clusters, _, err := BuildClusters(points[:3], []int{0, 0, 0}, 3, EuclideanDegrees)
	require.NoError(t, err)
	require.Len(t, clusters, 1)

	m := Validate(clusters, points[:3], EuclideanDegrees)
	require.NotNil(t, m)
	assert.Equal(t, 1, m.NumClusters)
	assert.Nil(t, m.Silhouette)
	assert.Nil(t, m.DaviesBouldin)
	assert.Nil(t, m.CalinskiHarabasz)
	assert.Equal(t, "undetermined", m.Quality)
}

func TestValidateNoClusters(t *testing.T) {
	m := Validate(nil, casualtyPoints(), EuclideanDegrees)
	require.NotNil(t, m)
	assert.Equal(t, 0, m.NumClusters)
	assert.Equal(t, 0, m.TotalPoints)
	assert.Nil(t, m.Silhouette)
	assert.Nil(t, m.DaviesBouldin)
	assert.Nil(t, m.CalinskiHarabasz)
}

func TestValidateCoincidentMembers(t *testing.T) {
	// Degenerate geometry: every member of each cluster sits on its
	// centroid. Indices stay defined and in range, never an error.
	points := []types.Point{
		{ID: "p1", Latitude: 9.0, Longitude: 125.5},
		{ID: "p2", Latitude: 9.0, Longitude: 125.5},
		{ID: "p3", Latitude: 9.0, Longitude: 125.5},
		{ID: "q1", Latitude: 10.0, Longitude: 126.5},
		{ID: "q2", Latitude: 10.0, Longitude: 126.5},
		{ID: "q3", Latitude: 10.0, Longitude: 126.5},
	}
	clusters, _, err := BuildClusters(points, []int{0, 0, 0, 1, 1, 1}, 3, EuclideanDegrees)
	require.NoError(t, err)

	m := Validate(clusters, points, EuclideanDegrees)
	require.NotNil(t, m.Silhouette)
	assert.InDelta(t, 1.0, *m.Silhouette, 1e-9)
	assert.Equal(t, 0.0, *m.DaviesBouldin)
	// Zero within-cluster dispersion is reported as 0, not infinity.
	assert.Equal(t, 0.0, *m.CalinskiHarabasz)
}
