package types

import "time"

// ValidationMetrics holds the global cluster-quality indices of one run.
// All three indices require at least two clusters; below that they are nil
// rather than an error, because an under-determined partition is a valid
// outcome, not a failure.
type ValidationMetrics struct {
	RunID      string    `firestore:"runID" json:"run_id"`
	ComputedAt time.Time `firestore:"computedAt" json:"computed_at"`

	NumClusters int `firestore:"numClusters" json:"num_clusters"`
	TotalPoints int `firestore:"totalPoints" json:"total_points"`

	Silhouette       *float64 `firestore:"silhouette" json:"silhouette_score"`              // [-1,1], higher is better
	DaviesBouldin    *float64 `firestore:"daviesBouldin" json:"davies_bouldin_index"`       // >=0, lower is better
	CalinskiHarabasz *float64 `firestore:"calinskiHarabasz" json:"calinski_harabasz_score"` // >=0, higher is better

	Quality string `firestore:"quality" json:"quality"`

	LinkageMethod     Linkage `firestore:"linkageMethod" json:"linkage_method"`
	DistanceThreshold float64 `firestore:"distanceThreshold" json:"distance_threshold"`
}

// InterpretQuality bands the silhouette score into a human-readable rating.
func (m *ValidationMetrics) InterpretQuality() string {
	if m == nil || m.Silhouette == nil {
		return "undetermined"
	}
	s := *m.Silhouette
	switch {
	case s >= 0.7:
		return "excellent"
	case s >= 0.5:
		return "good"
	case s >= 0.25:
		return "fair"
	default:
		return "poor"
	}
}
