package types

import (
	"errors"
	"time"
)

type Linkage string

const (
	CompleteLinkage Linkage = "complete"
	SingleLinkage   Linkage = "single"
	AverageLinkage  Linkage = "average"
)

type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
	RunCancelled RunStatus = "cancelled"
)

// Terminal reports whether the status admits no further transitions.
func (s RunStatus) Terminal() bool {
	return s == RunSucceeded || s == RunFailed || s == RunCancelled
}

var (
	ErrInvalidThreshold      = errors.New("params: distance threshold must be > 0")
	ErrInvalidMinClusterSize = errors.New("params: minimum cluster size must be >= 2")
	ErrUnknownLinkage        = errors.New("params: unknown linkage method")
	ErrInvalidTimeWindow     = errors.New("params: time window days must be > 0")
)

// RunParams are the trigger parameters of one clustering run.
type RunParams struct {
	Linkage           Linkage `firestore:"linkageMethod" json:"linkage_method"`
	DistanceThreshold float64 `firestore:"distanceThreshold" json:"distance_threshold"`
	MinClusterSize    int     `firestore:"minClusterSize" json:"min_cluster_size"`
	TimeWindowDays    *int    `firestore:"timeWindowDays,omitempty" json:"time_window_days,omitempty"`
	Metric            string  `firestore:"metric,omitempty" json:"metric,omitempty"` // empty means euclidean degrees
}

// DefaultRunParams mirrors the historical defaults: complete linkage,
// 0.05 degrees (~5km), minimum 3 accidents per hotspot.
func DefaultRunParams() RunParams {
	return RunParams{
		Linkage:           CompleteLinkage,
		DistanceThreshold: 0.05,
		MinClusterSize:    3,
	}
}

// Validate rejects invalid trigger parameters before a run is created.
func (p RunParams) Validate() error {
	switch p.Linkage {
	case CompleteLinkage, SingleLinkage, AverageLinkage:
	default:
		return ErrUnknownLinkage
	}
	if p.DistanceThreshold <= 0 {
		return ErrInvalidThreshold
	}
	if p.MinClusterSize < 2 {
		return ErrInvalidMinClusterSize
	}
	if p.TimeWindowDays != nil && *p.TimeWindowDays <= 0 {
		return ErrInvalidTimeWindow
	}
	return nil
}

// ClusteringRun tracks one clustering job execution. Status snapshots are
// persisted for polling; the result set is committed atomically only when
// the run succeeds.
type ClusteringRun struct {
	ID     string    `firestore:"-" json:"id"` // Firestore document ID
	Status RunStatus `firestore:"status" json:"status"`

	Params RunParams `firestore:"params" json:"params"`

	StartedAt   time.Time  `firestore:"startedAt" json:"started_at"`
	CompletedAt *time.Time `firestore:"completedAt,omitempty" json:"completed_at,omitempty"`

	// Progress through the pipeline, 0-100, polled by clients.
	Progress int `firestore:"progress" json:"progress"`

	TotalPoints      int    `firestore:"totalPoints" json:"total_points"`
	ClustersFound    int    `firestore:"clustersFound" json:"clusters_found"`
	UnclusteredCount int    `firestore:"unclusteredCount" json:"unclustered_count"`
	ErrorMessage     string `firestore:"errorMessage,omitempty" json:"error_message,omitempty"`
}
