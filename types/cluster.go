package types

import "time"

type Severity string

const (
	Low      Severity = "low"
	Medium   Severity = "medium"
	High     Severity = "high"
	Critical Severity = "critical"
)

type BoundingBox struct {
	MinLat float64 `firestore:"minLat" json:"min_lat"`
	MaxLat float64 `firestore:"maxLat" json:"max_lat"`
	MinLon float64 `firestore:"minLon" json:"min_lon"`
	MaxLon float64 `firestore:"maxLon" json:"max_lon"`
}

// Cluster is one accident hotspot produced by a clustering run.
// Immutable once built; it belongs to exactly one run's result set.
type Cluster struct {
	ID    string `firestore:"-" json:"id"` // Firestore document ID
	RunID string `firestore:"runID" json:"run_id"`
	Label int    `firestore:"label" json:"label"` // flat cluster label within the run

	// Centroid (arithmetic mean of member coordinates)
	Lat  float64 `firestore:"lat" json:"center_latitude"`
	Long float64 `firestore:"long" json:"center_longitude"`

	BoundingBox BoundingBox `firestore:"boundingBox" json:"bounds"`

	// Max distance from centroid to any member, in the run's metric units.
	// Map renderers scale this by a display multiplier; it is stored raw.
	Radius float64 `firestore:"radius" json:"radius"`

	AccidentCount int `firestore:"accidentCount" json:"accident_count"`
	KilledCount   int `firestore:"killedCount" json:"killed_count"`
	InjuredCount  int `firestore:"injuredCount" json:"injured_count"`

	SeverityScore   float64  `firestore:"severityScore" json:"severity_score"` // [0,100]
	Severity        Severity `firestore:"severity" json:"severity"`
	PrimaryLocation string   `firestore:"primaryLocation" json:"primary_location"`
	Municipalities  []string `firestore:"municipalities" json:"municipalities"`

	DateRangeStart time.Time `firestore:"dateRangeStart" json:"date_range_start"`
	DateRangeEnd   time.Time `firestore:"dateRangeEnd" json:"date_range_end"`

	MemberIDs []string `firestore:"memberIDs" json:"accident_ids"`
}

// UnclusteredPoint is a point whose merge group fell below the minimum
// cluster size. Retained explicitly so the partition of the input is total.
type UnclusteredPoint struct {
	PointID   string  `firestore:"pointID" json:"point_id"`
	Latitude  float64 `firestore:"latitude" json:"latitude"`
	Longitude float64 `firestore:"longitude" json:"longitude"`
	GroupSize int     `firestore:"groupSize" json:"group_size"` // size of the undersized group it came from
}
