package types

import "time"

// Point is one georeferenced accident record pulled from the record store.
// Immutable input to the clustering pipeline; owned by the accidents
// collection, never written back by the engine.
type Point struct {
	ID           string    `firestore:"-" json:"id"` // Firestore document ID
	Latitude     float64   `firestore:"latitude" json:"latitude"`
	Longitude    float64   `firestore:"longitude" json:"longitude"`
	Timestamp    time.Time `firestore:"timestamp" json:"timestamp"`
	Killed       int       `firestore:"killed" json:"killed"`
	Injured      int       `firestore:"injured" json:"injured"`
	Province     string    `firestore:"province" json:"province"`
	Municipality string    `firestore:"municipality" json:"municipality"`
	Barangay     string    `firestore:"barangay" json:"barangay"`
}

// ValidCoordinates reports whether the point carries usable coordinates.
func (p Point) ValidCoordinates() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}
