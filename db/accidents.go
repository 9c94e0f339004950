package db

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/api/iterator"

	"go-hotspot/engine"
	"go-hotspot/types"
)

const accidentsCollection = "accidents"

// FetchPoints retrieves accident points from the 'accidents' collection,
// optionally restricted to a time window. Documents that fail to decode
// or carry out-of-range coordinates are skipped with a warning rather
// than failing the whole run.
func (s *Store) FetchPoints(ctx context.Context, window *engine.TimeWindow) ([]types.Point, error) {
	query := s.client.Collection(accidentsCollection).Query
	if window != nil {
		query = query.
			Where("timestamp", ">=", window.From).
			Where("timestamp", "<=", window.To)
	}

	var points []types.Point

	iter := query.Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating accidents collection: %w", err)
		}

		var p types.Point
		if err := doc.DataTo(&p); err != nil {
			log.Printf("Warning: Error converting document %s to Point: %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		p.ID = doc.Ref.ID

		if !p.ValidCoordinates() {
			log.Printf("Warning: Accident %s has out-of-range coordinates (%f, %f). Skipping.",
				p.ID, p.Latitude, p.Longitude)
			continue
		}

		points = append(points, p)
	}

	log.Printf("Retrieved %d accident points from the database.", len(points))
	return points, nil
}
