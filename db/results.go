package db

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"go-hotspot/types"
)

const (
	hotspotsCollection    = "hotspots"
	unclusteredCollection = "unclustered_points"
	runsCollection        = "clustering_runs"
	metricsCollection     = "validation_metrics"
)

// bulkJob is the outcome surface of a *firestore.BulkWriterJob. Enqueue
// errors aside, write failures only surface through Results after a flush.
type bulkJob interface {
	Results() (*firestore.WriteResult, error)
}

// firstJobError reports the first failed write among flushed bulk jobs.
func firstJobError(jobs []bulkJob) error {
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return err
		}
	}
	return nil
}

// PersistResults writes one run's complete result set. All documents are
// tagged with the run id and the run document is committed last with
// status succeeded, so a partially written result set is never visible:
// readers resolve "latest" through the most recent succeeded run and a
// prior run's committed results stay untouched on failure. Every bulk
// write outcome is checked after the flush; any failure aborts before
// the run commit.
func (s *Store) PersistResults(ctx context.Context, run *types.ClusteringRun, clusters []types.Cluster, unclustered []types.UnclusteredPoint, metrics *types.ValidationMetrics) error {
	bw := s.client.BulkWriter(ctx)
	var jobs []bulkJob

	hotspotsRef := s.client.Collection(hotspotsCollection)
	for i := range clusters {
		cluster := clusters[i]
		if cluster.ID == "" {
			log.Printf("Warning: Skipping cluster with empty ID: %+v", cluster)
			continue
		}
		job, err := bw.Set(hotspotsRef.Doc(cluster.ID), cluster)
		if err != nil {
			return fmt.Errorf("error enqueueing cluster %s: %w", cluster.ID, err)
		}
		jobs = append(jobs, job)
	}

	unclusteredRef := s.client.Collection(unclusteredCollection)
	for i := range unclustered {
		up := unclustered[i]
		doc := map[string]interface{}{
			"runID":     run.ID,
			"pointID":   up.PointID,
			"latitude":  up.Latitude,
			"longitude": up.Longitude,
			"groupSize": up.GroupSize,
		}
		job, err := bw.Set(unclusteredRef.Doc(run.ID+"_"+up.PointID), doc)
		if err != nil {
			return fmt.Errorf("error enqueueing unclustered point %s: %w", up.PointID, err)
		}
		jobs = append(jobs, job)
	}

	// One metrics document per run, keyed by the run id.
	job, err := bw.Set(s.client.Collection(metricsCollection).Doc(run.ID), metrics)
	if err != nil {
		return fmt.Errorf("error enqueueing validation metrics: %w", err)
	}
	jobs = append(jobs, job)

	bw.Flush()

	if err := firstJobError(jobs); err != nil {
		return fmt.Errorf("error writing result documents for run %s: %w", run.ID, err)
	}

	// Commit point: the run document with succeeded status is written only
	// after every result document landed.
	committed := *run
	committed.Status = types.RunSucceeded
	if _, err := s.client.Collection(runsCollection).Doc(run.ID).Set(ctx, committed); err != nil {
		return fmt.Errorf("error committing run %s: %w", run.ID, err)
	}

	log.Printf("Persisted run %s: %d hotspots, %d unclustered points.", run.ID, len(clusters), len(unclustered))
	return nil
}

// SaveRun stores a run status snapshot for polling.
func (s *Store) SaveRun(ctx context.Context, run *types.ClusteringRun) error {
	_, err := s.client.Collection(runsCollection).Doc(run.ID).Set(ctx, run)
	if err != nil {
		return fmt.Errorf("error saving run %s: %w", run.ID, err)
	}
	return nil
}

// LatestSucceededRun resolves the most recently completed successful run.
func (s *Store) LatestSucceededRun(ctx context.Context) (*types.ClusteringRun, error) {
	iter := s.client.Collection(runsCollection).
		Where("status", "==", string(types.RunSucceeded)).
		OrderBy("completedAt", firestore.Desc).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying latest run: %w", err)
	}

	var run types.ClusteringRun
	if err := doc.DataTo(&run); err != nil {
		return nil, fmt.Errorf("error converting run document %s: %w", doc.Ref.ID, err)
	}
	run.ID = doc.Ref.ID
	return &run, nil
}

// ClustersByRun retrieves the hotspots of one run, severity order.
func (s *Store) ClustersByRun(ctx context.Context, runID string) ([]types.Cluster, error) {
	iter := s.client.Collection(hotspotsCollection).
		Where("runID", "==", runID).
		OrderBy("severityScore", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var clusters []types.Cluster
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating hotspots: %w", err)
		}
		var c types.Cluster
		if err := doc.DataTo(&c); err != nil {
			log.Printf("Warning: Error converting document %s to Cluster: %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		c.ID = doc.Ref.ID
		clusters = append(clusters, c)
	}
	return clusters, nil
}

// UnclusteredByRun retrieves the unclustered points of one run.
func (s *Store) UnclusteredByRun(ctx context.Context, runID string) ([]types.UnclusteredPoint, error) {
	iter := s.client.Collection(unclusteredCollection).
		Where("runID", "==", runID).
		Documents(ctx)
	defer iter.Stop()

	var points []types.UnclusteredPoint
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating unclustered points: %w", err)
		}
		var up types.UnclusteredPoint
		if err := doc.DataTo(&up); err != nil {
			log.Printf("Warning: Error converting document %s to UnclusteredPoint: %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		points = append(points, up)
	}
	return points, nil
}

// MetricsByRun retrieves the validation metrics document of one run.
func (s *Store) MetricsByRun(ctx context.Context, runID string) (*types.ValidationMetrics, error) {
	docSnap, err := s.client.Collection(metricsCollection).Doc(runID).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting metrics for run %s: %w", runID, err)
	}
	var m types.ValidationMetrics
	if err := docSnap.DataTo(&m); err != nil {
		return nil, fmt.Errorf("error converting metrics document %s: %w", docSnap.Ref.ID, err)
	}
	return &m, nil
}
