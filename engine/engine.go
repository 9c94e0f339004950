package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"go-hotspot/agnes"
	"go-hotspot/types"
)

// ErrRunActive is returned when a trigger arrives while another run is in
// the Running state. Concurrent runs are rejected, never queued.
var ErrRunActive = errors.New("engine: a clustering run is already active")

// ErrRunNotFound is returned when a run id is unknown to the engine.
var ErrRunNotFound = errors.New("engine: run not found")

// TimeWindow restricts the points a run clusters over.
type TimeWindow struct {
	From time.Time
	To   time.Time
}

// RecordSource supplies the georeferenced points to cluster. Implemented
// by the accidents store; tests use in-memory fixtures.
type RecordSource interface {
	FetchPoints(ctx context.Context, window *TimeWindow) ([]types.Point, error)
}

// ResultSink persists one run's complete result set as a single atomic
// unit. A failed persist must leave any previously committed results
// untouched.
type ResultSink interface {
	PersistResults(ctx context.Context, run *types.ClusteringRun, clusters []types.Cluster, unclustered []types.UnclusteredPoint, metrics *types.ValidationMetrics) error
}

// RunStore records run status snapshots for polling. Snapshot writes are
// best-effort; a failed snapshot does not fail the run.
type RunStore interface {
	SaveRun(ctx context.Context, run *types.ClusteringRun) error
}

// Result is the in-memory outcome of a finished run, retained on the
// engine for the HTTP layer and for audit. The dendrogram is kept so the
// merge order behind a committed partition can be inspected.
type Result struct {
	Run         types.ClusteringRun
	Clusters    []types.Cluster
	Unclustered []types.UnclusteredPoint
	Metrics     *types.ValidationMetrics
	Dendrogram  *agnes.Dendrogram
}

// Engine coordinates the clustering pipeline as one background unit of
// work: fetch points, build distances, agglomerate, cut, filter, score,
// validate, persist. Single-run-exclusive: the busy flag is a
// compare-and-swap gate acquired before a run starts.
type Engine struct {
	source RecordSource
	sink   ResultSink
	runs   RunStore

	bands agnes.TierBands

	busy int32

	mu     sync.Mutex
	byID   map[string]*types.ClusteringRun
	order  []string          // run ids in trigger order, oldest first
	cancel map[string]*int32 // cooperative cancellation flags
	latest *Result
}

// maxTrackedRuns caps the in-memory run registry. The registry only
// serves status polling; the run store keeps the durable history.
const maxTrackedRuns = 50

// New builds an engine over the given collaborators. runs may be nil when
// no snapshot store is wanted.
func New(source RecordSource, sink ResultSink, runs RunStore) *Engine {
	return &Engine{
		source: source,
		sink:   sink,
		runs:   runs,
		bands:  agnes.DefaultTierBands,
		byID:   make(map[string]*types.ClusteringRun),
		cancel: make(map[string]*int32),
	}
}

// Trigger validates params, registers a pending run and starts the
// pipeline in the background. It returns the run id immediately; progress
// is polled via Status. A second trigger while a run is active returns
// ErrRunActive.
func (e *Engine) Trigger(ctx context.Context, params types.RunParams) (string, error) {
	if err := params.Validate(); err != nil {
		return "", err
	}
	if _, err := agnes.MetricByName(params.Metric); err != nil {
		return "", err
	}

	if !atomic.CompareAndSwapInt32(&e.busy, 0, 1) {
		return "", ErrRunActive
	}

	run := &types.ClusteringRun{
		ID:        uuid.NewString(),
		Status:    types.RunPending,
		Params:    params,
		StartedAt: time.Now().UTC(),
	}

	var cancelled int32
	e.mu.Lock()
	e.byID[run.ID] = run
	e.order = append(e.order, run.ID)
	e.cancel[run.ID] = &cancelled
	e.mu.Unlock()

	e.snapshot(run)

	go e.execute(context.WithoutCancel(ctx), run, &cancelled)

	return run.ID, nil
}

// Cancel requests cooperative cancellation of a run. The flag is checked
// between pipeline stages; once persistence has begun the run completes
// or fails as a whole. Runs that already reached a terminal state return
// ErrRunNotFound.
func (e *Engine) Cancel(runID string) error {
	e.mu.Lock()
	flag, ok := e.cancel[runID]
	e.mu.Unlock()
	if !ok {
		return ErrRunNotFound
	}
	atomic.StoreInt32(flag, 1)
	return nil
}

// Status returns a copy of the run's latest snapshot.
func (e *Engine) Status(runID string) (types.ClusteringRun, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	run, ok := e.byID[runID]
	if !ok {
		return types.ClusteringRun{}, ErrRunNotFound
	}
	return *run, nil
}

// Latest returns the most recent successfully committed result, or nil
// when no run has succeeded yet. A newer run never replaces this until it
// commits.
func (e *Engine) Latest() *Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.latest
}

// pipeline progress marks, in percent. Linkage dominates the work and
// fills the span between linkageStart and linkageEnd merge by merge.
const (
	progressFetched      = 5
	progressMatrix       = 15
	progressLinkageStart = 15
	progressLinkageEnd   = 75
	progressPartitioned  = 80
	progressScored       = 85
	progressValidated    = 90
	progressDone         = 100
)

func (e *Engine) execute(ctx context.Context, run *types.ClusteringRun, cancelled *int32) {
	defer atomic.StoreInt32(&e.busy, 0)

	e.transition(run, types.RunRunning)

	metric, _ := agnes.MetricByName(run.Params.Metric) // validated at trigger

	window := e.window(run.Params)
	points, err := e.source.FetchPoints(ctx, window)
	if err != nil {
		e.fail(run, fmt.Errorf("fetch points: %w", err))
		return
	}
	e.mu.Lock()
	run.TotalPoints = len(points)
	e.mu.Unlock()
	e.progress(run, progressFetched)

	if len(points) < 2*run.Params.MinClusterSize {
		log.Printf("Engine: only %d points available for run %s; expecting zero hotspots", len(points), run.ID)
	}

	if e.checkCancelled(run, cancelled) {
		return
	}

	dm, err := agnes.NewDistanceMatrix(points, metric)
	if err != nil {
		e.fail(run, fmt.Errorf("distance matrix: %w", err))
		return
	}
	e.progress(run, progressMatrix)

	if e.checkCancelled(run, cancelled) {
		return
	}

	dendro := agnes.Build(dm, run.Params.Linkage, func(done, total int) {
		span := progressLinkageEnd - progressLinkageStart
		e.progress(run, progressLinkageStart+span*done/total)
	})

	if e.checkCancelled(run, cancelled) {
		return
	}

	labels := agnes.Cut(dendro, run.Params.DistanceThreshold)
	e.progress(run, progressPartitioned)

	clusters, unclustered, err := agnes.BuildClusters(points, labels, run.Params.MinClusterSize, metric)
	if err != nil {
		e.fail(run, fmt.Errorf("build clusters: %w", err))
		return
	}

	agnes.ScoreClusters(clusters, e.bands)
	for i := range clusters {
		clusters[i].ID = uuid.NewString()
		clusters[i].RunID = run.ID
	}
	e.progress(run, progressScored)

	if e.checkCancelled(run, cancelled) {
		return
	}

	metrics := agnes.Validate(clusters, points, metric)
	metrics.RunID = run.ID
	metrics.LinkageMethod = run.Params.Linkage
	metrics.DistanceThreshold = run.Params.DistanceThreshold
	e.progress(run, progressValidated)

	if e.checkCancelled(run, cancelled) {
		return
	}

	// Persistence is the commit point: cancellation is no longer honored,
	// the result set is written or the run fails with nothing replaced.
	e.mu.Lock()
	run.ClustersFound = len(clusters)
	run.UnclusteredCount = len(unclustered)
	e.mu.Unlock()
	if err := e.sink.PersistResults(ctx, run, clusters, unclustered, metrics); err != nil {
		e.fail(run, fmt.Errorf("persist results: %w", err))
		return
	}

	// Final progress rides the succeeded transition so the committed run
	// document is never overwritten by a still-running snapshot.
	e.mu.Lock()
	run.Progress = progressDone
	e.mu.Unlock()
	e.transition(run, types.RunSucceeded)

	e.mu.Lock()
	e.latest = &Result{
		Run:         *run,
		Clusters:    clusters,
		Unclustered: unclustered,
		Metrics:     metrics,
		Dendrogram:  dendro,
	}
	e.mu.Unlock()

	log.Printf("Engine: run %s succeeded with %d hotspots, %d unclustered of %d points",
		run.ID, len(clusters), len(unclustered), len(points))
}

func (e *Engine) window(params types.RunParams) *TimeWindow {
	if params.TimeWindowDays == nil {
		return nil
	}
	to := time.Now().UTC()
	return &TimeWindow{
		From: to.AddDate(0, 0, -*params.TimeWindowDays),
		To:   to,
	}
}

func (e *Engine) checkCancelled(run *types.ClusteringRun, cancelled *int32) bool {
	if atomic.LoadInt32(cancelled) == 0 {
		return false
	}
	log.Printf("Engine: run %s cancelled; discarding partial results", run.ID)
	e.transition(run, types.RunCancelled)
	return true
}

func (e *Engine) fail(run *types.ClusteringRun, err error) {
	log.Printf("Engine: run %s failed: %v", run.ID, err)
	e.mu.Lock()
	run.ErrorMessage = err.Error()
	e.mu.Unlock()
	e.transition(run, types.RunFailed)
}

func (e *Engine) transition(run *types.ClusteringRun, status types.RunStatus) {
	e.mu.Lock()
	run.Status = status
	if status.Terminal() {
		now := time.Now().UTC()
		run.CompletedAt = &now
		delete(e.cancel, run.ID)
		e.evictTerminalLocked()
	}
	e.mu.Unlock()
	e.snapshot(run)
}

// evictTerminalLocked drops the oldest terminal runs once the registry
// exceeds maxTrackedRuns. Active runs are never evicted.
func (e *Engine) evictTerminalLocked() {
	for len(e.byID) > maxTrackedRuns {
		evicted := false
		for i, id := range e.order {
			if r, ok := e.byID[id]; ok && r.Status.Terminal() {
				delete(e.byID, id)
				e.order = append(e.order[:i], e.order[i+1:]...)
				evicted = true
				break
			}
		}
		if !evicted {
			return
		}
	}
}

func (e *Engine) progress(run *types.ClusteringRun, pct int) {
	e.mu.Lock()
	run.Progress = pct
	e.mu.Unlock()
	e.snapshot(run)
}

func (e *Engine) snapshot(run *types.ClusteringRun) {
	if e.runs == nil {
		return
	}
	e.mu.Lock()
	snap := *run
	e.mu.Unlock()
	if err := e.runs.SaveRun(context.Background(), &snap); err != nil {
		log.Printf("Warning: could not save run snapshot for %s: %v", run.ID, err)
	}
}
