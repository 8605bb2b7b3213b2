package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jwhitfield/studygen/internal/credential"
	"github.com/jwhitfield/studygen/internal/domain"
	"github.com/jwhitfield/studygen/internal/generation"
)

// DefaultBatchTimeout bounds how long a batch waits for stragglers before
// aggregating with TimedOut entries.
const DefaultBatchTimeout = 5 * time.Minute

// Config holds the orchestration tuning knobs. Zero values select the
// defaults.
type Config struct {
	BaseStaggerDelay time.Duration
	BatchTimeout     time.Duration
	TaskTimeout      time.Duration
	MaxRetries       int
	RetryBaseDelay   time.Duration
}

// Orchestrator runs one batch of content-generation tasks: it builds the
// dispatch plan, fans workers out in parallel with staggered starts, and
// collects every result without letting one failure cancel siblings.
type Orchestrator struct {
	pool         *credential.Pool
	scheduler    *Scheduler
	worker       *Worker
	batchTimeout time.Duration
	sleeper      Sleeper
	logger       *slog.Logger
}

// New creates an Orchestrator over the given credential pool and generator.
func New(pool *credential.Pool, generator generation.Generator, cfg Config, logger *slog.Logger) *Orchestrator {
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = DefaultBatchTimeout
	}

	worker := NewWorker(generator, WorkerConfig{
		TaskTimeout:    cfg.TaskTimeout,
		MaxRetries:     cfg.MaxRetries,
		RetryBaseDelay: cfg.RetryBaseDelay,
	}, logger)

	return &Orchestrator{
		pool:         pool,
		scheduler:    NewScheduler(cfg.BaseStaggerDelay),
		worker:       worker,
		batchTimeout: cfg.BatchTimeout,
		sleeper:      realSleeper{},
		logger:       logger,
	}
}

// SetSleeper replaces the dispatch pacing implementation for both the
// orchestrator and its worker. Intended for tests.
func (o *Orchestrator) SetSleeper(s Sleeper) {
	o.sleeper = s
	o.worker.SetSleeper(s)
}

// CredentialCount returns the size of the credential pool.
func (o *Orchestrator) CredentialCount() int {
	return o.pool.Size()
}

// Scheduler exposes the dispatch planner.
func (o *Orchestrator) Scheduler() *Scheduler {
	return o.scheduler
}

// RunBatch executes one batch of work orders to completion.
//
// Every submitted order yields exactly one entry in the returned
// BatchResult, whatever happened to the task. The only error RunBatch itself
// returns is the pre-dispatch credential.ErrNoCredentials; all per-task
// failures come back as data.
//
// When the batch deadline expires, tasks still in flight are recorded as
// TimedOut and aggregation proceeds. Their goroutines are abandoned, not
// cancelled: workers own no shared state, and a sibling's failure or the
// batch deadline must never cut short another task's external call.
func (o *Orchestrator) RunBatch(ctx context.Context, orders []domain.WorkOrder) (*domain.BatchResult, error) {
	if o.pool.Size() == 0 {
		return nil, fmt.Errorf("cannot dispatch batch: %w", credential.ErrNoCredentials)
	}

	batchID := uuid.New()
	logger := o.logger.With("batch_id", batchID)

	plan := o.scheduler.Plan(orders, o.pool.Size())
	gap := o.scheduler.DispatchGap(o.pool.Size())

	logger.Info("starting batch",
		"task_count", len(plan),
		"credential_count", o.pool.Size(),
		"dispatch_gap_ms", gap.Milliseconds())

	start := time.Now()

	// Batch deadline governs collection only. Worker contexts are detached
	// below so in-flight calls outlive it.
	collectCtx, cancel := context.WithTimeout(ctx, o.batchTimeout)
	defer cancel()

	resultCh := make(chan domain.TaskResult, len(plan))
	results := make(map[domain.TaskKind]domain.TaskResult, len(plan))
	dispatched := 0

	for i, entry := range plan {
		if i > 0 {
			if err := o.sleeper.Sleep(collectCtx, gap); err != nil {
				logger.Warn("dispatch pacing interrupted, remaining tasks not launched",
					"dispatched", dispatched,
					"remaining", len(plan)-i)
				break
			}
		}

		cred, err := o.pool.Acquire()
		if err != nil {
			// Unreachable after the size check above; recorded for safety.
			return nil, fmt.Errorf("cannot dispatch batch: %w", err)
		}

		assignment := Assignment{
			ID:         uuid.New(),
			Order:      entry.Order,
			Credential: cred,
			DispatchAt: time.Now(),
		}

		logger.Info("dispatching task",
			"task_kind", entry.Order.Kind,
			"credential_id", cred.ID,
			"planned_offset_ms", entry.Offset.Milliseconds())

		// Detached from the batch deadline so an expiring batch abandons the
		// call instead of killing it.
		taskCtx := context.WithoutCancel(ctx)
		go func() {
			resultCh <- o.worker.Execute(taskCtx, assignment)
		}()
		dispatched++
	}

	// Orders never dispatched (pacing interrupted by the deadline) still get
	// a result: the batch never silently drops a task kind.
	for i := dispatched; i < len(plan); i++ {
		order := plan[i].Order
		results[order.Kind] = domain.FailureResult(order.Kind, domain.ErrorKindTimeout,
			"batch deadline expired before dispatch", 0, time.Since(start))
	}

collect:
	for completed := 0; completed < dispatched; completed++ {
		select {
		case result := <-resultCh:
			results[result.Kind] = result
		case <-collectCtx.Done():
			break collect
		}
	}

	// Mark everything still in flight as timed out.
	for _, entry := range plan {
		if _, ok := results[entry.Order.Kind]; !ok {
			results[entry.Order.Kind] = domain.FailureResult(entry.Order.Kind,
				domain.ErrorKindTimeout, "batch deadline expired", 0, time.Since(start))
		}
	}

	batch := domain.NewBatchResult(batchID, results, time.Since(start))

	logger.Info("batch aggregated",
		"status", batch.Status,
		"succeeded", batch.SucceededCount(),
		"task_count", len(results),
		"total_latency_ms", batch.TotalLatency.Milliseconds())

	return batch, nil
}
