package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jwhitfield/studygen/internal/credential"
	"github.com/jwhitfield/studygen/internal/domain"
	"github.com/jwhitfield/studygen/internal/generation"
)

// Worker tuning defaults.
const (
	DefaultTaskTimeout    = 90 * time.Second
	DefaultMaxRetries     = 2
	DefaultRetryBaseDelay = 2 * time.Second
)

// Assignment is the ephemeral pairing of one work order with one credential,
// owned by exactly one Worker execution and discarded when it completes.
type Assignment struct {
	ID         uuid.UUID
	Order      domain.WorkOrder
	Credential credential.Credential
	DispatchAt time.Time
}

// Worker executes exactly one work order per call: it builds the generation
// request, invokes the external service under the per-task timeout, and
// applies bounded retry with exponential backoff on transient failures only.
// Retries reuse the assignment's credential; the pool is never re-queried
// mid-task.
//
// Execute never fails past its boundary. Every failure mode is captured in
// the returned TaskResult, and workers touch no shared mutable state.
type Worker struct {
	generator      generation.Generator
	taskTimeout    time.Duration
	maxRetries     int
	retryBaseDelay time.Duration
	sleeper        Sleeper
	logger         *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// WorkerConfig holds the retry and timeout tuning for a Worker. Zero values
// select the defaults.
type WorkerConfig struct {
	TaskTimeout    time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration
}

// NewWorker creates a Worker around the given generator.
func NewWorker(generator generation.Generator, cfg WorkerConfig, logger *slog.Logger) *Worker {
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = DefaultTaskTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = DefaultRetryBaseDelay
	}

	return &Worker{
		generator:      generator,
		taskTimeout:    cfg.TaskTimeout,
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: cfg.RetryBaseDelay,
		sleeper:        realSleeper{},
		logger:         logger,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetSleeper replaces the pacing implementation. Intended for tests.
func (w *Worker) SetSleeper(s Sleeper) {
	w.sleeper = s
}

// Execute runs one assignment to a terminal state.
func (w *Worker) Execute(ctx context.Context, a Assignment) domain.TaskResult {
	logger := w.logger.With(
		"task_kind", a.Order.Kind,
		"assignment_id", a.ID,
		"credential_id", a.Credential.ID,
	)

	req := generation.Request{
		Kind:       a.Order.Kind,
		Subject:    a.Order.Subject,
		Directives: a.Order.Directives,
	}

	start := time.Now()
	attempts := 0

	for {
		attempts++
		logger.Info("executing task", "attempt", attempts, "max_attempts", w.maxRetries+1)

		callCtx, cancel := context.WithTimeout(ctx, w.taskTimeout)
		payload, err := w.generator.Generate(callCtx, req, a.Credential)
		cancel()

		if err == nil {
			latency := time.Since(start)
			logger.Info("task completed",
				"attempt", attempts,
				"latency_ms", latency.Milliseconds())
			return domain.SuccessResult(a.Order.Kind, payload, attempts, latency)
		}

		logger.Warn("task attempt failed", "attempt", attempts, "error", err)

		switch {
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
			// Per-task deadline exceeded. Terminal, never retried.
			return domain.FailureResult(a.Order.Kind, domain.ErrorKindTimeout,
				fmt.Sprintf("task exceeded %s deadline", w.taskTimeout),
				attempts, time.Since(start))

		case errors.Is(err, generation.ErrContentBlocked):
			return domain.FailureResult(a.Order.Kind, domain.ErrorKindContentBlocked,
				err.Error(), attempts, time.Since(start))

		case errors.Is(err, generation.ErrTransientFailure):
			if attempts > w.maxRetries {
				logger.Warn("retry budget exhausted", "attempts", attempts)
				return domain.FailureResult(a.Order.Kind, domain.ErrorKindTransient,
					err.Error(), attempts, time.Since(start))
			}

			delay := w.backoffDelay(attempts)
			logger.Info("retrying after backoff",
				"attempt", attempts,
				"delay_ms", delay.Milliseconds())

			if sleepErr := w.sleeper.Sleep(ctx, delay); sleepErr != nil {
				return domain.FailureResult(a.Order.Kind, domain.ErrorKindTimeout,
					"task abandoned during retry backoff",
					attempts, time.Since(start))
			}

		default:
			// Schema mismatches and any unclassified error are terminal with
			// zero retries.
			return domain.FailureResult(a.Order.Kind, domain.ErrorKindInvalidResponse,
				err.Error(), attempts, time.Since(start))
		}
	}
}

// backoffDelay computes exponential backoff with jitter:
// base * 2^(attempt-1) * (0.5 + rand(0, 0.5)).
func (w *Worker) backoffDelay(attempt int) time.Duration {
	backoff := float64(w.retryBaseDelay) * math.Pow(2, float64(attempt-1))

	w.mu.Lock()
	jitter := 0.5 + w.rng.Float64()*0.5
	w.mu.Unlock()

	return time.Duration(backoff * jitter)
}
