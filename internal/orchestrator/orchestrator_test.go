package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jwhitfield/studygen/internal/credential"
	"github.com/jwhitfield/studygen/internal/domain"
	"github.com/jwhitfield/studygen/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// kindGenerator routes each task kind to its own behavior and records
// credential usage per kind.
type kindGenerator struct {
	mu       sync.Mutex
	calls    map[domain.TaskKind]int
	credUsed map[int]int
	behavior map[domain.TaskKind]func(ctx context.Context, attempt int) (json.RawMessage, error)
}

func newKindGenerator() *kindGenerator {
	return &kindGenerator{
		calls:    make(map[domain.TaskKind]int),
		credUsed: make(map[int]int),
		behavior: make(map[domain.TaskKind]func(ctx context.Context, attempt int) (json.RawMessage, error)),
	}
}

func (g *kindGenerator) Generate(
	ctx context.Context,
	req generation.Request,
	cred credential.Credential,
) (json.RawMessage, error) {
	g.mu.Lock()
	g.calls[req.Kind]++
	attempt := g.calls[req.Kind]
	// Credential fairness is measured on first attempts only: retries reuse
	// the same credential by contract.
	if attempt == 1 {
		g.credUsed[cred.ID]++
	}
	fn := g.behavior[req.Kind]
	g.mu.Unlock()

	if fn == nil {
		return successPayload(req.Kind), nil
	}
	return fn(ctx, attempt)
}

func (g *kindGenerator) totalCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.calls {
		n += c
	}
	return n
}

func succeedAfter(delay time.Duration, kind domain.TaskKind) func(context.Context, int) (json.RawMessage, error) {
	return func(ctx context.Context, attempt int) (json.RawMessage, error) {
		select {
		case <-time.After(delay):
			return successPayload(kind), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func failTwiceThenSucceed(kind domain.TaskKind) func(context.Context, int) (json.RawMessage, error) {
	return func(ctx context.Context, attempt int) (json.RawMessage, error) {
		if attempt <= 2 {
			return nil, fmt.Errorf("%w: provider 503", generation.ErrTransientFailure)
		}
		return successPayload(kind), nil
	}
}

func fastConfig() Config {
	return Config{
		BaseStaggerDelay: 4 * time.Millisecond,
		BatchTimeout:     10 * time.Second,
		TaskTimeout:      2 * time.Second,
		MaxRetries:       2,
		RetryBaseDelay:   2 * time.Millisecond,
	}
}

func TestRunBatchEmptyPoolFailsFast(t *testing.T) {
	gen := newKindGenerator()
	o := New(credential.NewPool(nil), gen, fastConfig(), setupTestLogger())

	_, err := o.RunBatch(context.Background(), testOrders(t))

	assert.ErrorIs(t, err, credential.ErrNoCredentials)
	assert.Equal(t, 0, gen.totalCalls(), "no task may be dispatched without credentials")
}

func TestRunBatchAllSucceed(t *testing.T) {
	gen := newKindGenerator()
	o := New(credential.NewPool([]string{"k1", "k2"}), gen, fastConfig(), setupTestLogger())

	batch, err := o.RunBatch(context.Background(), testOrders(t))
	require.NoError(t, err)

	assert.Equal(t, domain.BatchStatusComplete, batch.Status)
	require.Len(t, batch.Results, 6)
	for _, kind := range domain.AllKinds() {
		result, ok := batch.Results[kind]
		require.True(t, ok, "missing result for kind %s", kind)
		assert.Equal(t, domain.TaskStatusSuccess, result.Status)
		assert.NotEmpty(t, result.Payload)
	}
	assert.NotEqual(t, batch.BatchID.String(), "00000000-0000-0000-0000-000000000000")
}

// 6 orders over 2 credentials: summary fast, visualization slow,
// the rest transient-failing twice before succeeding. The batch completes,
// and wall-clock time is bounded by the slowest single task plus stagger and
// backoff overhead, not by the sum of task latencies.
func TestRunBatchMixedLatencies(t *testing.T) {
	gen := newKindGenerator()
	gen.behavior[domain.KindSummary] = succeedAfter(10*time.Millisecond, domain.KindSummary)
	gen.behavior[domain.KindVisualization] = succeedAfter(500*time.Millisecond, domain.KindVisualization)
	for _, kind := range []domain.TaskKind{
		domain.KindExplanation, domain.KindCodeEquation,
		domain.KindApplication, domain.KindQuizGeneration,
	} {
		gen.behavior[kind] = failTwiceThenSucceed(kind)
	}

	o := New(credential.NewPool([]string{"k1", "k2"}), gen, fastConfig(), setupTestLogger())

	start := time.Now()
	batch, err := o.RunBatch(context.Background(), testOrders(t))
	elapsed := time.Since(start)
	require.NoError(t, err)

	assert.Equal(t, domain.BatchStatusComplete, batch.Status)
	assert.Equal(t, domain.TaskStatusSuccess, batch.Results[domain.KindSummary].Status)
	assert.Equal(t, domain.TaskStatusSuccess, batch.Results[domain.KindVisualization].Status)
	assert.Equal(t, 3, batch.Results[domain.KindExplanation].Attempts)

	// Parallel execution: well under the ~560ms the task latencies sum to
	// even before retries, but at least as long as the slowest task.
	assert.GreaterOrEqual(t, elapsed, 500*time.Millisecond)
	assert.Less(t, elapsed, 2*time.Second,
		"batch wall-clock must be bounded by the slowest task, not the sum")
}

// One kind exhausts its retry budget while every sibling
// succeeds. Partial failure is a normal outcome, not an error.
func TestRunBatchPartialFailure(t *testing.T) {
	gen := newKindGenerator()
	gen.behavior[domain.KindQuizGeneration] = func(ctx context.Context, attempt int) (json.RawMessage, error) {
		return nil, fmt.Errorf("%w: permanently rate limited", generation.ErrTransientFailure)
	}

	o := New(credential.NewPool([]string{"k1", "k2"}), gen, fastConfig(), setupTestLogger())

	batch, err := o.RunBatch(context.Background(), testOrders(t))
	require.NoError(t, err, "per-task failure must never surface as a batch error")

	assert.Equal(t, domain.BatchStatusPartialFailure, batch.Status)

	quiz := batch.Results[domain.KindQuizGeneration]
	assert.Equal(t, domain.TaskStatusFailed, quiz.Status)
	assert.Equal(t, domain.ErrorKindTransient, quiz.Error)
	assert.Equal(t, 3, quiz.Attempts)

	succeeded := 0
	for kind, result := range batch.Results {
		if kind == domain.KindQuizGeneration {
			continue
		}
		assert.Equal(t, domain.TaskStatusSuccess, result.Status, "sibling %s affected", kind)
		succeeded++
	}
	assert.Equal(t, 5, succeeded)
}

func TestRunBatchTotalFailure(t *testing.T) {
	gen := newKindGenerator()
	for _, kind := range domain.AllKinds() {
		kind := kind
		gen.behavior[kind] = func(ctx context.Context, attempt int) (json.RawMessage, error) {
			return nil, fmt.Errorf("%w: outage", generation.ErrTransientFailure)
		}
	}

	o := New(credential.NewPool([]string{"k1"}), gen, fastConfig(), setupTestLogger())

	batch, err := o.RunBatch(context.Background(), testOrders(t))
	require.NoError(t, err)

	assert.Equal(t, domain.BatchStatusTotalFailure, batch.Status)
	require.Len(t, batch.Results, 6, "every kind keeps its individual error")
	for _, result := range batch.Results {
		assert.Equal(t, domain.ErrorKindTransient, result.Error)
	}
}

// Round-robin fairness observed end to end: 6 first attempts over 2
// credentials means each credential serves exactly 3 tasks.
func TestRunBatchCredentialFairness(t *testing.T) {
	gen := newKindGenerator()
	o := New(credential.NewPool([]string{"k1", "k2"}), gen, fastConfig(), setupTestLogger())

	_, err := o.RunBatch(context.Background(), testOrders(t))
	require.NoError(t, err)

	gen.mu.Lock()
	defer gen.mu.Unlock()
	require.Len(t, gen.credUsed, 2)
	assert.Equal(t, 3, gen.credUsed[1])
	assert.Equal(t, 3, gen.credUsed[2])
}

// A single slow task overrunning the batch deadline is marked TimedOut while
// completed siblings keep their results; nothing cancels the straggler's
// call.
func TestRunBatchDeadlineMarksStragglersTimedOut(t *testing.T) {
	cfg := fastConfig()
	cfg.BatchTimeout = 250 * time.Millisecond

	gen := newKindGenerator()
	gen.behavior[domain.KindVisualization] = succeedAfter(5*time.Second, domain.KindVisualization)

	o := New(credential.NewPool([]string{"k1", "k2"}), gen, cfg, setupTestLogger())

	batch, err := o.RunBatch(context.Background(), testOrders(t))
	require.NoError(t, err)

	assert.Equal(t, domain.BatchStatusPartialFailure, batch.Status)

	viz := batch.Results[domain.KindVisualization]
	assert.Equal(t, domain.TaskStatusTimedOut, viz.Status)
	assert.Equal(t, domain.ErrorKindTimeout, viz.Error)

	for _, kind := range []domain.TaskKind{
		domain.KindSummary, domain.KindExplanation, domain.KindApplication,
		domain.KindCodeEquation, domain.KindQuizGeneration,
	} {
		assert.Equal(t, domain.TaskStatusSuccess, batch.Results[kind].Status,
			"completed sibling %s lost its result", kind)
	}
}

// Every work order produces exactly one result even when everything fails in
// different ways at once.
func TestRunBatchNeverDropsAKind(t *testing.T) {
	gen := newKindGenerator()
	gen.behavior[domain.KindSummary] = func(ctx context.Context, attempt int) (json.RawMessage, error) {
		return nil, fmt.Errorf("%w: broken json", generation.ErrInvalidResponse)
	}
	gen.behavior[domain.KindExplanation] = func(ctx context.Context, attempt int) (json.RawMessage, error) {
		return nil, fmt.Errorf("%w: refused", generation.ErrContentBlocked)
	}
	gen.behavior[domain.KindApplication] = func(ctx context.Context, attempt int) (json.RawMessage, error) {
		return nil, fmt.Errorf("%w: flapping", generation.ErrTransientFailure)
	}

	o := New(credential.NewPool([]string{"k1"}), gen, fastConfig(), setupTestLogger())

	batch, err := o.RunBatch(context.Background(), testOrders(t))
	require.NoError(t, err)

	require.Len(t, batch.Results, len(domain.AllKinds()))
	for _, kind := range domain.AllKinds() {
		_, ok := batch.Results[kind]
		assert.True(t, ok, "kind %s dropped from results", kind)
	}

	assert.Equal(t, domain.BatchStatusPartialFailure, batch.Status)
	assert.Equal(t, domain.ErrorKindInvalidResponse, batch.Results[domain.KindSummary].Error)
	assert.Equal(t, domain.ErrorKindContentBlocked, batch.Results[domain.KindExplanation].Error)
	assert.Equal(t, domain.ErrorKindTransient, batch.Results[domain.KindApplication].Error)
}

// A schema-invalid response fails immediately: exactly one generator call
// for that kind.
func TestRunBatchInvalidResponseZeroRetries(t *testing.T) {
	gen := newKindGenerator()
	gen.behavior[domain.KindCodeEquation] = func(ctx context.Context, attempt int) (json.RawMessage, error) {
		return nil, fmt.Errorf("%w: not the expected shape", generation.ErrInvalidResponse)
	}

	o := New(credential.NewPool([]string{"k1"}), gen, fastConfig(), setupTestLogger())

	batch, err := o.RunBatch(context.Background(), testOrders(t))
	require.NoError(t, err)

	result := batch.Results[domain.KindCodeEquation]
	assert.Equal(t, domain.TaskStatusFailed, result.Status)
	assert.Equal(t, domain.ErrorKindInvalidResponse, result.Error)
	assert.Equal(t, 1, result.Attempts)

	gen.mu.Lock()
	defer gen.mu.Unlock()
	assert.Equal(t, 1, gen.calls[domain.KindCodeEquation])
}

func TestCredentialCountReportsPoolSize(t *testing.T) {
	gen := newKindGenerator()
	o := New(credential.NewPool([]string{"k1", "k2", "k3"}), gen, fastConfig(), setupTestLogger())

	assert.Equal(t, 3, o.CredentialCount())
}
