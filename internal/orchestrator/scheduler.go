package orchestrator

import (
	"sort"
	"time"

	"github.com/jwhitfield/studygen/internal/domain"
)

// DefaultBaseStaggerDelay is the base inter-dispatch delay before dividing by
// the credential count.
const DefaultBaseStaggerDelay = 400 * time.Millisecond

// expectedLatencyRank orders task kinds by historically observed latency,
// ascending. Lower rank means the kind is dispatched earlier, so fast results
// can be surfaced first by the consumer. Dispatch order never constrains
// completion order.
var expectedLatencyRank = map[domain.TaskKind]int{
	domain.KindSummary:        1,
	domain.KindExplanation:    2,
	domain.KindApplication:    3,
	domain.KindCodeEquation:   4,
	domain.KindQuizGeneration: 5,
	domain.KindVisualization:  6,
}

// PlanEntry is one dispatch decision: the work order and the absolute offset
// from batch start at which it should be launched.
type PlanEntry struct {
	Order  domain.WorkOrder
	Offset time.Duration
}

// Scheduler decides dispatch order and pacing for a batch. It never blocks
// on task completion; it only shapes when each task starts.
type Scheduler struct {
	baseDelay time.Duration
}

// NewScheduler creates a Scheduler. A zero or negative baseDelay falls back
// to DefaultBaseStaggerDelay.
func NewScheduler(baseDelay time.Duration) *Scheduler {
	if baseDelay <= 0 {
		baseDelay = DefaultBaseStaggerDelay
	}
	return &Scheduler{baseDelay: baseDelay}
}

// Plan orders the work orders fastest-expected-first and assigns each a
// dispatch offset. The gap between consecutive dispatches is
// baseDelay / max(1, credentials): bursting every task in the same instant
// against a small credential set trips provider rate limits even under
// round-robin, while spacing dispatches approximates a steady arrival rate
// proportional to available parallelism.
func (s *Scheduler) Plan(orders []domain.WorkOrder, credentials int) []PlanEntry {
	sorted := make([]domain.WorkOrder, len(orders))
	copy(sorted, orders)

	sort.SliceStable(sorted, func(i, j int) bool {
		ri, iKnown := expectedLatencyRank[sorted[i].Kind]
		rj, jKnown := expectedLatencyRank[sorted[j].Kind]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown:
			return true
		case jKnown:
			return false
		default:
			// Unknown kinds sort after known ones, by name for determinism.
			return sorted[i].Kind < sorted[j].Kind
		}
	})

	gap := s.DispatchGap(credentials)
	plan := make([]PlanEntry, len(sorted))
	for i, order := range sorted {
		plan[i] = PlanEntry{
			Order:  order,
			Offset: time.Duration(i) * gap,
		}
	}

	return plan
}

// DispatchGap returns the delay between consecutive dispatches for the given
// credential count.
func (s *Scheduler) DispatchGap(credentials int) time.Duration {
	if credentials < 1 {
		credentials = 1
	}
	return s.baseDelay / time.Duration(credentials)
}

// BaseDelay returns the configured base stagger delay.
func (s *Scheduler) BaseDelay() time.Duration {
	return s.baseDelay
}
