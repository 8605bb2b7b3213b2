package domain

import (
	"time"

	"github.com/google/uuid"
)

// BatchStatus represents the aggregate outcome of one batch.
type BatchStatus string

// Possible batch status values
const (
	BatchStatusComplete       BatchStatus = "complete"
	BatchStatusPartialFailure BatchStatus = "partial_failure"
	BatchStatusTotalFailure   BatchStatus = "total_failure"
)

// BatchResult is the aggregate of one batch run: exactly one TaskResult per
// submitted work order, keyed by task kind. The result is handed back to the
// caller and never persisted.
type BatchResult struct {
	BatchID      uuid.UUID               `json:"batch_id"`
	Results      map[TaskKind]TaskResult `json:"results"`
	Status       BatchStatus             `json:"status"`
	TotalLatency time.Duration           `json:"total_latency"`
}

// NewBatchResult aggregates task results into a BatchResult, computing the
// overall status: Complete when every task succeeded, PartialFailure when at
// least one did, TotalFailure when none did.
func NewBatchResult(batchID uuid.UUID, results map[TaskKind]TaskResult, totalLatency time.Duration) *BatchResult {
	succeeded := 0
	for _, r := range results {
		if r.Succeeded() {
			succeeded++
		}
	}

	status := BatchStatusTotalFailure
	switch {
	case succeeded == len(results) && len(results) > 0:
		status = BatchStatusComplete
	case succeeded > 0:
		status = BatchStatusPartialFailure
	}

	return &BatchResult{
		BatchID:      batchID,
		Results:      results,
		Status:       status,
		TotalLatency: totalLatency,
	}
}

// SucceededCount returns the number of successful tasks in the batch.
func (b *BatchResult) SucceededCount() int {
	n := 0
	for _, r := range b.Results {
		if r.Succeeded() {
			n++
		}
	}
	return n
}
