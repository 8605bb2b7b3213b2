// Package orchestrator coordinates one batch of independent content-
// generation tasks: a scheduler decides dispatch order and pacing, workers
// execute tasks in parallel against pooled credentials with bounded retry,
// and the orchestrator aggregates every outcome into a single batch result
// that tolerates partial failure.
package orchestrator
