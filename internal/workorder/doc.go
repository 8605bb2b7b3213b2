// Package workorder builds the fixed set of work orders for one batch from a
// content analysis and a user-preference record, and owns the per-kind
// fallback payloads used when a task fails.
package workorder
