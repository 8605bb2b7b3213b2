// Package domain contains the core business entities and value objects of
// the batch engine: task kinds, work orders, per-task results, and batch
// aggregates. It represents the heart of the system, independent of any
// specific infrastructure or delivery mechanism.
package domain
