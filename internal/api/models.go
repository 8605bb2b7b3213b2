package api

import (
	"encoding/json"

	"github.com/jwhitfield/studygen/internal/workorder"
)

// Common request/response structures

// GenerateLessonRequest defines the payload for the lesson generation
// endpoint: the upstream content analysis plus the user-preference record.
type GenerateLessonRequest struct {
	Analysis    workorder.Analysis    `json:"analysis"     validate:"required"`
	UserContext workorder.UserContext `json:"user_context"`
}

// FormatSection is one named learning format in the assembled lesson.
type FormatSection struct {
	// Status is the task status for the kind backing this format
	Status string `json:"status"`

	// Content is the generated payload, or the static fallback when the
	// task failed
	Content json.RawMessage `json:"content"`

	// Fallback marks content substituted from the static fallbacks
	Fallback bool `json:"fallback,omitempty"`

	// Error preserves the task's error kind for diagnostics
	Error string `json:"error,omitempty"`

	// LatencyMs is the task's wall-clock latency in milliseconds
	LatencyMs int64 `json:"latency_ms"`
}

// OrchestrationSummary reports aggregate batch statistics to the client.
type OrchestrationSummary struct {
	BatchID        string   `json:"batch_id"`
	Status         string   `json:"status"`
	TotalTasks     int      `json:"total_tasks"`
	SucceededTasks int      `json:"succeeded_tasks"`
	FailedTasks    int      `json:"failed_tasks"`
	FailedKinds    []string `json:"failed_kinds,omitempty"`
	TotalLatencyMs int64    `json:"total_latency_ms"`
}

// GenerateLessonResponse defines the successful response for the lesson
// generation endpoint.
type GenerateLessonResponse struct {
	Summary OrchestrationSummary     `json:"orchestration_summary"`
	Formats map[string]FormatSection `json:"learning_formats"`
}

// EngineInfoResponse describes the engine configuration for diagnostics.
type EngineInfoResponse struct {
	TaskKinds          []string `json:"task_kinds"`
	LearningFormats    []string `json:"learning_formats"`
	CredentialCount    int      `json:"credential_count"`
	Model              string   `json:"model"`
	BaseStaggerDelayMs int64    `json:"base_stagger_delay_ms"`
	TaskTimeoutMs      int64    `json:"task_timeout_ms"`
	MaxRetries         int      `json:"max_retries"`
}
