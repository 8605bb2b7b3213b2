package domain

import (
	"encoding/json"
	"time"
)

// TaskStatus represents the terminal state of one task execution.
type TaskStatus string

// Possible task status values
const (
	TaskStatusSuccess  TaskStatus = "success"
	TaskStatusFailed   TaskStatus = "failed"
	TaskStatusTimedOut TaskStatus = "timed_out"
)

// ErrorKind classifies why a task did not succeed. Empty for successful
// tasks.
type ErrorKind string

// Possible error kind values
const (
	// ErrorKindTransient marks a network or provider-side failure that was
	// retried and never recovered.
	ErrorKindTransient ErrorKind = "transient"

	// ErrorKindInvalidResponse marks a response that did not match the
	// expected schema for the task kind. Never retried.
	ErrorKindInvalidResponse ErrorKind = "invalid_response"

	// ErrorKindContentBlocked marks a response refused by the provider's
	// safety filters. Never retried.
	ErrorKindContentBlocked ErrorKind = "content_blocked"

	// ErrorKindTimeout marks a task that exceeded its deadline.
	ErrorKindTimeout ErrorKind = "timeout"
)

// TaskResult is the terminal outcome of one work order. Every work order in a
// batch produces exactly one TaskResult, whatever happened to the task.
type TaskResult struct {
	Kind     TaskKind        `json:"kind"`
	Status   TaskStatus      `json:"status"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	Error    ErrorKind       `json:"error,omitempty"`
	ErrorMsg string          `json:"error_message,omitempty"`
	Attempts int             `json:"attempts"`
	Latency  time.Duration   `json:"latency"`
}

// Succeeded reports whether the task reached a successful terminal state.
func (r TaskResult) Succeeded() bool {
	return r.Status == TaskStatusSuccess
}

// SuccessResult builds a TaskResult for a completed task.
func SuccessResult(kind TaskKind, payload json.RawMessage, attempts int, latency time.Duration) TaskResult {
	return TaskResult{
		Kind:     kind,
		Status:   TaskStatusSuccess,
		Payload:  payload,
		Attempts: attempts,
		Latency:  latency,
	}
}

// FailureResult builds a TaskResult for a task that reached a non-success
// terminal state. The status is TaskStatusTimedOut for timeout errors and
// TaskStatusFailed otherwise.
func FailureResult(kind TaskKind, errKind ErrorKind, msg string, attempts int, latency time.Duration) TaskResult {
	status := TaskStatusFailed
	if errKind == ErrorKindTimeout {
		status = TaskStatusTimedOut
	}

	return TaskResult{
		Kind:     kind,
		Status:   status,
		Error:    errKind,
		ErrorMsg: msg,
		Attempts: attempts,
		Latency:  latency,
	}
}
