package domain

import "errors"

// TaskKind identifies one kind of content-generation work.
type TaskKind string

// The fixed set of task kinds a batch can contain. Each kind maps to one
// specialized content format in the assembled lesson.
const (
	KindExplanation    TaskKind = "explanation"
	KindCodeEquation   TaskKind = "code_equation"
	KindVisualization  TaskKind = "visualization"
	KindApplication    TaskKind = "application"
	KindSummary        TaskKind = "summary"
	KindQuizGeneration TaskKind = "quiz_generation"
)

// ErrInvalidTaskKind is returned when a task kind is not in the known set.
var ErrInvalidTaskKind = errors.New("invalid task kind")

// AllKinds returns the full set of task kinds in declaration order.
func AllKinds() []TaskKind {
	return []TaskKind{
		KindExplanation,
		KindCodeEquation,
		KindVisualization,
		KindApplication,
		KindSummary,
		KindQuizGeneration,
	}
}

// IsValid reports whether k is one of the known task kinds.
func (k TaskKind) IsValid() bool {
	switch k {
	case KindExplanation, KindCodeEquation, KindVisualization,
		KindApplication, KindSummary, KindQuizGeneration:
		return true
	}
	return false
}

func (k TaskKind) String() string {
	return string(k)
}
