package gemini

import (
	"encoding/json"
	"fmt"

	"github.com/jwhitfield/studygen/internal/domain"
	"github.com/jwhitfield/studygen/internal/generation"
)

// Per-kind response schemas. Each task kind expects a distinct JSON
// structure; a response that unmarshals but misses the required fields is an
// invalid response, not a success.

// ExplanationSchema is the expected response for the explanation kind.
type ExplanationSchema struct {
	// Explanation is the full prose explanation of the topic
	Explanation string `json:"explanation"`

	// KeyPoints are the main takeaways, in presentation order
	KeyPoints []string `json:"key_points"`
}

// CodeEquationSchema is the expected response for the code_equation kind.
type CodeEquationSchema struct {
	CodeExamples []string `json:"code_examples"`
	Equations    []string `json:"equations"`
}

// DiagramSchema is one diagram specification inside a visualization response.
type DiagramSchema struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Elements    []string `json:"elements,omitempty"`
}

// VisualizationSchema is the expected response for the visualization kind.
type VisualizationSchema struct {
	Diagrams        []DiagramSchema `json:"diagrams"`
	VisualMetaphors string          `json:"visual_metaphors,omitempty"`
}

// ApplicationSchema is the expected response for the application kind.
type ApplicationSchema struct {
	Examples    []string `json:"examples"`
	Connections string   `json:"connections"`
}

// SummarySchema is the expected response for the summary kind.
type SummarySchema struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
}

// QuizQuestionSchema is a single question in a quiz_generation response.
type QuizQuestionSchema struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Correct     int      `json:"correct"`
	Explanation string   `json:"explanation,omitempty"`
}

// QuizSchema is the expected response for the quiz_generation kind.
type QuizSchema struct {
	Questions []QuizQuestionSchema `json:"questions"`
}

// validateResponse checks that data matches the schema for the given task
// kind. Returns an error wrapping generation.ErrInvalidResponse on any
// mismatch so callers can classify it as permanent.
func validateResponse(kind domain.TaskKind, data []byte) error {
	switch kind {
	case domain.KindExplanation:
		var s ExplanationSchema
		if err := json.Unmarshal(data, &s); err != nil {
			return parseError(kind, err)
		}
		if s.Explanation == "" {
			return schemaError(kind, "missing explanation")
		}
		if len(s.KeyPoints) == 0 {
			return schemaError(kind, "missing key_points")
		}

	case domain.KindCodeEquation:
		var s CodeEquationSchema
		if err := json.Unmarshal(data, &s); err != nil {
			return parseError(kind, err)
		}
		if len(s.CodeExamples) == 0 && len(s.Equations) == 0 {
			return schemaError(kind, "needs code_examples or equations")
		}

	case domain.KindVisualization:
		var s VisualizationSchema
		if err := json.Unmarshal(data, &s); err != nil {
			return parseError(kind, err)
		}
		if len(s.Diagrams) == 0 {
			return schemaError(kind, "missing diagrams")
		}
		for i, d := range s.Diagrams {
			if d.Type == "" || d.Title == "" {
				return schemaError(kind, fmt.Sprintf("diagram %d missing type or title", i))
			}
		}

	case domain.KindApplication:
		var s ApplicationSchema
		if err := json.Unmarshal(data, &s); err != nil {
			return parseError(kind, err)
		}
		if len(s.Examples) == 0 {
			return schemaError(kind, "missing examples")
		}

	case domain.KindSummary:
		var s SummarySchema
		if err := json.Unmarshal(data, &s); err != nil {
			return parseError(kind, err)
		}
		if s.Summary == "" {
			return schemaError(kind, "missing summary")
		}

	case domain.KindQuizGeneration:
		var s QuizSchema
		if err := json.Unmarshal(data, &s); err != nil {
			return parseError(kind, err)
		}
		if len(s.Questions) == 0 {
			return schemaError(kind, "missing questions")
		}
		for i, q := range s.Questions {
			if q.Question == "" {
				return schemaError(kind, fmt.Sprintf("question %d missing text", i))
			}
			if len(q.Options) < 2 {
				return schemaError(kind, fmt.Sprintf("question %d needs at least two options", i))
			}
			if q.Correct < 0 || q.Correct >= len(q.Options) {
				return schemaError(kind, fmt.Sprintf("question %d correct index out of range", i))
			}
		}

	default:
		return fmt.Errorf("%w: unknown task kind %q", generation.ErrInvalidConfig, kind)
	}

	return nil
}

func parseError(kind domain.TaskKind, err error) error {
	return fmt.Errorf("%w: failed to parse %s response: %v",
		generation.ErrInvalidResponse, kind, err)
}

func schemaError(kind domain.TaskKind, detail string) error {
	return fmt.Errorf("%w: %s response %s", generation.ErrInvalidResponse, kind, detail)
}
