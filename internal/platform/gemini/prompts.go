package gemini

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/jwhitfield/studygen/internal/domain"
	"github.com/jwhitfield/studygen/internal/generation"
	"github.com/jwhitfield/studygen/internal/workorder"
)

// promptData is the data passed to every prompt template.
type promptData struct {
	Subject    string
	Background string
	Language   string
}

// Per-kind prompt templates. Each asks for pure JSON in the shape the
// matching schema in schemas.go validates.
var promptSources = map[domain.TaskKind]string{
	domain.KindExplanation: `Generate a clear educational explanation for the following content.

{{.Background}}
{{.Subject}}

Return as JSON:
{
  "explanation": "thorough explanation adapted to the user's background",
  "key_points": ["point 1", "point 2", "point 3"]
}
{{if .Language}}
{{.Language}}{{end}}
Output pure JSON only.`,

	domain.KindCodeEquation: `Generate code examples and equations that illustrate the following content.

{{.Background}}
{{.Subject}}

Return as JSON:
{
  "code_examples": ["// runnable snippet illustrating the concept"],
  "equations": ["relevant formula with variables explained"]
}
{{if .Language}}
{{.Language}}{{end}}
Output pure JSON only.`,

	domain.KindVisualization: `Generate visual diagram specifications for the following educational content.

{{.Background}}
{{.Subject}}

Return as JSON:
{
  "diagrams": [
    {
      "type": "flowchart/concept_map/graph",
      "title": "diagram title",
      "description": "what it shows",
      "elements": ["element1", "element2"]
    }
  ],
  "visual_metaphors": "analogies that can be visualized"
}
{{if .Language}}
{{.Language}}{{end}}
Output pure JSON only.`,

	domain.KindApplication: `Generate real-world applications of the following content.

{{.Background}}
{{.Subject}}

Return as JSON:
{
  "examples": ["concrete real-world example"],
  "connections": "how this connects to everyday life and the user's field"
}
{{if .Language}}
{{.Language}}{{end}}
Output pure JSON only.`,

	domain.KindSummary: `Generate a concise summary of the following content.

{{.Background}}
{{.Subject}}

Return as JSON:
{
  "summary": "short summary of the learning objectives",
  "key_points": ["takeaway 1", "takeaway 2", "takeaway 3"]
}
{{if .Language}}
{{.Language}}{{end}}
Output pure JSON only.`,

	domain.KindQuizGeneration: `Generate multiple-choice practice questions for the following content.

{{.Background}}
{{.Subject}}

Return as JSON:
{
  "questions": [
    {
      "question": "question text",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correct": 0,
      "explanation": "why this answer is correct"
    }
  ]
}
{{if .Language}}
{{.Language}}{{end}}
Output pure JSON only.`,
}

// parsePromptTemplates parses every per-kind prompt source once at generator
// construction.
func parsePromptTemplates() (map[domain.TaskKind]*template.Template, error) {
	templates := make(map[domain.TaskKind]*template.Template, len(promptSources))
	for kind, src := range promptSources {
		tmpl, err := template.New(string(kind)).Parse(src)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to parse %s prompt template: %v",
				generation.ErrInvalidConfig, kind, err)
		}
		templates[kind] = tmpl
	}
	return templates, nil
}

// buildPrompt executes the kind's template with the request's subject and
// directives.
func buildPrompt(tmpl *template.Template, req generation.Request) (string, error) {
	if req.Subject == "" {
		return "", ErrEmptySubject
	}

	data := promptData{
		Subject:    req.Subject,
		Background: req.Directives[workorder.DirectiveBackground],
		Language:   req.Directives[workorder.DirectiveLanguage],
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute %s prompt template: %w", req.Kind, err)
	}

	return buf.String(), nil
}
