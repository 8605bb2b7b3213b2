package gemini

import (
	"testing"

	"github.com/jwhitfield/studygen/internal/domain"
	"github.com/jwhitfield/studygen/internal/generation"
	"github.com/jwhitfield/studygen/internal/workorder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain json untouched",
			in:   `{"a": 1}`,
			want: `{"a": 1}`,
		},
		{
			name: "json fence",
			in:   "```json\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "bare fence",
			in:   "```\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "surrounding whitespace",
			in:   "  \n```json\n{\"a\": 1}\n```\n  ",
			want: `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFences(tt.in))
		})
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		kind    domain.TaskKind
		data    string
		wantErr bool
	}{
		{
			name: "valid explanation",
			kind: domain.KindExplanation,
			data: `{"explanation": "text", "key_points": ["a"]}`,
		},
		{
			name:    "explanation missing key points",
			kind:    domain.KindExplanation,
			data:    `{"explanation": "text"}`,
			wantErr: true,
		},
		{
			name: "valid code_equation with only equations",
			kind: domain.KindCodeEquation,
			data: `{"equations": ["E = mc^2"]}`,
		},
		{
			name:    "empty code_equation",
			kind:    domain.KindCodeEquation,
			data:    `{}`,
			wantErr: true,
		},
		{
			name: "valid visualization",
			kind: domain.KindVisualization,
			data: `{"diagrams": [{"type": "flowchart", "title": "t", "description": "d"}]}`,
		},
		{
			name:    "visualization diagram missing title",
			kind:    domain.KindVisualization,
			data:    `{"diagrams": [{"type": "flowchart"}]}`,
			wantErr: true,
		},
		{
			name: "valid application",
			kind: domain.KindApplication,
			data: `{"examples": ["one"], "connections": "c"}`,
		},
		{
			name: "valid summary",
			kind: domain.KindSummary,
			data: `{"summary": "s", "key_points": ["a"]}`,
		},
		{
			name: "valid quiz",
			kind: domain.KindQuizGeneration,
			data: `{"questions": [{"question": "q", "options": ["a", "b"], "correct": 1}]}`,
		},
		{
			name:    "quiz correct index out of range",
			kind:    domain.KindQuizGeneration,
			data:    `{"questions": [{"question": "q", "options": ["a", "b"], "correct": 2}]}`,
			wantErr: true,
		},
		{
			name:    "quiz single option",
			kind:    domain.KindQuizGeneration,
			data:    `{"questions": [{"question": "q", "options": ["a"], "correct": 0}]}`,
			wantErr: true,
		},
		{
			name:    "not json at all",
			kind:    domain.KindSummary,
			data:    `here is your summary!`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(tt.kind, []byte(tt.data))
			if tt.wantErr {
				assert.ErrorIs(t, err, generation.ErrInvalidResponse)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateResponseUnknownKind(t *testing.T) {
	err := validateResponse(domain.TaskKind("bogus"), []byte(`{}`))
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestBuildPrompt(t *testing.T) {
	templates, err := parsePromptTemplates()
	require.NoError(t, err)

	req := generation.Request{
		Kind:    domain.KindExplanation,
		Subject: "Subject: Physics, Topic: Waves\n\nA summary.",
		Directives: map[string]string{
			workorder.DirectiveBackground: "User background: physics student at undergraduate level",
			workorder.DirectiveLanguage:   "IMPORTANT: Respond in Spanish.",
		},
	}

	prompt, err := buildPrompt(templates[domain.KindExplanation], req)
	require.NoError(t, err)

	assert.Contains(t, prompt, "Topic: Waves")
	assert.Contains(t, prompt, "undergraduate level")
	assert.Contains(t, prompt, "Respond in Spanish")
	assert.Contains(t, prompt, "Output pure JSON only.")
}

func TestBuildPromptEmptySubject(t *testing.T) {
	templates, err := parsePromptTemplates()
	require.NoError(t, err)

	_, err = buildPrompt(templates[domain.KindSummary], generation.Request{
		Kind: domain.KindSummary,
	})
	assert.ErrorIs(t, err, ErrEmptySubject)
}

func TestParsePromptTemplatesCoversAllKinds(t *testing.T) {
	templates, err := parsePromptTemplates()
	require.NoError(t, err)

	for _, kind := range domain.AllKinds() {
		assert.Contains(t, templates, kind, "no prompt template for kind %s", kind)
	}
}
