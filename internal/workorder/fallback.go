package workorder

import (
	"encoding/json"

	"github.com/jwhitfield/studygen/internal/domain"
)

// Static per-kind fallback payloads, substituted by the response assembler
// when a task fails so the lesson never ships an empty section. The real
// error stays on the TaskResult for diagnostics.
var fallbacks = map[domain.TaskKind]json.RawMessage{
	domain.KindExplanation: json.RawMessage(`{
		"explanation": "This topic covers important concepts that build foundational understanding.",
		"key_points": ["Core concept 1", "Core concept 2", "Core concept 3"]
	}`),
	domain.KindCodeEquation: json.RawMessage(`{
		"code_examples": ["// Basic example\nconsole.log('Hello, learning!');"],
		"equations": ["Basic formula: a + b = c"]
	}`),
	domain.KindVisualization: json.RawMessage(`{
		"diagrams": [{
			"type": "concept_map",
			"title": "Concept overview",
			"description": "Shows the core concepts and how they relate",
			"elements": ["concept1", "concept2"]
		}],
		"visual_metaphors": "Visual analogies to aid understanding"
	}`),
	domain.KindApplication: json.RawMessage(`{
		"examples": ["Real-world application examples to be added"],
		"connections": "Practical applications in everyday life"
	}`),
	domain.KindSummary: json.RawMessage(`{
		"summary": "Summary of key learning objectives",
		"key_points": ["Main concept", "Important detail", "Key takeaway"]
	}`),
	domain.KindQuizGeneration: json.RawMessage(`{
		"questions": [{
			"question": "What is the main topic covered?",
			"options": ["Option A", "Option B", "Option C", "Option D"],
			"correct": 0,
			"explanation": "Basic comprehension question"
		}]
	}`),
}

// Fallback returns the static placeholder payload for a task kind, or nil
// when the kind is unknown.
func Fallback(kind domain.TaskKind) json.RawMessage {
	return fallbacks[kind]
}
