package workorder

import (
	"errors"
	"fmt"

	"github.com/jwhitfield/studygen/internal/domain"
)

// Directive keys attached to every work order.
const (
	// DirectiveBackground carries the user's background for personalization,
	// e.g. "User background: physics student at undergraduate level".
	DirectiveBackground = "background"

	// DirectiveLanguage carries the response-language instruction, empty for
	// English.
	DirectiveLanguage = "language_instruction"
)

// Common validation errors for the builder
var (
	ErrEmptySubject = errors.New("analysis subject cannot be empty")
	ErrEmptyTopic   = errors.New("analysis topic cannot be empty")
	ErrEmptySummary = errors.New("analysis summary cannot be empty")
)

// Analysis is the distilled content digest produced by the upstream
// media-processing and transcription collaborator. The builder treats it as
// validated opaque input.
type Analysis struct {
	Subject string `json:"subject" validate:"required"`
	Topic   string `json:"topic"   validate:"required"`
	Summary string `json:"summary" validate:"required"`
}

// UserContext carries the user preferences relevant to content generation.
type UserContext struct {
	Major              string `json:"major"`
	AcademicLevel      string `json:"academic_level"`
	LanguagePreference string `json:"language_preference"`
}

// BuildAll maps one analysis plus one user context to the fixed set of work
// orders, one per task kind. Pure: no I/O, no shared state. The returned
// orders are owned exclusively by the batch that consumes them.
func BuildAll(analysis Analysis, user UserContext) ([]domain.WorkOrder, error) {
	if analysis.Subject == "" {
		return nil, ErrEmptySubject
	}
	if analysis.Topic == "" {
		return nil, ErrEmptyTopic
	}
	if analysis.Summary == "" {
		return nil, ErrEmptySummary
	}

	subject := fmt.Sprintf("Subject: %s, Topic: %s\n\n%s",
		analysis.Subject, analysis.Topic, analysis.Summary)

	directives := map[string]string{
		DirectiveBackground: backgroundContext(user),
		DirectiveLanguage:   languageInstruction(user),
	}

	kinds := domain.AllKinds()
	orders := make([]domain.WorkOrder, 0, len(kinds))
	for _, kind := range kinds {
		order, err := domain.NewWorkOrder(kind, subject, directives)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s work order: %w", kind, err)
		}
		orders = append(orders, order)
	}

	return orders, nil
}

// backgroundContext formats the user's background for prompt personalization.
func backgroundContext(user UserContext) string {
	major := user.Major
	if major == "" {
		major = "general"
	}
	level := user.AcademicLevel
	if level == "" {
		level = "general"
	}
	return fmt.Sprintf("User background: %s student at %s level", major, level)
}

// languageInstruction returns an instruction to answer in the user's
// preferred language, or "" for English.
func languageInstruction(user UserContext) string {
	lang := user.LanguagePreference
	if lang == "" || lang == "English" || lang == "english" {
		return ""
	}
	return fmt.Sprintf(
		"IMPORTANT: Respond in %s. All content, explanations, and text should be in %s.",
		lang, lang)
}
