package generation

import (
	"context"
	"encoding/json"

	"github.com/jwhitfield/studygen/internal/credential"
	"github.com/jwhitfield/studygen/internal/domain"
)

// Request carries everything a generator needs to produce content for one
// task kind: the content digest to work from and the directives attached to
// the work order (user background, language preference, focus hints).
type Request struct {
	Kind       domain.TaskKind
	Subject    string
	Directives map[string]string
}

// Generator defines the interface for one call to the external generative
// service. This interface serves as a boundary between the application core
// and the external AI/LLM service, following the hexagonal architecture
// pattern.
//
// Generate performs exactly one attempt: retry policy belongs to the caller.
// The returned payload is the structured content for the request's task kind,
// already validated against the kind's expected schema.
//
// Error contract (checked with errors.Is):
//   - ErrTransientFailure: network or provider-side failure, safe to retry
//   - ErrInvalidResponse: response did not match the kind's schema, do not retry
//   - ErrContentBlocked: refused by safety filters, do not retry
type Generator interface {
	Generate(ctx context.Context, req Request, cred credential.Credential) (json.RawMessage, error)
}
