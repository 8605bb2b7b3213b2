package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"text/template"
	"time"

	"github.com/jwhitfield/studygen/internal/credential"
	"github.com/jwhitfield/studygen/internal/domain"
	"github.com/jwhitfield/studygen/internal/generation"
	"google.golang.org/genai"
)

// Generator implements the generation.Generator interface using Google's
// Gemini API. One genai client is constructed per configured credential at
// startup; a request's assigned credential selects the client, so credential
// rotation stays outside this package.
//
// Generate performs exactly one attempt per call. Retry policy belongs to
// the task worker.
type Generator struct {
	logger *slog.Logger

	// clients maps credential ID to a Gemini client built with that key
	clients map[int]*genai.Client

	// templates holds the parsed per-kind prompt templates
	templates map[domain.TaskKind]*template.Template

	// model is the name of the Gemini model to use
	model string
}

// NewGenerator creates a Generator with one client per credential.
//
// Returns an error wrapping generation.ErrInvalidConfig when the model name
// is empty, the credential list is empty, or a client cannot be constructed.
func NewGenerator(
	ctx context.Context,
	logger *slog.Logger,
	model string,
	creds []credential.Credential,
) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	if len(creds) == 0 {
		return nil, fmt.Errorf("%w: at least one credential is required", generation.ErrInvalidConfig)
	}

	templates, err := parsePromptTemplates()
	if err != nil {
		return nil, err
	}

	clients := make(map[int]*genai.Client, len(creds))
	for _, cred := range creds {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cred.Key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: failed to create Gemini client for credential %d: %v",
				generation.ErrInvalidConfig, cred.ID, err)
		}
		clients[cred.ID] = client
	}

	logger.InfoContext(ctx, "Gemini generator initialized",
		"model", model,
		"credential_count", len(creds))

	return &Generator{
		logger:    logger,
		clients:   clients,
		templates: templates,
		model:     model,
	}, nil
}

// Generate makes a single Gemini API call for the request's task kind using
// the assigned credential, validates the response against the kind's schema,
// and returns the structured payload.
//
// Errors are classified for the caller: API/transport failures wrap
// generation.ErrTransientFailure, schema and parse failures wrap
// generation.ErrInvalidResponse, safety refusals wrap
// generation.ErrContentBlocked.
func (g *Generator) Generate(
	ctx context.Context,
	req generation.Request,
	cred credential.Credential,
) (json.RawMessage, error) {
	client, ok := g.clients[cred.ID]
	if !ok {
		return nil, fmt.Errorf("%w: credential %d", ErrUnknownCredential, cred.ID)
	}

	tmpl, ok := g.templates[req.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: no prompt template for task kind %q",
			generation.ErrInvalidConfig, req.Kind)
	}

	prompt, err := buildPrompt(tmpl, req)
	if err != nil {
		return nil, err
	}

	g.logger.DebugContext(ctx, "making Gemini API call",
		"task_kind", req.Kind,
		"credential_id", cred.ID,
		"prompt_length", len(prompt))

	start := time.Now()
	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		// Context expiry is reported as-is so the worker can distinguish a
		// task timeout from a retryable provider failure.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		g.logger.WarnContext(ctx, "Gemini API call error",
			"task_kind", req.Kind,
			"credential_id", cred.ID,
			"error", err)
		return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}

	text, err := extractText(resp)
	if err != nil {
		return nil, err
	}

	payload := []byte(stripCodeFences(text))
	if err := validateResponse(req.Kind, payload); err != nil {
		return nil, err
	}

	g.logger.DebugContext(ctx, "Gemini API call successful",
		"task_kind", req.Kind,
		"credential_id", cred.ID,
		"latency_ms", time.Since(start).Milliseconds())

	return json.RawMessage(payload), nil
}

// extractText pulls the text out of a Gemini response, mapping malformed or
// blocked responses to the generation error taxonomy.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}

	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	text := ""
	for _, part := range candidate.Content.Parts {
		text += part.Text
	}

	if text == "" {
		return "", fmt.Errorf("%w: no text in response parts", generation.ErrInvalidResponse)
	}

	return text, nil
}
