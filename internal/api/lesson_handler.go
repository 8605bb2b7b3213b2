package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"github.com/jwhitfield/studygen/internal/api/shared"
	"github.com/jwhitfield/studygen/internal/credential"
	"github.com/jwhitfield/studygen/internal/domain"
	"github.com/jwhitfield/studygen/internal/workorder"
)

// BatchRunner is the engine boundary the API consumes. The orchestrator
// satisfies it; tests substitute a stub.
type BatchRunner interface {
	RunBatch(ctx context.Context, orders []domain.WorkOrder) (*domain.BatchResult, error)
}

// formatForKind maps each task kind to the learning-format name it fills
// in the assembled lesson payload.
var formatForKind = map[domain.TaskKind]string{
	domain.KindExplanation:    "concept_explanation",
	domain.KindCodeEquation:   "code_equations",
	domain.KindVisualization:  "visual_diagrams",
	domain.KindApplication:    "real_world_applications",
	domain.KindSummary:        "summary_cards",
	domain.KindQuizGeneration: "practice_problems",
}

// LessonHandler serves the lesson generation endpoint.
type LessonHandler struct {
	engine BatchRunner
	logger *slog.Logger
}

// NewLessonHandler creates a lesson handler backed by the given engine.
func NewLessonHandler(engine BatchRunner, logger *slog.Logger) *LessonHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LessonHandler{
		engine: engine,
		logger: logger.With(slog.String("component", "lesson_handler")),
	}
}

// GenerateLesson handles POST /api/lessons/generate. It fans the request
// out across every task kind, waits for the batch, and assembles the
// lesson payload. Failed tasks are reported in the summary and their
// sections filled with static fallback content; a batch with failures is
// still a 200 response.
func (h *LessonHandler) GenerateLesson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(ctx)))

	var req GenerateLessonRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("failed to decode request body", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		log.Debug("request validation failed", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	orders, err := workorder.BuildAll(req.Analysis, req.UserContext)
	if err != nil {
		log.Warn("failed to build work orders", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	batch, err := h.engine.RunBatch(ctx, orders)
	if err != nil {
		if errors.Is(err, credential.ErrNoCredentials) {
			log.Error("batch rejected: no credentials configured")
			shared.RespondWithError(w, r, http.StatusServiceUnavailable,
				"Content generation is not configured")
			return
		}
		log.Error("batch execution failed", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusInternalServerError,
			"Failed to generate lesson content")
		return
	}

	resp := assembleLesson(batch)
	log.Info("lesson generated",
		slog.String("batch_id", resp.Summary.BatchID),
		slog.String("status", resp.Summary.Status),
		slog.Int("succeeded", resp.Summary.SucceededTasks),
		slog.Int("failed", resp.Summary.FailedTasks),
	)
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// assembleLesson converts a batch result into the client-facing lesson
// payload, substituting fallback content for failed tasks.
func assembleLesson(batch *domain.BatchResult) GenerateLessonResponse {
	formats := make(map[string]FormatSection, len(batch.Results))
	var failedKinds []string

	for kind, res := range batch.Results {
		name, ok := formatForKind[kind]
		if !ok {
			name = kind.String()
		}
		section := FormatSection{
			Status:    string(res.Status),
			Content:   res.Payload,
			LatencyMs: res.Latency.Milliseconds(),
		}
		if res.Status != domain.TaskStatusSuccess {
			section.Content = workorder.Fallback(kind)
			section.Fallback = true
			section.Error = string(res.Error)
			failedKinds = append(failedKinds, kind.String())
		}
		formats[name] = section
	}
	sort.Strings(failedKinds)

	succeeded := batch.SucceededCount()
	return GenerateLessonResponse{
		Summary: OrchestrationSummary{
			BatchID:        batch.BatchID.String(),
			Status:         string(batch.Status),
			TotalTasks:     len(batch.Results),
			SucceededTasks: succeeded,
			FailedTasks:    len(batch.Results) - succeeded,
			FailedKinds:    failedKinds,
			TotalLatencyMs: batch.TotalLatency.Milliseconds(),
		},
		Formats: formats,
	}
}
