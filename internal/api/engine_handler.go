package api

import (
	"net/http"
	"sort"
	"time"

	"github.com/jwhitfield/studygen/internal/api/shared"
	"github.com/jwhitfield/studygen/internal/domain"
)

// EngineInfo is the static engine configuration exposed for diagnostics.
// It is captured once at startup; credential keys themselves are never
// exposed.
type EngineInfo struct {
	CredentialCount  int
	Model            string
	BaseStaggerDelay time.Duration
	TaskTimeout      time.Duration
	MaxRetries       int
}

// EngineHandler serves the engine diagnostics endpoint.
type EngineHandler struct {
	info EngineInfo
}

// NewEngineHandler creates an engine handler reporting the given
// configuration.
func NewEngineHandler(info EngineInfo) *EngineHandler {
	return &EngineHandler{info: info}
}

// GetEngineInfo handles GET /api/engine.
func (h *EngineHandler) GetEngineInfo(w http.ResponseWriter, r *http.Request) {
	kinds := domain.AllKinds()
	kindNames := make([]string, 0, len(kinds))
	formatNames := make([]string, 0, len(kinds))
	for _, k := range kinds {
		kindNames = append(kindNames, k.String())
		formatNames = append(formatNames, formatForKind[k])
	}
	sort.Strings(formatNames)

	shared.RespondWithJSON(w, r, http.StatusOK, EngineInfoResponse{
		TaskKinds:          kindNames,
		LearningFormats:    formatNames,
		CredentialCount:    h.info.CredentialCount,
		Model:              h.info.Model,
		BaseStaggerDelayMs: h.info.BaseStaggerDelay.Milliseconds(),
		TaskTimeoutMs:      h.info.TaskTimeout.Milliseconds(),
		MaxRetries:         h.info.MaxRetries,
	})
}
