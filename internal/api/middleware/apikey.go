package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/jwhitfield/studygen/internal/api/shared"
)

// APIKeyHeader is the header clients present their key in.
const APIKeyHeader = "X-API-Key"

// APIKeyMiddleware guards routes with a static API key check. An empty
// configured key disables the check entirely (local development).
type APIKeyMiddleware struct {
	key string
}

// NewAPIKeyMiddleware creates an APIKeyMiddleware for the configured key.
func NewAPIKeyMiddleware(key string) *APIKeyMiddleware {
	return &APIKeyMiddleware{key: key}
}

// Authenticate rejects requests whose X-API-Key header does not match the
// configured key.
func (m *APIKeyMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.key == "" {
			next.ServeHTTP(w, r)
			return
		}

		presented := r.Header.Get(APIKeyHeader)
		if subtle.ConstantTimeCompare([]byte(presented), []byte(m.key)) != 1 {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}
