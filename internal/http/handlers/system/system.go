// Package system serves the unauthenticated monitoring and documentation
// endpoints.
package system

import (
	"context"
	_ "embed"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/aanand-mishra/academico-api/internal/utils/response"
)

//go:embed openapi.json
var openAPIDocument []byte

const healthTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health handles GET /actuator/health
//
//	200 { "status": "UP" }    — the database answered
//	503 { "status": "DOWN" }  — it did not
func Health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			zap.L().Warn("health check failed", zap.Error(err))
			response.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "DOWN"})
			return
		}

		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "UP"})
	}
}

// APIDocs handles GET /v3/api-docs with the static OpenAPI document.
func APIDocs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(openAPIDocument); err != nil {
			zap.L().Debug("failed to write api docs", zap.Error(err))
		}
	}
}
