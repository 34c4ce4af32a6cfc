package rest

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/genzspace/genzflow/internal/database"
	"github.com/genzspace/genzflow/internal/transport"
)

// HealthHandler serves liveness and readiness probes. Liveness never
// touches the store; readiness pings it with a short timeout.
type HealthHandler struct {
	*transport.BaseHandler
	db  *gorm.DB
	env string
}

func NewHealthHandler(base *transport.BaseHandler, db *gorm.DB, env string) *HealthHandler {
	return &HealthHandler{
		BaseHandler: base,
		db:          db,
		env:         env,
	}
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	h.WriteData(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": h.env,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if err := database.Ping(r.Context(), h.db, 2*time.Second); err != nil {
		h.Logger.Error("readiness probe failed", "error", err)
		h.WriteError(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	h.WriteData(w, http.StatusOK, map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	h.WriteData(w, http.StatusOK, "pong")
}
