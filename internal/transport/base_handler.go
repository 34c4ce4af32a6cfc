package transport

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"

	"github.com/genzspace/genzflow/internal"
	"github.com/genzspace/genzflow/pkg/logger"
)

// Envelope is the JSON shape every endpoint returns: success + data on the
// happy path, success=false + message on failure. Error detail is only
// populated outside production.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

// Pagination is the listing metadata contract: pages == ceil(total/limit).
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func NewPagination(page, limit int, total int64) Pagination {
	return Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(limit))),
	}
}

// BaseHandler provides common functionality for HTTP handlers.
type BaseHandler struct {
	Logger       *slog.Logger
	ExposeErrors bool
}

// NewBaseHandler creates a base handler with logger. exposeErrors should be
// false in production so store failures surface only as generic messages.
func NewBaseHandler(lg *slog.Logger, exposeErrors bool) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg, ExposeErrors: exposeErrors}
}

// WriteData writes a success envelope.
func (h *BaseHandler) WriteData(w http.ResponseWriter, status int, data interface{}) {
	h.writeEnvelope(w, status, Envelope{Success: true, Data: data})
}

// WriteMessage writes a success envelope with a human-readable message and
// optional payload.
func (h *BaseHandler) WriteMessage(w http.ResponseWriter, status int, message string, data interface{}) {
	h.writeEnvelope(w, status, Envelope{Success: true, Message: message, Data: data})
}

// WriteError writes a failure envelope.
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.Logger.Error("http error", "status", status, "message", message)
	h.writeEnvelope(w, status, Envelope{Success: false, Message: message})
}

// HandleServiceError maps an error from the service layer onto the wire.
// AppErrors carry their own status code; anything else is a 500 whose
// detail is suppressed in production.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		env := Envelope{Success: false, Message: appErr.Message}
		if appErr.Details != nil {
			env.Error = appErr.Details
		} else if h.ExposeErrors && appErr.Cause != nil {
			env.Error = appErr.Cause.Error()
		}
		h.Logger.Error("service error", "status", appErr.StatusCode, "type", appErr.Type, "message", appErr.Message)
		h.writeEnvelope(w, appErr.StatusCode, env)
		return
	}

	h.Logger.Error("unhandled service error", "error", err)
	env := Envelope{Success: false, Message: "Internal server error"}
	if h.ExposeErrors {
		env.Error = err.Error()
	}
	h.writeEnvelope(w, http.StatusInternalServerError, env)
}

func (h *BaseHandler) writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header.
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return authHeader[7:]
}
