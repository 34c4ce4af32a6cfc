package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/genzspace/genzflow/pkg/logger"
)

// TraceID accepts a caller-supplied X-Trace-ID or mints one, injects it
// into the context logger and echoes it on the response.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := logger.WithTrace(r.Context(), traceID)

		w.Header().Set("X-Trace-ID", traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
