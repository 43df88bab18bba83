package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"freightflow/internal/adapters/inbound/http/problem"
	"freightflow/internal/shared_kernel/logging"
)

// CorrelationID propagates x-correlation-id or mints a fresh one, echoing it on
// the response and storing it in the request context for loggers.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID := strings.TrimSpace(r.Header.Get(problem.HeaderCorrelationID))
		if correlationID == "" {
			correlationID = uuid.NewString()
		}

		w.Header().Set(problem.HeaderCorrelationID, correlationID)
		next.ServeHTTP(w, r.WithContext(logging.WithCorrelationID(r.Context(), correlationID)))
	})
}
