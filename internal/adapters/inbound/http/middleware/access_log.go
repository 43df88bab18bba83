package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"freightflow/internal/shared_kernel/logging"
)

func AccessLog(logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logging.OrNop(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startedAt := time.Now()
			recorder := newStatusRecorder(w, false)

			next.ServeHTTP(recorder, r)

			fields := append(
				logging.FieldsFromContext(r.Context()),
				zap.String("method", r.Method),
				zap.String("url", r.URL.RequestURI()),
				zap.Int("status_code", recorder.Status()),
				zap.Int64("response_time_ms", time.Since(startedAt).Milliseconds()),
			)
			logger.Info("request completed", fields...)
		})
	}
}
