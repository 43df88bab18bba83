package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"freightflow/internal/adapters/inbound/http/problem"
	"freightflow/internal/application/dto"
	portsin "freightflow/internal/application/ports/in"
	apperrors "freightflow/internal/shared_kernel/errors"
	"freightflow/internal/shared_kernel/logging"
)

const (
	HeaderIdempotencyKey   = "idempotency-key"
	HeaderIdempotentReplay = "x-idempotent-replay"
	maxIdempotentBodyBytes = 1 << 20
)

type Idempotency struct {
	acquire  portsin.AcquireIdempotencyKeyUseCase
	complete portsin.CompleteIdempotencyKeyUseCase
	release  portsin.ReleaseIdempotencyKeyUseCase
	logger   *zap.Logger
}

func NewIdempotency(
	acquire portsin.AcquireIdempotencyKeyUseCase,
	complete portsin.CompleteIdempotencyKeyUseCase,
	release portsin.ReleaseIdempotencyKeyUseCase,
	logger *zap.Logger,
) *Idempotency {
	return &Idempotency{
		acquire:  acquire,
		complete: complete,
		release:  release,
		logger:   logging.OrNop(logger),
	}
}

// Wrap guards mutating requests that carry an idempotency-key header. A stored
// response is replayed verbatim, a concurrent or mismatched reuse of the key is
// answered with 409, and anything else runs next and records its response.
func (m *Idempotency) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimSpace(r.Header.Get(HeaderIdempotencyKey))
		if key == "" || !isMutating(r.Method) || m.acquire == nil {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxIdempotentBodyBytes))
		if err != nil {
			problem.Write(w, r, apperrors.NewValidation(
				"invalid_request",
				"request body could not be read",
				map[string]any{"error": err.Error()},
			))
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		result, appErr := m.acquire.Execute(r.Context(), dto.AcquireIdempotencyKeyCommand{Key: key, Payload: body})
		if appErr != nil {
			m.logger.Error(
				"idempotency key acquire failed",
				append(logging.FieldsFromContext(r.Context()), zap.String("code", appErr.Code), zap.String("error", appErr.Message))...,
			)
			problem.Write(w, r, appErr)
			return
		}

		switch result.Outcome {
		case dto.IdempotencyConflict:
			problem.Write(w, r, apperrors.NewConflict(
				"IDEMPOTENCY_CONFLICT",
				"Idempotency key already used for a different payload or is currently processing",
				nil,
			))
			return
		case dto.IdempotencyHit:
			w.Header().Set(HeaderIdempotentReplay, "true")
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(result.StatusCode)
			_, _ = w.Write(result.ResponseBody)
			return
		}

		recorder := newStatusRecorder(w, true)
		next.ServeHTTP(recorder, r)
		m.record(r, key, recorder)
	})
}

func (m *Idempotency) record(r *http.Request, key string, recorder *statusRecorder) {
	ctx := context.WithoutCancel(r.Context())
	status := recorder.Status()

	var appErr *apperrors.AppError
	switch {
	case status >= http.StatusInternalServerError:
		if m.release != nil {
			appErr = m.release.Execute(ctx, dto.ReleaseIdempotencyKeyCommand{Key: key})
		}
	case status == http.StatusConflict:
		// Left in processing until the stale timeout expires.
	case status >= http.StatusOK:
		if m.complete != nil {
			appErr = m.complete.Execute(ctx, dto.CompleteIdempotencyKeyCommand{
				Key:          key,
				ResponseBody: json.RawMessage(bytes.Clone(recorder.body.Bytes())),
				StatusCode:   status,
			})
		}
	}

	if appErr != nil {
		m.logger.Warn(
			"idempotency key finalize failed",
			append(
				logging.FieldsFromContext(r.Context()),
				zap.String("idempotency_key", key),
				zap.Int("status_code", status),
				zap.String("error", appErr.Message),
			)...,
		)
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}
