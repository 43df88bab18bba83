package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"freightflow/internal/adapters/inbound/http/problem"
	apperrors "freightflow/internal/shared_kernel/errors"
	"freightflow/internal/shared_kernel/logging"
)

const maxRequestBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, payload any) {
	problem.WriteJSON(w, status, payload)
}

func writeAppError(w http.ResponseWriter, r *http.Request, appErr *apperrors.AppError) {
	problem.Write(w, r, appErr)
}

func logRequestError(logger *zap.Logger, r *http.Request, path string, appErr *apperrors.AppError) {
	fields := append(
		logging.FieldsFromContext(r.Context()),
		zap.String("path", path),
		zap.String("method", r.Method),
		zap.String("code", appErr.Code),
		zap.String("error", appErr.Message),
	)
	if appErr.StatusCode() >= http.StatusInternalServerError {
		logger.Error("request error", fields...)
		return
	}
	logger.Warn("request error", fields...)
}

// decodeJSONBody decodes exactly one JSON object into target and rejects
// unknown fields.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, target any) *apperrors.AppError {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		message := "request body must be valid JSON"
		if errors.Is(err, io.EOF) {
			message = "request body is required"
		}
		return apperrors.NewValidation(
			"invalid_request",
			message,
			map[string]any{"error": err.Error()},
		)
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return apperrors.NewValidation(
			"invalid_request",
			"request body must contain a single JSON object",
			nil,
		)
	}

	return nil
}

func useCaseMissing(name string) *apperrors.AppError {
	return apperrors.NewInternal(
		name+"_use_case_missing",
		name+" use case is required",
		nil,
	)
}
