package problem

import (
	"encoding/json"
	"net/http"
	"strconv"

	apperrors "freightflow/internal/shared_kernel/errors"
	"freightflow/internal/shared_kernel/logging"
)

const (
	ContentType         = "application/problem+json"
	HeaderCorrelationID = "x-correlation-id"
)

// Document is an RFC7807 problem body.
type Document struct {
	Type          string         `json:"type"`
	Title         string         `json:"title"`
	Status        int            `json:"status"`
	Detail        string         `json:"detail"`
	Instance      string         `json:"instance"`
	CorrelationID string         `json:"correlationId,omitempty"`
	Details       map[string]any `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func Write(w http.ResponseWriter, r *http.Request, appErr *apperrors.AppError) {
	if appErr == nil {
		appErr = apperrors.NewInternal("INTERNAL_SERVER_ERROR", "unexpected error", nil)
	}

	document := FromAppError(appErr)
	if r != nil {
		document.Instance = r.URL.RequestURI()
		document.CorrelationID = logging.CorrelationID(r.Context())
	}
	if document.CorrelationID == "" {
		document.CorrelationID = w.Header().Get(HeaderCorrelationID)
	}
	if retryAfter, ok := intDetail(appErr.Details, "retry_after_seconds"); ok && retryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	}

	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(document.Status)
	_ = json.NewEncoder(w).Encode(document)
}

// FromAppError keeps the upstream status of provider faults so a sandbox 429
// reaches the caller as 429 rather than a generic 502.
func FromAppError(appErr *apperrors.AppError) Document {
	status := appErr.StatusCode()
	if appErr.Type == apperrors.TypeProvider {
		if upstream, ok := intDetail(appErr.Details, "status_code"); ok && upstream >= 400 && upstream <= 599 {
			status = upstream
		}
	}

	title := appErr.Code
	if title == "" {
		title = "INTERNAL_SERVER_ERROR"
	}

	document := Document{
		Type:   "about:blank",
		Title:  title,
		Status: status,
		Detail: appErr.Message,
	}
	if appErr.Type == apperrors.TypeValidation {
		document.Details = appErr.Details
	}
	return document
}

func intDetail(details map[string]any, key string) (int, bool) {
	raw, ok := details[key]
	if !ok {
		return 0, false
	}
	switch value := raw.(type) {
	case int:
		return value, true
	case int64:
		return int(value), true
	case float64:
		return int(value), true
	case json.Number:
		parsed, err := value.Int64()
		return int(parsed), err == nil
	default:
		return 0, false
	}
}
