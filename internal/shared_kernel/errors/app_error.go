package apperrors

import "net/http"

type Type string

const (
	TypeValidation   Type = "validation"
	TypeUnauthorized Type = "unauthorized"
	TypeNotFound     Type = "not_found"
	TypeConflict     Type = "conflict"
	TypeProvider     Type = "provider"
	TypeUnavailable  Type = "unavailable"
	TypeInternal     Type = "internal"
)

type AppError struct {
	Type    Type           `json:"type"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

func (e *AppError) StatusCode() int {
	if e == nil {
		return http.StatusInternalServerError
	}

	switch e.Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeUnauthorized:
		return http.StatusUnauthorized
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeProvider:
		return http.StatusBadGateway
	case TypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func NewInternal(code, message string, details map[string]any) *AppError {
	return newAppError(TypeInternal, code, message, details)
}

func NewValidation(code, message string, details map[string]any) *AppError {
	return newAppError(TypeValidation, code, message, details)
}

func NewUnauthorized(code, message string, details map[string]any) *AppError {
	return newAppError(TypeUnauthorized, code, message, details)
}

func NewNotFound(code, message string, details map[string]any) *AppError {
	return newAppError(TypeNotFound, code, message, details)
}

func NewConflict(code, message string, details map[string]any) *AppError {
	return newAppError(TypeConflict, code, message, details)
}

func NewUnavailable(code, message string, details map[string]any) *AppError {
	return newAppError(TypeUnavailable, code, message, details)
}

// FromFault converts a carrier failure into the error returned by use cases.
// Fault status and code are preserved in details so the HTTP layer can echo them.
func FromFault(err error) *AppError {
	if err == nil {
		return nil
	}

	fault, ok := AsFault(err)
	if !ok {
		return NewInternal("provider_call_failed", err.Error(), nil)
	}

	details := map[string]any{
		"fault_kind":  string(fault.Kind),
		"status_code": fault.StatusCode,
	}
	if fault.RetryAfter > 0 {
		details["retry_after_seconds"] = fault.RetryAfter
	}

	errType := TypeProvider
	if fault.Kind == FaultCircuitOpen {
		errType = TypeUnavailable
	}

	return newAppError(errType, fault.Code, fault.Message, details)
}

func newAppError(errType Type, code, message string, details map[string]any) *AppError {
	return &AppError{
		Type:    errType,
		Code:    code,
		Message: message,
		Details: details,
	}
}
