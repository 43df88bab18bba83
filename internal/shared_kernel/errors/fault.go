package apperrors

import (
	"errors"
	"net/http"
	"strconv"
)

type FaultKind string

const (
	FaultProvider    FaultKind = "provider"
	FaultCircuitOpen FaultKind = "circuit_open"
	FaultSandbox     FaultKind = "sandbox"
	FaultHTTP        FaultKind = "http"
	FaultNetwork     FaultKind = "network"
)

const (
	CodeCircuitOpen   = "CIRCUIT_OPEN"
	CodeProviderError = "PROVIDER_ERROR"
	CodeTimeout       = "ETIMEDOUT"
	CodeConnReset     = "ECONNRESET"
	CodeConnRefused   = "ECONNREFUSED"
	CodeDNSAgain      = "EAI_AGAIN"
	CodeConnAborted   = "ECONNABORTED"
)

var transientNetworkCodes = map[string]struct{}{
	CodeTimeout:     {},
	CodeConnReset:   {},
	CodeConnRefused: {},
	CodeDNSAgain:    {},
	CodeConnAborted: {},
}

// Fault is the error raised at the point a carrier or webhook call fails.
// StatusCode is 0 when the failure never produced an HTTP status.
type Fault struct {
	Kind       FaultKind
	Code       string
	StatusCode int
	RetryAfter int
	Transient  bool
	Message    string
	Cause      error
}

func (f *Fault) Error() string {
	if f == nil {
		return ""
	}

	return f.Message
}

func (f *Fault) Unwrap() error {
	if f == nil {
		return nil
	}

	return f.Cause
}

func AsFault(err error) (*Fault, bool) {
	var fault *Fault
	if errors.As(err, &fault) && fault != nil {
		return fault, true
	}

	return nil, false
}

func IsCircuitOpen(err error) bool {
	fault, ok := AsFault(err)
	return ok && fault.Code == CodeCircuitOpen
}

func IsTransientNetworkCode(code string) bool {
	_, ok := transientNetworkCodes[code]
	return ok
}

func NewProviderFault(message string, statusCode int, cause error) *Fault {
	if statusCode == 0 {
		statusCode = http.StatusBadGateway
	}

	return &Fault{
		Kind:       FaultProvider,
		Code:       CodeProviderError,
		StatusCode: statusCode,
		Transient:  statusCode >= 500 || statusCode == http.StatusTooManyRequests,
		Message:    message,
		Cause:      cause,
	}
}

func NewCircuitOpenFault(message string) *Fault {
	return &Fault{
		Kind:       FaultCircuitOpen,
		Code:       CodeCircuitOpen,
		StatusCode: http.StatusServiceUnavailable,
		Message:    message,
	}
}

func NewSandboxFault(code, message string, statusCode, retryAfter int, transient bool) *Fault {
	return &Fault{
		Kind:       FaultSandbox,
		Code:       code,
		StatusCode: statusCode,
		RetryAfter: retryAfter,
		Transient:  transient,
		Message:    message,
	}
}

func NewHTTPStatusFault(message string, statusCode, retryAfter int) *Fault {
	return &Fault{
		Kind:       FaultHTTP,
		Code:       "HTTP_" + strconv.Itoa(statusCode),
		StatusCode: statusCode,
		RetryAfter: retryAfter,
		Transient:  statusCode >= 500 || statusCode == http.StatusTooManyRequests,
		Message:    message,
	}
}

func NewNetworkFault(code, message string, cause error) *Fault {
	return &Fault{
		Kind:      FaultNetwork,
		Code:      code,
		Transient: IsTransientNetworkCode(code),
		Message:   message,
		Cause:     cause,
	}
}
