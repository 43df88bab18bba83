package sandbox

import (
	"fmt"
	"math"
	"net/http"

	apperrors "freightflow/internal/shared_kernel/errors"
)

type FaultKind string

const (
	FaultNone              FaultKind = "none"
	FaultTimeout           FaultKind = "timeout"
	FaultHTTP500           FaultKind = "http500"
	FaultHTTP502           FaultKind = "http502"
	FaultHTTP503           FaultKind = "http503"
	FaultHTTP429           FaultKind = "http429"
	FaultHTTP400           FaultKind = "http400"
	FaultConnReset         FaultKind = "connReset"
	FaultPayloadDivergence FaultKind = "payloadDivergence"
)

const defaultRetryAfterSeconds = 1

type faultWeight struct {
	kind FaultKind
	rate float64
}

// PickFaultKind walks the cumulative distribution of rates and returns the first kind whose
// running total exceeds random. The 5xx rate is split evenly across 500, 502 and 503.
func PickFaultKind(random float64, rates ErrorRates) FaultKind {
	plan := []faultWeight{
		{kind: FaultTimeout, rate: rates.Timeout},
		{kind: FaultConnReset, rate: rates.ConnReset},
		{kind: FaultHTTP500, rate: rates.HTTP5xx / 3},
		{kind: FaultHTTP502, rate: rates.HTTP5xx / 3},
		{kind: FaultHTTP503, rate: rates.HTTP5xx / 3},
		{kind: FaultHTTP429, rate: rates.HTTP429},
		{kind: FaultHTTP400, rate: rates.HTTP4xx},
		{kind: FaultPayloadDivergence, rate: rates.PayloadDivergence},
	}

	cursor := 0.0
	for _, weight := range plan {
		cursor += math.Max(0, weight.rate)
		if random < cursor {
			return weight.kind
		}
	}

	return FaultNone
}

func IsTransientFault(kind FaultKind) bool {
	switch kind {
	case FaultTimeout, FaultConnReset, FaultHTTP500, FaultHTTP502, FaultHTTP503, FaultHTTP429:
		return true
	default:
		return false
	}
}

// MakeFaultError builds the failure a real carrier would have produced for kind.
// retryAfterSeconds only applies to http429; values below 1 fall back to one second.
func MakeFaultError(operation Operation, providerID string, kind FaultKind, retryAfterSeconds int) *apperrors.Fault {
	prefix := fmt.Sprintf("%s.%s", providerID, operation)

	switch kind {
	case FaultTimeout:
		return apperrors.NewSandboxFault(apperrors.CodeTimeout, prefix+" timed out", http.StatusGatewayTimeout, 0, true)
	case FaultConnReset:
		return apperrors.NewSandboxFault(apperrors.CodeConnReset, prefix+" connection reset", http.StatusServiceUnavailable, 0, true)
	case FaultHTTP429:
		if retryAfterSeconds < 1 {
			retryAfterSeconds = defaultRetryAfterSeconds
		}
		return apperrors.NewSandboxFault("RATE_LIMITED", prefix+" rate limited", http.StatusTooManyRequests, retryAfterSeconds, true)
	case FaultHTTP500:
		return apperrors.NewSandboxFault("INTERNAL_ERROR", prefix+" failed with 500", http.StatusInternalServerError, 0, true)
	case FaultHTTP502:
		return apperrors.NewSandboxFault("BAD_GATEWAY", prefix+" failed with 502", http.StatusBadGateway, 0, true)
	case FaultHTTP503:
		return apperrors.NewSandboxFault("SERVICE_UNAVAILABLE", prefix+" failed with 503", http.StatusServiceUnavailable, 0, true)
	default:
		return apperrors.NewSandboxFault("BAD_REQUEST", prefix+" request is invalid", http.StatusBadRequest, 0, false)
	}
}
