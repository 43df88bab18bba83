package dto

import (
	"encoding/json"
	"time"
)

type IdempotencyOutcome string

const (
	IdempotencyProceed  IdempotencyOutcome = "PROCEED"
	IdempotencyHit      IdempotencyOutcome = "HIT"
	IdempotencyConflict IdempotencyOutcome = "CONFLICT"
)

// IdempotencyRecord with StatusCode 0 is still being processed.
type IdempotencyRecord struct {
	Key          string
	PayloadHash  string
	ResponseBody json.RawMessage
	StatusCode   int
	CreatedAt    time.Time
}

// AcquireIdempotencyKeyCommand carries the raw request body; the use case hashes it canonically.
type AcquireIdempotencyKeyCommand struct {
	Key     string
	Payload []byte
	Now     time.Time
}

type AcquireIdempotencyKeyOutput struct {
	Outcome      IdempotencyOutcome
	ResponseBody json.RawMessage
	StatusCode   int
}

type CompleteIdempotencyKeyCommand struct {
	Key          string
	ResponseBody json.RawMessage
	StatusCode   int
}

type ReleaseIdempotencyKeyCommand struct {
	Key string
}
