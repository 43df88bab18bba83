package sandbox

import (
	"sort"
	"time"
)

type Operation string

const (
	OperationQuote    Operation = "quote"
	OperationShipment Operation = "shipment"
	OperationLabel    Operation = "label"
	OperationTracking Operation = "tracking"
	OperationWebhook  Operation = "webhook"
)

const DefaultProfileName = "default"

type ErrorRates struct {
	Timeout           float64 `json:"timeout"`
	HTTP5xx           float64 `json:"http5xx"`
	HTTP429           float64 `json:"http429"`
	HTTP4xx           float64 `json:"http4xx"`
	ConnReset         float64 `json:"connReset"`
	PayloadDivergence float64 `json:"payloadDivergence"`
}

type Latency struct {
	Base   time.Duration
	Jitter time.Duration
}

type RateLimit struct {
	RequestsPerMinute float64
	Burst             float64
}

type WebhookChaos struct {
	DuplicateRate float64
	ReorderRate   float64
	DropRate      float64
}

type Profile struct {
	Name                  string
	Latency               Latency
	ErrorRatesByOperation map[Operation]ErrorRates
	RateLimit             RateLimit
	ConsistencyLag        time.Duration
	WebhookChaos          WebhookChaos
}

var baseErrorRates = ErrorRates{
	Timeout:           0.01,
	HTTP5xx:           0.01,
	HTTP429:           0.01,
	HTTP4xx:           0.01,
	ConnReset:         0.01,
	PayloadDivergence: 0.02,
}

func withRates(apply func(*ErrorRates)) ErrorRates {
	rates := baseErrorRates
	apply(&rates)
	return rates
}

var catalog = map[string]Profile{
	"default": {
		Name:    "default",
		Latency: Latency{Base: 120 * time.Millisecond, Jitter: 80 * time.Millisecond},
		ErrorRatesByOperation: map[Operation]ErrorRates{
			OperationQuote:    withRates(func(r *ErrorRates) { r.Timeout = 0 }),
			OperationShipment: baseErrorRates,
			OperationLabel:    baseErrorRates,
			OperationTracking: withRates(func(r *ErrorRates) { r.PayloadDivergence = 0.04 }),
			OperationWebhook:  baseErrorRates,
		},
		RateLimit:      RateLimit{RequestsPerMinute: 180, Burst: 30},
		ConsistencyLag: time.Second,
		WebhookChaos:   WebhookChaos{DuplicateRate: 0.03, ReorderRate: 0.02, DropRate: 0.01},
	},
	"flaky": {
		Name:    "flaky",
		Latency: Latency{Base: 250 * time.Millisecond, Jitter: 300 * time.Millisecond},
		ErrorRatesByOperation: map[Operation]ErrorRates{
			OperationQuote: withRates(func(r *ErrorRates) {
				r.Timeout, r.ConnReset, r.HTTP5xx = 0.06, 0.05, 0.07
			}),
			OperationShipment: withRates(func(r *ErrorRates) {
				r.Timeout, r.ConnReset, r.HTTP5xx = 0.08, 0.06, 0.08
			}),
			OperationLabel: withRates(func(r *ErrorRates) {
				r.Timeout, r.HTTP5xx = 0.06, 0.08
			}),
			OperationTracking: withRates(func(r *ErrorRates) {
				r.Timeout, r.PayloadDivergence, r.HTTP5xx = 0.03, 0.15, 0.05
			}),
			OperationWebhook: withRates(func(r *ErrorRates) {
				r.Timeout, r.HTTP5xx = 0.05, 0.09
			}),
		},
		RateLimit:      RateLimit{RequestsPerMinute: 90, Burst: 10},
		ConsistencyLag: 9 * time.Second,
		WebhookChaos:   WebhookChaos{DuplicateRate: 0.18, ReorderRate: 0.24, DropRate: 0.09},
	},
	"degraded": {
		Name:    "degraded",
		Latency: Latency{Base: 500 * time.Millisecond, Jitter: 500 * time.Millisecond},
		ErrorRatesByOperation: map[Operation]ErrorRates{
			OperationQuote: withRates(func(r *ErrorRates) {
				r.Timeout, r.HTTP5xx, r.HTTP429 = 0.08, 0.06, 0.05
			}),
			OperationShipment: withRates(func(r *ErrorRates) {
				r.Timeout, r.HTTP5xx, r.HTTP429 = 0.1, 0.12, 0.08
			}),
			OperationLabel: withRates(func(r *ErrorRates) {
				r.Timeout, r.HTTP5xx = 0.08, 0.1
			}),
			OperationTracking: withRates(func(r *ErrorRates) {
				r.Timeout, r.HTTP5xx, r.PayloadDivergence = 0.06, 0.08, 0.2
			}),
			OperationWebhook: withRates(func(r *ErrorRates) {
				r.Timeout, r.HTTP5xx = 0.07, 0.12
			}),
		},
		RateLimit:      RateLimit{RequestsPerMinute: 60, Burst: 8},
		ConsistencyLag: 20 * time.Second,
		WebhookChaos:   WebhookChaos{DuplicateRate: 0.22, ReorderRate: 0.3, DropRate: 0.14},
	},
	"rateLimited": {
		Name:    "rateLimited",
		Latency: Latency{Base: 180 * time.Millisecond, Jitter: 150 * time.Millisecond},
		ErrorRatesByOperation: map[Operation]ErrorRates{
			OperationQuote: withRates(func(r *ErrorRates) {
				r.HTTP429, r.Timeout = 0.3, 0.02
			}),
			OperationShipment: withRates(func(r *ErrorRates) {
				r.HTTP429, r.Timeout = 0.38, 0.03
			}),
			OperationLabel: withRates(func(r *ErrorRates) {
				r.HTTP429 = 0.35
			}),
			OperationTracking: withRates(func(r *ErrorRates) {
				r.HTTP429, r.PayloadDivergence = 0.28, 0.08
			}),
			OperationWebhook: withRates(func(r *ErrorRates) {
				r.HTTP429 = 0.25
			}),
		},
		RateLimit:      RateLimit{RequestsPerMinute: 24, Burst: 4},
		ConsistencyLag: 5 * time.Second,
		WebhookChaos:   WebhookChaos{DuplicateRate: 0.08, ReorderRate: 0.08, DropRate: 0.02},
	},
	"peakHours": {
		Name:    "peakHours",
		Latency: Latency{Base: 350 * time.Millisecond, Jitter: 250 * time.Millisecond},
		ErrorRatesByOperation: map[Operation]ErrorRates{
			OperationQuote: withRates(func(r *ErrorRates) {
				r.HTTP429, r.Timeout = 0.12, 0.04
			}),
			OperationShipment: withRates(func(r *ErrorRates) {
				r.HTTP429, r.HTTP5xx, r.Timeout = 0.14, 0.05, 0.05
			}),
			OperationLabel: withRates(func(r *ErrorRates) {
				r.HTTP429, r.Timeout = 0.12, 0.04
			}),
			OperationTracking: withRates(func(r *ErrorRates) {
				r.HTTP429, r.PayloadDivergence = 0.12, 0.1
			}),
			OperationWebhook: withRates(func(r *ErrorRates) {
				r.HTTP429, r.Timeout = 0.1, 0.03
			}),
		},
		RateLimit:      RateLimit{RequestsPerMinute: 72, Burst: 9},
		ConsistencyLag: 7500 * time.Millisecond,
		WebhookChaos:   WebhookChaos{DuplicateRate: 0.11, ReorderRate: 0.12, DropRate: 0.04},
	},
}

func IsKnownProfile(name string) bool {
	_, ok := catalog[name]
	return ok
}

// ResolveProfile returns the named profile, or the default one when the name is unknown.
func ResolveProfile(name string) Profile {
	if profile, ok := catalog[name]; ok {
		return profile
	}
	return catalog[DefaultProfileName]
}

func ProfileNames() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Rates returns the operation's rates with unset operations reading as zero.
func (p Profile) Rates(operation Operation) ErrorRates {
	return p.ErrorRatesByOperation[operation]
}
