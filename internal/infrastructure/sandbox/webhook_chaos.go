package sandbox

import (
	"os"

	valueobjects "freightflow/internal/domain/value_objects"
)

type DuplicateMode string

const (
	DuplicateModeSameEventID DuplicateMode = "sameEventId"
	DuplicateModeNewEventID  DuplicateMode = "newEventId"
	DuplicateModeMixed       DuplicateMode = "mixed"

	envDuplicateMode = "SANDBOX_WEBHOOK_DUPLICATE_MODE"

	// WebhookSeedOffset separates the webhook planner sequence from the carrier engines.
	WebhookSeedOffset = 101
)

func ParseDuplicateMode(raw string) DuplicateMode {
	switch DuplicateMode(raw) {
	case DuplicateModeSameEventID, DuplicateModeNewEventID, DuplicateModeMixed:
		return DuplicateMode(raw)
	default:
		return DuplicateModeMixed
	}
}

func DuplicateModeFromEnv() DuplicateMode {
	return ParseDuplicateMode(os.Getenv(envDuplicateMode))
}

type EventPlan[T any] struct {
	Event                   T
	Drop                    bool
	Duplicate               bool
	DuplicateWithNewEventID bool
	Profile                 string
}

type PlanOptions struct {
	Rng           *SeededRng
	DuplicateMode DuplicateMode
	ChaosEnabled  bool
	Profile       Profile
}

// PlanOptions builds the options for one worker pass from the WEBHOOK provider profile.
// A fresh rng is seeded per call, so every pass replays the same decisions for the same seed.
func (r *Runtime) PlanOptions(mode DuplicateMode) PlanOptions {
	settings := r.Settings()
	return PlanOptions{
		Rng:           NewSeededRng(settings.Seed + WebhookSeedOffset),
		DuplicateMode: mode,
		ChaosEnabled:  settings.ChaosEnabled,
		Profile:       r.Profile(valueobjects.ProviderWebhook),
	}
}

// BuildEventPlan decides, per event, whether the worker drops or duplicates it, after an optional reorder.
func BuildEventPlan[T any](events []T, opts PlanOptions) []EventPlan[T] {
	rng := opts.Rng
	if rng == nil {
		rng = NewSeededRng(DefaultSeed + WebhookSeedOffset)
	}
	mode := opts.DuplicateMode
	if mode == "" {
		mode = DuplicateModeMixed
	}
	chaos := opts.Profile.WebhookChaos

	ordered := events
	if opts.ChaosEnabled && rng.Chance(chaos.ReorderRate) {
		ordered = ShuffleDeterministic(events, rng)
	}

	plan := make([]EventPlan[T], 0, len(ordered))
	for _, event := range ordered {
		drop := opts.ChaosEnabled && rng.Chance(chaos.DropRate)
		duplicate := opts.ChaosEnabled && rng.Chance(chaos.DuplicateRate)
		withNewID := false
		if duplicate {
			withNewID = mode == DuplicateModeNewEventID || (mode == DuplicateModeMixed && rng.Chance(0.5))
		}

		plan = append(plan, EventPlan[T]{
			Event:                   event,
			Drop:                    drop,
			Duplicate:               duplicate,
			DuplicateWithNewEventID: withNewID,
			Profile:                 opts.Profile.Name,
		})
	}

	return plan
}
