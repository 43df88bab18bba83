//go:build !integration

package sandbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type plannedEvent struct {
	ID string
}

func TestBuildEventPlanIsDeterministicForSeed(t *testing.T) {
	events := []plannedEvent{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	flaky := ResolveProfile("flaky")

	left := BuildEventPlan(events, PlanOptions{Rng: NewSeededRng(77), DuplicateMode: DuplicateModeMixed, ChaosEnabled: true, Profile: flaky})
	right := BuildEventPlan(events, PlanOptions{Rng: NewSeededRng(77), DuplicateMode: DuplicateModeMixed, ChaosEnabled: true, Profile: flaky})

	assert.Equal(t, left, right)
	assert.Len(t, left, 3)
	for _, item := range left {
		assert.Equal(t, "flaky", item.Profile)
		if item.DuplicateWithNewEventID {
			assert.True(t, item.Duplicate)
		}
	}
}

func TestBuildEventPlanWithoutChaos(t *testing.T) {
	events := []plannedEvent{{ID: "1"}, {ID: "2"}}
	plan := BuildEventPlan(events, PlanOptions{Rng: NewSeededRng(77), DuplicateMode: DuplicateModeMixed, ChaosEnabled: false, Profile: ResolveProfile("degraded")})

	for i, item := range plan {
		assert.False(t, item.Drop)
		assert.False(t, item.Duplicate)
		assert.Equal(t, events[i], item.Event)
	}
}

func TestBuildEventPlanNewEventIDMode(t *testing.T) {
	events := make([]plannedEvent, 200)
	plan := BuildEventPlan(events, PlanOptions{Rng: NewSeededRng(3), DuplicateMode: DuplicateModeNewEventID, ChaosEnabled: true, Profile: ResolveProfile("degraded")})

	duplicates := 0
	for _, item := range plan {
		assert.Equal(t, item.Duplicate, item.DuplicateWithNewEventID)
		if item.Duplicate {
			duplicates++
		}
	}
	assert.Greater(t, duplicates, 0)
}

func TestParseDuplicateMode(t *testing.T) {
	assert.Equal(t, DuplicateModeSameEventID, ParseDuplicateMode("sameEventId"))
	assert.Equal(t, DuplicateModeNewEventID, ParseDuplicateMode("newEventId"))
	assert.Equal(t, DuplicateModeMixed, ParseDuplicateMode("mixed"))
	assert.Equal(t, DuplicateModeMixed, ParseDuplicateMode("invalid-mode"))
	assert.Equal(t, DuplicateModeMixed, ParseDuplicateMode(""))
}

func TestRuntimePlanOptionsUseWebhookProfile(t *testing.T) {
	runtime := NewRuntime(nil, WithEnvLookup(envMap(map[string]string{
		"SANDBOX_SEED":                     "42",
		"PROVIDER_SANDBOX_PROFILE_WEBHOOK": "flaky",
	})))

	opts := runtime.PlanOptions(DuplicateModeSameEventID)
	assert.Equal(t, "flaky", opts.Profile.Name)
	assert.True(t, opts.ChaosEnabled)
	assert.Equal(t, NewSeededRng(42+WebhookSeedOffset).Next(), opts.Rng.Next())
}
