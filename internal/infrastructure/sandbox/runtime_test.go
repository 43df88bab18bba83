//go:build !integration

package sandbox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(values map[string]string) EnvLookup {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

func TestRuntimeDefaults(t *testing.T) {
	runtime := NewRuntime(nil, WithEnvLookup(envMap(nil)))

	settings := runtime.Settings()
	assert.Equal(t, int64(DefaultSeed), settings.Seed)
	assert.True(t, settings.ChaosEnabled)
	assert.True(t, settings.RateLimitEnabled)
	assert.Equal(t, DefaultProfileName, runtime.ProfileName("ACME"))
}

func TestRuntimeEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sandbox.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"seed": 7, "chaosEnabled": false, "rateLimitEnabled": false, "providerProfiles": {" acme ": "flaky"}}`), 0o600))

	runtime := NewRuntime(nil, WithEnvLookup(envMap(map[string]string{
		"SANDBOX_CONFIG_PATH":        path,
		"SANDBOX_SEED":               "99",
		"SANDBOX_RATE_LIMIT_ENABLED": "1",
	})))

	settings := runtime.Settings()
	assert.Equal(t, int64(99), settings.Seed)
	assert.False(t, settings.ChaosEnabled)
	assert.True(t, settings.RateLimitEnabled)
	assert.Equal(t, path, settings.ConfigPath)
	assert.Equal(t, "flaky", runtime.ProfileName("acme"))
}

func TestRuntimeReadsYAMLConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sandbox.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 11\nchaosEnabled: false\nproviderProfiles:\n  ROCKET: degraded\n"), 0o600))

	runtime := NewRuntime(nil, WithEnvLookup(envMap(map[string]string{"SANDBOX_CONFIG_PATH": path})))

	assert.Equal(t, int64(11), runtime.Settings().Seed)
	assert.False(t, runtime.Settings().ChaosEnabled)
	assert.Equal(t, "degraded", runtime.Profile("rocket").Name)
}

func TestRuntimeFallsBackWhenFileIsUnreadable(t *testing.T) {
	runtime := NewRuntime(nil, WithEnvLookup(envMap(map[string]string{
		"SANDBOX_CONFIG_PATH": filepath.Join(t.TempDir(), "missing.json"),
		"SANDBOX_SEED":        "not-a-number",
	})))

	settings := runtime.Settings()
	assert.Equal(t, int64(DefaultSeed), settings.Seed)
	assert.True(t, settings.ChaosEnabled)
}

func TestRuntimeProfilePrecedence(t *testing.T) {
	runtime := NewRuntime(nil, WithEnvLookup(envMap(map[string]string{
		"PROVIDER_SANDBOX_PROFILE_ACME":   "peakHours",
		"PROVIDER_SANDBOX_PROFILE_ROCKET": "does-not-exist",
		"SANDBOX_CHAOS_ENABLED":           "yes",
	})))

	assert.False(t, runtime.Settings().ChaosEnabled)
	assert.Equal(t, "peakHours", runtime.ProfileName("ACME"))
	assert.Equal(t, "does-not-exist", runtime.ProfileName("ROCKET"))
	assert.Equal(t, DefaultProfileName, runtime.Profile("ROCKET").Name)

	providerID, profile := runtime.SetProfile(" acme ", "degraded")
	assert.Equal(t, "ACME", providerID)
	assert.Equal(t, "degraded", profile)
	assert.Equal(t, "degraded", runtime.ProfileName("ACME"))
}

func TestRuntimeStatusAndReset(t *testing.T) {
	runtime := NewRuntime(nil, WithEnvLookup(envMap(nil)))
	runtime.SetProfile("ACME", "flaky")
	runtime.IncrementCounter("acme", OperationQuote, "success")
	runtime.IncrementCounter("ACME", OperationQuote, "success")

	status := runtime.Status()
	assert.Equal(t, 2, status.Counters["ACME:quote:success"])
	assert.Equal(t, "flaky", status.RuntimeOverrides["ACME"])
	assert.Len(t, status.AvailableProfiles, 5)
	assert.Equal(t, "rateLimited", status.AvailableProfiles["rateLimited"])

	runtime.Reset()
	status = runtime.Status()
	assert.Empty(t, status.Counters)
	assert.Empty(t, status.RuntimeOverrides)
}

func TestProfileCatalog(t *testing.T) {
	assert.Equal(t, []string{"default", "degraded", "flaky", "peakHours", "rateLimited"}, ProfileNames())
	assert.True(t, IsKnownProfile("flaky"))
	assert.False(t, IsKnownProfile("chaos"))

	flaky := ResolveProfile("flaky")
	assert.InDelta(t, 0.08, flaky.Rates(OperationShipment).Timeout, 1e-9)
	assert.InDelta(t, 0.01, flaky.Rates(OperationShipment).HTTP429, 1e-9)
	assert.Equal(t, 0.0, ResolveProfile("default").Rates(OperationQuote).Timeout)
	assert.Equal(t, ErrorRates{}, flaky.Rates(Operation("unknown")))
}
