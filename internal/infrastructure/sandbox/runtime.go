package sandbox

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	valueobjects "freightflow/internal/domain/value_objects"
	"freightflow/internal/shared_kernel/logging"
)

const (
	DefaultSeed = 20260226

	envSeed             = "SANDBOX_SEED"
	envChaosEnabled     = "SANDBOX_CHAOS_ENABLED"
	envRateLimitEnabled = "SANDBOX_RATE_LIMIT_ENABLED"
	envConfigPath       = "SANDBOX_CONFIG_PATH"
	envProfilePrefix    = "PROVIDER_SANDBOX_PROFILE_"
)

type Settings struct {
	Seed             int64  `json:"seed"`
	ChaosEnabled     bool   `json:"chaosEnabled"`
	RateLimitEnabled bool   `json:"rateLimitEnabled"`
	ConfigPath       string `json:"configPath,omitempty"`
}

type Status struct {
	Settings          Settings          `json:"settings"`
	AvailableProfiles map[string]string `json:"availableProfiles"`
	RuntimeOverrides  map[string]string `json:"runtimeOverrides"`
	Counters          map[string]int    `json:"counters"`
}

type fileConfig struct {
	Seed             *float64          `json:"seed" yaml:"seed"`
	ChaosEnabled     *bool             `json:"chaosEnabled" yaml:"chaosEnabled"`
	RateLimitEnabled *bool             `json:"rateLimitEnabled" yaml:"rateLimitEnabled"`
	ProviderProfiles map[string]string `json:"providerProfiles" yaml:"providerProfiles"`
}

type EnvLookup func(key string) (string, bool)

type RuntimeOption func(*Runtime)

func WithEnvLookup(lookup EnvLookup) RuntimeOption {
	return func(r *Runtime) {
		if lookup != nil {
			r.lookupEnv = lookup
		}
	}
}

// Runtime holds the process-wide sandbox state: settings, per-provider profile overrides and outcome counters.
// Settings load lazily on first use and stay fixed until Reset.
type Runtime struct {
	mu        sync.Mutex
	lookupEnv EnvLookup
	logger    *zap.Logger
	settings  *Settings
	overrides map[string]string
	counters  map[string]int
}

func NewRuntime(logger *zap.Logger, opts ...RuntimeOption) *Runtime {
	runtime := &Runtime{
		lookupEnv: os.LookupEnv,
		logger:    logging.OrNop(logger),
		overrides: make(map[string]string),
		counters:  make(map[string]int),
	}
	for _, opt := range opts {
		opt(runtime)
	}
	return runtime
}

func (r *Runtime) Settings() Settings {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.loadLocked()
}

func (r *Runtime) ProfileName(providerID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.loadLocked()
	normalized := valueobjects.NormalizeProviderID(providerID)
	if override := r.overrides[normalized]; override != "" {
		return override
	}
	if envProfile, ok := r.lookupEnv(envProfilePrefix + normalized); ok && envProfile != "" {
		return envProfile
	}
	return DefaultProfileName
}

func (r *Runtime) Profile(providerID string) Profile {
	return ResolveProfile(r.ProfileName(providerID))
}

// SetProfile installs a runtime override. Callers validate the profile name first.
func (r *Runtime) SetProfile(providerID, profile string) (string, string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.loadLocked()
	normalized := valueobjects.NormalizeProviderID(providerID)
	r.overrides[normalized] = profile
	return normalized, profile
}

func (r *Runtime) IncrementCounter(providerID string, operation Operation, outcome string) {
	key := valueobjects.NormalizeProviderID(providerID) + ":" + string(operation) + ":" + outcome

	r.mu.Lock()
	defer r.mu.Unlock()

	r.counters[key]++
}

func (r *Runtime) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	settings := r.loadLocked()
	profiles := make(map[string]string, len(catalog))
	for _, name := range ProfileNames() {
		profiles[name] = name
	}
	overrides := make(map[string]string, len(r.overrides))
	for key, value := range r.overrides {
		overrides[key] = value
	}
	counters := make(map[string]int, len(r.counters))
	for key, value := range r.counters {
		counters[key] = value
	}

	return Status{
		Settings:          settings,
		AvailableProfiles: profiles,
		RuntimeOverrides:  overrides,
		Counters:          counters,
	}
}

// Reset drops loaded settings, overrides and counters. The next call reloads from env and file.
func (r *Runtime) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.settings = nil
	r.overrides = make(map[string]string)
	r.counters = make(map[string]int)
}

func (r *Runtime) loadLocked() Settings {
	if r.settings != nil {
		return *r.settings
	}

	configPath, _ := r.lookupEnv(envConfigPath)
	file := r.readConfigFile(configPath)

	seed := float64(DefaultSeed)
	if file.Seed != nil {
		seed = *file.Seed
	}
	chaosEnabled := true
	if file.ChaosEnabled != nil {
		chaosEnabled = *file.ChaosEnabled
	}
	rateLimitEnabled := true
	if file.RateLimitEnabled != nil {
		rateLimitEnabled = *file.RateLimitEnabled
	}

	settings := Settings{
		Seed:             int64(r.envNumber(envSeed, seed)),
		ChaosEnabled:     r.envBool(envChaosEnabled, chaosEnabled),
		RateLimitEnabled: r.envBool(envRateLimitEnabled, rateLimitEnabled),
		ConfigPath:       configPath,
	}

	for providerID, profile := range file.ProviderProfiles {
		r.overrides[valueobjects.NormalizeProviderID(providerID)] = profile
	}

	r.settings = &settings
	return settings
}

func (r *Runtime) readConfigFile(path string) fileConfig {
	var config fileConfig
	if path == "" {
		return config
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			err = yaml.Unmarshal(raw, &config)
		default:
			err = json.Unmarshal(raw, &config)
		}
	}
	if err != nil {
		r.logger.Warn(
			"unable to read sandbox config file, using defaults",
			zap.String("path", path),
			zap.Error(err),
		)
		return fileConfig{}
	}

	return config
}

func (r *Runtime) envBool(key string, fallback bool) bool {
	value, ok := r.lookupEnv(key)
	if !ok {
		return fallback
	}
	return value == "true" || value == "1"
}

func (r *Runtime) envNumber(key string, fallback float64) float64 {
	value, ok := r.lookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsInf(parsed, 0) || math.IsNaN(parsed) {
		return fallback
	}
	return parsed
}
