package dto

type GetSandboxStatusQuery struct{}

type SandboxSettings struct {
	Seed             int64  `json:"seed"`
	ChaosEnabled     bool   `json:"chaosEnabled"`
	RateLimitEnabled bool   `json:"rateLimitEnabled"`
	ConfigPath       string `json:"configPath,omitempty"`
}

type SandboxStatus struct {
	Settings          SandboxSettings   `json:"settings"`
	AvailableProfiles map[string]string `json:"availableProfiles"`
	RuntimeOverrides  map[string]string `json:"runtimeOverrides"`
	Counters          map[string]int    `json:"counters"`
}

type SetSandboxProfileCommand struct {
	ProviderID string
	Profile    string `json:"profile"`
}

type SetSandboxProfileOutput struct {
	Message    string `json:"message"`
	ProviderID string `json:"providerId"`
	Profile    string `json:"profile"`
}
