package sandbox

import (
	"freightflow/internal/application/dto"
	portsout "freightflow/internal/application/ports/out"
)

// Admin exposes the runtime to the sandbox admin use cases.
type Admin struct {
	runtime *Runtime
}

var _ portsout.SandboxAdmin = (*Admin)(nil)

func NewAdmin(runtime *Runtime) *Admin {
	return &Admin{runtime: runtime}
}

func (a *Admin) Status() dto.SandboxStatus {
	status := a.runtime.Status()
	return dto.SandboxStatus{
		Settings: dto.SandboxSettings{
			Seed:             status.Settings.Seed,
			ChaosEnabled:     status.Settings.ChaosEnabled,
			RateLimitEnabled: status.Settings.RateLimitEnabled,
			ConfigPath:       status.Settings.ConfigPath,
		},
		AvailableProfiles: status.AvailableProfiles,
		RuntimeOverrides:  status.RuntimeOverrides,
		Counters:          status.Counters,
	}
}

func (a *Admin) IsKnownProfile(profile string) bool {
	return IsKnownProfile(profile)
}

func (a *Admin) SetProfile(providerID, profile string) dto.SetSandboxProfileOutput {
	normalized, applied := a.runtime.SetProfile(providerID, profile)
	return dto.SetSandboxProfileOutput{
		Message:    "Sandbox profile updated",
		ProviderID: normalized,
		Profile:    applied,
	}
}
