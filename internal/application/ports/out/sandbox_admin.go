package out

import "freightflow/internal/application/dto"

type SandboxAdmin interface {
	Status() dto.SandboxStatus
	IsKnownProfile(profile string) bool
	SetProfile(providerID, profile string) dto.SetSandboxProfileOutput
}
