package use_cases

import (
	"context"
	"fmt"

	"freightflow/internal/application/dto"
	portsin "freightflow/internal/application/ports/in"
	portsout "freightflow/internal/application/ports/out"
	valueobjects "freightflow/internal/domain/value_objects"
	apperrors "freightflow/internal/shared_kernel/errors"
)

func sandboxAdminMissing() *apperrors.AppError {
	return apperrors.NewInternal(
		"sandbox_admin_missing",
		"sandbox admin is required",
		nil,
	)
}

type getSandboxStatusUseCase struct {
	admin portsout.SandboxAdmin
}

func NewGetSandboxStatusUseCase(admin portsout.SandboxAdmin) portsin.GetSandboxStatusUseCase {
	return &getSandboxStatusUseCase{admin: admin}
}

func (u *getSandboxStatusUseCase) Execute(_ context.Context, _ dto.GetSandboxStatusQuery) (dto.SandboxStatus, *apperrors.AppError) {
	if u.admin == nil {
		return dto.SandboxStatus{}, sandboxAdminMissing()
	}
	return u.admin.Status(), nil
}

type setSandboxProfileUseCase struct {
	admin     portsout.SandboxAdmin
	directory portsout.CarrierDirectory
}

func NewSetSandboxProfileUseCase(admin portsout.SandboxAdmin, directory portsout.CarrierDirectory) portsin.SetSandboxProfileUseCase {
	return &setSandboxProfileUseCase{
		admin:     admin,
		directory: directory,
	}
}

// Execute accepts registered carriers plus the synthetic WEBHOOK provider.
func (u *setSandboxProfileUseCase) Execute(
	_ context.Context,
	command dto.SetSandboxProfileCommand,
) (dto.SetSandboxProfileOutput, *apperrors.AppError) {
	if u.admin == nil {
		return dto.SetSandboxProfileOutput{}, sandboxAdminMissing()
	}
	if u.directory == nil {
		return dto.SetSandboxProfileOutput{}, carrierDirectoryMissing()
	}

	providerID := valueobjects.NormalizeProviderID(command.ProviderID)
	if providerID != valueobjects.ProviderWebhook {
		if _, appErr := u.directory.Provider(providerID); appErr != nil {
			return dto.SetSandboxProfileOutput{}, appErr
		}
	}

	if !u.admin.IsKnownProfile(command.Profile) {
		return dto.SetSandboxProfileOutput{}, apperrors.NewValidation(
			"sandbox_profile_unknown",
			fmt.Sprintf("Unknown sandbox profile %s", command.Profile),
			map[string]any{"profile": command.Profile},
		)
	}

	return u.admin.SetProfile(providerID, command.Profile), nil
}
