package use_cases

import (
	"context"

	"freightflow/internal/application/dto"
	portsin "freightflow/internal/application/ports/in"
	valueobjects "freightflow/internal/domain/value_objects"
	apperrors "freightflow/internal/shared_kernel/errors"
)

type getHealthUseCase struct {
	clock Clock
}

func NewGetHealthUseCase(clock Clock) portsin.GetHealthUseCase {
	if clock == nil {
		clock = NewSystemClock()
	}
	return &getHealthUseCase{clock: clock}
}

func (u *getHealthUseCase) Execute(_ context.Context, command dto.GetHealthCommand) (dto.HealthOutput, *apperrors.AppError) {
	status := valueobjects.NewHealthyStatus()

	now := command.Now.UTC()
	if command.Now.IsZero() {
		now = u.clock.NowUTC()
	}

	return dto.HealthOutput{
		Status: status.String(),
		Time:   now,
	}, nil
}
