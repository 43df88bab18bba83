package in

import (
	"context"

	"freightflow/internal/application/dto"
	apperrors "freightflow/internal/shared_kernel/errors"
)

type CreateLabelUseCase interface {
	Execute(ctx context.Context, command dto.CreateLabelCommand) (dto.LabelOutput, *apperrors.AppError)
}
