package use_cases

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"freightflow/internal/application/dto"
	portsin "freightflow/internal/application/ports/in"
	portsout "freightflow/internal/application/ports/out"
	"freightflow/internal/domain/entities"
	apperrors "freightflow/internal/shared_kernel/errors"
	"freightflow/internal/shared_kernel/logging"
)

type getQuotesUseCase struct {
	directory portsout.CarrierDirectory
	logger    *zap.Logger
}

func NewGetQuotesUseCase(directory portsout.CarrierDirectory, logger *zap.Logger) portsin.GetQuotesUseCase {
	return &getQuotesUseCase{
		directory: directory,
		logger:    logging.OrNop(logger),
	}
}

// Execute asks every carrier concurrently. Partial failure is intended: a carrier that
// fails contributes no quotes. Cancellation of the caller's context aborts the whole
// fan-out and is the only error the group reports.
func (u *getQuotesUseCase) Execute(ctx context.Context, input dto.ShipmentRequestInput) (dto.GetQuotesOutput, *apperrors.AppError) {
	if u.directory == nil {
		return dto.GetQuotesOutput{}, carrierDirectoryMissing()
	}

	request, appErr := normalizeShipmentRequest(input)
	if appErr != nil {
		return dto.GetQuotesOutput{}, appErr
	}

	providers := u.directory.Providers()
	results := make([][]entities.Quote, len(providers))

	group, groupCtx := errgroup.WithContext(ctx)
	for index, provider := range providers {
		group.Go(func() error {
			quotes, err := provider.Quote(groupCtx, request)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				fields := append(logging.FieldsFromContext(ctx), zap.String("provider_id", provider.ID()), zap.Error(err))
				u.logger.Warn("provider quote failed", fields...)
				return nil
			}
			results[index] = quotes
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return dto.GetQuotesOutput{}, apperrors.NewUnavailable(
			"quotes_cancelled",
			"quote request was cancelled before every carrier answered",
			map[string]any{"error": err.Error()},
		)
	}

	output := dto.GetQuotesOutput{Quotes: []dto.QuoteOutput{}}
	for _, quotes := range results {
		for _, quote := range quotes {
			output.Quotes = append(output.Quotes, dto.QuoteOutput{
				ProviderID:    quote.ProviderID,
				ServiceName:   quote.ServiceName,
				Price:         quote.Price,
				Currency:      quote.Currency,
				EstimatedDays: quote.EstimatedDays,
			})
		}
	}

	return output, nil
}
