package use_cases

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"freightflow/internal/application/dto"
	portsin "freightflow/internal/application/ports/in"
	portsout "freightflow/internal/application/ports/out"
	"freightflow/internal/domain/policies"
	apperrors "freightflow/internal/shared_kernel/errors"
)

func idempotencyRepositoryMissing() *apperrors.AppError {
	return apperrors.NewInternal(
		"idempotency_repository_missing",
		"idempotency repository is required",
		nil,
	)
}

func idempotencyKeyRequired() *apperrors.AppError {
	return apperrors.NewValidation(
		"invalid_request",
		"idempotency key is required",
		map[string]any{"field": "idempotency-key"},
	)
}

type acquireIdempotencyKeyUseCase struct {
	repository        portsout.IdempotencyRepository
	processingTimeout time.Duration
	clock             Clock
}

func NewAcquireIdempotencyKeyUseCase(
	repository portsout.IdempotencyRepository,
	processingTimeout time.Duration,
	clock Clock,
) portsin.AcquireIdempotencyKeyUseCase {
	if processingTimeout <= 0 {
		processingTimeout = policies.DefaultIdempotencyProcessingTimeout
	}
	if clock == nil {
		clock = NewSystemClock()
	}

	return &acquireIdempotencyKeyUseCase{
		repository:        repository,
		processingTimeout: processingTimeout,
		clock:             clock,
	}
}

func (u *acquireIdempotencyKeyUseCase) Execute(
	ctx context.Context,
	command dto.AcquireIdempotencyKeyCommand,
) (dto.AcquireIdempotencyKeyOutput, *apperrors.AppError) {
	if u.repository == nil {
		return dto.AcquireIdempotencyKeyOutput{}, idempotencyRepositoryMissing()
	}

	key := strings.TrimSpace(command.Key)
	if key == "" {
		return dto.AcquireIdempotencyKeyOutput{}, idempotencyKeyRequired()
	}

	now := command.Now.UTC()
	if command.Now.IsZero() {
		now = u.clock.NowUTC()
	}
	payloadHash := HashIdempotencyPayload(command.Payload)

	output := dto.AcquireIdempotencyKeyOutput{}
	appErr := u.repository.WithKeyLock(ctx, key, func(tx portsout.IdempotencyKeyTx) *apperrors.AppError {
		existing, found, findErr := tx.Find(ctx, key)
		if findErr != nil {
			return findErr
		}

		if found {
			if existing.PayloadHash != payloadHash {
				output = dto.AcquireIdempotencyKeyOutput{Outcome: dto.IdempotencyConflict}
				return nil
			}

			if existing.StatusCode == 0 {
				if !policies.IsIdempotencyProcessingStale(existing.CreatedAt, now, u.processingTimeout) {
					output = dto.AcquireIdempotencyKeyOutput{Outcome: dto.IdempotencyConflict}
					return nil
				}
				if deleteErr := tx.Delete(ctx, key); deleteErr != nil {
					return deleteErr
				}
			} else {
				output = dto.AcquireIdempotencyKeyOutput{
					Outcome:      dto.IdempotencyHit,
					ResponseBody: existing.ResponseBody,
					StatusCode:   existing.StatusCode,
				}
				return nil
			}
		}

		if insertErr := tx.Insert(ctx, dto.IdempotencyRecord{
			Key:         key,
			PayloadHash: payloadHash,
			CreatedAt:   now,
		}); insertErr != nil {
			return insertErr
		}
		output = dto.AcquireIdempotencyKeyOutput{Outcome: dto.IdempotencyProceed}
		return nil
	})
	if appErr != nil {
		return dto.AcquireIdempotencyKeyOutput{}, appErr
	}

	return output, nil
}

type completeIdempotencyKeyUseCase struct {
	repository portsout.IdempotencyRepository
}

func NewCompleteIdempotencyKeyUseCase(repository portsout.IdempotencyRepository) portsin.CompleteIdempotencyKeyUseCase {
	return &completeIdempotencyKeyUseCase{repository: repository}
}

func (u *completeIdempotencyKeyUseCase) Execute(ctx context.Context, command dto.CompleteIdempotencyKeyCommand) *apperrors.AppError {
	if u.repository == nil {
		return idempotencyRepositoryMissing()
	}

	key := strings.TrimSpace(command.Key)
	if key == "" {
		return idempotencyKeyRequired()
	}
	if command.StatusCode < 100 || command.StatusCode > 599 {
		return apperrors.NewValidation(
			"invalid_request",
			"status code must be a valid HTTP status",
			map[string]any{"status_code": command.StatusCode},
		)
	}

	body := command.ResponseBody
	if len(body) == 0 || !json.Valid(body) {
		body = json.RawMessage("null")
	}

	return u.repository.Finish(ctx, key, body, command.StatusCode)
}

type releaseIdempotencyKeyUseCase struct {
	repository portsout.IdempotencyRepository
}

func NewReleaseIdempotencyKeyUseCase(repository portsout.IdempotencyRepository) portsin.ReleaseIdempotencyKeyUseCase {
	return &releaseIdempotencyKeyUseCase{repository: repository}
}

func (u *releaseIdempotencyKeyUseCase) Execute(ctx context.Context, command dto.ReleaseIdempotencyKeyCommand) *apperrors.AppError {
	if u.repository == nil {
		return idempotencyRepositoryMissing()
	}

	key := strings.TrimSpace(command.Key)
	if key == "" {
		return idempotencyKeyRequired()
	}

	return u.repository.Abandon(ctx, key)
}
