package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/application/announcement/dto"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/domain/announcement"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/errors"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/logger"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/services/markdown"
)

type PublishAnnouncementUseCase struct {
	repo      announcement.Repository
	txManager TransactionRunner
	fanout    *FanoutRecipientsUseCase
	renderer  markdown.Renderer
	logger    logger.Interface
}

func NewPublishAnnouncementUseCase(
	repo announcement.Repository,
	txManager TransactionRunner,
	fanout *FanoutRecipientsUseCase,
	renderer markdown.Renderer,
	logger logger.Interface,
) *PublishAnnouncementUseCase {
	return &PublishAnnouncementUseCase{
		repo:      repo,
		txManager: txManager,
		fanout:    fanout,
		renderer:  renderer,
		logger:    logger,
	}
}

// Execute publishes the announcement and runs one fan-out in the same
// transaction. Publishing an already published announcement re-runs the
// add-only fan-out and succeeds.
func (uc *PublishAnnouncementUseCase) Execute(ctx context.Context, id uint) (*dto.AnnouncementResponse, *dto.FanoutResult, error) {
	uc.logger.Infow("executing publish announcement use case", "id", id)

	var (
		published *announcement.Announcement
		result    *dto.FanoutResult
	)
	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		a, err := uc.repo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return fmt.Errorf("failed to get announcement: %w", err)
		}
		if a == nil {
			return errors.NewNotFoundError("announcement not found")
		}

		result, err = uc.publish(txCtx, a)
		if err != nil {
			return err
		}
		published = a
		return nil
	})
	if err != nil {
		if errors.IsAppError(err) {
			uc.logger.Warnw("announcement publish rejected", "id", id, "error", err)
		} else {
			uc.logger.Errorw("failed to publish announcement", "id", id, "error", err)
		}
		return nil, nil, err
	}

	uc.logger.Infow("announcement published successfully",
		"id", id,
		"recipients_created", result.Created,
	)
	return dto.ToAnnouncementResponse(published, uc.renderer), result, nil
}

// ExecuteScheduled publishes a scheduled draft. The row is re-read under lock,
// so an announcement archived, rescheduled or deleted after the scheduler
// loaded it is left alone and published reports false.
func (uc *PublishAnnouncementUseCase) ExecuteScheduled(ctx context.Context, id uint, now time.Time) (result *dto.FanoutResult, published bool, err error) {
	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		a, err := uc.repo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return fmt.Errorf("failed to get announcement: %w", err)
		}
		if a == nil || !a.IsDueForPublication(now) {
			return nil
		}

		result, err = uc.publish(txCtx, a)
		if err != nil {
			return err
		}
		published = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return result, published, nil
}

func (uc *PublishAnnouncementUseCase) publish(ctx context.Context, a *announcement.Announcement) (*dto.FanoutResult, error) {
	wasPublished := a.Status().IsPublished()
	if err := a.Publish(); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if !wasPublished {
		if err := uc.repo.Update(ctx, a); err != nil {
			return nil, fmt.Errorf("failed to update announcement: %w", err)
		}
	}
	return uc.fanout.Distribute(ctx, a)
}
