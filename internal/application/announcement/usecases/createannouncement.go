package usecases

import (
	"context"
	"fmt"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/application/announcement/dto"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/domain/announcement"
	vo "github.com/corredoraunidad/APP-UNIDAD-sub001/internal/domain/announcement/valueobjects"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/errors"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/logger"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/services/markdown"
)

type CreateAnnouncementUseCase struct {
	repo      announcement.Repository
	txManager TransactionRunner
	fanout    *FanoutRecipientsUseCase
	events    EventPublisher
	renderer  markdown.Renderer
	logger    logger.Interface
}

func NewCreateAnnouncementUseCase(
	repo announcement.Repository,
	txManager TransactionRunner,
	fanout *FanoutRecipientsUseCase,
	events EventPublisher,
	renderer markdown.Renderer,
	logger logger.Interface,
) *CreateAnnouncementUseCase {
	return &CreateAnnouncementUseCase{
		repo:      repo,
		txManager: txManager,
		fanout:    fanout,
		events:    events,
		renderer:  renderer,
		logger:    logger,
	}
}

// Execute persists the announcement with its target roles. A published
// announcement is fanned out in the same transaction. The created event is
// sent after commit; a feed failure is logged and does not fail the request.
func (uc *CreateAnnouncementUseCase) Execute(ctx context.Context, req dto.CreateAnnouncementRequest) (*dto.AnnouncementResponse, error) {
	uc.logger.Infow("executing create announcement use case", "title", req.Title, "created_by", req.CreatedBy)

	a, err := uc.buildAnnouncement(req)
	if err != nil {
		uc.logger.Warnw("invalid announcement", "error", err)
		return nil, err
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.repo.Create(txCtx, a); err != nil {
			return fmt.Errorf("failed to save announcement: %w", err)
		}
		if a.Status().IsPublished() {
			if _, err := uc.fanout.Distribute(txCtx, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to create announcement", "error", err)
		return nil, err
	}

	if uc.events != nil {
		if err := uc.events.PublishCreated(ctx, announcement.NewCreatedEvent(a)); err != nil {
			uc.logger.Warnw("failed to publish announcement created event",
				"announcement_id", a.ID(),
				"error", err,
			)
		}
	}

	uc.logger.Infow("announcement created successfully", "id", a.ID(), "status", a.Status())
	return dto.ToAnnouncementResponse(a, uc.renderer), nil
}

func (uc *CreateAnnouncementUseCase) buildAnnouncement(req dto.CreateAnnouncementRequest) (*announcement.Announcement, error) {
	status := vo.StatusDraft
	if req.Status != "" {
		s, err := vo.NewStatus(req.Status)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		status = s
	}
	if !status.IsCreatable() {
		return nil, errors.NewValidationError(fmt.Sprintf("cannot create announcement with status %s", status))
	}

	priority, err := vo.NewPriority(req.Priority)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	roles, err := vo.NewTargetRoles(req.TargetRoles)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	a, err := announcement.NewAnnouncement(req.Title, req.Body, priority, roles, req.CreatedBy, req.ScheduledAt)
	if err != nil {
		return nil, errors.NewValidationError(fmt.Sprintf("failed to create announcement: %v", err))
	}

	if status.IsPublished() {
		if err := a.Publish(); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}
	return a, nil
}
