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

type UpdateAnnouncementUseCase struct {
	repo      announcement.Repository
	txManager TransactionRunner
	fanout    *FanoutRecipientsUseCase
	renderer  markdown.Renderer
	logger    logger.Interface
}

func NewUpdateAnnouncementUseCase(
	repo announcement.Repository,
	txManager TransactionRunner,
	fanout *FanoutRecipientsUseCase,
	renderer markdown.Renderer,
	logger logger.Interface,
) *UpdateAnnouncementUseCase {
	return &UpdateAnnouncementUseCase{
		repo:      repo,
		txManager: txManager,
		fanout:    fanout,
		renderer:  renderer,
		logger:    logger,
	}
}

// Execute applies the supplied fields in one transaction. Fan-out runs when
// the result is published and either the status moved into published or the
// target roles were replaced; content-only edits never fan out again.
func (uc *UpdateAnnouncementUseCase) Execute(ctx context.Context, id uint, req dto.UpdateAnnouncementRequest) (*dto.AnnouncementResponse, error) {
	uc.logger.Infow("executing update announcement use case", "id", id)

	var updated *announcement.Announcement
	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		a, err := uc.repo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return fmt.Errorf("failed to get announcement: %w", err)
		}
		if a == nil {
			return errors.NewNotFoundError("announcement not found")
		}

		enteredPublished, rolesReplaced, err := applyUpdate(a, req)
		if err != nil {
			return err
		}

		if err := uc.repo.Update(txCtx, a); err != nil {
			return fmt.Errorf("failed to update announcement: %w", err)
		}

		if a.Status().IsPublished() && (enteredPublished || rolesReplaced) {
			if _, err := uc.fanout.Distribute(txCtx, a); err != nil {
				return err
			}
		}

		updated = a
		return nil
	})
	if err != nil {
		if errors.IsAppError(err) {
			uc.logger.Warnw("announcement update rejected", "id", id, "error", err)
		} else {
			uc.logger.Errorw("failed to update announcement", "id", id, "error", err)
		}
		return nil, err
	}

	uc.logger.Infow("announcement updated successfully", "id", id, "status", updated.Status())
	return dto.ToAnnouncementResponse(updated, uc.renderer), nil
}

func applyUpdate(a *announcement.Announcement, req dto.UpdateAnnouncementRequest) (enteredPublished, rolesReplaced bool, err error) {
	if req.Title != nil {
		if err := a.UpdateTitle(*req.Title); err != nil {
			return false, false, errors.NewValidationError(err.Error())
		}
	}
	if req.Body != nil {
		if err := a.UpdateBody(*req.Body); err != nil {
			return false, false, errors.NewValidationError(err.Error())
		}
	}
	if req.Priority != nil {
		p, err := vo.NewPriority(*req.Priority)
		if err != nil {
			return false, false, errors.NewValidationError(err.Error())
		}
		if err := a.ChangePriority(p); err != nil {
			return false, false, errors.NewValidationError(err.Error())
		}
	}
	switch {
	case req.ClearScheduledAt:
		a.Reschedule(nil)
	case req.ScheduledAt != nil:
		a.Reschedule(req.ScheduledAt)
	}
	if req.TargetRoles != nil {
		roles, err := vo.NewTargetRoles(*req.TargetRoles)
		if err != nil {
			return false, false, errors.NewValidationError(err.Error())
		}
		if err := a.ReplaceTargetRoles(roles); err != nil {
			return false, false, errors.NewValidationError(err.Error())
		}
		rolesReplaced = a.TargetRolesChanged()
	}
	if req.Status != nil {
		s, err := vo.NewStatus(*req.Status)
		if err != nil {
			return false, false, errors.NewValidationError(err.Error())
		}
		enteredPublished, err = a.ChangeStatus(s)
		if err != nil {
			return false, false, errors.NewValidationError(err.Error())
		}
	}
	return enteredPublished, rolesReplaced, nil
}
