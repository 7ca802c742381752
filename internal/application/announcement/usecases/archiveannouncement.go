package usecases

import (
	"context"
	"fmt"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/application/announcement/dto"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/domain/announcement"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/errors"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/logger"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/services/markdown"
)

type ArchiveAnnouncementUseCase struct {
	repo      announcement.Repository
	txManager TransactionRunner
	renderer  markdown.Renderer
	logger    logger.Interface
}

func NewArchiveAnnouncementUseCase(
	repo announcement.Repository,
	txManager TransactionRunner,
	renderer markdown.Renderer,
	logger logger.Interface,
) *ArchiveAnnouncementUseCase {
	return &ArchiveAnnouncementUseCase{
		repo:      repo,
		txManager: txManager,
		renderer:  renderer,
		logger:    logger,
	}
}

// Execute archives the announcement. Receipts stay, but archived
// announcements no longer count towards unread badges.
func (uc *ArchiveAnnouncementUseCase) Execute(ctx context.Context, id uint) (*dto.AnnouncementResponse, error) {
	uc.logger.Infow("executing archive announcement use case", "id", id)

	var archived *announcement.Announcement
	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		a, err := uc.repo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return fmt.Errorf("failed to get announcement: %w", err)
		}
		if a == nil {
			return errors.NewNotFoundError("announcement not found")
		}

		archived = a
		if a.Status().IsArchived() {
			return nil
		}
		if err := a.Archive(); err != nil {
			return errors.NewValidationError(err.Error())
		}
		if err := uc.repo.Update(txCtx, a); err != nil {
			return fmt.Errorf("failed to archive announcement: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.IsAppError(err) {
			uc.logger.Warnw("announcement archive rejected", "id", id, "error", err)
		} else {
			uc.logger.Errorw("failed to archive announcement", "id", id, "error", err)
		}
		return nil, err
	}

	uc.logger.Infow("announcement archived successfully", "id", id)
	return dto.ToAnnouncementResponse(archived, uc.renderer), nil
}
