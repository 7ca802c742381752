package usecases

import (
	"context"
	"fmt"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/domain/announcement"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/errors"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/logger"
)

type DeleteAnnouncementUseCase struct {
	repo       announcement.Repository
	recipients announcement.RecipientRepository
	txManager  TransactionRunner
	logger     logger.Interface
}

func NewDeleteAnnouncementUseCase(
	repo announcement.Repository,
	recipients announcement.RecipientRepository,
	txManager TransactionRunner,
	logger logger.Interface,
) *DeleteAnnouncementUseCase {
	return &DeleteAnnouncementUseCase{
		repo:       repo,
		recipients: recipients,
		txManager:  txManager,
		logger:     logger,
	}
}

// Execute removes the announcement with its target roles and receipts.
func (uc *DeleteAnnouncementUseCase) Execute(ctx context.Context, id uint) error {
	uc.logger.Infow("executing delete announcement use case", "id", id)

	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		a, err := uc.repo.GetByID(txCtx, id)
		if err != nil {
			return fmt.Errorf("failed to get announcement: %w", err)
		}
		if a == nil {
			return errors.NewNotFoundError("announcement not found")
		}

		if err := uc.recipients.DeleteByAnnouncement(txCtx, id); err != nil {
			return fmt.Errorf("failed to delete receipts: %w", err)
		}
		if err := uc.repo.Delete(txCtx, id); err != nil {
			if errors.IsNotFoundError(err) {
				return err
			}
			return fmt.Errorf("failed to delete announcement: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.IsNotFoundError(err) {
			uc.logger.Warnw("announcement not found", "id", id)
		} else {
			uc.logger.Errorw("failed to delete announcement", "id", id, "error", err)
		}
		return err
	}

	uc.logger.Infow("announcement deleted successfully", "id", id)
	return nil
}
