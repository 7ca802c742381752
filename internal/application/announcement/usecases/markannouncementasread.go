package usecases

import (
	"context"
	"fmt"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/domain/announcement"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/biztime"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/errors"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/logger"
)

// MarkAnnouncementAsReadUseCase flips the caller's receipt to read.
type MarkAnnouncementAsReadUseCase struct {
	recipients announcement.RecipientRepository
	logger     logger.Interface
}

func NewMarkAnnouncementAsReadUseCase(
	recipients announcement.RecipientRepository,
	logger logger.Interface,
) *MarkAnnouncementAsReadUseCase {
	return &MarkAnnouncementAsReadUseCase{
		recipients: recipients,
		logger:     logger,
	}
}

// Execute is idempotent: a receipt already read keeps its first read_at. A
// user without a receipt gets a not found error.
func (uc *MarkAnnouncementAsReadUseCase) Execute(ctx context.Context, userID, announcementID uint) error {
	updated, err := uc.recipients.MarkRead(ctx, announcementID, userID, biztime.NowUTC())
	if err != nil {
		uc.logger.Errorw("failed to mark announcement as read",
			"user_id", userID,
			"announcement_id", announcementID,
			"error", err,
		)
		return fmt.Errorf("failed to mark announcement as read: %w", err)
	}
	if updated {
		uc.logger.Infow("announcement marked as read", "user_id", userID, "announcement_id", announcementID)
		return nil
	}

	exists, err := uc.recipients.Exists(ctx, announcementID, userID)
	if err != nil {
		return fmt.Errorf("failed to check receipt: %w", err)
	}
	if !exists {
		uc.logger.Warnw("no receipt for user",
			"user_id", userID,
			"announcement_id", announcementID,
		)
		return errors.NewNotFoundError("announcement receipt not found")
	}
	return nil
}
