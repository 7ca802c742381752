package usecases

import (
	"context"
	"fmt"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/domain/announcement"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/logger"
)

type GetUnreadCountUseCase struct {
	recipients announcement.RecipientRepository
	logger     logger.Interface
}

func NewGetUnreadCountUseCase(
	recipients announcement.RecipientRepository,
	logger logger.Interface,
) *GetUnreadCountUseCase {
	return &GetUnreadCountUseCase{
		recipients: recipients,
		logger:     logger,
	}
}

// Execute counts the user's unread receipts of published announcements. The
// value is recomputed on every call.
func (uc *GetUnreadCountUseCase) Execute(ctx context.Context, userID uint) (int64, error) {
	count, err := uc.recipients.CountUnreadForUser(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to count unread announcements", "user_id", userID, "error", err)
		return 0, fmt.Errorf("failed to count unread announcements: %w", err)
	}
	return count, nil
}
