package usecases

import (
	"context"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/application/announcement/dto"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/errors"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/logger"
)

// ViewAnnouncementUseCase opens an announcement for a user: it marks the
// user's receipt read and returns the detail together with the fresh badge
// count, so the client can update without waiting for a push.
type ViewAnnouncementUseCase struct {
	get      *GetAnnouncementUseCase
	markRead *MarkAnnouncementAsReadUseCase
	unread   *GetUnreadCountUseCase
	logger   logger.Interface
}

func NewViewAnnouncementUseCase(
	get *GetAnnouncementUseCase,
	markRead *MarkAnnouncementAsReadUseCase,
	unread *GetUnreadCountUseCase,
	logger logger.Interface,
) *ViewAnnouncementUseCase {
	return &ViewAnnouncementUseCase{
		get:      get,
		markRead: markRead,
		unread:   unread,
		logger:   logger,
	}
}

// Execute succeeds for users outside the audience; nothing is recorded for them.
func (uc *ViewAnnouncementUseCase) Execute(ctx context.Context, id, userID uint) (*dto.AnnouncementDetailResponse, error) {
	if err := uc.markRead.Execute(ctx, userID, id); err != nil && !errors.IsNotFoundError(err) {
		return nil, err
	}

	resp, err := uc.get.Execute(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	count, err := uc.unread.Execute(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp.UnreadCount = &count

	uc.logger.Debugw("announcement viewed", "id", id, "user_id", userID, "unread_count", count)
	return resp, nil
}
