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

type GetAnnouncementUseCase struct {
	repo       announcement.Repository
	recipients announcement.RecipientRepository
	renderer   markdown.Renderer
	logger     logger.Interface
}

func NewGetAnnouncementUseCase(
	repo announcement.Repository,
	recipients announcement.RecipientRepository,
	renderer markdown.Renderer,
	logger logger.Interface,
) *GetAnnouncementUseCase {
	return &GetAnnouncementUseCase{
		repo:       repo,
		recipients: recipients,
		renderer:   renderer,
		logger:     logger,
	}
}

// Execute returns the announcement with the viewer's read state and receipt totals.
func (uc *GetAnnouncementUseCase) Execute(ctx context.Context, id, viewerID uint) (*dto.AnnouncementDetailResponse, error) {
	a, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		uc.logger.Errorw("failed to get announcement", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get announcement: %w", err)
	}
	if a == nil {
		uc.logger.Warnw("announcement not found", "id", id)
		return nil, errors.NewNotFoundError("announcement not found")
	}

	resp := &dto.AnnouncementDetailResponse{
		AnnouncementResponse: dto.ToAnnouncementResponse(a, uc.renderer),
	}

	if viewerID != 0 {
		receipt, err := uc.recipients.FindReceipt(ctx, id, viewerID)
		if err != nil {
			return nil, fmt.Errorf("failed to get receipt: %w", err)
		}
		if receipt != nil {
			isRead := receipt.IsRead()
			resp.IsRead = &isRead
		}
	}

	stats, err := uc.recipients.Stats(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt stats: %w", err)
	}
	resp.RecipientsTotal = stats.Total
	resp.RecipientsRead = stats.Read
	resp.RecipientsUnread = stats.Unread()

	return resp, nil
}
