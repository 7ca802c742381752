package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/application/announcement/dto"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/domain/announcement"
	vo "github.com/corredoraunidad/APP-UNIDAD-sub001/internal/domain/announcement/valueobjects"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/biztime"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/errors"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/logger"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/services/markdown"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/utils"
)

type ListAnnouncementsUseCase struct {
	repo       announcement.Repository
	recipients announcement.RecipientRepository
	renderer   markdown.Renderer
	logger     logger.Interface
}

func NewListAnnouncementsUseCase(
	repo announcement.Repository,
	recipients announcement.RecipientRepository,
	renderer markdown.Renderer,
	logger logger.Interface,
) *ListAnnouncementsUseCase {
	return &ListAnnouncementsUseCase{
		repo:       repo,
		recipients: recipients,
		renderer:   renderer,
		logger:     logger,
	}
}

// Execute returns one page, newest first, with is_read filled for the viewer.
func (uc *ListAnnouncementsUseCase) Execute(ctx context.Context, req dto.ListAnnouncementsRequest) (*dto.ListAnnouncementsResponse, error) {
	page, err := utils.NormalizePagination(req.Page, req.Limit)
	if err != nil {
		return nil, err
	}

	filter, err := buildListFilter(req)
	if err != nil {
		return nil, err
	}
	filter.Offset = page.Offset()
	filter.Limit = page.Limit

	items, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list announcements", "error", err)
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}

	readStates := map[uint]bool{}
	if req.ViewerID != 0 && len(items) > 0 {
		ids := make([]uint, 0, len(items))
		for _, a := range items {
			ids = append(ids, a.ID())
		}
		readStates, err = uc.recipients.ReadStates(ctx, req.ViewerID, ids)
		if err != nil {
			uc.logger.Errorw("failed to load read states", "user_id", req.ViewerID, "error", err)
			return nil, fmt.Errorf("failed to load read states: %w", err)
		}
	}

	responses := dto.ToAnnouncementResponses(items, uc.renderer, readStates)
	if responses == nil {
		responses = []*dto.AnnouncementResponse{}
	}

	return &dto.ListAnnouncementsResponse{
		Items:   responses,
		Total:   total,
		Page:    page.Page,
		Limit:   page.Limit,
		HasMore: page.HasMore(total),
	}, nil
}

func buildListFilter(req dto.ListAnnouncementsRequest) (announcement.ListFilter, error) {
	filter := announcement.ListFilter{
		Search:     strings.TrimSpace(req.Search),
		ViewerID:   req.ViewerID,
		UnreadOnly: req.UnreadOnly,
	}

	if req.Priority != "" {
		p, err := vo.NewPriority(req.Priority)
		if err != nil {
			return filter, errors.NewValidationError(err.Error())
		}
		filter.Priority = &p
	}
	if req.Status != "" {
		s, err := vo.NewStatus(req.Status)
		if err != nil {
			return filter, errors.NewValidationError(err.Error())
		}
		filter.Status = &s
	}

	if req.CreatedFrom != "" {
		from, err := biztime.ParseDateStartUTC(req.CreatedFrom)
		if err != nil {
			return filter, errors.NewValidationError("invalid created_from", err.Error())
		}
		filter.CreatedFrom = &from
	}
	if req.CreatedTo != "" {
		to, err := biztime.ParseDateEndUTC(req.CreatedTo)
		if err != nil {
			return filter, errors.NewValidationError("invalid created_to", err.Error())
		}
		filter.CreatedTo = &to
	}
	if filter.CreatedFrom != nil && filter.CreatedTo != nil && filter.CreatedFrom.After(*filter.CreatedTo) {
		return filter, errors.NewValidationError("created_from must not be after created_to")
	}

	if filter.UnreadOnly && filter.ViewerID == 0 {
		return filter, errors.NewValidationError("unread_only requires an authenticated viewer")
	}
	return filter, nil
}
