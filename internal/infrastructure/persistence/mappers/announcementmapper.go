package mappers

import (
	"fmt"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/domain/announcement"
	vo "github.com/corredoraunidad/APP-UNIDAD-sub001/internal/domain/announcement/valueobjects"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/infrastructure/persistence/models"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/mapper"
)

type AnnouncementMapper interface {
	ToEntity(model *models.AnnouncementModel, roles []string) (*announcement.Announcement, error)
	ToModel(entity *announcement.Announcement) *models.AnnouncementModel
	ToEntities(modelList []*models.AnnouncementModel, rolesByID map[uint][]string) ([]*announcement.Announcement, error)
	ToRoleModels(entity *announcement.Announcement) []*models.AnnouncementTargetRoleModel
}

type AnnouncementMapperImpl struct{}

func NewAnnouncementMapper() AnnouncementMapper {
	return &AnnouncementMapperImpl{}
}

func (m *AnnouncementMapperImpl) ToEntity(model *models.AnnouncementModel, roles []string) (*announcement.Announcement, error) {
	if model == nil {
		return nil, nil
	}

	priority, err := vo.NewPriority(model.Priority)
	if err != nil {
		return nil, fmt.Errorf("failed to create announcement priority: %w", err)
	}

	status, err := vo.NewStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to create announcement status: %w", err)
	}

	// A row without roles can only come from a partial write; keep it readable.
	var targetRoles vo.TargetRoles
	if len(roles) > 0 {
		targetRoles, err = vo.NewTargetRoles(roles)
		if err != nil {
			return nil, fmt.Errorf("failed to create target roles: %w", err)
		}
	}

	entity, err := announcement.ReconstructAnnouncement(
		model.ID,
		model.Title,
		model.Body,
		priority,
		status,
		targetRoles,
		utcPtr(model.ScheduledAt),
		utcPtr(model.PublishedAt),
		model.CreatedBy,
		model.CreatedAt.UTC(),
		model.UpdatedAt.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct announcement entity: %w", err)
	}

	return entity, nil
}

func (m *AnnouncementMapperImpl) ToModel(entity *announcement.Announcement) *models.AnnouncementModel {
	if entity == nil {
		return nil
	}

	return &models.AnnouncementModel{
		ID:          entity.ID(),
		Title:       entity.Title(),
		Body:        entity.Body(),
		Priority:    entity.Priority().String(),
		Status:      entity.Status().String(),
		ScheduledAt: entity.ScheduledAt(),
		PublishedAt: entity.PublishedAt(),
		CreatedBy:   entity.CreatedBy(),
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}
}

func (m *AnnouncementMapperImpl) ToEntities(modelList []*models.AnnouncementModel, rolesByID map[uint][]string) ([]*announcement.Announcement, error) {
	return mapper.MapSlicePtrWithID(modelList,
		func(model *models.AnnouncementModel) (*announcement.Announcement, error) {
			return m.ToEntity(model, rolesByID[model.ID])
		},
		func(model *models.AnnouncementModel) uint { return model.ID },
	)
}

func (m *AnnouncementMapperImpl) ToRoleModels(entity *announcement.Announcement) []*models.AnnouncementTargetRoleModel {
	return mapper.MapSlice(entity.TargetRoles().Names(), func(role string) *models.AnnouncementTargetRoleModel {
		return &models.AnnouncementTargetRoleModel{
			AnnouncementID: entity.ID(),
			Role:           role,
		}
	})
}
