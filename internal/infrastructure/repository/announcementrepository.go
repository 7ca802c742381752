package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/domain/announcement"
	vo "github.com/corredoraunidad/APP-UNIDAD-sub001/internal/domain/announcement/valueobjects"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/infrastructure/persistence/mappers"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/infrastructure/persistence/models"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/db"
	apperrors "github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/errors"
)

const (
	colAnnouncementID        = "announcements.id"
	colAnnouncementCreatedAt = "announcements.created_at"
)

type AnnouncementRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.AnnouncementMapper
}

func NewAnnouncementRepository(gdb *gorm.DB) announcement.Repository {
	return &AnnouncementRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewAnnouncementMapper(),
	}
}

func (r *AnnouncementRepositoryImpl) Create(ctx context.Context, a *announcement.Announcement) error {
	tx := db.GetTxFromContext(ctx, r.db)
	model := r.mapper.ToModel(a)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create announcement: %w", err)
	}

	if err := a.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set announcement ID: %w", err)
	}

	if err := r.insertRoles(tx, a); err != nil {
		return err
	}

	a.MarkPersisted()
	return nil
}

func (r *AnnouncementRepositoryImpl) GetByID(ctx context.Context, id uint) (*announcement.Announcement, error) {
	return r.getByID(db.GetTxFromContext(ctx, r.db), id)
}

func (r *AnnouncementRepositoryImpl) GetByIDForUpdate(ctx context.Context, id uint) (*announcement.Announcement, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	return r.getByID(tx.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *AnnouncementRepositoryImpl) getByID(tx *gorm.DB, id uint) (*announcement.Announcement, error) {
	var model models.AnnouncementModel
	if err := tx.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get announcement by ID: %w", err)
	}

	roles, err := r.loadRoles(tx.Session(&gorm.Session{NewDB: true}), []uint{model.ID})
	if err != nil {
		return nil, err
	}

	entity, err := r.mapper.ToEntity(&model, roles[model.ID])
	if err != nil {
		return nil, fmt.Errorf("failed to map announcement model to entity: %w", err)
	}
	return entity, nil
}

// Update writes every scalar column. Target roles are deleted and reinserted
// when the entity reports a new set.
func (r *AnnouncementRepositoryImpl) Update(ctx context.Context, a *announcement.Announcement) error {
	tx := db.GetTxFromContext(ctx, r.db)
	model := r.mapper.ToModel(a)

	err := tx.Model(&models.AnnouncementModel{}).
		Where("id = ?", a.ID()).
		Updates(map[string]interface{}{
			"title":        model.Title,
			"body":         model.Body,
			"priority":     model.Priority,
			"status":       model.Status,
			"scheduled_at": model.ScheduledAt,
			"published_at": model.PublishedAt,
			"updated_at":   model.UpdatedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update announcement: %w", err)
	}

	if a.TargetRolesChanged() {
		if err := tx.Where("announcement_id = ?", a.ID()).
			Delete(&models.AnnouncementTargetRoleModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear target roles: %w", err)
		}
		if err := r.insertRoles(tx, a); err != nil {
			return err
		}
	}

	a.MarkPersisted()
	return nil
}

func (r *AnnouncementRepositoryImpl) Delete(ctx context.Context, id uint) error {
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("announcement_id = ?", id).
		Delete(&models.AnnouncementTargetRoleModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete target roles: %w", err)
	}

	result := tx.Delete(&models.AnnouncementModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete announcement: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("announcement not found")
	}
	return nil
}

func (r *AnnouncementRepositoryImpl) List(ctx context.Context, filter announcement.ListFilter) ([]*announcement.Announcement, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	query := r.applyFilter(tx.Model(&models.AnnouncementModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count announcements: %w", err)
	}
	if total == 0 {
		return []*announcement.Announcement{}, 0, nil
	}

	var modelList []*models.AnnouncementModel
	err := query.
		Select("announcements.*").
		Order(colAnnouncementCreatedAt + " DESC").
		Order(colAnnouncementID + " DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&modelList).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list announcements: %w", err)
	}

	entities, err := r.toEntities(tx, modelList)
	if err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}

func (r *AnnouncementRepositoryImpl) FindDueScheduled(ctx context.Context, now time.Time, limit int) ([]*announcement.Announcement, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var modelList []*models.AnnouncementModel
	err := tx.
		Where("status = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?", "draft", now.UTC()).
		Order("scheduled_at ASC").
		Order("id ASC").
		Limit(limit).
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find scheduled announcements: %w", err)
	}

	return r.toEntities(tx, modelList)
}

func (r *AnnouncementRepositoryImpl) applyFilter(query *gorm.DB, filter announcement.ListFilter) *gorm.DB {
	if filter.Priority != nil {
		query = query.Where("announcements.priority = ?", filter.Priority.String())
	}
	if filter.Status != nil {
		query = query.Where("announcements.status = ?", filter.Status.String())
	}
	query = query.Scopes(
		db.ContainsAny(filter.Search, "announcements.title", "announcements.body"),
		db.CreatedBetween(colAnnouncementCreatedAt, filter.CreatedFrom, filter.CreatedTo),
	)
	if filter.UnreadOnly {
		query = query.Joins(
			"JOIN announcement_recipients ON announcement_recipients.announcement_id = announcements.id "+
				"AND announcement_recipients.user_id = ? AND announcement_recipients.is_read = ?",
			filter.ViewerID, false,
		).Where("announcements.status = ?", vo.StatusPublished.String())
	}
	return query
}

func (r *AnnouncementRepositoryImpl) toEntities(tx *gorm.DB, modelList []*models.AnnouncementModel) ([]*announcement.Announcement, error) {
	ids := make([]uint, len(modelList))
	for i, m := range modelList {
		ids[i] = m.ID
	}

	roles, err := r.loadRoles(tx, ids)
	if err != nil {
		return nil, err
	}

	entities, err := r.mapper.ToEntities(modelList, roles)
	if err != nil {
		return nil, fmt.Errorf("failed to map announcement models to entities: %w", err)
	}
	return entities, nil
}

func (r *AnnouncementRepositoryImpl) loadRoles(tx *gorm.DB, ids []uint) (map[uint][]string, error) {
	result := make(map[uint][]string, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var rows []models.AnnouncementTargetRoleModel
	if err := tx.Where("announcement_id IN ?", ids).Order("role ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load target roles: %w", err)
	}
	for _, row := range rows {
		result[row.AnnouncementID] = append(result[row.AnnouncementID], row.Role)
	}
	return result, nil
}

func (r *AnnouncementRepositoryImpl) insertRoles(tx *gorm.DB, a *announcement.Announcement) error {
	roles := r.mapper.ToRoleModels(a)
	if len(roles) == 0 {
		return nil
	}
	if err := tx.Create(roles).Error; err != nil {
		return fmt.Errorf("failed to save target roles: %w", err)
	}
	return nil
}
