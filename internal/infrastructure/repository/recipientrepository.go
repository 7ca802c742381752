package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/domain/announcement"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/infrastructure/persistence/mappers"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/infrastructure/persistence/models"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/biztime"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/db"
	apperrors "github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/errors"
)

type RecipientRepositoryImpl struct {
	db *gorm.DB
}

func NewRecipientRepository(gdb *gorm.DB) announcement.RecipientRepository {
	return &RecipientRepositoryImpl{db: gdb}
}

// InsertIfAbsent relies on the (announcement_id, user_id) unique key. MySQL
// renders DoNothing as ON DUPLICATE KEY UPDATE id=id, which reports zero
// affected rows for an existing receipt, as does SQLite's ON CONFLICT DO NOTHING.
func (r *RecipientRepositoryImpl) InsertIfAbsent(ctx context.Context, announcementID, userID uint) (bool, error) {
	model := &models.AnnouncementRecipientModel{
		AnnouncementID: announcementID,
		UserID:         userID,
		IsRead:         false,
		CreatedAt:      biztime.NowUTC(),
	}

	result := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "announcement_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(model)
	if result.Error != nil {
		if apperrors.IsDuplicateError(result.Error) || errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return false, apperrors.NewConflictError("receipt already exists")
		}
		return false, fmt.Errorf("failed to insert receipt: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

func (r *RecipientRepositoryImpl) MarkRead(ctx context.Context, announcementID, userID uint, at time.Time) (bool, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.AnnouncementRecipientModel{}).
		Where("announcement_id = ? AND user_id = ? AND is_read = ?", announcementID, userID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": at.UTC(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark receipt as read: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *RecipientRepositoryImpl) Exists(ctx context.Context, announcementID, userID uint) (bool, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.AnnouncementRecipientModel{}).
		Where("announcement_id = ? AND user_id = ?", announcementID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check receipt: %w", err)
	}
	return count > 0, nil
}

func (r *RecipientRepositoryImpl) FindReceipt(ctx context.Context, announcementID, userID uint) (*announcement.Recipient, error) {
	var model models.AnnouncementRecipientModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("announcement_id = ? AND user_id = ?", announcementID, userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}
	return mappers.RecipientToEntity(&model), nil
}

func (r *RecipientRepositoryImpl) ReadStates(ctx context.Context, userID uint, announcementIDs []uint) (map[uint]bool, error) {
	if len(announcementIDs) == 0 {
		return make(map[uint]bool), nil
	}

	var rows []models.AnnouncementRecipientModel
	err := db.GetTxFromContext(ctx, r.db).
		Select("announcement_id", "is_read").
		Where("user_id = ? AND announcement_id IN ?", userID, announcementIDs).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get read states: %w", err)
	}

	result := make(map[uint]bool, len(rows))
	for _, row := range rows {
		result[row.AnnouncementID] = row.IsRead
	}
	return result, nil
}

func (r *RecipientRepositoryImpl) CountUnreadForUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.AnnouncementRecipientModel{}).
		Joins("JOIN announcements ON announcements.id = announcement_recipients.announcement_id").
		Where("announcement_recipients.user_id = ? AND announcement_recipients.is_read = ? AND announcements.status = ?",
			userID, false, "published").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread announcements: %w", err)
	}
	return count, nil
}

func (r *RecipientRepositoryImpl) Stats(ctx context.Context, announcementID uint) (announcement.ReceiptStats, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var stats announcement.ReceiptStats
	if err := tx.Model(&models.AnnouncementRecipientModel{}).
		Where("announcement_id = ?", announcementID).
		Count(&stats.Total).Error; err != nil {
		return announcement.ReceiptStats{}, fmt.Errorf("failed to count receipts: %w", err)
	}
	if stats.Total == 0 {
		return stats, nil
	}
	if err := tx.Model(&models.AnnouncementRecipientModel{}).
		Where("announcement_id = ? AND is_read = ?", announcementID, true).
		Count(&stats.Read).Error; err != nil {
		return announcement.ReceiptStats{}, fmt.Errorf("failed to count read receipts: %w", err)
	}
	return stats, nil
}

func (r *RecipientRepositoryImpl) DeleteByAnnouncement(ctx context.Context, announcementID uint) error {
	err := db.GetTxFromContext(ctx, r.db).
		Where("announcement_id = ?", announcementID).
		Delete(&models.AnnouncementRecipientModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete receipts: %w", err)
	}
	return nil
}
