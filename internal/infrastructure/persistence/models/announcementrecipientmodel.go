package models

import (
	"time"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/constants"
)

// AnnouncementRecipientModel is one read receipt. The unique pair is the only
// guard against duplicate fan-out.
type AnnouncementRecipientModel struct {
	ID             uint `gorm:"primaryKey"`
	AnnouncementID uint `gorm:"not null;uniqueIndex:uk_announcement_user"`
	UserID         uint `gorm:"not null;uniqueIndex:uk_announcement_user;index:idx_user_read,priority:1"`
	IsRead         bool `gorm:"not null;default:false;index:idx_user_read,priority:2"`
	ReadAt         *time.Time
	CreatedAt      time.Time
}

func (AnnouncementRecipientModel) TableName() string {
	return constants.TableAnnouncementRecipients
}
