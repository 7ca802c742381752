package models

import (
	"time"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/constants"
)

type AnnouncementModel struct {
	ID          uint       `gorm:"primaryKey"`
	Title       string     `gorm:"size:255;not null"`
	Body        string     `gorm:"type:text;not null"`
	Priority    string     `gorm:"size:16;not null;default:'medium'"`
	Status      string     `gorm:"size:16;not null;default:'draft';index"`
	ScheduledAt *time.Time `gorm:"index"`
	PublishedAt *time.Time
	CreatedBy   uint      `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

func (AnnouncementModel) TableName() string {
	return constants.TableAnnouncements
}

type AnnouncementTargetRoleModel struct {
	ID             uint   `gorm:"primaryKey"`
	AnnouncementID uint   `gorm:"not null;uniqueIndex:uk_announcement_role"`
	Role           string `gorm:"size:64;not null;uniqueIndex:uk_announcement_role;index"`
}

func (AnnouncementTargetRoleModel) TableName() string {
	return constants.TableAnnouncementTargetRoles
}
