package mappers

import (
	"time"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/domain/announcement"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/infrastructure/persistence/models"
)

func RecipientToEntity(model *models.AnnouncementRecipientModel) *announcement.Recipient {
	if model == nil {
		return nil
	}
	return announcement.ReconstructRecipient(
		model.ID,
		model.AnnouncementID,
		model.UserID,
		model.IsRead,
		utcPtr(model.ReadAt),
		model.CreatedAt.UTC(),
	)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
