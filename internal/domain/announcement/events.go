package announcement

import (
	"time"

	vo "github.com/corredoraunidad/APP-UNIDAD-sub001/internal/domain/announcement/valueobjects"
)

// CreatedEvent is emitted after an announcement is committed, whatever its status.
type CreatedEvent struct {
	AnnouncementID uint
	Status         vo.Status
	CreatedBy      uint
	OccurredAt     time.Time
}

func NewCreatedEvent(a *Announcement) CreatedEvent {
	return CreatedEvent{
		AnnouncementID: a.ID(),
		Status:         a.Status(),
		CreatedBy:      a.CreatedBy(),
		OccurredAt:     a.CreatedAt(),
	}
}

// EventSubscription is a live feed of created events. Events is closed once
// the feed ends; Close releases it and is safe to call more than once.
type EventSubscription interface {
	Events() <-chan CreatedEvent
	Close() error
}
