package announcement

import (
	"fmt"
	"time"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/biztime"
)

// Recipient is one user's read receipt for one announcement.
type Recipient struct {
	id             uint
	announcementID uint
	userID         uint
	isRead         bool
	readAt         *time.Time
	createdAt      time.Time
}

func NewRecipient(announcementID, userID uint) (*Recipient, error) {
	if announcementID == 0 {
		return nil, fmt.Errorf("announcement ID is required")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	return &Recipient{
		announcementID: announcementID,
		userID:         userID,
		createdAt:      biztime.NowUTC(),
	}, nil
}

func ReconstructRecipient(id, announcementID, userID uint, isRead bool, readAt *time.Time, createdAt time.Time) *Recipient {
	return &Recipient{
		id:             id,
		announcementID: announcementID,
		userID:         userID,
		isRead:         isRead,
		readAt:         readAt,
		createdAt:      createdAt,
	}
}

func (r *Recipient) ID() uint {
	return r.id
}

func (r *Recipient) AnnouncementID() uint {
	return r.announcementID
}

func (r *Recipient) UserID() uint {
	return r.userID
}

func (r *Recipient) IsRead() bool {
	return r.isRead
}

func (r *Recipient) ReadAt() *time.Time {
	return r.readAt
}

func (r *Recipient) CreatedAt() time.Time {
	return r.createdAt
}

// MarkRead flips the receipt to read once; later calls keep the first read_at.
func (r *Recipient) MarkRead(at time.Time) bool {
	if r.isRead {
		return false
	}
	r.isRead = true
	t := at.UTC()
	r.readAt = &t
	return true
}

// ReceiptStats summarises receipts of one announcement.
type ReceiptStats struct {
	Total int64
	Read  int64
}

func (s ReceiptStats) Unread() int64 {
	return s.Total - s.Read
}
