package announcement

import (
	"context"
	"time"

	vo "github.com/corredoraunidad/APP-UNIDAD-sub001/internal/domain/announcement/valueobjects"
)

// ListFilter narrows an announcement listing. ViewerID scopes UnreadOnly.
type ListFilter struct {
	Priority    *vo.Priority
	Status      *vo.Status
	Search      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	ViewerID    uint
	UnreadOnly  bool
	Offset      int
	Limit       int
}

type Repository interface {
	// Create inserts the announcement and its target roles and assigns the id.
	Create(ctx context.Context, a *Announcement) error
	// GetByID returns nil, nil when no announcement has id.
	GetByID(ctx context.Context, id uint) (*Announcement, error)
	// GetByIDForUpdate is GetByID holding a row lock until the surrounding
	// transaction ends. Every read-modify-write of an announcement goes through it.
	GetByIDForUpdate(ctx context.Context, id uint) (*Announcement, error)
	// Update saves scalar fields and rewrites target roles when they changed.
	Update(ctx context.Context, a *Announcement) error
	Delete(ctx context.Context, id uint) error
	// List orders by created_at DESC, id DESC.
	List(ctx context.Context, filter ListFilter) ([]*Announcement, int64, error)
	// FindDueScheduled returns drafts whose scheduled_at is at or before now.
	FindDueScheduled(ctx context.Context, now time.Time, limit int) ([]*Announcement, error)
}

type RecipientRepository interface {
	// InsertIfAbsent creates an unread receipt; created is false when one already existed.
	InsertIfAbsent(ctx context.Context, announcementID, userID uint) (created bool, err error)
	// MarkRead flips an unread receipt to read; updated is false when nothing changed.
	MarkRead(ctx context.Context, announcementID, userID uint, at time.Time) (updated bool, err error)
	Exists(ctx context.Context, announcementID, userID uint) (bool, error)
	// FindReceipt returns nil, nil when the user has no receipt.
	FindReceipt(ctx context.Context, announcementID, userID uint) (*Recipient, error)
	// ReadStates maps announcement id to is_read for the ids the user holds receipts for.
	ReadStates(ctx context.Context, userID uint, announcementIDs []uint) (map[uint]bool, error)
	// CountUnreadForUser counts unread receipts of published announcements.
	CountUnreadForUser(ctx context.Context, userID uint) (int64, error)
	Stats(ctx context.Context, announcementID uint) (ReceiptStats, error)
	DeleteByAnnouncement(ctx context.Context, announcementID uint) error
}
