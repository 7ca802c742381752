package usecases

import (
	"context"
	"time"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/domain/announcement"
)

// TransactionRunner runs fn in one database transaction carried on ctx.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// RoleDirectory resolves role names to the users currently holding them.
type RoleDirectory interface {
	UsersForRoles(ctx context.Context, roles []string) ([]uint, error)
}

// EventPublisher announces committed announcements on the change feed.
type EventPublisher interface {
	PublishCreated(ctx context.Context, event announcement.CreatedEvent) error
}

// EventSubscriber opens per-client subscriptions on the change feed.
type EventSubscriber interface {
	SubscribeCreated(ctx context.Context) (announcement.EventSubscription, error)
}

// Fan-out receipt outcomes.
const (
	ReceiptCreated = "created"
	ReceiptSkipped = "skipped"
	ReceiptFailed  = "failed"
)

// Badge refresh outcomes.
const (
	RefreshSent   = "sent"
	RefreshFailed = "failed"
)

type FanoutMetrics interface {
	AddReceipts(result string, n int)
	ObserveFanout(d time.Duration)
}

type BadgeMetrics interface {
	IncrementRefresh(result string)
}
