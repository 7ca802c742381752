package usecases

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/goroutine"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/logger"
)

const (
	defaultRefreshTimeout = 5 * time.Second
	minSubscribeBackoff   = time.Second
	maxSubscribeBackoff   = 30 * time.Second
)

// BadgePushFunc delivers a badge value to one client. It must be safe for
// concurrent use.
type BadgePushFunc func(ctx context.Context, count int64) error

// BadgeBridge keeps one client's unread badge current. Every announcement
// created anywhere in the cluster triggers a recount for the client.
type BadgeBridge struct {
	subscriber     EventSubscriber
	unread         *GetUnreadCountUseCase
	metrics        BadgeMetrics
	logger         logger.Interface
	refreshTimeout time.Duration
	minBackoff     time.Duration
	maxBackoff     time.Duration
}

func NewBadgeBridge(
	subscriber EventSubscriber,
	unread *GetUnreadCountUseCase,
	m BadgeMetrics,
	refreshTimeout time.Duration,
	logger logger.Interface,
) *BadgeBridge {
	if m == nil {
		m = noopMetrics{}
	}
	if refreshTimeout <= 0 {
		refreshTimeout = defaultRefreshTimeout
	}
	return &BadgeBridge{
		subscriber:     subscriber,
		unread:         unread,
		metrics:        m,
		logger:         logger,
		refreshTimeout: refreshTimeout,
		minBackoff:     minSubscribeBackoff,
		maxBackoff:     maxSubscribeBackoff,
	}
}

// Run pushes the current count, then one fresh count per created event until
// ctx ends. Failed refreshes are logged and skipped; a lost subscription is
// re-established with exponential backoff. Only a failed initial push ends Run
// early, since it means the client is gone.
func (b *BadgeBridge) Run(ctx context.Context, userID uint, push BadgePushFunc) error {
	log := b.logger.With("user_id", userID)

	count, err := b.unread.Execute(ctx, userID)
	if err != nil {
		b.metrics.IncrementRefresh(RefreshFailed)
		return fmt.Errorf("failed to compute initial badge: %w", err)
	}
	if err := push(ctx, count); err != nil {
		b.metrics.IncrementRefresh(RefreshFailed)
		return fmt.Errorf("failed to push initial badge: %w", err)
	}
	b.metrics.IncrementRefresh(RefreshSent)

	r := &refresher{bridge: b, userID: userID, push: push, log: log}
	var wg sync.WaitGroup
	defer wg.Wait()

	backoff := b.minBackoff
	for {
		sub, err := b.subscriber.SubscribeCreated(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Warnw("failed to subscribe to announcement events, retrying",
				"error", err,
				"backoff", backoff,
			)
			if !sleepCtx(ctx, backoff) {
				return nil
			}
			backoff = nextBackoff(backoff, b.maxBackoff)
			continue
		}
		backoff = b.minBackoff

		for ev := range sub.Events() {
			log.Debugw("announcement event received", "announcement_id", ev.AnnouncementID)
			wg.Add(1)
			goroutine.SafeGo(log, "badge-refresh", func() {
				defer wg.Done()
				r.refresh(ctx)
			})
		}
		_ = sub.Close()

		if ctx.Err() != nil {
			return nil
		}
		log.Warnw("announcement event feed closed, resubscribing")
	}
}

// refresher recounts and pushes. Results older than the last pushed one are
// dropped so out-of-order completions never roll the badge back.
type refresher struct {
	bridge *BadgeBridge
	userID uint
	push   BadgePushFunc
	log    logger.Interface

	mu     sync.Mutex
	issued uint64
	pushed uint64
}

func (r *refresher) refresh(ctx context.Context) {
	r.mu.Lock()
	r.issued++
	seq := r.issued
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, r.bridge.refreshTimeout)
	defer cancel()

	count, err := r.bridge.unread.Execute(ctx, r.userID)
	if err != nil {
		r.bridge.metrics.IncrementRefresh(RefreshFailed)
		r.log.Warnw("failed to refresh badge", "error", err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if seq < r.pushed {
		return
	}
	if err := r.push(ctx, count); err != nil {
		r.bridge.metrics.IncrementRefresh(RefreshFailed)
		r.log.Warnw("failed to push badge", "error", err)
		return
	}
	r.pushed = seq
	r.bridge.metrics.IncrementRefresh(RefreshSent)
}

func nextBackoff(current, max time.Duration) time.Duration {
	next := current * 2
	if next > max {
		return max
	}
	return next
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
