package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/domain/announcement"
	vo "github.com/corredoraunidad/APP-UNIDAD-sub001/internal/domain/announcement/valueobjects"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/logger"
)

// DefaultAnnouncementChannel is used when no channel is configured.
const DefaultAnnouncementChannel = "unidad:announcement:created"

// AnnouncementCreatedMessage is the wire form of an announcement created event.
type AnnouncementCreatedMessage struct {
	AnnouncementID uint   `json:"announcement_id"`
	Status         string `json:"status"`
	CreatedBy      uint   `json:"created_by"`
	Timestamp      int64  `json:"timestamp"`
	InstanceID     string `json:"instance_id,omitempty"`
}

func (m AnnouncementCreatedMessage) toEvent() announcement.CreatedEvent {
	return announcement.CreatedEvent{
		AnnouncementID: m.AnnouncementID,
		Status:         vo.Status(m.Status),
		CreatedBy:      m.CreatedBy,
		OccurredAt:     time.Unix(m.Timestamp, 0).UTC(),
	}
}

// RedisAnnouncementEventBus distributes announcement created events across
// every API instance through Redis Pub/Sub.
type RedisAnnouncementEventBus struct {
	client     *redis.Client
	channel    string
	logger     logger.Interface
	instanceID string
}

// NewRedisAnnouncementEventBus creates a new Redis-based announcement event bus.
func NewRedisAnnouncementEventBus(client *redis.Client, channel string, logger logger.Interface) *RedisAnnouncementEventBus {
	if channel == "" {
		channel = DefaultAnnouncementChannel
	}
	return &RedisAnnouncementEventBus{
		client:     client,
		channel:    channel,
		logger:     logger,
		instanceID: uuid.NewString(),
	}
}

// InstanceID identifies this process on the change feed.
func (b *RedisAnnouncementEventBus) InstanceID() string {
	return b.instanceID
}

// PublishCreated publishes an announcement created event.
func (b *RedisAnnouncementEventBus) PublishCreated(ctx context.Context, event announcement.CreatedEvent) error {
	occurred := event.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now()
	}
	data, err := json.Marshal(AnnouncementCreatedMessage{
		AnnouncementID: event.AnnouncementID,
		Status:         event.Status.String(),
		CreatedBy:      event.CreatedBy,
		Timestamp:      occurred.Unix(),
		InstanceID:     b.instanceID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal announcement event: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish announcement created event",
			"announcement_id", event.AnnouncementID,
			"error", err,
		)
		return fmt.Errorf("failed to publish announcement event: %w", err)
	}

	b.logger.Debugw("announcement created event published",
		"announcement_id", event.AnnouncementID,
		"status", event.Status,
	)
	return nil
}

// SubscribeCreated opens a subscription to announcement created events. The
// returned handle must be closed by the caller; cancelling ctx closes it too.
func (b *RedisAnnouncementEventBus) SubscribeCreated(ctx context.Context) (announcement.EventSubscription, error) {
	ps := b.client.Subscribe(ctx, b.channel)

	// Wait for subscription confirmation
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		ps:     ps,
		events: make(chan announcement.CreatedEvent, 16),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go sub.pump(subCtx, b.logger)

	b.logger.Debugw("subscribed to announcement created events", "channel", b.channel)
	return sub, nil
}

var _ announcement.EventSubscription = (*Subscription)(nil)

// Subscription is a cancellable handle on the change feed.
type Subscription struct {
	ps        *redis.PubSub
	events    chan announcement.CreatedEvent
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

// Events yields decoded events. The channel is closed once the subscription
// ends, either through Close, context cancellation or a dropped connection.
func (s *Subscription) Events() <-chan announcement.CreatedEvent {
	return s.events
}

// Close unsubscribes and waits for the delivery loop to exit. Safe to call more than once.
func (s *Subscription) Close() error {
	s.closeOnce.Do(s.cancel)
	<-s.done
	return nil
}

func (s *Subscription) pump(ctx context.Context, log logger.Interface) {
	defer close(s.done)
	defer close(s.events)
	defer func() {
		if err := s.ps.Close(); err != nil {
			log.Debugw("failed to close announcement subscription", "error", err)
		}
	}()

	ch := s.ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}

			var m AnnouncementCreatedMessage
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				log.Warnw("failed to unmarshal announcement event",
					"payload", msg.Payload,
					"error", err,
				)
				continue
			}

			select {
			case s.events <- m.toEvent():
			case <-ctx.Done():
				return
			}
		}
	}
}
