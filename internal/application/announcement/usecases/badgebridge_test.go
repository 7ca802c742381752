package usecases

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/logger"
)

type badgeClient struct {
	values chan int64
	errs   chan error
}

func newBadgeClient() *badgeClient {
	return &badgeClient{values: make(chan int64, 32), errs: make(chan error, 1)}
}

func (c *badgeClient) push(ctx context.Context, count int64) error {
	c.values <- count
	return nil
}

func (c *badgeClient) next(t *testing.T) int64 {
	t.Helper()
	select {
	case v := <-c.values:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for badge push")
		return 0
	}
}

func newTestBridge(f *fixture) *BadgeBridge {
	b := NewBadgeBridge(f.bus, f.unread, nil, time.Second, logger.NewNop())
	b.minBackoff = 5 * time.Millisecond
	b.maxBackoff = 20 * time.Millisecond
	return b
}

func (f *fixture) runBridge(t *testing.T, ctx context.Context, userID uint) *badgeClient {
	t.Helper()
	client := newBadgeClient()
	b := newTestBridge(f)
	go func() {
		client.errs <- b.Run(ctx, userID, client.push)
	}()
	return client
}

func TestBadgeBridge_InitialAndRefresh(t *testing.T) {
	f := newFixture(t)
	f.roles.Assign("broker", 10)
	f.mustCreate(t, "published", "broker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client := f.runBridge(t, ctx, 10)

	assert.Equal(t, int64(1), client.next(t))
	require.Eventually(t, func() bool { return f.bus.ActiveSubscriptions() == 1 }, time.Second, 5*time.Millisecond)

	f.mustCreate(t, "published", "broker")
	assert.Equal(t, int64(2), client.next(t))

	cancel()
	select {
	case err := <-client.errs:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("bridge did not stop")
	}
	assert.Equal(t, 0, f.bus.ActiveSubscriptions())
}

func TestBadgeBridge_OnlyTargetedUserCountChanges(t *testing.T) {
	f := newFixture(t)
	f.roles.Assign("broker", 1)
	f.roles.Assign("admin", 2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	u1 := f.runBridge(t, ctx, 1)
	u2 := f.runBridge(t, ctx, 2)

	assert.Equal(t, int64(0), u1.next(t))
	assert.Equal(t, int64(0), u2.next(t))
	require.Eventually(t, func() bool { return f.bus.ActiveSubscriptions() == 2 }, time.Second, 5*time.Millisecond)

	f.mustCreate(t, "published", "broker")

	assert.Equal(t, int64(1), u1.next(t))
	assert.Equal(t, int64(0), u2.next(t), "every client recounts, the value just stays the same")
}

func TestBadgeBridge_DraftEventRecountsWithoutChange(t *testing.T) {
	f := newFixture(t)
	f.roles.Assign("broker", 10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client := f.runBridge(t, ctx, 10)

	assert.Equal(t, int64(0), client.next(t))
	require.Eventually(t, func() bool { return f.bus.ActiveSubscriptions() == 1 }, time.Second, 5*time.Millisecond)

	f.mustCreate(t, "draft", "broker")
	assert.Equal(t, int64(0), client.next(t))
}

func TestBadgeBridge_InitialPushFailure(t *testing.T) {
	f := newFixture(t)
	b := newTestBridge(f)

	err := b.Run(context.Background(), 10, func(ctx context.Context, count int64) error {
		return stderrors.New("socket closed")
	})

	require.Error(t, err)
	assert.Zero(t, f.bus.SubscribeCalls())
}

func TestBadgeBridge_InitialCountFailure(t *testing.T) {
	f := newFixture(t)
	f.recipients.CountError = stderrors.New("db down")
	b := newTestBridge(f)

	err := b.Run(context.Background(), 10, func(ctx context.Context, count int64) error {
		t.Fatal("push must not run")
		return nil
	})

	require.Error(t, err)
}

func TestBadgeBridge_RetriesSubscribe(t *testing.T) {
	f := newFixture(t)
	f.bus.SubscribeErrors = []error{stderrors.New("redis down"), stderrors.New("redis down")}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client := f.runBridge(t, ctx, 10)

	assert.Equal(t, int64(0), client.next(t))
	require.Eventually(t, func() bool {
		return f.bus.SubscribeCalls() == 3 && f.bus.ActiveSubscriptions() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestBadgeBridge_ResubscribesWhenFeedCloses(t *testing.T) {
	f := newFixture(t)
	f.roles.Assign("broker", 10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client := f.runBridge(t, ctx, 10)

	assert.Equal(t, int64(0), client.next(t))
	require.Eventually(t, func() bool { return f.bus.ActiveSubscriptions() == 1 }, time.Second, 5*time.Millisecond)

	f.bus.DropAll()
	require.Eventually(t, func() bool {
		return f.bus.SubscribeCalls() == 2 && f.bus.ActiveSubscriptions() == 1
	}, time.Second, 5*time.Millisecond)

	f.mustCreate(t, "published", "broker")
	assert.Equal(t, int64(1), client.next(t))
}

func TestBadgeBridge_RefreshFailureKeepsRunning(t *testing.T) {
	f := newFixture(t)
	f.roles.Assign("broker", 10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client := f.runBridge(t, ctx, 10)

	assert.Equal(t, int64(0), client.next(t))
	require.Eventually(t, func() bool { return f.bus.ActiveSubscriptions() == 1 }, time.Second, 5*time.Millisecond)

	f.recipients.SetCountError(stderrors.New("timeout"))
	f.mustCreate(t, "published", "broker")

	select {
	case v := <-client.values:
		t.Fatalf("unexpected push %d", v)
	case <-time.After(50 * time.Millisecond):
	}

	f.recipients.SetCountError(nil)
	f.mustCreate(t, "published", "broker")
	assert.Equal(t, int64(2), client.next(t))
}

func TestNextBackoff(t *testing.T) {
	assert.Equal(t, 2*time.Second, nextBackoff(time.Second, 30*time.Second))
	assert.Equal(t, 30*time.Second, nextBackoff(20*time.Second, 30*time.Second))
}
