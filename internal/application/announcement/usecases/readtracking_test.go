package usecases

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/application/announcement/dto"
	vo "github.com/corredoraunidad/APP-UNIDAD-sub001/internal/domain/announcement/valueobjects"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/errors"
)

func TestMarkAsRead_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.roles.Assign("broker", 10)
	created := f.mustCreate(t, "published", "broker")
	ctx := context.Background()

	require.NoError(t, f.markRead.Execute(ctx, 10, created.ID))
	first := f.recipients.Receipt(created.ID, 10)
	require.True(t, first.IsRead())
	readAt := *first.ReadAt()

	require.NoError(t, f.markRead.Execute(ctx, 10, created.ID))
	assert.Equal(t, readAt, *f.recipients.Receipt(created.ID, 10).ReadAt(), "first read_at is kept")
}

func TestMarkAsRead_WithoutReceipt(t *testing.T) {
	f := newFixture(t)
	f.roles.Assign("broker", 10)
	created := f.mustCreate(t, "published", "broker")

	err := f.markRead.Execute(context.Background(), 99, created.ID)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestMarkAsRead_StorageError(t *testing.T) {
	f := newFixture(t)
	f.recipients.MarkError = stderrors.New("deadlock")

	err := f.markRead.Execute(context.Background(), 10, 1)
	require.Error(t, err)
	assert.False(t, errors.IsAppError(err))
}

func TestGetUnreadCount(t *testing.T) {
	f := newFixture(t)
	f.roles.Assign("broker", 10)
	a := f.mustCreate(t, "published", "broker")
	f.mustCreate(t, "published", "broker")
	f.mustCreate(t, "draft", "broker")
	ctx := context.Background()

	count, err := f.unread.Execute(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, f.markRead.Execute(ctx, 10, a.ID))
	count, err = f.unread.Execute(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = f.unread.Execute(ctx, 77)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestFanout_AbsorbsConflicts(t *testing.T) {
	f := newFixture(t)
	created := f.mustCreate(t, "draft", "broker")
	f.recipients.InsertErrors[11] = errors.NewConflictError("duplicate receipt")

	result, err := f.fanout.Execute(context.Background(), created.ID, []uint{10, 11, 12})

	require.NoError(t, err)
	assert.Equal(t, &dto.FanoutResult{Targeted: 3, Created: 2, Skipped: 1}, result)
}

func TestFanout_StopsOnStorageError(t *testing.T) {
	f := newFixture(t)
	f.recipients.InsertErrors[11] = stderrors.New("connection reset")

	_, err := f.fanout.Execute(context.Background(), 1, []uint{10, 11, 12})

	require.Error(t, err)
	assert.Equal(t, 2, f.recipients.InsertCalls())
}

func TestFanout_EmptyAudience(t *testing.T) {
	f := newFixture(t)
	result, err := f.fanout.Execute(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Equal(t, &dto.FanoutResult{}, result)
}

func TestResolveTargetUsers(t *testing.T) {
	f := newFixture(t)
	f.roles.Assign("broker", 10, 11)
	f.roles.Assign("admin", 11, 12)
	resolver := NewResolveTargetUsersUseCase(f.roles, f.fanout.logger)

	roles, err := vo.NewTargetRoles([]string{"broker", "admin"})
	require.NoError(t, err)

	users, err := resolver.Execute(context.Background(), roles)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{10, 11, 12}, users)

	f.roles.Err = stderrors.New("policy store unreachable")
	_, err = resolver.Execute(context.Background(), roles)
	assert.True(t, errors.IsUnavailableError(err))
}

func TestListAnnouncements(t *testing.T) {
	f := newFixture(t)
	f.roles.Assign("broker", 10)
	first := f.mustCreate(t, "published", "broker")
	f.mustCreate(t, "published", "broker")
	f.mustCreate(t, "draft", "broker")
	require.NoError(t, f.markRead.Execute(context.Background(), 10, first.ID))

	resp, err := f.list.Execute(context.Background(), dto.ListAnnouncementsRequest{
		ViewerID: 10,
		Status:   "published",
		Limit:    1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
	assert.Equal(t, 1, resp.Page)
	assert.True(t, resp.HasMore)
	require.Len(t, resp.Items, 1)
	require.NotNil(t, resp.Items[0].IsRead)
	assert.False(t, *resp.Items[0].IsRead, "newest first")

	resp, err = f.list.Execute(context.Background(), dto.ListAnnouncementsRequest{
		ViewerID: 10,
		Status:   "published",
		Page:     2,
		Limit:    1,
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, first.ID, resp.Items[0].ID)
	assert.True(t, *resp.Items[0].IsRead)
	assert.False(t, resp.HasMore)
}

func TestListAnnouncements_EmptyPage(t *testing.T) {
	f := newFixture(t)
	resp, err := f.list.Execute(context.Background(), dto.ListAnnouncementsRequest{Page: 5})
	require.NoError(t, err)
	assert.NotNil(t, resp.Items)
	assert.Empty(t, resp.Items)
	assert.Equal(t, 20, resp.Limit)
}

func TestListAnnouncements_InvalidFilters(t *testing.T) {
	tests := []struct {
		name string
		req  dto.ListAnnouncementsRequest
	}{
		{"negative page", dto.ListAnnouncementsRequest{Page: -1}},
		{"limit too large", dto.ListAnnouncementsRequest{Limit: 500}},
		{"bad status", dto.ListAnnouncementsRequest{Status: "deleted"}},
		{"bad priority", dto.ListAnnouncementsRequest{Priority: "urgent"}},
		{"bad date", dto.ListAnnouncementsRequest{CreatedFrom: "yesterday"}},
		{"inverted range", dto.ListAnnouncementsRequest{CreatedFrom: "2024-03-10", CreatedTo: "2024-03-01"}},
		{"unread only without viewer", dto.ListAnnouncementsRequest{UnreadOnly: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.list.Execute(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err), "got %v", err)
		})
	}
}

func TestGetAnnouncement(t *testing.T) {
	f := newFixture(t)
	f.roles.Assign("broker", 10, 11)
	created := f.mustCreate(t, "published", "broker")
	require.NoError(t, f.markRead.Execute(context.Background(), 11, created.ID))

	resp, err := f.get.Execute(context.Background(), created.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.RecipientsTotal)
	assert.Equal(t, int64(1), resp.RecipientsRead)
	assert.Equal(t, int64(1), resp.RecipientsUnread)
	require.NotNil(t, resp.IsRead)
	assert.False(t, *resp.IsRead)
	assert.Nil(t, resp.UnreadCount)

	resp, err = f.get.Execute(context.Background(), created.ID, 99)
	require.NoError(t, err)
	assert.Nil(t, resp.IsRead, "outsiders hold no receipt")

	_, err = f.get.Execute(context.Background(), 404, 10)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestViewAnnouncement(t *testing.T) {
	f := newFixture(t)
	f.roles.Assign("broker", 10)
	created := f.mustCreate(t, "published", "broker")
	f.mustCreate(t, "published", "broker")

	resp, err := f.view.Execute(context.Background(), created.ID, 10)
	require.NoError(t, err)
	require.NotNil(t, resp.IsRead)
	assert.True(t, *resp.IsRead)
	require.NotNil(t, resp.UnreadCount)
	assert.Equal(t, int64(1), *resp.UnreadCount)

	resp, err = f.view.Execute(context.Background(), created.ID, 99)
	require.NoError(t, err, "viewers outside the audience can still open it")
	assert.Nil(t, resp.IsRead)
	assert.Equal(t, int64(0), *resp.UnreadCount)

	_, err = f.view.Execute(context.Background(), 404, 10)
	assert.True(t, errors.IsNotFoundError(err))
}
