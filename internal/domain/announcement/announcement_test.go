package announcement

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/corredoraunidad/APP-UNIDAD-sub001/internal/domain/announcement/valueobjects"
)

func mustRoles(t *testing.T, names ...string) vo.TargetRoles {
	t.Helper()
	roles, err := vo.NewTargetRoles(names)
	require.NoError(t, err)
	return roles
}

func newDraft(t *testing.T) *Announcement {
	t.Helper()
	a, err := NewAnnouncement("Cierre de mes", "Recuerden enviar las pólizas", vo.PriorityHigh, mustRoles(t, "broker"), 7, nil)
	require.NoError(t, err)
	require.NoError(t, a.SetID(1))
	a.MarkPersisted()
	return a
}

func TestNewAnnouncement_Valid(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("CLT", -4*3600))

	a, err := NewAnnouncement("  Cierre de mes ", " cuerpo ", vo.PriorityLow, mustRoles(t, "broker", "admin"), 7, &at)

	require.NoError(t, err)
	assert.Equal(t, uint(0), a.ID())
	assert.Equal(t, "Cierre de mes", a.Title())
	assert.Equal(t, "cuerpo", a.Body())
	assert.Equal(t, vo.StatusDraft, a.Status())
	assert.Equal(t, []string{"admin", "broker"}, a.TargetRoles().Names())
	assert.Nil(t, a.PublishedAt())
	require.NotNil(t, a.ScheduledAt())
	assert.Equal(t, time.UTC, a.ScheduledAt().Location())
	assert.True(t, a.ScheduledAt().Equal(at))
	assert.True(t, a.TargetRolesChanged())
}

func TestNewAnnouncement_Invalid(t *testing.T) {
	roles := mustRoles(t, "broker")

	tests := []struct {
		name      string
		title     string
		body      string
		priority  vo.Priority
		roles     vo.TargetRoles
		createdBy uint
	}{
		{"blank title", "   ", "body", vo.PriorityLow, roles, 1},
		{"blank body", "title", "\n\t", vo.PriorityLow, roles, 1},
		{"title too long", strings.Repeat("a", 256), "body", vo.PriorityLow, roles, 1},
		{"invalid priority", "title", "body", vo.Priority("urgent"), roles, 1},
		{"no roles", "title", "body", vo.PriorityLow, vo.TargetRoles{}, 1},
		{"no creator", "title", "body", vo.PriorityLow, roles, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAnnouncement(tt.title, tt.body, tt.priority, tt.roles, tt.createdBy, nil)
			assert.Error(t, err)
			assert.Nil(t, a)
		})
	}
}

func TestAnnouncement_PublishStampsFirstPublicationOnly(t *testing.T) {
	a := newDraft(t)

	require.NoError(t, a.Publish())
	require.NotNil(t, a.PublishedAt())
	first := *a.PublishedAt()

	require.NoError(t, a.Archive())
	require.NoError(t, a.Publish())

	assert.Equal(t, vo.StatusPublished, a.Status())
	assert.Equal(t, first, *a.PublishedAt())
}

func TestAnnouncement_PublishIsIdempotent(t *testing.T) {
	a := newDraft(t)
	require.NoError(t, a.Publish())

	assert.NoError(t, a.Publish())
	assert.Equal(t, vo.StatusPublished, a.Status())
}

func TestAnnouncement_ChangeStatus(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(a *Announcement)
		target      vo.Status
		wantEntered bool
		wantErr     bool
		wantStatus  vo.Status
	}{
		{
			name:        "draft to published",
			target:      vo.StatusPublished,
			wantEntered: true,
			wantStatus:  vo.StatusPublished,
		},
		{
			name:       "same status is a no-op",
			target:     vo.StatusDraft,
			wantStatus: vo.StatusDraft,
		},
		{
			name:       "draft to archived",
			target:     vo.StatusArchived,
			wantStatus: vo.StatusArchived,
		},
		{
			name:       "published back to draft is rejected",
			setup:      func(a *Announcement) { _ = a.Publish() },
			target:     vo.StatusDraft,
			wantErr:    true,
			wantStatus: vo.StatusPublished,
		},
		{
			name:        "archived republished",
			setup:       func(a *Announcement) { _ = a.Archive() },
			target:      vo.StatusPublished,
			wantEntered: true,
			wantStatus:  vo.StatusPublished,
		},
		{
			name:       "unknown status",
			target:     vo.Status("expired"),
			wantErr:    true,
			wantStatus: vo.StatusDraft,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newDraft(t)
			if tt.setup != nil {
				tt.setup(a)
			}

			entered, err := a.ChangeStatus(tt.target)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantEntered, entered)
			assert.Equal(t, tt.wantStatus, a.Status())
		})
	}
}

func TestAnnouncement_ReplaceTargetRoles(t *testing.T) {
	a := newDraft(t)
	assert.False(t, a.TargetRolesChanged())

	require.NoError(t, a.ReplaceTargetRoles(mustRoles(t, "admin")))
	assert.True(t, a.TargetRolesChanged())
	assert.Equal(t, []string{"admin"}, a.TargetRoles().Names())

	assert.Error(t, a.ReplaceTargetRoles(vo.TargetRoles{}))

	a.MarkPersisted()
	require.NoError(t, a.ReplaceTargetRoles(mustRoles(t, "ADMIN ")))
	assert.False(t, a.TargetRolesChanged())
}

func TestAnnouncement_ContentEdits(t *testing.T) {
	a := newDraft(t)

	require.NoError(t, a.UpdateTitle(" Nuevo título "))
	require.NoError(t, a.UpdateBody("nuevo cuerpo"))
	require.NoError(t, a.ChangePriority(vo.PriorityLow))

	assert.Equal(t, "Nuevo título", a.Title())
	assert.Equal(t, "nuevo cuerpo", a.Body())
	assert.Equal(t, vo.PriorityLow, a.Priority())
	assert.Error(t, a.UpdateTitle(""))
	assert.Error(t, a.UpdateBody(" "))
	assert.Error(t, a.ChangePriority(vo.Priority("x")))
}

func TestAnnouncement_IsDueForPublication(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	a := newDraft(t)
	assert.False(t, a.IsDueForPublication(now), "unscheduled drafts are never due")

	a.Reschedule(&future)
	assert.False(t, a.IsDueForPublication(now))

	a.Reschedule(&past)
	assert.True(t, a.IsDueForPublication(now))

	require.NoError(t, a.Publish())
	assert.False(t, a.IsDueForPublication(now), "published announcements are not due again")
}

func TestAnnouncement_SetID(t *testing.T) {
	a, err := NewAnnouncement("t", "b", vo.PriorityLow, mustRoles(t, "admin"), 1, nil)
	require.NoError(t, err)

	assert.Error(t, a.SetID(0))
	require.NoError(t, a.SetID(5))
	assert.Error(t, a.SetID(6))
	assert.Equal(t, uint(5), a.ID())
}

func TestRecipient_MarkReadKeepsFirstTimestamp(t *testing.T) {
	r, err := NewRecipient(1, 2)
	require.NoError(t, err)
	assert.False(t, r.IsRead())

	first := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	assert.True(t, r.MarkRead(first))
	assert.False(t, r.MarkRead(first.Add(time.Hour)))

	assert.True(t, r.IsRead())
	assert.Equal(t, first, *r.ReadAt())

	_, err = NewRecipient(0, 2)
	assert.Error(t, err)
	_, err = NewRecipient(1, 0)
	assert.Error(t, err)
}

func TestReceiptStats_Unread(t *testing.T) {
	assert.Equal(t, int64(3), ReceiptStats{Total: 5, Read: 2}.Unread())
}
