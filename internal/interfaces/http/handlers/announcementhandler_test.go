package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appDto "github.com/corredoraunidad/APP-UNIDAD-sub001/internal/application/announcement/dto"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/interfaces/http/handlers/testutil"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/errors"
)

// =====================================================================
// Mock announcement service
// =====================================================================

type mockAnnouncementService struct {
	createFn      func(ctx context.Context, req appDto.CreateAnnouncementRequest) (*appDto.AnnouncementResponse, error)
	updateFn      func(ctx context.Context, id uint, req appDto.UpdateAnnouncementRequest) (*appDto.AnnouncementResponse, error)
	deleteFn      func(ctx context.Context, id uint) error
	publishFn     func(ctx context.Context, id uint) (*appDto.AnnouncementResponse, *appDto.FanoutResult, error)
	archiveFn     func(ctx context.Context, id uint) (*appDto.AnnouncementResponse, error)
	listFn        func(ctx context.Context, req appDto.ListAnnouncementsRequest) (*appDto.ListAnnouncementsResponse, error)
	viewFn        func(ctx context.Context, id, userID uint) (*appDto.AnnouncementDetailResponse, error)
	markAsReadFn  func(ctx context.Context, id, userID uint) (*appDto.MarkReadResponse, error)
	unreadCountFn func(ctx context.Context, userID uint) (*appDto.UnreadCountResponse, error)
}

func (m *mockAnnouncementService) CreateAnnouncement(ctx context.Context, req appDto.CreateAnnouncementRequest) (*appDto.AnnouncementResponse, error) {
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return nil, nil
}

func (m *mockAnnouncementService) UpdateAnnouncement(ctx context.Context, id uint, req appDto.UpdateAnnouncementRequest) (*appDto.AnnouncementResponse, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, req)
	}
	return nil, nil
}

func (m *mockAnnouncementService) DeleteAnnouncement(ctx context.Context, id uint) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockAnnouncementService) PublishAnnouncement(ctx context.Context, id uint) (*appDto.AnnouncementResponse, *appDto.FanoutResult, error) {
	if m.publishFn != nil {
		return m.publishFn(ctx, id)
	}
	return nil, nil, nil
}

func (m *mockAnnouncementService) ArchiveAnnouncement(ctx context.Context, id uint) (*appDto.AnnouncementResponse, error) {
	if m.archiveFn != nil {
		return m.archiveFn(ctx, id)
	}
	return nil, nil
}

func (m *mockAnnouncementService) ListAnnouncements(ctx context.Context, req appDto.ListAnnouncementsRequest) (*appDto.ListAnnouncementsResponse, error) {
	if m.listFn != nil {
		return m.listFn(ctx, req)
	}
	return &appDto.ListAnnouncementsResponse{Items: []*appDto.AnnouncementResponse{}, Page: 1, Limit: 20}, nil
}

func (m *mockAnnouncementService) ViewAnnouncement(ctx context.Context, id, userID uint) (*appDto.AnnouncementDetailResponse, error) {
	if m.viewFn != nil {
		return m.viewFn(ctx, id, userID)
	}
	return nil, nil
}

func (m *mockAnnouncementService) MarkAsRead(ctx context.Context, id, userID uint) (*appDto.MarkReadResponse, error) {
	if m.markAsReadFn != nil {
		return m.markAsReadFn(ctx, id, userID)
	}
	return nil, nil
}

func (m *mockAnnouncementService) GetUnreadCount(ctx context.Context, userID uint) (*appDto.UnreadCountResponse, error) {
	if m.unreadCountFn != nil {
		return m.unreadCountFn(ctx, userID)
	}
	return &appDto.UnreadCountResponse{}, nil
}

func newTestAnnouncementHandler(svc *mockAnnouncementService) *AnnouncementHandler {
	return NewAnnouncementHandler(svc, testutil.NewMockLogger())
}

// =====================================================================
// CreateAnnouncement
// =====================================================================

func TestAnnouncementHandler_CreateAnnouncement(t *testing.T) {
	var got appDto.CreateAnnouncementRequest
	svc := &mockAnnouncementService{
		createFn: func(ctx context.Context, req appDto.CreateAnnouncementRequest) (*appDto.AnnouncementResponse, error) {
			got = req
			return &appDto.AnnouncementResponse{ID: 7, Title: req.Title, Status: "published"}, nil
		},
	}
	handler := newTestAnnouncementHandler(svc)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/announcements", map[string]any{
		"title":        "Cierre de mes",
		"body":         "Recordatorio",
		"status":       "published",
		"target_roles": []string{"broker"},
	})
	testutil.SetAuthContext(c, 3)

	handler.CreateAnnouncement(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, uint(3), got.CreatedBy)
	assert.Equal(t, []string{"broker"}, got.TargetRoles)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.True(t, resp.Success)
	var data appDto.AnnouncementResponse
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, uint(7), data.ID)
}

func TestAnnouncementHandler_CreateAnnouncement_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{"missing roles", map[string]any{"title": "t", "body": "b"}},
		{"archived status", map[string]any{"title": "t", "body": "b", "status": "archived", "target_roles": []string{"broker"}}},
		{"malformed json", `{"title":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := newTestAnnouncementHandler(&mockAnnouncementService{
				createFn: func(ctx context.Context, req appDto.CreateAnnouncementRequest) (*appDto.AnnouncementResponse, error) {
					called = true
					return nil, nil
				},
			})
			c, w := testutil.NewTestContext(http.MethodPost, "/api/announcements", tt.body)
			testutil.SetAuthContext(c, 3)

			handler.CreateAnnouncement(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, called)
		})
	}
}

func TestAnnouncementHandler_CreateAnnouncement_Unauthenticated(t *testing.T) {
	handler := newTestAnnouncementHandler(&mockAnnouncementService{})
	c, w := testutil.NewTestContext(http.MethodPost, "/api/announcements", map[string]any{"title": "t"})

	handler.CreateAnnouncement(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAnnouncementHandler_CreateAnnouncement_DirectoryUnavailable(t *testing.T) {
	handler := newTestAnnouncementHandler(&mockAnnouncementService{
		createFn: func(ctx context.Context, req appDto.CreateAnnouncementRequest) (*appDto.AnnouncementResponse, error) {
			return nil, errors.NewUnavailableError("role directory is unavailable", nil)
		},
	})
	c, w := testutil.NewTestContext(http.MethodPost, "/api/announcements", map[string]any{
		"title": "t", "body": "b", "status": "published", "target_roles": []string{"broker"},
	})
	testutil.SetAuthContext(c, 3)

	handler.CreateAnnouncement(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

// =====================================================================
// Reads
// =====================================================================

func TestAnnouncementHandler_ListAnnouncements(t *testing.T) {
	var got appDto.ListAnnouncementsRequest
	handler := newTestAnnouncementHandler(&mockAnnouncementService{
		listFn: func(ctx context.Context, req appDto.ListAnnouncementsRequest) (*appDto.ListAnnouncementsResponse, error) {
			got = req
			return &appDto.ListAnnouncementsResponse{
				Items: []*appDto.AnnouncementResponse{{ID: 1}},
				Total: 3,
				Page:  2,
				Limit: 1,
			}, nil
		},
	})
	c, w := testutil.NewTestContext(http.MethodGet, "/api/announcements", nil)
	testutil.SetAuthContext(c, 5)
	testutil.SetQueryParams(c, map[string]string{
		"page":        "2",
		"limit":       "1",
		"status":      "published",
		"unread_only": "true",
		"search":      "cierre",
	})

	handler.ListAnnouncements(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(5), got.ViewerID)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, "published", got.Status)
	assert.True(t, got.UnreadOnly)
	assert.Equal(t, "cierre", got.Search)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var data struct {
		Total   int64 `json:"total"`
		HasMore bool  `json:"has_more"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, int64(3), data.Total)
	assert.True(t, data.HasMore)
}

func TestAnnouncementHandler_ListAnnouncements_InvalidQuery(t *testing.T) {
	tests := []map[string]string{
		{"page": "abc"},
		{"status": "deleted"},
		{"priority": "urgent"},
	}
	for _, params := range tests {
		handler := newTestAnnouncementHandler(&mockAnnouncementService{})
		c, w := testutil.NewTestContext(http.MethodGet, "/api/announcements", nil)
		testutil.SetAuthContext(c, 5)
		testutil.SetQueryParams(c, params)

		handler.ListAnnouncements(c)

		assert.Equal(t, http.StatusBadRequest, w.Code, "params %v", params)
	}
}

func TestAnnouncementHandler_GetUnreadCount(t *testing.T) {
	handler := newTestAnnouncementHandler(&mockAnnouncementService{
		unreadCountFn: func(ctx context.Context, userID uint) (*appDto.UnreadCountResponse, error) {
			assert.Equal(t, uint(9), userID)
			return &appDto.UnreadCountResponse{UnreadCount: 4}, nil
		},
	})
	c, w := testutil.NewTestContext(http.MethodGet, "/api/announcements/unread-count", nil)
	testutil.SetAuthContext(c, 9)

	handler.GetUnreadCount(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.JSONEq(t, `{"unread_count":4}`, string(resp.Data))
}

func TestAnnouncementHandler_GetAnnouncement(t *testing.T) {
	count := int64(2)
	handler := newTestAnnouncementHandler(&mockAnnouncementService{
		viewFn: func(ctx context.Context, id, userID uint) (*appDto.AnnouncementDetailResponse, error) {
			if id == 404 {
				return nil, errors.NewNotFoundError("announcement not found")
			}
			isRead := true
			return &appDto.AnnouncementDetailResponse{
				AnnouncementResponse: &appDto.AnnouncementResponse{ID: id, IsRead: &isRead},
				UnreadCount:          &count,
			}, nil
		},
	})

	tests := []struct {
		name       string
		id         string
		wantStatus int
	}{
		{"found", "12", http.StatusOK},
		{"not found", "404", http.StatusNotFound},
		{"invalid id", "abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testutil.NewTestContext(http.MethodGet, "/api/announcements/"+tt.id, nil)
			testutil.SetAuthContext(c, 1)
			testutil.SetURLParam(c, "id", tt.id)

			handler.GetAnnouncement(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				var resp testutil.APIResponse
				require.NoError(t, testutil.ParseResponse(w, &resp))
				var data map[string]any
				require.NoError(t, json.Unmarshal(resp.Data, &data))
				assert.Equal(t, true, data["is_read"])
				assert.Equal(t, float64(2), data["unread_count"])
			}
		})
	}
}

// =====================================================================
// Writes
// =====================================================================

func TestAnnouncementHandler_UpdateAnnouncement(t *testing.T) {
	var got appDto.UpdateAnnouncementRequest
	handler := newTestAnnouncementHandler(&mockAnnouncementService{
		updateFn: func(ctx context.Context, id uint, req appDto.UpdateAnnouncementRequest) (*appDto.AnnouncementResponse, error) {
			got = req
			return &appDto.AnnouncementResponse{ID: id}, nil
		},
	})
	c, w := testutil.NewTestContext(http.MethodPatch, "/api/announcements/4", map[string]any{
		"target_roles": []string{"admin"},
	})
	testutil.SetAuthContext(c, 1)
	testutil.SetURLParam(c, "id", "4")

	handler.UpdateAnnouncement(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got.TargetRoles)
	assert.Equal(t, []string{"admin"}, *got.TargetRoles)
	assert.Nil(t, got.Title)
}

func TestAnnouncementHandler_DeleteAnnouncement(t *testing.T) {
	handler := newTestAnnouncementHandler(&mockAnnouncementService{
		deleteFn: func(ctx context.Context, id uint) error {
			if id == 2 {
				return errors.NewNotFoundError("announcement not found")
			}
			return nil
		},
	})

	c, w := testutil.NewTestContext(http.MethodDelete, "/api/announcements/1", nil)
	testutil.SetURLParam(c, "id", "1")
	handler.DeleteAnnouncement(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)

	c, w = testutil.NewTestContext(http.MethodDelete, "/api/announcements/2", nil)
	testutil.SetURLParam(c, "id", "2")
	handler.DeleteAnnouncement(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnnouncementHandler_PublishAnnouncement(t *testing.T) {
	handler := newTestAnnouncementHandler(&mockAnnouncementService{
		publishFn: func(ctx context.Context, id uint) (*appDto.AnnouncementResponse, *appDto.FanoutResult, error) {
			return &appDto.AnnouncementResponse{ID: id, Status: "published"}, &appDto.FanoutResult{Targeted: 2, Created: 1, Skipped: 1}, nil
		},
	})
	c, w := testutil.NewTestContext(http.MethodPost, "/api/announcements/3/publish", nil)
	testutil.SetURLParam(c, "id", "3")

	handler.PublishAnnouncement(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var data PublishAnnouncementResponse
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, "published", data.Announcement.Status)
	assert.Equal(t, 1, data.Fanout.Skipped)
}

func TestAnnouncementHandler_ArchiveAnnouncement(t *testing.T) {
	handler := newTestAnnouncementHandler(&mockAnnouncementService{
		archiveFn: func(ctx context.Context, id uint) (*appDto.AnnouncementResponse, error) {
			return &appDto.AnnouncementResponse{ID: id, Status: "archived"}, nil
		},
	})
	c, w := testutil.NewTestContext(http.MethodPost, "/api/announcements/3/archive", nil)
	testutil.SetURLParam(c, "id", "3")

	handler.ArchiveAnnouncement(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAnnouncementHandler_MarkAsRead(t *testing.T) {
	handler := newTestAnnouncementHandler(&mockAnnouncementService{
		markAsReadFn: func(ctx context.Context, id, userID uint) (*appDto.MarkReadResponse, error) {
			if userID == 99 {
				return nil, errors.NewNotFoundError("announcement receipt not found")
			}
			return &appDto.MarkReadResponse{AnnouncementID: id, UnreadCount: 0}, nil
		},
	})

	c, w := testutil.NewTestContext(http.MethodPost, "/api/announcements/8/read", nil)
	testutil.SetAuthContext(c, 10)
	testutil.SetURLParam(c, "id", "8")
	handler.MarkAsRead(c)
	require.Equal(t, http.StatusOK, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.JSONEq(t, `{"announcement_id":8,"unread_count":0}`, string(resp.Data))

	c, w = testutil.NewTestContext(http.MethodPost, "/api/announcements/8/read", nil)
	testutil.SetAuthContext(c, 99)
	testutil.SetURLParam(c, "id", "8")
	handler.MarkAsRead(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
