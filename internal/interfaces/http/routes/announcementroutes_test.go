package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	appDto "github.com/corredoraunidad/APP-UNIDAD-sub001/internal/application/announcement/dto"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/interfaces/http/handlers"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/interfaces/http/middleware"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubService struct{}

func (stubService) CreateAnnouncement(ctx context.Context, req appDto.CreateAnnouncementRequest) (*appDto.AnnouncementResponse, error) {
	return &appDto.AnnouncementResponse{ID: 1}, nil
}

func (stubService) UpdateAnnouncement(ctx context.Context, id uint, req appDto.UpdateAnnouncementRequest) (*appDto.AnnouncementResponse, error) {
	return &appDto.AnnouncementResponse{ID: id}, nil
}

func (stubService) DeleteAnnouncement(ctx context.Context, id uint) error { return nil }

func (stubService) PublishAnnouncement(ctx context.Context, id uint) (*appDto.AnnouncementResponse, *appDto.FanoutResult, error) {
	return &appDto.AnnouncementResponse{ID: id}, &appDto.FanoutResult{}, nil
}

func (stubService) ArchiveAnnouncement(ctx context.Context, id uint) (*appDto.AnnouncementResponse, error) {
	return &appDto.AnnouncementResponse{ID: id}, nil
}

func (stubService) ListAnnouncements(ctx context.Context, req appDto.ListAnnouncementsRequest) (*appDto.ListAnnouncementsResponse, error) {
	return &appDto.ListAnnouncementsResponse{Items: []*appDto.AnnouncementResponse{}, Page: 1, Limit: 20}, nil
}

func (stubService) ViewAnnouncement(ctx context.Context, id, userID uint) (*appDto.AnnouncementDetailResponse, error) {
	return &appDto.AnnouncementDetailResponse{AnnouncementResponse: &appDto.AnnouncementResponse{ID: id}}, nil
}

func (stubService) MarkAsRead(ctx context.Context, id, userID uint) (*appDto.MarkReadResponse, error) {
	return &appDto.MarkReadResponse{AnnouncementID: id}, nil
}

func (stubService) GetUnreadCount(ctx context.Context, userID uint) (*appDto.UnreadCountResponse, error) {
	return &appDto.UnreadCountResponse{UnreadCount: 2}, nil
}

// stubVerifier maps bearer tokens to user ids.
type stubVerifier map[string]uint

func (v stubVerifier) VerifyUserID(token string) (uint, error) {
	if id, ok := v[token]; ok {
		return id, nil
	}
	return 0, errors.New("invalid token")
}

// stubChecker lists the users allowed to write.
type stubChecker map[uint]bool

func (c stubChecker) Enforce(userID uint, resource, action string) (bool, error) {
	return c[userID], nil
}

func newTestEngine() *gin.Engine {
	log := logger.NewNop()
	engine := gin.New()
	SetupAnnouncementRoutes(engine, &AnnouncementRouteConfig{
		AnnouncementHandler:  handlers.NewAnnouncementHandler(stubService{}, log),
		AuthMiddleware:       middleware.NewAuthMiddleware(stubVerifier{"admin-token": 1, "broker-token": 2}, log),
		PermissionMiddleware: middleware.NewPermissionMiddleware(stubChecker{1: true}, log),
	})
	return engine
}

func TestSetupAnnouncementRoutes(t *testing.T) {
	engine := newTestEngine()
	createBody := `{"title":"t","body":"b","target_roles":["broker"]}`

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		token      string
		wantStatus int
	}{
		{"list requires auth", http.MethodGet, "/api/announcements", "", "", http.StatusUnauthorized},
		{"list", http.MethodGet, "/api/announcements", "", "broker-token", http.StatusOK},
		{"unread count is not an id", http.MethodGet, "/api/announcements/unread-count", "", "broker-token", http.StatusOK},
		{"view", http.MethodGet, "/api/announcements/5", "", "broker-token", http.StatusOK},
		{"mark read", http.MethodPost, "/api/announcements/5/read", "", "broker-token", http.StatusOK},
		{"create as reader", http.MethodPost, "/api/announcements", createBody, "broker-token", http.StatusForbidden},
		{"create as writer", http.MethodPost, "/api/announcements", createBody, "admin-token", http.StatusCreated},
		{"update as reader", http.MethodPatch, "/api/announcements/5", `{"title":"x"}`, "broker-token", http.StatusForbidden},
		{"update as writer", http.MethodPatch, "/api/announcements/5", `{"title":"x"}`, "admin-token", http.StatusOK},
		{"delete as writer", http.MethodDelete, "/api/announcements/5", "", "admin-token", http.StatusNoContent},
		{"publish as reader", http.MethodPost, "/api/announcements/5/publish", "", "broker-token", http.StatusForbidden},
		{"publish as writer", http.MethodPost, "/api/announcements/5/publish", "", "admin-token", http.StatusOK},
		{"archive as writer", http.MethodPost, "/api/announcements/5/archive", "", "admin-token", http.StatusOK},
		{"bad token", http.MethodGet, "/api/announcements", "", "forged", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()

			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestSetupAnnouncementRoutes_WithoutBadgeHandler(t *testing.T) {
	engine := newTestEngine()

	req := httptest.NewRequest(http.MethodGet, "/ws/announcements/badge?token=broker-token", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
