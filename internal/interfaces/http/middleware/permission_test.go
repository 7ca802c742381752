package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/constants"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/logger"
)

type mockChecker struct {
	enforceFn func(userID uint, resource, action string) (bool, error)
}

func (m *mockChecker) Enforce(userID uint, resource, action string) (bool, error) {
	return m.enforceFn(userID, resource, action)
}

func TestPermissionMiddleware_RequirePermission(t *testing.T) {
	tests := []struct {
		name       string
		userID     uint
		allowed    bool
		err        error
		wantStatus int
	}{
		{"allowed", 1, true, nil, http.StatusOK},
		{"denied", 2, false, nil, http.StatusForbidden},
		{"checker error", 1, false, errors.New("policy store unreachable"), http.StatusServiceUnavailable},
		{"no user", 0, true, nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotResource, gotAction string
			m := NewPermissionMiddleware(&mockChecker{
				enforceFn: func(userID uint, resource, action string) (bool, error) {
					gotResource, gotAction = resource, action
					return tt.allowed, tt.err
				},
			}, logger.NewNop())

			engine := gin.New()
			engine.POST("/",
				func(c *gin.Context) {
					if tt.userID != 0 {
						c.Set(constants.ContextKeyUserID, tt.userID)
					}
				},
				m.RequirePermission(constants.ResourceAnnouncements, constants.ActionWrite),
				func(c *gin.Context) { c.Status(http.StatusOK) },
			)
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.userID != 0 {
				assert.Equal(t, constants.ResourceAnnouncements, gotResource)
				assert.Equal(t, constants.ActionWrite, gotAction)
			}
		})
	}
}
