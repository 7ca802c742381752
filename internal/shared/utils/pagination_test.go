package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/constants"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/errors"
)

func TestNormalizePagination(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		limit     int
		want      Pagination
		wantError bool
	}{
		{name: "defaults", want: Pagination{Page: constants.DefaultPage, Limit: constants.DefaultPageSize}},
		{name: "explicit values", page: 3, limit: 50, want: Pagination{Page: 3, Limit: 50}},
		{name: "max limit", page: 1, limit: constants.MaxPageSize, want: Pagination{Page: 1, Limit: 100}},
		{name: "limit above max", page: 1, limit: 101, wantError: true},
		{name: "negative page", page: -1, limit: 10, wantError: true},
		{name: "negative limit", page: 1, limit: -5, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePagination(tt.page, tt.limit)
			if tt.wantError {
				require.Error(t, err)
				assert.True(t, errors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPagination_OffsetAndHasMore(t *testing.T) {
	p := Pagination{Page: 2, Limit: 10}

	assert.Equal(t, 10, p.Offset())
	assert.True(t, p.HasMore(21))
	assert.False(t, p.HasMore(20))
	assert.False(t, Pagination{Page: 1, Limit: 20}.HasMore(0))
}

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		query     string
		want      Pagination
		wantError bool
	}{
		{name: "empty query", query: "", want: Pagination{Page: 1, Limit: 20}},
		{name: "page and limit", query: "?page=2&limit=5", want: Pagination{Page: 2, Limit: 5}},
		{name: "non numeric", query: "?page=abc", wantError: true},
		{name: "zero limit", query: "?limit=0", wantError: true},
		{name: "limit too large", query: "?limit=500", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/api/announcements"+tt.query, nil)

			got, err := ParsePagination(c)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
