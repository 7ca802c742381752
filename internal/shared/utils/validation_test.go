package utils

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/errors"
)

type sampleRequest struct {
	Title    string   `json:"title" binding:"required" validate:"required,max=200"`
	Priority string   `json:"priority" validate:"omitempty,oneof=low medium high"`
	Roles    []string `json:"target_roles" validate:"required,min=1"`
}

func TestValidateStruct(t *testing.T) {
	err := ValidateStruct(sampleRequest{Title: "Cierre de mes", Roles: []string{"broker"}})
	assert.NoError(t, err)

	err = ValidateStruct(sampleRequest{Priority: "urgent"})
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
	assert.Contains(t, appErr.Details, "title is required")
	assert.Contains(t, appErr.Details, "priority must be one of [low medium high]")
	assert.Contains(t, appErr.Details, "target_roles is required")
}

func TestBindingError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	type body struct {
		Title string `json:"title" binding:"required"`
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/", strings.NewReader(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")
	var b body
	err := BindingError(c.ShouldBindJSON(&b))
	assert.True(t, errors.IsValidationError(err))
	assert.Contains(t, errors.GetAppError(err).Details, "required")

	c.Request = httptest.NewRequest("POST", "/", strings.NewReader(`{"title":`))
	c.Request.Header.Set("Content-Type", "application/json")
	err = BindingError(c.ShouldBindJSON(&b))
	assert.False(t, errors.IsValidationError(err))
	assert.Equal(t, errors.ErrorTypeBadRequest, errors.GetAppError(err).Type)
	assert.Equal(t, 400, errors.GetAppError(err).Code)
}

func TestParseUintParam(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		value   string
		want    uint
		wantErr bool
	}{
		{name: "valid", value: "42", want: 42},
		{name: "zero", value: "0", wantErr: true},
		{name: "negative", value: "-1", wantErr: true},
		{name: "text", value: "abc", wantErr: true},
		{name: "missing", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Params = gin.Params{{Key: "id", Value: tt.value}}

			got, err := ParseUintParam(c, "id", "announcement")
			if tt.wantErr {
				assert.True(t, errors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
