package mappers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/corredoraunidad/APP-UNIDAD-sub001/internal/domain/announcement/valueobjects"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/infrastructure/persistence/models"
)

func TestAnnouncementMapper_RoundTrip(t *testing.T) {
	m := NewAnnouncementMapper()
	published := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
	model := &models.AnnouncementModel{
		ID:          3,
		Title:       "Nueva tabla de comisiones",
		Body:        "Ver adjunto",
		Priority:    "high",
		Status:      "published",
		PublishedAt: &published,
		CreatedBy:   9,
		CreatedAt:   published,
		UpdatedAt:   published,
	}

	entity, err := m.ToEntity(model, []string{"broker", "admin"})
	require.NoError(t, err)
	assert.Equal(t, vo.StatusPublished, entity.Status())
	assert.Equal(t, vo.PriorityHigh, entity.Priority())
	assert.Equal(t, []string{"admin", "broker"}, entity.TargetRoles().Names())
	assert.False(t, entity.TargetRolesChanged())

	back := m.ToModel(entity)
	assert.Equal(t, model.Title, back.Title)
	assert.Equal(t, model.Status, back.Status)
	assert.Equal(t, published, *back.PublishedAt)

	roles := m.ToRoleModels(entity)
	require.Len(t, roles, 2)
	assert.Equal(t, uint(3), roles[0].AnnouncementID)
	assert.Equal(t, "admin", roles[0].Role)
}

func TestAnnouncementMapper_RejectsUnknownStatus(t *testing.T) {
	m := NewAnnouncementMapper()

	_, err := m.ToEntity(&models.AnnouncementModel{ID: 1, Priority: "low", Status: "expired"}, []string{"admin"})
	assert.Error(t, err)

	entities, err := m.ToEntities([]*models.AnnouncementModel{
		{ID: 1, Priority: "low", Status: "draft"},
		{ID: 2, Priority: "nope", Status: "draft"},
	}, nil)
	assert.Nil(t, entities)
	assert.ErrorContains(t, err, "item ID 2")
}
