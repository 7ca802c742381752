package dto

import (
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/domain/announcement"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/mapper"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/services/markdown"
)

// ToAnnouncementResponse converts the aggregate. A body that fails to render
// leaves body_html empty.
func ToAnnouncementResponse(a *announcement.Announcement, renderer markdown.Renderer) *AnnouncementResponse {
	if a == nil {
		return nil
	}

	bodyHTML := ""
	if renderer != nil {
		if html, err := renderer.Render(a.Body()); err == nil {
			bodyHTML = html
		}
	}

	return &AnnouncementResponse{
		ID:          a.ID(),
		Title:       a.Title(),
		Body:        a.Body(),
		BodyHTML:    bodyHTML,
		Priority:    a.Priority().String(),
		Status:      a.Status().String(),
		TargetRoles: a.TargetRoles().Names(),
		ScheduledAt: a.ScheduledAt(),
		PublishedAt: a.PublishedAt(),
		CreatedBy:   a.CreatedBy(),
		CreatedAt:   a.CreatedAt(),
		UpdatedAt:   a.UpdatedAt(),
	}
}

// ToAnnouncementResponses converts a page and fills is_read from readStates.
// Announcements missing from readStates keep is_read null.
func ToAnnouncementResponses(items []*announcement.Announcement, renderer markdown.Renderer, readStates map[uint]bool) []*AnnouncementResponse {
	return mapper.MapSlice(items, func(a *announcement.Announcement) *AnnouncementResponse {
		resp := ToAnnouncementResponse(a, renderer)
		if isRead, ok := readStates[a.ID()]; ok {
			resp.IsRead = &isRead
		}
		return resp
	})
}
