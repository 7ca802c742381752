package dto

import (
	"time"
)

type CreateAnnouncementRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Body        string     `json:"body" binding:"required"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	Status      string     `json:"status" binding:"omitempty,oneof=draft published"`
	TargetRoles []string   `json:"target_roles" binding:"required,min=1,dive,required,max=64"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	CreatedBy   uint       `json:"-"` // Set by handler from authenticated user
}

// UpdateAnnouncementRequest applies only the fields that are present.
// TargetRoles, when present, replaces the whole set.
type UpdateAnnouncementRequest struct {
	Title            *string    `json:"title" binding:"omitempty,max=255"`
	Body             *string    `json:"body"`
	Priority         *string    `json:"priority" binding:"omitempty,oneof=low medium high"`
	Status           *string    `json:"status" binding:"omitempty,oneof=draft published archived"`
	ScheduledAt      *time.Time `json:"scheduled_at"`
	ClearScheduledAt bool       `json:"clear_scheduled_at"`
	TargetRoles      *[]string  `json:"target_roles" binding:"omitempty,min=1,dive,required,max=64"`
}

// ListAnnouncementsRequest carries raw query values; dates accept RFC3339 or
// YYYY-MM-DD in the business timezone.
type ListAnnouncementsRequest struct {
	ViewerID    uint   `form:"-"`
	Page        int    `form:"page"`
	Limit       int    `form:"limit"`
	Priority    string `form:"priority" binding:"omitempty,oneof=low medium high"`
	Status      string `form:"status" binding:"omitempty,oneof=draft published archived"`
	Search      string `form:"search" binding:"omitempty,max=255"`
	CreatedFrom string `form:"created_from"`
	CreatedTo   string `form:"created_to"`
	UnreadOnly  bool   `form:"unread_only"`
}

type AnnouncementResponse struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	BodyHTML    string     `json:"body_html"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	TargetRoles []string   `json:"target_roles"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedBy   uint       `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	IsRead      *bool      `json:"is_read"` // nil when the viewer holds no receipt
}

type AnnouncementDetailResponse struct {
	*AnnouncementResponse
	RecipientsTotal  int64  `json:"recipients_total"`
	RecipientsRead   int64  `json:"recipients_read"`
	RecipientsUnread int64  `json:"recipients_unread"`
	UnreadCount      *int64 `json:"unread_count,omitempty"`
}

type ListAnnouncementsResponse struct {
	Items   []*AnnouncementResponse `json:"items"`
	Total   int64                   `json:"total"`
	Page    int                     `json:"page"`
	Limit   int                     `json:"limit"`
	HasMore bool                    `json:"has_more"`
}

type UnreadCountResponse struct {
	UnreadCount int64 `json:"unread_count"`
}

type MarkReadResponse struct {
	AnnouncementID uint  `json:"announcement_id"`
	UnreadCount    int64 `json:"unread_count"`
}

// FanoutResult summarises one fan-out run.
type FanoutResult struct {
	Targeted int `json:"targeted"`
	Created  int `json:"created"`
	Skipped  int `json:"skipped"`
}
