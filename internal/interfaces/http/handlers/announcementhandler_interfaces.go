package handlers

import (
	"context"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/application/announcement/dto"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/application/announcement/usecases"
)

// Service interfaces for the announcement handlers - enables unit testing with mocks.

type announcementService interface {
	CreateAnnouncement(ctx context.Context, req dto.CreateAnnouncementRequest) (*dto.AnnouncementResponse, error)
	UpdateAnnouncement(ctx context.Context, id uint, req dto.UpdateAnnouncementRequest) (*dto.AnnouncementResponse, error)
	DeleteAnnouncement(ctx context.Context, id uint) error
	PublishAnnouncement(ctx context.Context, id uint) (*dto.AnnouncementResponse, *dto.FanoutResult, error)
	ArchiveAnnouncement(ctx context.Context, id uint) (*dto.AnnouncementResponse, error)
	ListAnnouncements(ctx context.Context, req dto.ListAnnouncementsRequest) (*dto.ListAnnouncementsResponse, error)
	ViewAnnouncement(ctx context.Context, id, userID uint) (*dto.AnnouncementDetailResponse, error)
	MarkAsRead(ctx context.Context, id, userID uint) (*dto.MarkReadResponse, error)
	GetUnreadCount(ctx context.Context, userID uint) (*dto.UnreadCountResponse, error)
}

type badgeStreamer interface {
	StreamBadge(ctx context.Context, userID uint, push usecases.BadgePushFunc) error
}

// connectionGauge is satisfied by *metrics.Metrics.
type connectionGauge interface {
	ConnectionOpened()
	ConnectionClosed()
}
