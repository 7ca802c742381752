package announcement

import (
	"context"
	"time"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/application/announcement/dto"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/application/announcement/usecases"
	domain "github.com/corredoraunidad/APP-UNIDAD-sub001/internal/domain/announcement"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/logger"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/services/markdown"
)

// Metrics is satisfied by *metrics.Metrics.
type Metrics interface {
	usecases.FanoutMetrics
	usecases.BadgeMetrics
}

// Dependencies collects what the announcement service needs from infrastructure.
type Dependencies struct {
	Repo           domain.Repository
	Recipients     domain.RecipientRepository
	TxManager      usecases.TransactionRunner
	Roles          usecases.RoleDirectory
	Publisher      usecases.EventPublisher
	Subscriber     usecases.EventSubscriber
	Renderer       markdown.Renderer
	Metrics        Metrics
	RefreshTimeout time.Duration
}

type ServiceDDD struct {
	logger logger.Interface

	createAnnouncement  *usecases.CreateAnnouncementUseCase
	updateAnnouncement  *usecases.UpdateAnnouncementUseCase
	deleteAnnouncement  *usecases.DeleteAnnouncementUseCase
	publishAnnouncement *usecases.PublishAnnouncementUseCase
	archiveAnnouncement *usecases.ArchiveAnnouncementUseCase
	listAnnouncements   *usecases.ListAnnouncementsUseCase
	getAnnouncement     *usecases.GetAnnouncementUseCase
	viewAnnouncement    *usecases.ViewAnnouncementUseCase
	markAsRead          *usecases.MarkAnnouncementAsReadUseCase
	getUnreadCount      *usecases.GetUnreadCountUseCase
	fanoutRecipients    *usecases.FanoutRecipientsUseCase
	publishDue          *usecases.PublishDueAnnouncementsUseCase
	badgeBridge         *usecases.BadgeBridge
}

func NewServiceDDD(deps Dependencies, logger logger.Interface) *ServiceDDD {
	var (
		fanoutMetrics usecases.FanoutMetrics
		badgeMetrics  usecases.BadgeMetrics
	)
	if deps.Metrics != nil {
		fanoutMetrics = deps.Metrics
		badgeMetrics = deps.Metrics
	}

	resolver := usecases.NewResolveTargetUsersUseCase(deps.Roles, logger)
	fanout := usecases.NewFanoutRecipientsUseCase(deps.Recipients, resolver, fanoutMetrics, logger)
	publish := usecases.NewPublishAnnouncementUseCase(deps.Repo, deps.TxManager, fanout, deps.Renderer, logger)
	get := usecases.NewGetAnnouncementUseCase(deps.Repo, deps.Recipients, deps.Renderer, logger)
	markRead := usecases.NewMarkAnnouncementAsReadUseCase(deps.Recipients, logger)
	unread := usecases.NewGetUnreadCountUseCase(deps.Recipients, logger)

	s := &ServiceDDD{
		logger: logger,

		createAnnouncement:  usecases.NewCreateAnnouncementUseCase(deps.Repo, deps.TxManager, fanout, deps.Publisher, deps.Renderer, logger),
		updateAnnouncement:  usecases.NewUpdateAnnouncementUseCase(deps.Repo, deps.TxManager, fanout, deps.Renderer, logger),
		deleteAnnouncement:  usecases.NewDeleteAnnouncementUseCase(deps.Repo, deps.Recipients, deps.TxManager, logger),
		publishAnnouncement: publish,
		archiveAnnouncement: usecases.NewArchiveAnnouncementUseCase(deps.Repo, deps.TxManager, deps.Renderer, logger),
		listAnnouncements:   usecases.NewListAnnouncementsUseCase(deps.Repo, deps.Recipients, deps.Renderer, logger),
		getAnnouncement:     get,
		viewAnnouncement:    usecases.NewViewAnnouncementUseCase(get, markRead, unread, logger),
		markAsRead:          markRead,
		getUnreadCount:      unread,
		fanoutRecipients:    fanout,
		publishDue:          usecases.NewPublishDueAnnouncementsUseCase(deps.Repo, publish, logger),
	}
	if deps.Subscriber != nil {
		s.badgeBridge = usecases.NewBadgeBridge(deps.Subscriber, unread, badgeMetrics, deps.RefreshTimeout, logger)
	}
	return s
}

func (s *ServiceDDD) CreateAnnouncement(ctx context.Context, req dto.CreateAnnouncementRequest) (*dto.AnnouncementResponse, error) {
	return s.createAnnouncement.Execute(ctx, req)
}

func (s *ServiceDDD) UpdateAnnouncement(ctx context.Context, id uint, req dto.UpdateAnnouncementRequest) (*dto.AnnouncementResponse, error) {
	return s.updateAnnouncement.Execute(ctx, id, req)
}

func (s *ServiceDDD) DeleteAnnouncement(ctx context.Context, id uint) error {
	return s.deleteAnnouncement.Execute(ctx, id)
}

func (s *ServiceDDD) PublishAnnouncement(ctx context.Context, id uint) (*dto.AnnouncementResponse, *dto.FanoutResult, error) {
	return s.publishAnnouncement.Execute(ctx, id)
}

func (s *ServiceDDD) ArchiveAnnouncement(ctx context.Context, id uint) (*dto.AnnouncementResponse, error) {
	return s.archiveAnnouncement.Execute(ctx, id)
}

func (s *ServiceDDD) ListAnnouncements(ctx context.Context, req dto.ListAnnouncementsRequest) (*dto.ListAnnouncementsResponse, error) {
	return s.listAnnouncements.Execute(ctx, req)
}

func (s *ServiceDDD) GetAnnouncement(ctx context.Context, id, viewerID uint) (*dto.AnnouncementDetailResponse, error) {
	return s.getAnnouncement.Execute(ctx, id, viewerID)
}

func (s *ServiceDDD) ViewAnnouncement(ctx context.Context, id, userID uint) (*dto.AnnouncementDetailResponse, error) {
	return s.viewAnnouncement.Execute(ctx, id, userID)
}

// MarkAsRead records the read and returns the caller's fresh badge count.
func (s *ServiceDDD) MarkAsRead(ctx context.Context, id, userID uint) (*dto.MarkReadResponse, error) {
	if err := s.markAsRead.Execute(ctx, userID, id); err != nil {
		return nil, err
	}
	count, err := s.getUnreadCount.Execute(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.MarkReadResponse{AnnouncementID: id, UnreadCount: count}, nil
}

func (s *ServiceDDD) GetUnreadCount(ctx context.Context, userID uint) (*dto.UnreadCountResponse, error) {
	count, err := s.getUnreadCount.Execute(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.UnreadCountResponse{UnreadCount: count}, nil
}

// Fanout inserts receipts for userIDs directly, bypassing role resolution.
func (s *ServiceDDD) Fanout(ctx context.Context, announcementID uint, userIDs []uint) (*dto.FanoutResult, error) {
	return s.fanoutRecipients.Execute(ctx, announcementID, userIDs)
}

// PublishDueAnnouncements returns the batch job the scheduler drives.
func (s *ServiceDDD) PublishDueAnnouncements() *usecases.PublishDueAnnouncementsUseCase {
	return s.publishDue
}

// StreamBadge blocks until ctx ends, pushing badge values for userID.
func (s *ServiceDDD) StreamBadge(ctx context.Context, userID uint, push usecases.BadgePushFunc) error {
	if s.badgeBridge == nil {
		<-ctx.Done()
		return nil
	}
	return s.badgeBridge.Run(ctx, userID, push)
}
