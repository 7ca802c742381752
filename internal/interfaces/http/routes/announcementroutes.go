package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/interfaces/http/handlers"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/interfaces/http/middleware"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/constants"
)

type AnnouncementRouteConfig struct {
	AnnouncementHandler  *handlers.AnnouncementHandler
	BadgeHandler         *handlers.BadgeHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
	BadgeRateLimiter     *middleware.RateLimiter
}

func SetupAnnouncementRoutes(engine *gin.Engine, config *AnnouncementRouteConfig) {
	canWrite := config.PermissionMiddleware.RequirePermission(constants.ResourceAnnouncements, constants.ActionWrite)

	announcements := engine.Group("/api/announcements")
	announcements.Use(config.AuthMiddleware.RequireAuth())
	{
		announcements.GET("", config.AnnouncementHandler.ListAnnouncements)
		// Must come before /:id
		announcements.GET("/unread-count", config.AnnouncementHandler.GetUnreadCount)
		announcements.GET("/:id", config.AnnouncementHandler.GetAnnouncement)
		announcements.POST("/:id/read", config.AnnouncementHandler.MarkAsRead)

		announcements.POST("", canWrite, config.AnnouncementHandler.CreateAnnouncement)
		announcements.PATCH("/:id", canWrite, config.AnnouncementHandler.UpdateAnnouncement)
		announcements.DELETE("/:id", canWrite, config.AnnouncementHandler.DeleteAnnouncement)
		announcements.POST("/:id/publish", canWrite, config.AnnouncementHandler.PublishAnnouncement)
		announcements.POST("/:id/archive", canWrite, config.AnnouncementHandler.ArchiveAnnouncement)
	}

	if config.BadgeHandler != nil {
		ws := engine.Group("/ws/announcements")
		ws.Use(config.AuthMiddleware.RequireAuthWithQueryToken())
		if config.BadgeRateLimiter != nil {
			ws.Use(config.BadgeRateLimiter.Limit())
		}
		{
			ws.GET("/badge", config.BadgeHandler.BadgeWS)
		}
	}
}
