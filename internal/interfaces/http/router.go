package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/interfaces/http/middleware"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/interfaces/http/routes"

	_ "github.com/corredoraunidad/APP-UNIDAD-sub001/docs"
)

// Router represents the HTTP router configuration
type Router struct {
	*Container
}

// NewRouter creates a router over a wired container.
func NewRouter(c *Container) *Router {
	return &Router{Container: c}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Logger(r.log))
	r.engine.Use(middleware.Recovery(r.log))
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))
	r.engine.Use(middleware.SecurityHeaders())

	routes.SetupSystemRoutes(r.engine, &routes.SystemRouteConfig{
		HealthHandler:  r.hdlrs.health,
		MetricsHandler: promhttp.HandlerFor(r.metricsGatherer, promhttp.HandlerOpts{}),
		EnableSwagger:  r.cfg.Server.IsDebug(),
	})

	routes.SetupAnnouncementRoutes(r.engine, &routes.AnnouncementRouteConfig{
		AnnouncementHandler:  r.hdlrs.announcement,
		BadgeHandler:         r.hdlrs.badge,
		AuthMiddleware:       r.authMiddleware,
		PermissionMiddleware: r.permissionMiddleware,
		BadgeRateLimiter:     r.badgeRateLimiter,
	})
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// StartScheduler runs scheduled publishing in this process until ctx is done or Shutdown is called.
func (r *Router) StartScheduler(ctx context.Context) {
	r.announcementScheduler.Start(ctx)
}

// Shutdown stops background jobs. Open badge websockets end with their request contexts.
func (r *Router) Shutdown() {
	if r.announcementScheduler != nil {
		r.announcementScheduler.Stop()
	}
}
