package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	announcementApp "github.com/corredoraunidad/APP-UNIDAD-sub001/internal/application/announcement"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/domain/announcement"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/infrastructure/auth"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/infrastructure/config"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/infrastructure/metrics"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/infrastructure/permission"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/infrastructure/pubsub"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/infrastructure/repository"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/infrastructure/scheduler"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/interfaces/http/handlers"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/interfaces/http/middleware"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/db"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/logger"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/services/markdown"
)

// Container holds the infrastructure components, services, handlers and
// background jobs of the announcement service and wires them together.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	repos *repositories

	metrics         *metrics.Metrics
	metricsGatherer prometheus.Gatherer
	jwtSvc          *auth.JWTService
	enforcer        *permission.Enforcer
	eventBus        *pubsub.RedisAnnouncementEventBus

	announcementService   *announcementApp.ServiceDDD
	announcementScheduler *scheduler.AnnouncementScheduler

	hdlrs *allHandlers

	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	badgeRateLimiter     *middleware.RateLimiter
}

type repositories struct {
	announcement announcement.Repository
	recipient    announcement.RecipientRepository
}

type allHandlers struct {
	announcement *handlers.AnnouncementHandler
	badge        *handlers.BadgeHandler
	health       *handlers.HealthHandler
}

// ContainerOption customizes container construction.
type ContainerOption func(*containerOptions)

type containerOptions struct {
	registry *prometheus.Registry
	enforcer *permission.Enforcer
}

// WithMetricsRegistry registers instruments on reg instead of the default registry.
func WithMetricsRegistry(reg *prometheus.Registry) ContainerOption {
	return func(o *containerOptions) { o.registry = reg }
}

// WithEnforcer uses a prebuilt enforcer instead of the database backed one.
func WithEnforcer(e *permission.Enforcer) ContainerOption {
	return func(o *containerOptions) { o.enforcer = e }
}

// NewContainer wires the service. redisClient may be nil, in which case
// created events are not published and the badge websocket is disabled.
func NewContainer(gdb *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface, opts ...ContainerOption) (*Container, error) {
	var o containerOptions
	for _, opt := range opts {
		opt(&o)
	}

	c := &Container{
		engine: gin.New(),
		db:     gdb,
		cfg:    cfg,
		log:    log,
		redis:  redisClient,
	}

	// Section 1: Infrastructure - repositories, metrics, auth, casbin, change feed
	if err := c.initInfrastructure(o); err != nil {
		return nil, err
	}

	// Section 2: Announcement service and scheduled publishing
	c.initAnnouncement()

	// Section 3: Handlers and middlewares
	c.initHandlers()

	return c, nil
}

func (c *Container) initInfrastructure(o containerOptions) error {
	c.repos = &repositories{
		announcement: repository.NewAnnouncementRepository(c.db),
		recipient:    repository.NewRecipientRepository(c.db),
	}

	if o.registry != nil {
		c.metrics = metrics.NewWithRegistry(o.registry)
		c.metricsGatherer = o.registry
	} else {
		c.metrics = metrics.New()
		c.metricsGatherer = prometheus.DefaultGatherer
	}

	c.jwtSvc = auth.NewJWTService(c.cfg.Auth.JWT.Secret, c.cfg.Auth.JWT.Issuer)

	c.enforcer = o.enforcer
	if c.enforcer == nil {
		enforcer, err := permission.NewEnforcer(c.db, c.log)
		if err != nil {
			return fmt.Errorf("failed to initialize permission enforcer: %w", err)
		}
		c.enforcer = enforcer
	}
	if err := c.enforcer.SeedDefaultPolicies(); err != nil {
		return fmt.Errorf("failed to seed default policies: %w", err)
	}

	if c.redis != nil {
		c.eventBus = pubsub.NewRedisAnnouncementEventBus(c.redis, c.cfg.Realtime.Channel, c.log)
		c.log.Infow("announcement change feed enabled",
			"channel", c.cfg.Realtime.Channel,
			"instance_id", c.eventBus.InstanceID(),
		)
	} else {
		c.log.Warnw("redis not configured, realtime badge updates disabled")
	}

	return nil
}

func (c *Container) initAnnouncement() {
	deps := announcementApp.Dependencies{
		Repo:           c.repos.announcement,
		Recipients:     c.repos.recipient,
		TxManager:      db.NewTransactionManager(c.db),
		Roles:          permission.NewRoleDirectory(c.enforcer, true),
		Renderer:       markdown.NewRenderer(),
		Metrics:        c.metrics,
		RefreshTimeout: c.cfg.Realtime.RefreshLimit,
	}
	if c.eventBus != nil {
		deps.Publisher = c.eventBus
		deps.Subscriber = c.eventBus
	}

	c.announcementService = announcementApp.NewServiceDDD(deps, c.log.Named("announcement"))
	c.announcementScheduler = scheduler.NewAnnouncementScheduler(
		c.announcementService.PublishDueAnnouncements(),
		c.cfg.Scheduler.Interval,
		c.log.Named("scheduler"),
	)
}

func (c *Container) initHandlers() {
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, c.log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.enforcer, c.log)

	checks := map[string]handlers.HealthChecker{
		"database": func(ctx context.Context) error {
			sqlDB, err := c.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if c.redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return c.redis.Ping(ctx).Err()
		}
	}

	c.hdlrs = &allHandlers{
		announcement: handlers.NewAnnouncementHandler(c.announcementService, c.log),
		health:       handlers.NewHealthHandler(checks, c.log),
	}
	if c.eventBus != nil {
		c.hdlrs.badge = handlers.NewBadgeHandler(c.announcementService, c.metrics, handlers.BadgeOptions{
			PingPeriod:     c.cfg.Realtime.PingPeriod,
			PongWait:       c.cfg.Realtime.PongWait,
			WriteWait:      c.cfg.Realtime.WriteWait,
			SendBuffer:     c.cfg.Realtime.SendBuffer,
			AllowedOrigins: c.cfg.Server.AllowedOrigins,
		}, c.log)
		c.badgeRateLimiter = middleware.NewRateLimiter(c.redis, "badge-ws", c.cfg.Realtime.ConnectRateLimit, time.Minute, c.log)
	}
}
