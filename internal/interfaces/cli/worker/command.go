// Package worker runs scheduled publishing without the HTTP surface.
package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	announcementApp "github.com/corredoraunidad/APP-UNIDAD-sub001/internal/application/announcement"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/infrastructure/config"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/infrastructure/database"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/infrastructure/metrics"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/infrastructure/permission"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/infrastructure/repository"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/infrastructure/scheduler"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/interfaces/cli/bootstrap"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/db"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/logger"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/services/markdown"
)

var (
	env  string
	once bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Publish scheduled announcements",
		Long:  `Run the scheduler that publishes announcements whose scheduled time has passed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(bootstrap.ResolveEnv(env), once)
		},
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&once, "once", false, "Publish due announcements once and exit")

	return cmd
}

// Run starts the worker and blocks until SIGINT or SIGTERM. With runOnce it
// handles a single batch and returns.
func Run(env string, runOnce bool) error {
	cfg, log, err := bootstrap.InitWithDatabase(env)
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("starting announcement worker", "environment", env, "interval", cfg.Scheduler.Interval)

	service, err := newService(cfg, log)
	if err != nil {
		return err
	}
	job := service.PublishDueAnnouncements()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if runOnce {
		published, err := job.Execute(ctx)
		if err != nil {
			return fmt.Errorf("failed to publish due announcements: %w", err)
		}
		log.Infow("published due announcements", "count", published)
		return nil
	}

	sched := scheduler.NewAnnouncementScheduler(job, cfg.Scheduler.Interval, log.Named("scheduler"))
	sched.Start(ctx)

	<-ctx.Done()
	log.Infow("received signal, shutting down")
	sched.Stop()

	log.Infow("announcement worker stopped")
	return nil
}

// newService wires the publish path. Created events are only emitted on
// create, so the worker needs no change feed.
func newService(cfg *config.Config, log logger.Interface) (*announcementApp.ServiceDDD, error) {
	gdb := database.Get()

	enforcer, err := permission.NewEnforcer(gdb, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize permission enforcer: %w", err)
	}

	return announcementApp.NewServiceDDD(announcementApp.Dependencies{
		Repo:           repository.NewAnnouncementRepository(gdb),
		Recipients:     repository.NewRecipientRepository(gdb),
		TxManager:      db.NewTransactionManager(gdb),
		Roles:          permission.NewRoleDirectory(enforcer, true),
		Renderer:       markdown.NewRenderer(),
		Metrics:        metrics.New(),
		RefreshTimeout: cfg.Realtime.RefreshLimit,
	}, log.Named("announcement")), nil
}
