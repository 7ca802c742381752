package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/goroutine"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/logger"
)

const defaultInterval = time.Minute

// BatchJob processes one batch and reports how many items it handled.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// AnnouncementScheduler publishes announcements whose scheduled time has passed.
type AnnouncementScheduler struct {
	job      BatchJob
	logger   logger.Interface
	interval time.Duration
	timeout  time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewAnnouncementScheduler(job BatchJob, interval time.Duration, log logger.Interface) *AnnouncementScheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &AnnouncementScheduler{
		job:      job,
		logger:   log,
		interval: interval,
		timeout:  interval,
		stopChan: make(chan struct{}),
	}
}

// Start runs one pass immediately, then one per interval, until Stop or ctx ends.
func (s *AnnouncementScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting announcement scheduler", "interval", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		goroutine.Recovered(s.logger, "announcement-scheduler", func() {
			s.runLoop(ctx)
		})()
	}()
}

// Stop stops the scheduler and waits for an in-flight pass.
func (s *AnnouncementScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Infow("stopping announcement scheduler")
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("announcement scheduler stopped")
	})
}

func (s *AnnouncementScheduler) runLoop(ctx context.Context) {
	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("announcement scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *AnnouncementScheduler) runOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	published, err := s.job.Execute(ctx)
	if err != nil {
		s.logger.Errorw("failed to publish due announcements",
			"error", err,
			"duration", time.Since(start),
		)
		return
	}

	if published > 0 {
		s.logger.Infow("due announcements published",
			"count", published,
			"duration", time.Since(start),
		)
		return
	}
	s.logger.Debugw("no due announcements", "duration", time.Since(start))
}
