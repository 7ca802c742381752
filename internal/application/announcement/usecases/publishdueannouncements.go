package usecases

import (
	"context"
	"fmt"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/domain/announcement"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/biztime"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/logger"
)

const dueBatchSize = 100

// PublishDueAnnouncementsUseCase publishes drafts whose scheduled time has
// passed. Each one goes through the regular publish path in its own
// transaction, so a failure only skips that announcement.
type PublishDueAnnouncementsUseCase struct {
	repo    announcement.Repository
	publish *PublishAnnouncementUseCase
	logger  logger.Interface
}

func NewPublishDueAnnouncementsUseCase(
	repo announcement.Repository,
	publish *PublishAnnouncementUseCase,
	logger logger.Interface,
) *PublishDueAnnouncementsUseCase {
	return &PublishDueAnnouncementsUseCase{
		repo:    repo,
		publish: publish,
		logger:  logger,
	}
}

// Execute returns how many announcements were published.
func (uc *PublishDueAnnouncementsUseCase) Execute(ctx context.Context) (int, error) {
	now := biztime.NowUTC()
	due, err := uc.repo.FindDueScheduled(ctx, now, dueBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to find due announcements: %w", err)
	}

	published := 0
	for _, a := range due {
		if err := ctx.Err(); err != nil {
			return published, err
		}
		result, ok, err := uc.publish.ExecuteScheduled(ctx, a.ID(), now)
		if err != nil {
			uc.logger.Errorw("failed to publish scheduled announcement",
				"announcement_id", a.ID(),
				"error", err,
			)
			continue
		}
		if !ok {
			uc.logger.Infow("scheduled announcement changed before publication, skipped", "announcement_id", a.ID())
			continue
		}
		published++
		uc.logger.Infow("scheduled announcement published",
			"announcement_id", a.ID(),
			"recipients_created", result.Created,
		)
	}
	return published, nil
}
