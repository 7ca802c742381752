package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/application/announcement/dto"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/domain/announcement"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/errors"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/logger"
)

// FanoutRecipientsUseCase creates one unread receipt per targeted user. It is
// add-only and idempotent: existing receipts keep their read state and users
// who lost a role keep theirs.
type FanoutRecipientsUseCase struct {
	recipients announcement.RecipientRepository
	resolver   *ResolveTargetUsersUseCase
	metrics    FanoutMetrics
	logger     logger.Interface
}

func NewFanoutRecipientsUseCase(
	recipients announcement.RecipientRepository,
	resolver *ResolveTargetUsersUseCase,
	m FanoutMetrics,
	logger logger.Interface,
) *FanoutRecipientsUseCase {
	if m == nil {
		m = noopMetrics{}
	}
	return &FanoutRecipientsUseCase{
		recipients: recipients,
		resolver:   resolver,
		metrics:    m,
		logger:     logger,
	}
}

// Execute inserts receipts for userIDs. Duplicate-key races with a concurrent
// fan-out count as skipped.
func (uc *FanoutRecipientsUseCase) Execute(ctx context.Context, announcementID uint, userIDs []uint) (*dto.FanoutResult, error) {
	start := time.Now()
	result := &dto.FanoutResult{Targeted: len(userIDs)}

	defer func() {
		uc.metrics.AddReceipts(ReceiptCreated, result.Created)
		uc.metrics.AddReceipts(ReceiptSkipped, result.Skipped)
		uc.metrics.ObserveFanout(time.Since(start))
	}()

	for _, userID := range userIDs {
		created, err := uc.recipients.InsertIfAbsent(ctx, announcementID, userID)
		if err != nil {
			if errors.IsConflictError(err) || errors.IsDuplicateError(err) {
				result.Skipped++
				continue
			}
			uc.metrics.AddReceipts(ReceiptFailed, 1)
			uc.logger.Errorw("failed to insert receipt",
				"announcement_id", announcementID,
				"user_id", userID,
				"error", err,
			)
			return nil, fmt.Errorf("failed to insert receipt: %w", err)
		}
		if created {
			result.Created++
		} else {
			result.Skipped++
		}
	}

	uc.logger.Infow("announcement fanned out",
		"announcement_id", announcementID,
		"targeted", result.Targeted,
		"created", result.Created,
		"skipped", result.Skipped,
	)
	return result, nil
}

// Distribute resolves the announcement's current audience and fans out to it.
func (uc *FanoutRecipientsUseCase) Distribute(ctx context.Context, a *announcement.Announcement) (*dto.FanoutResult, error) {
	users, err := uc.resolver.Execute(ctx, a.TargetRoles())
	if err != nil {
		return nil, err
	}
	return uc.Execute(ctx, a.ID(), users)
}

type noopMetrics struct{}

func (noopMetrics) AddReceipts(string, int) {}
func (noopMetrics) ObserveFanout(time.Duration) {}
func (noopMetrics) IncrementRefresh(string) {}
