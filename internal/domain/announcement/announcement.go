// Package announcement holds the announcement aggregate, its read receipts and
// the persistence ports the application layer drives.
package announcement

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/corredoraunidad/APP-UNIDAD-sub001/internal/domain/announcement/valueobjects"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/biztime"
)

const maxTitleLength = 255

type Announcement struct {
	id           uint
	title        string
	body         string
	priority     vo.Priority
	status       vo.Status
	targetRoles  vo.TargetRoles
	scheduledAt  *time.Time
	publishedAt  *time.Time
	createdBy    uint
	createdAt    time.Time
	updatedAt    time.Time
	rolesChanged bool
}

// NewAnnouncement creates a draft. Callers publish it explicitly when the
// author asked for immediate publication.
func NewAnnouncement(
	title string,
	body string,
	priority vo.Priority,
	targetRoles vo.TargetRoles,
	createdBy uint,
	scheduledAt *time.Time,
) (*Announcement, error) {
	title, err := validateTitle(title)
	if err != nil {
		return nil, err
	}
	body, err = validateBody(body)
	if err != nil {
		return nil, err
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("invalid priority")
	}
	if targetRoles.IsEmpty() {
		return nil, fmt.Errorf("at least one target role is required")
	}
	if createdBy == 0 {
		return nil, fmt.Errorf("creator ID is required")
	}

	now := biztime.NowUTC()
	return &Announcement{
		title:        title,
		body:         body,
		priority:     priority,
		status:       vo.StatusDraft,
		targetRoles:  targetRoles,
		scheduledAt:  utcPtr(scheduledAt),
		createdBy:    createdBy,
		createdAt:    now,
		updatedAt:    now,
		rolesChanged: true,
	}, nil
}

func ReconstructAnnouncement(
	id uint,
	title string,
	body string,
	priority vo.Priority,
	status vo.Status,
	targetRoles vo.TargetRoles,
	scheduledAt *time.Time,
	publishedAt *time.Time,
	createdBy uint,
	createdAt, updatedAt time.Time,
) (*Announcement, error) {
	if id == 0 {
		return nil, fmt.Errorf("announcement ID cannot be zero")
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("invalid priority: %s", priority)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", status)
	}

	return &Announcement{
		id:          id,
		title:       title,
		body:        body,
		priority:    priority,
		status:      status,
		targetRoles: targetRoles,
		scheduledAt: scheduledAt,
		publishedAt: publishedAt,
		createdBy:   createdBy,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (a *Announcement) ID() uint {
	return a.id
}

func (a *Announcement) Title() string {
	return a.title
}

func (a *Announcement) Body() string {
	return a.body
}

func (a *Announcement) Priority() vo.Priority {
	return a.priority
}

func (a *Announcement) Status() vo.Status {
	return a.status
}

func (a *Announcement) TargetRoles() vo.TargetRoles {
	return a.targetRoles
}

func (a *Announcement) ScheduledAt() *time.Time {
	return a.scheduledAt
}

func (a *Announcement) PublishedAt() *time.Time {
	return a.publishedAt
}

func (a *Announcement) CreatedBy() uint {
	return a.createdBy
}

func (a *Announcement) CreatedAt() time.Time {
	return a.createdAt
}

func (a *Announcement) UpdatedAt() time.Time {
	return a.updatedAt
}

// TargetRolesChanged reports whether the role set must be rewritten on save.
func (a *Announcement) TargetRolesChanged() bool {
	return a.rolesChanged
}

// MarkPersisted clears pending change flags after a successful save.
func (a *Announcement) MarkPersisted() {
	a.rolesChanged = false
}

func (a *Announcement) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("announcement ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("announcement ID cannot be zero")
	}
	a.id = id
	return nil
}

// Publish moves the announcement into published. published_at keeps the first
// publication time. Publishing a published announcement is a no-op so callers
// can re-run fan-out safely.
func (a *Announcement) Publish() error {
	if a.status.IsPublished() {
		return nil
	}
	if !a.status.CanTransitionTo(vo.StatusPublished) {
		return fmt.Errorf("cannot publish announcement with status %s", a.status)
	}

	now := biztime.NowUTC()
	a.status = vo.StatusPublished
	if a.publishedAt == nil {
		a.publishedAt = &now
	}
	a.updatedAt = now
	return nil
}

// Archive hides the announcement from badges. Receipts are kept.
func (a *Announcement) Archive() error {
	if a.status.IsArchived() {
		return nil
	}
	if !a.status.CanTransitionTo(vo.StatusArchived) {
		return fmt.Errorf("cannot archive announcement with status %s", a.status)
	}
	a.status = vo.StatusArchived
	a.updatedAt = biztime.NowUTC()
	return nil
}

// ChangeStatus applies target and reports whether the announcement entered
// published with this call.
func (a *Announcement) ChangeStatus(target vo.Status) (enteredPublished bool, err error) {
	if !target.IsValid() {
		return false, fmt.Errorf("invalid status: %s", target)
	}
	if a.status == target {
		return false, nil
	}

	switch target {
	case vo.StatusPublished:
		if err := a.Publish(); err != nil {
			return false, err
		}
		return true, nil
	case vo.StatusArchived:
		return false, a.Archive()
	default:
		if !a.status.CanTransitionTo(target) {
			return false, fmt.Errorf("cannot move announcement from %s to %s", a.status, target)
		}
		a.status = target
		a.updatedAt = biztime.NowUTC()
		return false, nil
	}
}

func (a *Announcement) UpdateTitle(title string) error {
	title, err := validateTitle(title)
	if err != nil {
		return err
	}
	a.title = title
	a.updatedAt = biztime.NowUTC()
	return nil
}

func (a *Announcement) UpdateBody(body string) error {
	body, err := validateBody(body)
	if err != nil {
		return err
	}
	a.body = body
	a.updatedAt = biztime.NowUTC()
	return nil
}

func (a *Announcement) ChangePriority(priority vo.Priority) error {
	if !priority.IsValid() {
		return fmt.Errorf("invalid priority: %s", priority)
	}
	a.priority = priority
	a.updatedAt = biztime.NowUTC()
	return nil
}

// Reschedule sets or clears the scheduled publication time.
func (a *Announcement) Reschedule(at *time.Time) {
	a.scheduledAt = utcPtr(at)
	a.updatedAt = biztime.NowUTC()
}

// ReplaceTargetRoles swaps the whole role set. An equal set leaves the
// announcement untouched.
func (a *Announcement) ReplaceTargetRoles(roles vo.TargetRoles) error {
	if roles.IsEmpty() {
		return fmt.Errorf("at least one target role is required")
	}
	if a.targetRoles.Equals(roles) {
		return nil
	}
	a.targetRoles = roles
	a.rolesChanged = true
	a.updatedAt = biztime.NowUTC()
	return nil
}

// IsDueForPublication reports whether a scheduled draft should go out at now.
func (a *Announcement) IsDueForPublication(now time.Time) bool {
	return a.status.IsDraft() && a.scheduledAt != nil && !a.scheduledAt.After(now)
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("title is required")
	}
	if len(title) > maxTitleLength {
		return "", fmt.Errorf("title exceeds maximum length of %d characters", maxTitleLength)
	}
	return title, nil
}

func validateBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", fmt.Errorf("body is required")
	}
	return body, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
