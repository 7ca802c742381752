// Package testutil provides in-memory implementations of the announcement
// ports for application and interface layer tests.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/domain/announcement"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/errors"
)

// MockAnnouncementRepository keeps announcements in memory.
type MockAnnouncementRepository struct {
	mu            sync.RWMutex
	announcements map[uint]*announcement.Announcement
	nextID        uint

	// Error injection for testing
	CreateError error
	GetError    error
	UpdateError error
	ListError   error

	// AfterFindDue runs once FindDueScheduled has collected its batch.
	AfterFindDue func(due []*announcement.Announcement)
}

func NewMockAnnouncementRepository() *MockAnnouncementRepository {
	return &MockAnnouncementRepository{
		announcements: make(map[uint]*announcement.Announcement),
	}
}

func (m *MockAnnouncementRepository) Create(ctx context.Context, a *announcement.Announcement) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateError != nil {
		return m.CreateError
	}
	m.nextID++
	if err := a.SetID(m.nextID); err != nil {
		return err
	}
	a.MarkPersisted()
	m.announcements[a.ID()] = a
	return nil
}

func (m *MockAnnouncementRepository) GetByID(ctx context.Context, id uint) (*announcement.Announcement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetError != nil {
		return nil, m.GetError
	}
	return m.announcements[id], nil
}

func (m *MockAnnouncementRepository) GetByIDForUpdate(ctx context.Context, id uint) (*announcement.Announcement, error) {
	return m.GetByID(ctx, id)
}

func (m *MockAnnouncementRepository) Update(ctx context.Context, a *announcement.Announcement) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpdateError != nil {
		return m.UpdateError
	}
	if _, ok := m.announcements[a.ID()]; !ok {
		return errors.NewNotFoundError("announcement not found")
	}
	a.MarkPersisted()
	m.announcements[a.ID()] = a
	return nil
}

func (m *MockAnnouncementRepository) Delete(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.announcements[id]; !ok {
		return errors.NewNotFoundError("announcement not found")
	}
	delete(m.announcements, id)
	return nil
}

// List supports the status, priority and search filters; ordering matches
// the real repository.
func (m *MockAnnouncementRepository) List(ctx context.Context, filter announcement.ListFilter) ([]*announcement.Announcement, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ListError != nil {
		return nil, 0, m.ListError
	}

	var matched []*announcement.Announcement
	for _, a := range m.announcements {
		if filter.Status != nil && a.Status() != *filter.Status {
			continue
		}
		if filter.Priority != nil && a.Priority() != *filter.Priority {
			continue
		}
		if filter.Search != "" {
			term := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(a.Title()), term) && !strings.Contains(strings.ToLower(a.Body()), term) {
				continue
			}
		}
		matched = append(matched, a)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt().Equal(matched[j].CreatedAt()) {
			return matched[i].CreatedAt().After(matched[j].CreatedAt())
		}
		return matched[i].ID() > matched[j].ID()
	})

	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return []*announcement.Announcement{}, total, nil
	}
	end := len(matched)
	if filter.Limit > 0 && filter.Offset+filter.Limit < end {
		end = filter.Offset + filter.Limit
	}
	return matched[filter.Offset:end], total, nil
}

func (m *MockAnnouncementRepository) FindDueScheduled(ctx context.Context, now time.Time, limit int) ([]*announcement.Announcement, error) {
	due := m.findDue(now, limit)
	if m.AfterFindDue != nil {
		m.AfterFindDue(due)
	}
	return due, nil
}

func (m *MockAnnouncementRepository) findDue(now time.Time, limit int) []*announcement.Announcement {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var due []*announcement.Announcement
	for _, a := range m.announcements {
		if a.IsDueForPublication(now) {
			due = append(due, a)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ID() < due[j].ID() })
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due
}

// isPublished reports whether id is stored as published.
func (m *MockAnnouncementRepository) isPublished(id uint) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.announcements[id]
	return ok && a.Status().IsPublished()
}

type receiptKey struct {
	announcementID uint
	userID         uint
}

// MockRecipientRepository keeps receipts in memory. Unread counts consult the
// announcement repository for the published status.
type MockRecipientRepository struct {
	mu            sync.Mutex
	receipts      map[receiptKey]*announcement.Recipient
	announcements *MockAnnouncementRepository

	// InsertErrors maps a user id to the error InsertIfAbsent returns for it.
	InsertErrors map[uint]error
	CountError   error
	MarkError    error

	insertCalls int
}

func NewMockRecipientRepository(announcements *MockAnnouncementRepository) *MockRecipientRepository {
	return &MockRecipientRepository{
		receipts:      make(map[receiptKey]*announcement.Recipient),
		announcements: announcements,
		InsertErrors:  make(map[uint]error),
	}
}

func (m *MockRecipientRepository) InsertIfAbsent(ctx context.Context, announcementID, userID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.insertCalls++
	if err := m.InsertErrors[userID]; err != nil {
		return false, err
	}
	key := receiptKey{announcementID, userID}
	if _, ok := m.receipts[key]; ok {
		return false, nil
	}
	r, err := announcement.NewRecipient(announcementID, userID)
	if err != nil {
		return false, err
	}
	m.receipts[key] = r
	return true, nil
}

func (m *MockRecipientRepository) MarkRead(ctx context.Context, announcementID, userID uint, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.MarkError != nil {
		return false, m.MarkError
	}
	r, ok := m.receipts[receiptKey{announcementID, userID}]
	if !ok {
		return false, nil
	}
	return r.MarkRead(at), nil
}

func (m *MockRecipientRepository) Exists(ctx context.Context, announcementID, userID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.receipts[receiptKey{announcementID, userID}]
	return ok, nil
}

func (m *MockRecipientRepository) FindReceipt(ctx context.Context, announcementID, userID uint) (*announcement.Recipient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.receipts[receiptKey{announcementID, userID}], nil
}

func (m *MockRecipientRepository) ReadStates(ctx context.Context, userID uint, announcementIDs []uint) (map[uint]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	states := make(map[uint]bool)
	for _, id := range announcementIDs {
		if r, ok := m.receipts[receiptKey{id, userID}]; ok {
			states[id] = r.IsRead()
		}
	}
	return states, nil
}

func (m *MockRecipientRepository) CountUnreadForUser(ctx context.Context, userID uint) (int64, error) {
	m.mu.Lock()
	if m.CountError != nil {
		m.mu.Unlock()
		return 0, m.CountError
	}
	var candidates []uint
	for key, r := range m.receipts {
		if key.userID == userID && !r.IsRead() {
			candidates = append(candidates, key.announcementID)
		}
	}
	m.mu.Unlock()

	var count int64
	for _, id := range candidates {
		if m.announcements == nil || m.announcements.isPublished(id) {
			count++
		}
	}
	return count, nil
}

func (m *MockRecipientRepository) Stats(ctx context.Context, announcementID uint) (announcement.ReceiptStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var stats announcement.ReceiptStats
	for key, r := range m.receipts {
		if key.announcementID != announcementID {
			continue
		}
		stats.Total++
		if r.IsRead() {
			stats.Read++
		}
	}
	return stats, nil
}

func (m *MockRecipientRepository) DeleteByAnnouncement(ctx context.Context, announcementID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.receipts {
		if key.announcementID == announcementID {
			delete(m.receipts, key)
		}
	}
	return nil
}

// SetCountError changes CountError while readers may be running.
func (m *MockRecipientRepository) SetCountError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CountError = err
}

// Receipt returns the stored receipt, or nil.
func (m *MockRecipientRepository) Receipt(announcementID, userID uint) *announcement.Recipient {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.receipts[receiptKey{announcementID, userID}]
}

// Count returns how many receipts exist for announcementID.
func (m *MockRecipientRepository) Count(announcementID uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for key := range m.receipts {
		if key.announcementID == announcementID {
			n++
		}
	}
	return n
}

// InsertCalls reports how many InsertIfAbsent calls were made.
func (m *MockRecipientRepository) InsertCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertCalls
}

// MockRoleDirectory maps roles to users.
type MockRoleDirectory struct {
	mu    sync.Mutex
	users map[string][]uint
	Err   error
	calls int
}

func NewMockRoleDirectory() *MockRoleDirectory {
	return &MockRoleDirectory{users: make(map[string][]uint)}
}

// Assign sets the holders of role, replacing previous ones.
func (m *MockRoleDirectory) Assign(role string, users ...uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[role] = users
}

func (m *MockRoleDirectory) UsersForRoles(ctx context.Context, roles []string) ([]uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.Err != nil {
		return nil, m.Err
	}
	seen := make(map[uint]struct{})
	for _, role := range roles {
		for _, u := range m.users[role] {
			seen[u] = struct{}{}
		}
	}
	out := make([]uint, 0, len(seen))
	for u := range seen {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (m *MockRoleDirectory) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockTxRunner runs fn directly. Err, when set, is returned without running fn.
type MockTxRunner struct {
	Err   error
	calls int
}

func (m *MockTxRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx)
}

func (m *MockTxRunner) Calls() int {
	return m.calls
}

// MockEventBus records published events and fans them out to subscriptions.
type MockEventBus struct {
	mu           sync.Mutex
	published    []announcement.CreatedEvent
	subs         []*MockSubscription
	PublishError error
	// SubscribeErrors are returned by successive SubscribeCreated calls before
	// subscriptions start succeeding.
	SubscribeErrors []error
	subscribeCalls  int
}

func NewMockEventBus() *MockEventBus {
	return &MockEventBus{}
}

func (m *MockEventBus) PublishCreated(ctx context.Context, event announcement.CreatedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.PublishError != nil {
		return m.PublishError
	}
	m.published = append(m.published, event)
	for _, s := range m.subs {
		s.deliver(event)
	}
	return nil
}

func (m *MockEventBus) SubscribeCreated(ctx context.Context) (announcement.EventSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.subscribeCalls++
	if len(m.SubscribeErrors) > 0 {
		err := m.SubscribeErrors[0]
		m.SubscribeErrors = m.SubscribeErrors[1:]
		return nil, err
	}
	s := &MockSubscription{events: make(chan announcement.CreatedEvent, 16), done: make(chan struct{})}
	m.subs = append(m.subs, s)
	go func() {
		select {
		case <-ctx.Done():
			_ = s.Close()
		case <-s.done:
		}
	}()
	return s, nil
}

func (m *MockEventBus) Published() []announcement.CreatedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]announcement.CreatedEvent(nil), m.published...)
}

func (m *MockEventBus) SubscribeCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subscribeCalls
}

// ActiveSubscriptions counts subscriptions that are still open.
func (m *MockEventBus) ActiveSubscriptions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.subs {
		if !s.isClosed() {
			n++
		}
	}
	return n
}

// DropAll closes every open subscription as if the connection was lost.
func (m *MockEventBus) DropAll() {
	m.mu.Lock()
	subs := append([]*MockSubscription(nil), m.subs...)
	m.mu.Unlock()
	for _, s := range subs {
		_ = s.Close()
	}
}

type MockSubscription struct {
	mu     sync.Mutex
	events chan announcement.CreatedEvent
	done   chan struct{}
	closed bool
}

func (s *MockSubscription) Events() <-chan announcement.CreatedEvent {
	return s.events
}

func (s *MockSubscription) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.done)
		close(s.events)
	}
	return nil
}

func (s *MockSubscription) deliver(ev announcement.CreatedEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.events <- ev:
	default:
	}
}

func (s *MockSubscription) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
