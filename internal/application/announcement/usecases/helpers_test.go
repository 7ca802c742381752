package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/application/announcement/dto"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/application/announcement/testutil"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/logger"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/services/markdown"
)

// fixture wires every use case against the in-memory mocks.
type fixture struct {
	repo       *testutil.MockAnnouncementRepository
	recipients *testutil.MockRecipientRepository
	roles      *testutil.MockRoleDirectory
	tx         *testutil.MockTxRunner
	bus        *testutil.MockEventBus

	fanout   *FanoutRecipientsUseCase
	create   *CreateAnnouncementUseCase
	update   *UpdateAnnouncementUseCase
	delete   *DeleteAnnouncementUseCase
	publish  *PublishAnnouncementUseCase
	archive  *ArchiveAnnouncementUseCase
	list     *ListAnnouncementsUseCase
	get      *GetAnnouncementUseCase
	view     *ViewAnnouncementUseCase
	markRead *MarkAnnouncementAsReadUseCase
	unread   *GetUnreadCountUseCase
	due      *PublishDueAnnouncementsUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logger.NewNop()
	renderer := markdown.NewRenderer()

	f := &fixture{
		repo:  testutil.NewMockAnnouncementRepository(),
		roles: testutil.NewMockRoleDirectory(),
		tx:    &testutil.MockTxRunner{},
		bus:   testutil.NewMockEventBus(),
	}
	f.recipients = testutil.NewMockRecipientRepository(f.repo)

	resolver := NewResolveTargetUsersUseCase(f.roles, log)
	f.fanout = NewFanoutRecipientsUseCase(f.recipients, resolver, nil, log)
	f.create = NewCreateAnnouncementUseCase(f.repo, f.tx, f.fanout, f.bus, renderer, log)
	f.update = NewUpdateAnnouncementUseCase(f.repo, f.tx, f.fanout, renderer, log)
	f.delete = NewDeleteAnnouncementUseCase(f.repo, f.recipients, f.tx, log)
	f.publish = NewPublishAnnouncementUseCase(f.repo, f.tx, f.fanout, renderer, log)
	f.archive = NewArchiveAnnouncementUseCase(f.repo, f.tx, renderer, log)
	f.list = NewListAnnouncementsUseCase(f.repo, f.recipients, renderer, log)
	f.get = NewGetAnnouncementUseCase(f.repo, f.recipients, renderer, log)
	f.markRead = NewMarkAnnouncementAsReadUseCase(f.recipients, log)
	f.unread = NewGetUnreadCountUseCase(f.recipients, log)
	f.view = NewViewAnnouncementUseCase(f.get, f.markRead, f.unread, log)
	f.due = NewPublishDueAnnouncementsUseCase(f.repo, f.publish, log)
	return f
}

func (f *fixture) mustCreate(t *testing.T, status string, roles ...string) *dto.AnnouncementResponse {
	t.Helper()
	resp, err := f.create.Execute(context.Background(), dto.CreateAnnouncementRequest{
		Title:       "Quarterly results",
		Body:        "Numbers are **up**.",
		Status:      status,
		TargetRoles: roles,
		CreatedBy:   1,
	})
	require.NoError(t, err)
	return resp
}

func strPtr(s string) *string {
	return &s
}
