package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/robotics-tickets/internal/domain"
	"github.com/spec-kit/robotics-tickets/internal/events"
	"github.com/spec-kit/robotics-tickets/internal/registry"
	"github.com/spec-kit/robotics-tickets/internal/store"
	apperrors "github.com/spec-kit/robotics-tickets/pkg/util"
)

// fakeStore is an in-memory DocumentStore recording adapter traffic.
type fakeStore struct {
	docs        map[string]*domain.Ticket
	nextID      int
	createCalls int
	updateCalls int
	failCreate  bool
	failUpdate  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[string]*domain.Ticket)}
}

func (f *fakeStore) Create(_ context.Context, ticket *domain.Ticket) (string, error) {
	f.createCalls++
	if f.failCreate {
		return "", errors.New("store unreachable")
	}
	f.nextID++
	externalID := fmt.Sprintf("doc-%d", f.nextID)
	f.docs[externalID] = ticket
	return externalID, nil
}

func (f *fakeStore) ListAll(_ context.Context) ([]*domain.Ticket, error) {
	out := make([]*domain.Ticket, 0, len(f.docs))
	for _, t := range f.docs {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, externalID string, ticket *domain.Ticket) error {
	f.updateCalls++
	if f.failUpdate {
		return errors.New("store unreachable")
	}
	if _, ok := f.docs[externalID]; !ok {
		return store.ErrNotFound
	}
	f.docs[externalID] = ticket
	return nil
}

func (f *fakeStore) Delete(_ context.Context, externalID string) error {
	if _, ok := f.docs[externalID]; !ok {
		return store.ErrNotFound
	}
	delete(f.docs, externalID)
	return nil
}

type fixture struct {
	service  *TicketService
	store    *fakeStore
	registry *registry.Registry
	clock    *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fs := newFakeStore()
	reg := registry.New()
	svc := NewTicketService(TicketDependencies{
		Store:      fs,
		Registry:   reg,
		Dispatcher: events.NewInMemoryDispatcher(),
		Logger:     zap.NewNop(),
	})
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return &fixture{service: svc, store: fs, registry: reg, clock: &now}
}

func (f *fixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

func (f *fixture) createTicket(t *testing.T, dept domain.Department) *domain.Ticket {
	t.Helper()
	ticket, err := f.service.Create(context.Background(), domain.TicketInput{
		Title:           "Localization drift in Lobby",
		RobotID:         "RB-1001",
		IssueType:       "Software",
		Priority:        "High",
		DepartmentOwner: dept,
		Description:     "Robot drifts during turns",
	})
	require.NoError(t, err)
	return ticket
}

func TestCreate(t *testing.T) {
	f := newFixture(t)

	ticket := f.createTicket(t, domain.DepartmentRoboticsSoftware)

	require.Len(t, ticket.History, 1)
	assert.Equal(t, "Created", ticket.History[0].Action)
	assert.Equal(t, domain.StatusNew, ticket.Status)
	assert.NotEmpty(t, ticket.ExternalID)
	assert.Equal(t, 1, f.registry.Len())
}

func TestCreateRejectsUnknownDepartment(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), domain.TicketInput{
		Title:           "bad",
		DepartmentOwner: "Finance",
	})

	requireValidationError(t, err)
	assert.Equal(t, 0, f.registry.Len())
	assert.Equal(t, 0, f.store.createCalls)
}

func TestCreateStoreFailureLeavesRegistryEmpty(t *testing.T) {
	f := newFixture(t)
	f.store.failCreate = true

	_, err := f.service.Create(context.Background(), domain.TicketInput{
		DepartmentOwner: domain.DepartmentProduction,
	})

	require.Error(t, err)
	assert.Equal(t, 0, f.registry.Len())
}

func TestQuickHandover(t *testing.T) {
	f := newFixture(t)
	ticket := f.createTicket(t, domain.DepartmentRoboticsSoftware)
	f.advance(time.Minute)

	updated, err := f.service.QuickHandover(context.Background(), ticket.ID, domain.DepartmentMechanical, "needs mechanical inspection")
	require.NoError(t, err)

	assert.Equal(t, domain.DepartmentRoboticsSoftware, updated.PreviousOwner)
	assert.Equal(t, domain.DepartmentMechanical, updated.DepartmentOwner)
	assert.Equal(t, domain.StatusHandedOver, updated.Status)
	require.Len(t, updated.History, 2)
	last := updated.History[1]
	assert.Equal(t, "Handover Initiated", last.Action)
	assert.Contains(t, last.Notes, "needs mechanical inspection")
	assert.Equal(t, domain.EventHandover, last.Kind)
	assert.Equal(t, 1, f.store.updateCalls)
}

func TestQuickHandoverEmptyNotesIsCompleteNoop(t *testing.T) {
	f := newFixture(t)
	ticket := f.createTicket(t, domain.DepartmentRoboticsSoftware)
	before := ticket.UpdatedAt
	f.advance(time.Minute)

	_, err := f.service.QuickHandover(context.Background(), ticket.ID, domain.DepartmentMechanical, "   ")

	requireValidationError(t, err)
	assert.Equal(t, domain.DepartmentRoboticsSoftware, ticket.DepartmentOwner)
	assert.Equal(t, domain.Department(""), ticket.PreviousOwner)
	assert.Equal(t, domain.StatusNew, ticket.Status)
	assert.Len(t, ticket.History, 1)
	assert.Equal(t, before, ticket.UpdatedAt)
	assert.Equal(t, 0, f.store.updateCalls)
}

func TestQuickHandoverRejectsUnknownDepartment(t *testing.T) {
	f := newFixture(t)
	ticket := f.createTicket(t, domain.DepartmentRoboticsSoftware)

	_, err := f.service.QuickHandover(context.Background(), ticket.ID, "Finance", "notes")

	requireValidationError(t, err)
	assert.Len(t, ticket.History, 1)
	assert.Equal(t, domain.DepartmentRoboticsSoftware, ticket.DepartmentOwner)
}

func TestForceHandoverNeedsNoNotes(t *testing.T) {
	f := newFixture(t)
	ticket := f.createTicket(t, domain.DepartmentProduction)
	f.advance(time.Minute)

	updated, err := f.service.ForceHandover(context.Background(), ticket.ID, domain.DepartmentPurchase)
	require.NoError(t, err)

	assert.Equal(t, domain.DepartmentProduction, updated.PreviousOwner)
	assert.Equal(t, domain.DepartmentPurchase, updated.DepartmentOwner)
	assert.Equal(t, domain.StatusHandedOver, updated.Status)
	require.Len(t, updated.History, 2)
	last := updated.History[1]
	assert.Equal(t, "Force Handover Production → Purchase", last.Action)
	assert.Equal(t, "Forced by user (no notes)", last.Notes)
}

func TestForceHandoverRejectsEmptyDepartment(t *testing.T) {
	f := newFixture(t)
	ticket := f.createTicket(t, domain.DepartmentProduction)

	_, err := f.service.ForceHandover(context.Background(), ticket.ID, "")

	requireValidationError(t, err)
	assert.Len(t, ticket.History, 1)
}

func TestAssign(t *testing.T) {
	f := newFixture(t)
	ticket := f.createTicket(t, domain.DepartmentApplicationTeam)
	f.advance(time.Minute)

	updated, err := f.service.Assign(context.Background(), ticket.ID, "A. Khan", "")
	require.NoError(t, err)

	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, "A. Khan", *updated.AssignedTo)
	last := updated.History[len(updated.History)-1]
	assert.Equal(t, "Assigned To A. Khan", last.Action)
	assert.Equal(t, "Assigned via modal", last.Notes)
}

func TestAssignRejectsEmptyAssignee(t *testing.T) {
	f := newFixture(t)
	ticket := f.createTicket(t, domain.DepartmentApplicationTeam)

	_, err := f.service.Assign(context.Background(), ticket.ID, "  ", "notes")

	requireValidationError(t, err)
	assert.Nil(t, ticket.AssignedTo)
}

func TestSetStatusAllowsAnyTransition(t *testing.T) {
	f := newFixture(t)
	ticket := f.createTicket(t, domain.DepartmentSales)
	f.advance(time.Minute)

	// Closed straight from New; no transition graph is enforced.
	updated, err := f.service.SetStatus(context.Background(), ticket.ID, domain.StatusClosed, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClosed, updated.Status)

	updated, err = f.service.SetStatus(context.Background(), ticket.ID, domain.StatusInProgress, "reopened")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, updated.Status)

	last := updated.History[len(updated.History)-1]
	assert.Equal(t, "Status set to In Progress", last.Action)
	assert.Equal(t, domain.EventStatusChanged, last.Kind)
	assert.Equal(t, domain.StatusInProgress, last.Status)
}

func TestComment(t *testing.T) {
	f := newFixture(t)
	ticket := f.createTicket(t, domain.DepartmentProject)
	owner := ticket.DepartmentOwner
	f.advance(time.Minute)

	updated, err := f.service.Comment(context.Background(), ticket.ID, "checked on site")
	require.NoError(t, err)

	require.Len(t, updated.History, 2)
	assert.Equal(t, "Comment", updated.History[1].Action)
	assert.Equal(t, owner, updated.DepartmentOwner)
	assert.Equal(t, domain.StatusNew, updated.Status)
	assert.True(t, !updated.UpdatedAt.Before(updated.CreatedAt))
}

func TestCommentRejectsEmptyNotes(t *testing.T) {
	f := newFixture(t)
	ticket := f.createTicket(t, domain.DepartmentProject)

	_, err := f.service.Comment(context.Background(), ticket.ID, " ")

	requireValidationError(t, err)
	assert.Len(t, ticket.History, 1)
}

func TestSaveDetailChainsSubMutations(t *testing.T) {
	f := newFixture(t)
	ticket := f.createTicket(t, domain.DepartmentRoboticsSoftware)
	f.advance(time.Minute)

	updated, err := f.service.SaveDetail(context.Background(), ticket.ID, SaveDetailInput{
		HandoverDept: domain.DepartmentMechanical,
		Status:       domain.StatusInProgress,
		AssignTo:     "B. Singh",
		Notes:        "gearbox noise",
	})
	require.NoError(t, err)

	// creation + handover + assignment + status change
	require.Len(t, updated.History, 4)
	assert.Equal(t, "Handover Robotics Software → Mechanical", updated.History[1].Action)
	assert.Equal(t, "Assigned To B. Singh", updated.History[2].Action)
	assert.Equal(t, "Status set to In Progress", updated.History[3].Action)

	assert.Equal(t, domain.DepartmentMechanical, updated.DepartmentOwner)
	assert.Equal(t, domain.DepartmentRoboticsSoftware, updated.PreviousOwner)
	// the explicit status selection wins over the handover status
	assert.Equal(t, domain.StatusInProgress, updated.Status)

	// one trailing persist call for the whole chain
	assert.Equal(t, 1, f.store.updateCalls)
}

func TestSaveDetailHandoverRequiresNotes(t *testing.T) {
	f := newFixture(t)
	ticket := f.createTicket(t, domain.DepartmentRoboticsSoftware)

	_, err := f.service.SaveDetail(context.Background(), ticket.ID, SaveDetailInput{
		HandoverDept: domain.DepartmentMechanical,
	})

	requireValidationError(t, err)
	assert.Len(t, ticket.History, 1)
	assert.Equal(t, 0, f.store.updateCalls)
}

func TestRemoteFailureKeepsLocalMutation(t *testing.T) {
	f := newFixture(t)
	ticket := f.createTicket(t, domain.DepartmentRoboticsSoftware)
	f.store.failUpdate = true
	f.advance(time.Minute)

	_, err := f.service.QuickHandover(context.Background(), ticket.ID, domain.DepartmentMechanical, "notes")

	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "STORE_UNAVAILABLE", domainErr.Code)

	// local mutation applied and not rolled back
	assert.Equal(t, domain.DepartmentMechanical, ticket.DepartmentOwner)
	assert.Len(t, ticket.History, 2)
}

func TestOperationsOnUnknownTicket(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Comment(context.Background(), "T-MISSING", "notes")

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestUpdatedAtNeverMovesBackwards(t *testing.T) {
	f := newFixture(t)
	ticket := f.createTicket(t, domain.DepartmentProduction)

	prev := ticket.UpdatedAt
	steps := []func() error{
		func() error { _, err := f.service.Comment(context.Background(), ticket.ID, "first"); return err },
		func() error {
			_, err := f.service.SetStatus(context.Background(), ticket.ID, domain.StatusInProgress, "")
			return err
		},
		func() error {
			_, err := f.service.QuickHandover(context.Background(), ticket.ID, domain.DepartmentMechanical, "go")
			return err
		},
	}
	for _, step := range steps {
		f.advance(time.Minute)
		require.NoError(t, step())
		assert.False(t, ticket.UpdatedAt.Before(prev))
		prev = ticket.UpdatedAt
	}
}

func TestSeedDemo(t *testing.T) {
	f := newFixture(t)
	existing := f.createTicket(t, domain.DepartmentProduction)

	seeded, err := f.service.SeedDemo(context.Background())
	require.NoError(t, err)
	require.Len(t, seeded, 2)

	snapshot := f.registry.Snapshot()
	require.Len(t, snapshot, 3)
	assert.Equal(t, "Localization drift in Lobby", snapshot[0].Title)
	assert.Equal(t, "Battery not charging", snapshot[1].Title)
	assert.Equal(t, existing.ID, snapshot[2].ID)

	for _, ticket := range seeded {
		assert.NotEmpty(t, ticket.ExternalID)
		require.Len(t, ticket.History, 1)
		assert.Equal(t, "Created", ticket.History[0].Action)
		assert.Equal(t, "Field", ticket.History[0].By)
	}
}

func requireValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}
