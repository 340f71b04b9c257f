package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/robotics-tickets/internal/domain"
	"github.com/spec-kit/robotics-tickets/internal/events"
	"github.com/spec-kit/robotics-tickets/internal/registry"
	"github.com/spec-kit/robotics-tickets/internal/store"
	apperrors "github.com/spec-kit/robotics-tickets/pkg/util"
)

// TicketService coordinates the ticket lifecycle: every operation validates its
// input, mutates the registry-held ticket in place, appends history, persists
// through the document store adapter and publishes an event. Remote failures
// after a local mutation are surfaced but never rolled back.
type TicketService struct {
	store      store.DocumentStore
	registry   *registry.Registry
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	Store      store.DocumentStore
	Registry   *registry.Registry
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// SaveDetailInput carries the detail-view save form. Each non-empty field
// triggers its own sub-mutation with its own history entry; all of them share
// one trailing persist call.
type SaveDetailInput struct {
	HandoverDept domain.Department
	Status       domain.TicketStatus
	AssignTo     string
	Notes        string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		store:      deps.Store,
		registry:   deps.Registry,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        time.Now,
	}
}

// Hydrate replaces the registry with the full remote collection, newest first.
func (s *TicketService) Hydrate(ctx context.Context) error {
	tickets, err := s.store.ListAll(ctx)
	if err != nil {
		return apperrors.NewStoreUnavailable(err)
	}
	s.registry.ReplaceAll(tickets)
	s.logger.Info("registry hydrated", zap.Int("tickets", len(tickets)))
	return nil
}

// Create builds a ticket from the creation form, persists it and prepends it
// to the registry. When the remote create fails the ticket is not inserted
// locally.
func (s *TicketService) Create(ctx context.Context, input domain.TicketInput) (*domain.Ticket, error) {
	if input.DepartmentOwner == "" {
		return nil, apperrors.NewValidationError("department owner required", nil)
	}
	if !domain.IsValidDepartment(input.DepartmentOwner) {
		return nil, invalidDepartment(input.DepartmentOwner)
	}

	ticket := domain.NewTicket(input, s.now())

	externalID, err := s.store.Create(ctx, ticket)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	ticket.ExternalID = externalID
	s.registry.Insert(ticket)

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    "System",
		Payload: events.TicketCreatedPayload{
			Title:           ticket.Title,
			RobotID:         ticket.RobotID,
			DepartmentOwner: ticket.DepartmentOwner,
			Priority:        ticket.Priority,
		},
	})
	return ticket, nil
}

// QuickHandover transfers ownership from the list view. Notes are required and
// the target department must belong to the closed set; on validation failure
// the ticket is left completely untouched.
func (s *TicketService) QuickHandover(ctx context.Context, id string, nextDept domain.Department, notes string) (*domain.Ticket, error) {
	notes = strings.TrimSpace(notes)
	if nextDept == "" {
		return nil, apperrors.NewValidationError("choose a department", nil)
	}
	if !domain.IsValidDepartment(nextDept) {
		return nil, invalidDepartment(nextDept)
	}
	if notes == "" {
		return nil, apperrors.NewValidationError("handover notes required", nil)
	}
	ticket, err := s.findTicket(id)
	if err != nil {
		return nil, err
	}

	from := ticket.DepartmentOwner
	ticket.AppendHistory(domain.HistoryEntry{
		Action: "Handover Initiated",
		By:     "User",
		At:     s.now(),
		Notes:  fmt.Sprintf("To: %s | %s", nextDept, notes),
		Kind:   domain.EventHandover,
	})
	ticket.PreviousOwner = from
	ticket.DepartmentOwner = nextDept
	ticket.Status = domain.StatusHandedOver

	err = s.persist(ctx, ticket)
	s.publishHandover(ctx, ticket, from, nextDept, false, notes)
	return ticket, err
}

// ForceHandover transfers ownership without notes. Only an unselected
// department is rejected.
func (s *TicketService) ForceHandover(ctx context.Context, id string, nextDept domain.Department) (*domain.Ticket, error) {
	if nextDept == "" {
		return nil, apperrors.NewValidationError("choose a department", nil)
	}
	ticket, err := s.findTicket(id)
	if err != nil {
		return nil, err
	}

	from := ticket.DepartmentOwner
	ticket.AppendHistory(domain.HistoryEntry{
		Action: fmt.Sprintf("Force Handover %s → %s", from, nextDept),
		By:     "User",
		At:     s.now(),
		Notes:  "Forced by user (no notes)",
		Kind:   domain.EventHandover,
	})
	ticket.PreviousOwner = from
	ticket.DepartmentOwner = nextDept
	ticket.Status = domain.StatusHandedOver

	err = s.persist(ctx, ticket)
	s.publishHandover(ctx, ticket, from, nextDept, true, "")
	return ticket, err
}

// Assign sets the assignee and records it.
func (s *TicketService) Assign(ctx context.Context, id, assignee, notes string) (*domain.Ticket, error) {
	assignee = strings.TrimSpace(assignee)
	if assignee == "" {
		return nil, apperrors.NewValidationError("assignee required", nil)
	}
	ticket, err := s.findTicket(id)
	if err != nil {
		return nil, err
	}
	s.applyAssign(ticket, assignee, notes)
	err = s.persist(ctx, ticket)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Actor:    "User",
		Payload:  events.TicketAssignedPayload{AssignedTo: assignee},
	})
	return ticket, err
}

// SetStatus changes the ticket status. Any status may follow any other; no
// transition graph is enforced.
func (s *TicketService) SetStatus(ctx context.Context, id string, status domain.TicketStatus, notes string) (*domain.Ticket, error) {
	if status == "" {
		return nil, apperrors.NewValidationError("status required", nil)
	}
	ticket, err := s.findTicket(id)
	if err != nil {
		return nil, err
	}
	old := ticket.Status
	s.applyStatus(ticket, status, notes)
	err = s.persist(ctx, ticket)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Actor:    "User",
		Payload:  events.TicketStatusChangedPayload{OldStatus: old, NewStatus: status, Notes: notes},
	})
	return ticket, err
}

// Comment appends a comment history entry; no field besides updatedAt changes.
func (s *TicketService) Comment(ctx context.Context, id, notes string) (*domain.Ticket, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return nil, apperrors.NewValidationError("comment cannot be empty", nil)
	}
	ticket, err := s.findTicket(id)
	if err != nil {
		return nil, err
	}
	ticket.AppendHistory(domain.HistoryEntry{
		Action: "Comment",
		By:     "User",
		At:     s.now(),
		Notes:  notes,
		Kind:   domain.EventComment,
	})
	err = s.persist(ctx, ticket)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCommented,
		TicketID: ticket.ID,
		Actor:    "User",
		Payload:  events.TicketCommentedPayload{NotesPreview: stringPreview(notes, 120)},
	})
	return ticket, err
}

// SaveDetail applies the detail-view save: an optional handover, an optional
// assignment and an optional status change, in that order. Each sub-mutation
// appends its own history entry; one trailing persist covers them all.
func (s *TicketService) SaveDetail(ctx context.Context, id string, input SaveDetailInput) (*domain.Ticket, error) {
	notes := strings.TrimSpace(input.Notes)
	assignee := strings.TrimSpace(input.AssignTo)

	if input.HandoverDept != "" {
		if !domain.IsValidDepartment(input.HandoverDept) {
			return nil, invalidDepartment(input.HandoverDept)
		}
		if notes == "" {
			return nil, apperrors.NewValidationError("handover notes required when transferring department", nil)
		}
	}
	ticket, err := s.findTicket(id)
	if err != nil {
		return nil, err
	}

	var published []events.Event

	if input.HandoverDept != "" {
		from := ticket.DepartmentOwner
		ticket.AppendHistory(domain.HistoryEntry{
			Action: fmt.Sprintf("Handover %s → %s", from, input.HandoverDept),
			By:     "User",
			At:     s.now(),
			Notes:  notes,
			Kind:   domain.EventHandover,
		})
		ticket.PreviousOwner = from
		ticket.DepartmentOwner = input.HandoverDept
		ticket.Status = domain.StatusHandedOver
		published = append(published, events.Event{
			Type:     events.EventTicketHandover,
			TicketID: ticket.ID,
			Actor:    "User",
			Payload: events.TicketHandoverPayload{
				FromDepartment: from,
				ToDepartment:   input.HandoverDept,
				Notes:          notes,
			},
		})
	}

	if assignee != "" {
		s.applyAssign(ticket, assignee, notes)
		published = append(published, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: ticket.ID,
			Actor:    "User",
			Payload:  events.TicketAssignedPayload{AssignedTo: assignee},
		})
	}

	if input.Status != "" {
		old := ticket.Status
		s.applyStatus(ticket, input.Status, notes)
		published = append(published, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticket.ID,
			Actor:    "User",
			Payload:  events.TicketStatusChangedPayload{OldStatus: old, NewStatus: input.Status, Notes: notes},
		})
	}

	err = s.persist(ctx, ticket)
	for _, event := range published {
		s.publishEvent(ctx, event)
	}
	return ticket, err
}

// SeedDemo creates the two fixed sample tickets and prepends them to the
// registry in sample order.
func (s *TicketService) SeedDemo(ctx context.Context) ([]*domain.Ticket, error) {
	sample := sampleTickets(s.now())
	for _, ticket := range sample {
		externalID, err := s.store.Create(ctx, ticket)
		if err != nil {
			return nil, apperrors.NewStoreUnavailable(err)
		}
		ticket.ExternalID = externalID
	}
	for i := len(sample) - 1; i >= 0; i-- {
		s.registry.Insert(sample[i])
	}
	s.logger.Info("demo data seeded", zap.Int("tickets", len(sample)))
	return sample, nil
}

func (s *TicketService) applyAssign(ticket *domain.Ticket, assignee, notes string) {
	ticket.AssignedTo = &assignee
	if notes == "" {
		notes = "Assigned via modal"
	}
	ticket.AppendHistory(domain.HistoryEntry{
		Action: "Assigned To " + assignee,
		By:     "User",
		At:     s.now(),
		Notes:  notes,
		Kind:   domain.EventAssigned,
	})
}

func (s *TicketService) applyStatus(ticket *domain.Ticket, status domain.TicketStatus, notes string) {
	ticket.Status = status
	ticket.AppendHistory(domain.HistoryEntry{
		Action: "Status set to " + string(status),
		By:     "User",
		At:     s.now(),
		Notes:  notes,
		Kind:   domain.EventStatusChanged,
		Status: status,
	})
}

func (s *TicketService) findTicket(id string) (*domain.Ticket, error) {
	ticket, err := s.registry.FindByID(id)
	if err != nil {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	return ticket, nil
}

// persist writes the already-mutated ticket back to the store. The local
// mutation is kept even when the remote call fails; the next reload
// re-converges local and remote state.
func (s *TicketService) persist(ctx context.Context, ticket *domain.Ticket) error {
	if ticket.ExternalID == "" {
		return apperrors.NewStoreUnavailable(fmt.Errorf("ticket %s has no external id", ticket.ID))
	}
	if err := s.store.Update(ctx, ticket.ExternalID, ticket); err != nil {
		if store.IsNotFound(err) {
			return apperrors.NewNotFound("ticket document", map[string]any{"external_id": ticket.ExternalID})
		}
		s.logger.Warn("ticket persist failed; local state kept",
			zap.String("ticket_id", ticket.ID), zap.Error(err))
		return apperrors.NewStoreUnavailable(err)
	}
	return nil
}

func (s *TicketService) publishHandover(ctx context.Context, ticket *domain.Ticket, from, to domain.Department, forced bool, notes string) {
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketHandover,
		TicketID: ticket.ID,
		Actor:    "User",
		Payload: events.TicketHandoverPayload{
			FromDepartment: from,
			ToDepartment:   to,
			Forced:         forced,
			Notes:          notes,
		},
	})
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func invalidDepartment(dept domain.Department) error {
	return apperrors.NewValidationError("invalid department", map[string]any{"department": string(dept)})
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}

func sampleTickets(now time.Time) []*domain.Ticket {
	assignee := "A. Khan"
	return []*domain.Ticket{
		{
			ID:              domain.GenerateTicketID(),
			Title:           "Localization drift in Lobby",
			RobotID:         "RB-1001",
			IssueType:       "Software",
			Priority:        "High",
			DepartmentOwner: domain.DepartmentRoboticsSoftware,
			Status:          domain.StatusInProgress,
			AssignedTo:      &assignee,
			Description:     "Robot drifts 0.5m during turns near pillars",
			CreatedAt:       now,
			UpdatedAt:       now,
			History: []domain.HistoryEntry{{
				Action: "Created",
				By:     "Field",
				At:     now,
				Notes:  "Observed by field engineer",
				Kind:   domain.EventCreated,
			}},
		},
		{
			ID:              domain.GenerateTicketID(),
			Title:           "Battery not charging",
			RobotID:         "RB-1109",
			IssueType:       "Electronics",
			Priority:        "Critical",
			DepartmentOwner: domain.DepartmentRoboticsElectronics,
			Status:          domain.StatusHandoverPending,
			AssignedTo:      nil,
			Description:     "Charging LED not blinking, unit not detected by charger",
			CreatedAt:       now,
			UpdatedAt:       now,
			History: []domain.HistoryEntry{{
				Action: "Created",
				By:     "Field",
				At:     now,
				Notes:  "Battery warm and not accepting charge",
				Kind:   domain.EventCreated,
			}},
		},
	}
}
