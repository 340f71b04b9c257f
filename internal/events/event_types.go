package events

import (
	"time"

	"github.com/spec-kit/robotics-tickets/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketHandover      EventType = "ticket_handover"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketCommented     EventType = "ticket_commented"
)

// Event represents a domain event emitted by the lifecycle service.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     string      `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title           string            `json:"title"`
	RobotID         string            `json:"robot_id"`
	DepartmentOwner domain.Department `json:"department_owner"`
	Priority        string            `json:"priority"`
}

// TicketHandoverPayload payload.
type TicketHandoverPayload struct {
	FromDepartment domain.Department `json:"from_department"`
	ToDepartment   domain.Department `json:"to_department"`
	Forced         bool              `json:"forced"`
	Notes          string            `json:"notes,omitempty"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssignedTo string `json:"assigned_to"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Notes     string              `json:"notes,omitempty"`
}

// TicketCommentedPayload payload.
type TicketCommentedPayload struct {
	NotesPreview string `json:"notes_preview"`
}
