package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TicketStatus enumerates lifecycle states for tickets. No transition graph is
// enforced: any lifecycle operation may set any status.
type TicketStatus string

const (
	StatusNew             TicketStatus = "New"
	StatusInProgress      TicketStatus = "In Progress"
	StatusHandoverPending TicketStatus = "Handover Pending"
	StatusHandedOver      TicketStatus = "Handed Over"
	StatusResolved        TicketStatus = "Resolved"
	StatusClosed          TicketStatus = "Closed"
)

// Statuses returns the status vocabulary in display order.
func Statuses() []TicketStatus {
	return []TicketStatus{
		StatusNew,
		StatusInProgress,
		StatusHandoverPending,
		StatusHandedOver,
		StatusResolved,
		StatusClosed,
	}
}

// Ticket is the aggregate for a tracked robot issue. The json tags reproduce
// the export document shape exactly; ExternalID is the store-assigned document
// identifier and never appears in exported records.
type Ticket struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	RobotID         string         `json:"robotId"`
	IssueType       string         `json:"issueType"`
	Priority        string         `json:"priority"`
	DepartmentOwner Department     `json:"departmentOwner"`
	PreviousOwner   Department     `json:"previousOwner,omitempty"`
	Status          TicketStatus   `json:"status"`
	AssignedTo      *string        `json:"assignedTo"`
	Description     string         `json:"description"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	History         []HistoryEntry `json:"history"`

	ExternalID string `json:"-"`
}

// TicketInput carries the creation form fields.
type TicketInput struct {
	Title           string
	RobotID         string
	IssueType       string
	Priority        string
	DepartmentOwner Department
	Description     string
}

// NewTicket builds a ticket from form input with a generated id, status New and
// the initial creation history entry. Text fields are trimmed; no further
// validation is applied here.
func NewTicket(input TicketInput, now time.Time) *Ticket {
	return &Ticket{
		ID:              GenerateTicketID(),
		Title:           strings.TrimSpace(input.Title),
		RobotID:         strings.TrimSpace(input.RobotID),
		IssueType:       input.IssueType,
		Priority:        input.Priority,
		DepartmentOwner: input.DepartmentOwner,
		Status:          StatusNew,
		AssignedTo:      nil,
		Description:     strings.TrimSpace(input.Description),
		CreatedAt:       now,
		UpdatedAt:       now,
		History: []HistoryEntry{{
			Action: "Created",
			By:     "System",
			At:     now,
			Notes:  "Initial creation",
			Kind:   EventCreated,
		}},
	}
}

// AppendHistory appends one entry and refreshes updatedAt. Entries are never
// mutated or removed afterwards.
func (t *Ticket) AppendHistory(entry HistoryEntry) {
	t.History = append(t.History, entry)
	if entry.At.After(t.UpdatedAt) {
		t.UpdatedAt = entry.At
	}
}

// ResolvedAt returns the timestamp of the first status change to Resolved, or
// false when the ticket has never been resolved.
func (t *Ticket) ResolvedAt() (time.Time, bool) {
	for _, entry := range t.History {
		if entry.Kind == EventStatusChanged && entry.Status == StatusResolved {
			return entry.At, true
		}
	}
	return time.Time{}, false
}

// EverHandedOver reports whether any history entry records a handover.
func (t *Ticket) EverHandedOver() bool {
	for _, entry := range t.History {
		if entry.Kind == EventHandover {
			return true
		}
	}
	return false
}

// IsOpen reports whether the ticket still counts as open work.
func (t *Ticket) IsOpen() bool {
	return t.Status != StatusResolved && t.Status != StatusClosed
}

// GenerateTicketID produces a short client-side ticket identifier.
func GenerateTicketID() string {
	return "T-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:7])
}
