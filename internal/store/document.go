package store

import (
	"time"

	"github.com/spec-kit/robotics-tickets/internal/domain"
)

// ticketDocument is the persisted document shape. It matches the export record
// shape plus the structured event tags (kind, statusValue) that the export
// format deliberately omits.
type ticketDocument struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	RobotID         string            `json:"robotId"`
	IssueType       string            `json:"issueType"`
	Priority        string            `json:"priority"`
	DepartmentOwner string            `json:"departmentOwner"`
	PreviousOwner   string            `json:"previousOwner,omitempty"`
	Status          string            `json:"status"`
	AssignedTo      *string           `json:"assignedTo"`
	Description     string            `json:"description"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
	History         []historyDocument `json:"history"`
}

type historyDocument struct {
	Action      string    `json:"action"`
	By          string    `json:"by"`
	At          time.Time `json:"at"`
	Notes       string    `json:"notes,omitempty"`
	Kind        string    `json:"kind,omitempty"`
	StatusValue string    `json:"statusValue,omitempty"`
}

func toDocument(t *domain.Ticket) ticketDocument {
	history := make([]historyDocument, 0, len(t.History))
	for _, entry := range t.History {
		history = append(history, historyDocument{
			Action:      entry.Action,
			By:          entry.By,
			At:          entry.At,
			Notes:       entry.Notes,
			Kind:        string(entry.Kind),
			StatusValue: string(entry.Status),
		})
	}
	return ticketDocument{
		ID:              t.ID,
		Title:           t.Title,
		RobotID:         t.RobotID,
		IssueType:       t.IssueType,
		Priority:        t.Priority,
		DepartmentOwner: string(t.DepartmentOwner),
		PreviousOwner:   string(t.PreviousOwner),
		Status:          string(t.Status),
		AssignedTo:      t.AssignedTo,
		Description:     t.Description,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
		History:         history,
	}
}

func fromDocument(doc ticketDocument, externalID string) *domain.Ticket {
	history := make([]domain.HistoryEntry, 0, len(doc.History))
	for _, h := range doc.History {
		entry := domain.HistoryEntry{
			Action: h.Action,
			By:     h.By,
			At:     h.At,
			Notes:  h.Notes,
			Kind:   domain.EventKind(h.Kind),
			Status: domain.TicketStatus(h.StatusValue),
		}
		// Documents written before structured tagging carry no kind.
		if entry.Kind == "" {
			entry.Kind, entry.Status = domain.InferKind(entry.Action)
		}
		history = append(history, entry)
	}
	return &domain.Ticket{
		ID:              doc.ID,
		Title:           doc.Title,
		RobotID:         doc.RobotID,
		IssueType:       doc.IssueType,
		Priority:        doc.Priority,
		DepartmentOwner: domain.Department(doc.DepartmentOwner),
		PreviousOwner:   domain.Department(doc.PreviousOwner),
		Status:          domain.TicketStatus(doc.Status),
		AssignedTo:      doc.AssignedTo,
		Description:     doc.Description,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
		History:         history,
		ExternalID:      externalID,
	}
}
