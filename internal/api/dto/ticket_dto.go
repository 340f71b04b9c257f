package dto

import (
	"time"

	"github.com/spec-kit/robotics-tickets/internal/domain"
	"github.com/spec-kit/robotics-tickets/internal/view"
)

// CreateTicketRequest mirrors the creation form fields.
type CreateTicketRequest struct {
	Title           string `json:"title"`
	RobotID         string `json:"robotId"`
	IssueType       string `json:"issueType"`
	Priority        string `json:"priority"`
	DepartmentOwner string `json:"departmentOwner"`
	Description     string `json:"description"`
}

// QuickHandoverRequest is the list-view handover action payload.
type QuickHandoverRequest struct {
	Department string `json:"department"`
	Notes      string `json:"notes"`
}

// SaveRequest mirrors the detail-view save form; every field is optional and
// each non-empty one triggers its own sub-mutation.
type SaveRequest struct {
	HandoverDept string `json:"handoverDept"`
	Status       string `json:"status"`
	AssignTo     string `json:"assignTo"`
	Notes        string `json:"notes"`
}

// ForceHandoverRequest payload.
type ForceHandoverRequest struct {
	Department string `json:"department"`
}

// CommentRequest payload.
type CommentRequest struct {
	Notes string `json:"notes"`
}

// HistoryEntryResponse is one audit trail line.
type HistoryEntryResponse struct {
	Action string    `json:"action"`
	By     string    `json:"by"`
	At     time.Time `json:"at"`
	Notes  string    `json:"notes,omitempty"`
}

// TicketDetailResponse provides full ticket info including history.
type TicketDetailResponse struct {
	ID              string                 `json:"id"`
	Title           string                 `json:"title"`
	RobotID         string                 `json:"robotId"`
	IssueType       string                 `json:"issueType"`
	Priority        string                 `json:"priority"`
	DepartmentOwner domain.Department      `json:"departmentOwner"`
	PreviousOwner   domain.Department      `json:"previousOwner,omitempty"`
	Status          domain.TicketStatus    `json:"status"`
	AssignedTo      *string                `json:"assignedTo"`
	Description     string                 `json:"description"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
	History         []HistoryEntryResponse `json:"history"`
}

// TicketListResponse carries rendered rows plus their counters.
type TicketListResponse struct {
	Rows     []view.Row    `json:"rows"`
	Counters view.Counters `json:"counters"`
}

// FromTicket maps a domain ticket onto the detail response.
func FromTicket(t *domain.Ticket) TicketDetailResponse {
	history := make([]HistoryEntryResponse, 0, len(t.History))
	for _, entry := range t.History {
		history = append(history, HistoryEntryResponse{
			Action: entry.Action,
			By:     entry.By,
			At:     entry.At,
			Notes:  entry.Notes,
		})
	}
	return TicketDetailResponse{
		ID:              t.ID,
		Title:           t.Title,
		RobotID:         t.RobotID,
		IssueType:       t.IssueType,
		Priority:        t.Priority,
		DepartmentOwner: t.DepartmentOwner,
		PreviousOwner:   t.PreviousOwner,
		Status:          t.Status,
		AssignedTo:      t.AssignedTo,
		Description:     t.Description,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
		History:         history,
	}
}
