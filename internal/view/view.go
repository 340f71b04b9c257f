package view

import (
	"strings"
	"time"

	"github.com/spec-kit/robotics-tickets/internal/domain"
)

// Row is the list projection of one ticket.
type Row struct {
	ID              string              `json:"id"`
	Title           string              `json:"title"`
	RobotID         string              `json:"robotId"`
	IssueType       string              `json:"issueType"`
	Priority        string              `json:"priority"`
	DepartmentOwner domain.Department   `json:"departmentOwner"`
	Status          domain.TicketStatus `json:"status"`
	AssignedTo      *string             `json:"assignedTo"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// Counters summarize the list being rendered.
type Counters struct {
	Total         int `json:"total"`
	OpenCount     int `json:"openCount"`
	HandoverCount int `json:"handoverCount"`
}

// RenderResult is the rendered list plus its counters.
type RenderResult struct {
	Rows     []Row    `json:"rows"`
	Counters Counters `json:"counters"`
}

// Render projects the given ticket list into display rows and computes the two
// list counters: open (status not Resolved/Closed) and handover (status
// Handover Pending or Handed Over).
func Render(list []*domain.Ticket) RenderResult {
	rows := make([]Row, 0, len(list))
	counters := Counters{Total: len(list)}
	for _, t := range list {
		if t.IsOpen() {
			counters.OpenCount++
		}
		if t.Status == domain.StatusHandoverPending || t.Status == domain.StatusHandedOver {
			counters.HandoverCount++
		}
		rows = append(rows, Row{
			ID:              t.ID,
			Title:           t.Title,
			RobotID:         t.RobotID,
			IssueType:       t.IssueType,
			Priority:        t.Priority,
			DepartmentOwner: t.DepartmentOwner,
			Status:          t.Status,
			AssignedTo:      t.AssignedTo,
			UpdatedAt:       t.UpdatedAt,
		})
	}
	return RenderResult{Rows: rows, Counters: counters}
}

// Filter returns the subset of list matching every non-empty criterion: exact
// department and status match, case-insensitive substring match of query over
// title, robot id and description. Empty criteria impose no constraint; order
// is preserved.
func Filter(list []*domain.Ticket, query string, dept domain.Department, status domain.TicketStatus) []*domain.Ticket {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]*domain.Ticket, 0, len(list))
	for _, t := range list {
		if dept != "" && t.DepartmentOwner != dept {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		if q != "" {
			haystack := strings.ToLower(t.Title + " " + t.RobotID + " " + t.Description)
			if !strings.Contains(haystack, q) {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}
