package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTicket(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	ticket := NewTicket(TicketInput{
		Title:           "  Arm jitter  ",
		RobotID:         " RB-42 ",
		IssueType:       "Mechanical",
		Priority:        "High",
		DepartmentOwner: DepartmentMechanical,
		Description:     " intermittent ",
	}, now)

	assert.True(t, strings.HasPrefix(ticket.ID, "T-"))
	assert.Equal(t, "Arm jitter", ticket.Title)
	assert.Equal(t, "RB-42", ticket.RobotID)
	assert.Equal(t, "intermittent", ticket.Description)
	assert.Equal(t, StatusNew, ticket.Status)
	assert.Nil(t, ticket.AssignedTo)
	assert.Equal(t, now, ticket.CreatedAt)
	assert.Equal(t, now, ticket.UpdatedAt)

	require.Len(t, ticket.History, 1)
	entry := ticket.History[0]
	assert.Equal(t, "Created", entry.Action)
	assert.Equal(t, "System", entry.By)
	assert.Equal(t, "Initial creation", entry.Notes)
	assert.Equal(t, EventCreated, entry.Kind)
}

func TestAppendHistoryRefreshesUpdatedAt(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	ticket := NewTicket(TicketInput{DepartmentOwner: DepartmentProduction}, now)

	later := now.Add(time.Hour)
	ticket.AppendHistory(HistoryEntry{Action: "Comment", By: "User", At: later, Kind: EventComment})

	assert.Equal(t, later, ticket.UpdatedAt)
	assert.Len(t, ticket.History, 2)
}

func TestResolvedAt(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	ticket := NewTicket(TicketInput{DepartmentOwner: DepartmentProject}, now)

	_, ok := ticket.ResolvedAt()
	assert.False(t, ok)

	resolvedAt := now.Add(48 * time.Hour)
	ticket.AppendHistory(HistoryEntry{
		Action: "Status set to Resolved",
		By:     "User",
		At:     resolvedAt,
		Kind:   EventStatusChanged,
		Status: StatusResolved,
	})

	at, ok := ticket.ResolvedAt()
	require.True(t, ok)
	assert.Equal(t, resolvedAt, at)
}

func TestIsValidDepartment(t *testing.T) {
	for _, d := range Departments() {
		assert.True(t, IsValidDepartment(d))
	}
	assert.False(t, IsValidDepartment("Finance"))
	assert.False(t, IsValidDepartment(""))
}

func TestInferKind(t *testing.T) {
	tests := []struct {
		action     string
		wantKind   EventKind
		wantStatus TicketStatus
	}{
		{"Created", EventCreated, ""},
		{"Status set to Resolved", EventStatusChanged, StatusResolved},
		{"Status set to In Progress", EventStatusChanged, StatusInProgress},
		{"Handover Initiated", EventHandover, ""},
		{"Handover Robotics Software → Mechanical", EventHandover, ""},
		{"Force Handover Production → Purchase", EventHandover, ""},
		{"Assigned To A. Khan", EventAssigned, ""},
		{"Comment", EventComment, ""},
		{"something else", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			kind, status := InferKind(tt.action)
			assert.Equal(t, tt.wantKind, kind)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}
