package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/robotics-tickets/internal/domain"
)

func TestDocumentRoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	assignee := "A. Khan"
	ticket := &domain.Ticket{
		ID:              "T-ABC1234",
		Title:           "Battery not charging",
		RobotID:         "RB-1109",
		IssueType:       "Electronics",
		Priority:        "Critical",
		DepartmentOwner: domain.DepartmentRoboticsElectronics,
		PreviousOwner:   domain.DepartmentProduction,
		Status:          domain.StatusHandedOver,
		AssignedTo:      &assignee,
		Description:     "Charging LED not blinking",
		CreatedAt:       now,
		UpdatedAt:       now.Add(time.Hour),
		History: []domain.HistoryEntry{
			{Action: "Created", By: "System", At: now, Notes: "Initial creation", Kind: domain.EventCreated},
			{
				Action: "Status set to Resolved",
				By:     "User",
				At:     now.Add(time.Hour),
				Kind:   domain.EventStatusChanged,
				Status: domain.StatusResolved,
			},
		},
	}

	got := fromDocument(toDocument(ticket), "doc-9")

	assert.Equal(t, "doc-9", got.ExternalID)
	assert.Equal(t, ticket.ID, got.ID)
	assert.Equal(t, ticket.DepartmentOwner, got.DepartmentOwner)
	assert.Equal(t, ticket.PreviousOwner, got.PreviousOwner)
	require.NotNil(t, got.AssignedTo)
	assert.Equal(t, assignee, *got.AssignedTo)
	require.Len(t, got.History, 2)
	assert.Equal(t, domain.EventStatusChanged, got.History[1].Kind)
	assert.Equal(t, domain.StatusResolved, got.History[1].Status)
}

func TestFromDocumentInfersKindForLegacyEntries(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	doc := ticketDocument{
		ID:              "T-LEGACY",
		DepartmentOwner: string(domain.DepartmentMechanical),
		Status:          string(domain.StatusResolved),
		CreatedAt:       now,
		UpdatedAt:       now,
		History: []historyDocument{
			{Action: "Created", By: "System", At: now},
			{Action: "Handover Initiated", By: "User", At: now.Add(time.Hour)},
			{Action: "Status set to Resolved", By: "User", At: now.Add(2 * time.Hour)},
		},
	}

	got := fromDocument(doc, "doc-1")

	require.Len(t, got.History, 3)
	assert.Equal(t, domain.EventCreated, got.History[0].Kind)
	assert.Equal(t, domain.EventHandover, got.History[1].Kind)
	assert.Equal(t, domain.EventStatusChanged, got.History[2].Kind)
	assert.Equal(t, domain.StatusResolved, got.History[2].Status)

	resolvedAt, ok := got.ResolvedAt()
	require.True(t, ok)
	assert.Equal(t, now.Add(2*time.Hour), resolvedAt)
}
