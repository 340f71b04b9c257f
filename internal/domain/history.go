package domain

import (
	"strings"
	"time"
)

// EventKind tags a history entry with a machine-readable lifecycle event type,
// so analytics does not have to pattern-match the human-readable action text.
type EventKind string

const (
	EventCreated       EventKind = "created"
	EventHandover      EventKind = "handover"
	EventAssigned      EventKind = "assigned"
	EventStatusChanged EventKind = "status_changed"
	EventComment       EventKind = "comment"
)

// HistoryEntry is an immutable, timestamped record of one lifecycle event on a
// ticket. The JSON shape (action/by/at/notes) is the export format and must not
// change; Kind and Status are structured companions persisted only by the store.
type HistoryEntry struct {
	Action string    `json:"action"`
	By     string    `json:"by"`
	At     time.Time `json:"at"`
	Notes  string    `json:"notes,omitempty"`

	Kind   EventKind    `json:"-"`
	Status TicketStatus `json:"-"`
}

// InferKind derives the event kind from legacy action text for documents
// persisted before structured tagging existed.
func InferKind(action string) (EventKind, TicketStatus) {
	switch {
	case action == "Created":
		return EventCreated, ""
	case strings.HasPrefix(action, "Status set to "):
		return EventStatusChanged, TicketStatus(strings.TrimPrefix(action, "Status set to "))
	case strings.Contains(strings.ToLower(action), "handover"):
		return EventHandover, ""
	case strings.HasPrefix(action, "Assigned To "):
		return EventAssigned, ""
	case action == "Comment":
		return EventComment, ""
	default:
		return "", ""
	}
}
