package view

import (
	"encoding/json"

	"github.com/spec-kit/robotics-tickets/internal/domain"
)

// ExportFilename is the fixed download name for registry exports.
const ExportFilename = "robotics_tickets_export.json"

// Export serializes the ticket list as a pretty-printed JSON array in the
// exact registry record shape. Downstream consumers parse this file; field
// names and nesting must not change.
func Export(list []*domain.Ticket) ([]byte, error) {
	if list == nil {
		list = []*domain.Ticket{}
	}
	return json.MarshalIndent(list, "", "  ")
}

// ParseExport reads an export document back into tickets.
func ParseExport(data []byte) ([]*domain.Ticket, error) {
	var tickets []*domain.Ticket
	if err := json.Unmarshal(data, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}
