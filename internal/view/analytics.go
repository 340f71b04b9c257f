package view

import (
	"fmt"

	"github.com/spec-kit/robotics-tickets/internal/domain"
)

// AvgResolutionPlaceholder is shown when no ticket has ever been resolved.
const AvgResolutionPlaceholder = "—"

// Analytics aggregates over the full registry, independent of any filter.
type Analytics struct {
	AvgResolutionDays string `json:"avgResolutionDays"`
	HandoverCount     int    `json:"handoverCount"`
	OpenCount         int    `json:"openCount"`
}

// ComputeAnalytics derives the aggregate metrics: mean resolution time in days
// over tickets carrying a resolved status-change event (placeholder when none
// qualify), tickets that were ever handed over, and tickets still open.
func ComputeAnalytics(list []*domain.Ticket) Analytics {
	var totalDays float64
	var resolved int
	out := Analytics{AvgResolutionDays: AvgResolutionPlaceholder}

	for _, t := range list {
		if at, ok := t.ResolvedAt(); ok {
			totalDays += at.Sub(t.CreatedAt).Hours() / 24
			resolved++
		}
		if t.EverHandedOver() {
			out.HandoverCount++
		}
		if t.IsOpen() {
			out.OpenCount++
		}
	}

	if resolved > 0 {
		out.AvgResolutionDays = fmt.Sprintf("%.1f", totalDays/float64(resolved))
	}
	return out
}
