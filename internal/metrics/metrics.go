// Package metrics derives read-only statistics from a store snapshot. Stats
// are never stored as source of truth; they are recomputed on every turn that
// mutates the store, so the rendered values are never stale.
package metrics

import (
	"github.com/mkarlin/agenttop/internal/catalog"
	"github.com/mkarlin/agenttop/internal/event"
	"github.com/mkarlin/agenttop/internal/store"
)

// Stats is the derived metric set shown in the dashboard tiles.
type Stats struct {
	TotalMessages   int     `json:"total_messages"`
	TotalCalls      int     `json:"total_calls"`
	SuccessfulCalls int     `json:"successful_calls"`
	ActiveAgents    int     `json:"active_agents"`
	AvgDurationMs   float64 `json:"avg_duration_ms"`
}

// Compute derives Stats from the snapshot and the catalog. ActiveAgents comes
// from agent configuration, not from events. AvgDurationMs is 0 when no call
// has a duration, never NaN.
func Compute(snap *store.Snapshot, cat *catalog.Catalog) Stats {
	st := Stats{
		TotalMessages: len(snap.Messages),
		TotalCalls:    len(snap.ToolCalls),
		ActiveAgents:  cat.ActiveCount(),
	}

	var sum int64
	var timed int
	for _, tc := range snap.ToolCalls {
		if tc.Status == event.CallCompleted {
			st.SuccessfulCalls++
		}
		if tc.DurationMs != nil {
			sum += *tc.DurationMs
			timed++
		}
	}
	if timed > 0 {
		st.AvgDurationMs = float64(sum) / float64(timed)
	}
	return st
}
