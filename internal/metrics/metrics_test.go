package metrics

import (
	"math"
	"testing"

	"github.com/mkarlin/agenttop/internal/catalog"
	"github.com/mkarlin/agenttop/internal/event"
	"github.com/mkarlin/agenttop/internal/store"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Agent{
		{ID: "a", Status: catalog.StatusActive},
		{ID: "b", Status: catalog.StatusActive},
		{ID: "c", Status: catalog.StatusStandby},
		{ID: "d", Status: catalog.StatusMaintenance},
	}, []string{"web_search"})
}

func dur(ms int64) *int64 { return &ms }

func TestComputeEmptyStore(t *testing.T) {
	s := store.New(10, 10)
	st := Compute(s.Snapshot(), testCatalog())

	if st.TotalMessages != 0 || st.TotalCalls != 0 || st.SuccessfulCalls != 0 {
		t.Errorf("empty store produced non-zero counts: %+v", st)
	}
	if st.ActiveAgents != 2 {
		t.Errorf("ActiveAgents = %d, want 2 (catalog-derived)", st.ActiveAgents)
	}
	// Zero-guard: no completed calls means 0, never NaN.
	if st.AvgDurationMs != 0 {
		t.Errorf("AvgDurationMs = %v, want 0", st.AvgDurationMs)
	}
	if math.IsNaN(st.AvgDurationMs) || math.IsInf(st.AvgDurationMs, 0) {
		t.Error("AvgDurationMs is not finite")
	}
}

func TestComputeCountsAndAverage(t *testing.T) {
	s := store.New(10, 10)
	s.AddMessage(event.Message{ID: "m1"})
	s.AddMessage(event.Message{ID: "m2"})
	s.AddToolCall(event.ToolCall{ID: "t1", Status: event.CallCompleted, DurationMs: dur(100)})
	s.AddToolCall(event.ToolCall{ID: "t2", Status: event.CallCompleted, DurationMs: dur(300)})
	s.AddToolCall(event.ToolCall{ID: "t3", Status: event.CallFailed, Error: "timeout"})
	s.AddToolCall(event.ToolCall{ID: "t4", Status: event.CallRunning})

	st := Compute(s.Snapshot(), testCatalog())
	if st.TotalMessages != 2 {
		t.Errorf("TotalMessages = %d, want 2", st.TotalMessages)
	}
	if st.TotalCalls != 4 {
		t.Errorf("TotalCalls = %d, want 4", st.TotalCalls)
	}
	if st.SuccessfulCalls != 2 {
		t.Errorf("SuccessfulCalls = %d, want 2", st.SuccessfulCalls)
	}
	if st.AvgDurationMs != 200 {
		t.Errorf("AvgDurationMs = %v, want 200", st.AvgDurationMs)
	}
	if st.AvgDurationMs < 0 {
		t.Error("AvgDurationMs negative")
	}
}

func TestComputeOnlyNonterminalCalls(t *testing.T) {
	s := store.New(10, 10)
	s.AddToolCall(event.ToolCall{ID: "t1", Status: event.CallQueued})
	s.AddToolCall(event.ToolCall{ID: "t2", Status: event.CallFailed, Error: "x"})

	st := Compute(s.Snapshot(), testCatalog())
	if st.SuccessfulCalls != 0 {
		t.Errorf("SuccessfulCalls = %d, want 0", st.SuccessfulCalls)
	}
	if st.AvgDurationMs != 0 {
		t.Errorf("AvgDurationMs = %v, want 0 with no timed calls", st.AvgDurationMs)
	}
}
