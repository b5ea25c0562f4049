package filter

import (
	"reflect"
	"testing"

	"github.com/mkarlin/agenttop/internal/event"
)

var msgs = []event.Message{
	{ID: "1", From: "orchestrator", To: "coder", Type: event.TypeTaskRequest},
	{ID: "2", From: "coder", To: "orchestrator", Type: event.TypeTaskResponse},
	{ID: "3", From: "researcher", To: "coder", Type: event.TypeTaskRequest},
	{ID: "4", From: "sentinel", To: "researcher", Type: event.TypeHeartbeat},
}

var calls = []event.ToolCall{
	{ID: "a", AgentID: "coder", Status: event.CallCompleted},
	{ID: "b", AgentID: "researcher", Status: event.CallFailed},
	{ID: "c", AgentID: "coder", Status: event.CallCompleted},
}

func ids(ms []event.Message) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}

func TestMessagesAllIsIdentity(t *testing.T) {
	got := Messages(msgs, All)
	if !reflect.DeepEqual(got, msgs) {
		t.Errorf("Messages(msgs, All) = %v, not order-preserving identity", ids(got))
	}
}

func TestMessagesByType(t *testing.T) {
	got := Messages(msgs, string(event.TypeTaskRequest))
	want := []string{"1", "3"}
	if !reflect.DeepEqual(ids(got), want) {
		t.Errorf("filtered ids = %v, want %v", ids(got), want)
	}
}

func TestMessagesNoMatch(t *testing.T) {
	if got := Messages(msgs, string(event.TypeErrorReport)); len(got) != 0 {
		t.Errorf("expected empty result, got %v", ids(got))
	}
	// Switching back to All restores the full set.
	if got := Messages(msgs, All); len(got) != len(msgs) {
		t.Errorf("All returned %d of %d", len(got), len(msgs))
	}
}

func TestMessagesIdempotent(t *testing.T) {
	p := string(event.TypeTaskRequest)
	once := Messages(msgs, p)
	twice := Messages(once, p)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("filter not idempotent: %v vs %v", ids(once), ids(twice))
	}
}

func TestMessagesByAgentSenderOrRecipient(t *testing.T) {
	got := MessagesByAgent(msgs, "coder")
	want := []string{"1", "2", "3"}
	if !reflect.DeepEqual(ids(got), want) {
		t.Errorf("agent-filtered ids = %v, want %v", ids(got), want)
	}
}

func TestMessagesComposedFilters(t *testing.T) {
	// Both predicates must hold: task_request AND involving researcher.
	got := MessagesByAgent(Messages(msgs, string(event.TypeTaskRequest)), "researcher")
	if len(got) != 1 || got[0].ID != "3" {
		t.Errorf("composed filter = %v, want [3]", ids(got))
	}
}

func TestToolCallsByStatus(t *testing.T) {
	got := ToolCalls(calls, string(event.CallCompleted))
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Errorf("status filter returned wrong calls: %v", got)
	}
	if all := ToolCalls(calls, All); !reflect.DeepEqual(all, calls) {
		t.Error("ToolCalls All is not identity")
	}
}

func TestToolCallsByAgentIssuerOnly(t *testing.T) {
	got := ToolCallsByAgent(calls, "researcher")
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("agent filter returned %v, want [b]", got)
	}
	if all := ToolCallsByAgent(calls, ""); !reflect.DeepEqual(all, calls) {
		t.Error("empty agent filter is not identity")
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	before := make([]event.Message, len(msgs))
	copy(before, msgs)
	Messages(msgs, string(event.TypeHeartbeat))
	MessagesByAgent(msgs, "coder")
	if !reflect.DeepEqual(before, msgs) {
		t.Error("input slice mutated by filtering")
	}
}
