// Package filter selects view-relevant subsets of stored events. Every
// function here is pure: no input slice is mutated, order is preserved, and
// re-applying a filter to its own output is a no-op.
package filter

import "github.com/mkarlin/agenttop/internal/event"

// All is the sentinel filter value matching every event.
const All = "all"

// Messages returns the messages whose type equals typeFilter, or all of them
// when typeFilter is All. Order is preserved.
func Messages(msgs []event.Message, typeFilter string) []event.Message {
	if typeFilter == All {
		return msgs
	}
	var out []event.Message
	for _, m := range msgs {
		if string(m.Type) == typeFilter {
			out = append(out, m)
		}
	}
	return out
}

// ToolCalls returns the calls whose status equals statusFilter, or all of
// them when statusFilter is All.
func ToolCalls(calls []event.ToolCall, statusFilter string) []event.ToolCall {
	if statusFilter == All {
		return calls
	}
	var out []event.ToolCall
	for _, tc := range calls {
		if string(tc.Status) == statusFilter {
			out = append(out, tc)
		}
	}
	return out
}

// MessagesByAgent restricts msgs to those where agentID is sender or
// recipient. Empty agentID matches everything. Composes with Messages by
// applying both (logical AND).
func MessagesByAgent(msgs []event.Message, agentID string) []event.Message {
	if agentID == "" {
		return msgs
	}
	var out []event.Message
	for _, m := range msgs {
		if m.From == agentID || m.To == agentID {
			out = append(out, m)
		}
	}
	return out
}

// ToolCallsByAgent restricts calls to those issued by agentID. Empty agentID
// matches everything.
func ToolCallsByAgent(calls []event.ToolCall, agentID string) []event.ToolCall {
	if agentID == "" {
		return calls
	}
	var out []event.ToolCall
	for _, tc := range calls {
		if tc.AgentID == agentID {
			out = append(out, tc)
		}
	}
	return out
}
