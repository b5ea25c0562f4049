// Package store is the bounded in-memory holder of dashboard events. It keeps
// two independent sequences, messages and tool calls, both newest-first, each
// with a hard capacity ceiling enforced by oldest-first eviction.
//
// The store is the single owner of event data. Renderers and aggregators work
// from snapshots; nothing outside this package mutates the sequences.
package store

import (
	"time"

	"github.com/mkarlin/agenttop/internal/event"
)

// Store holds the two capacity-bounded event sequences.
// Not safe for concurrent use; all mutation happens on the UI loop.
type Store struct {
	messageCap  int
	toolCallCap int

	messages  []event.Message
	toolCalls []event.ToolCall
}

// New creates an empty store with the given capacities.
func New(messageCap, toolCallCap int) *Store {
	return &Store{
		messageCap:  messageCap,
		toolCallCap: toolCallCap,
		messages:    make([]event.Message, 0, messageCap),
		toolCalls:   make([]event.ToolCall, 0, toolCallCap),
	}
}

// AddMessage inserts m at the head of the message sequence, evicting the
// oldest entry if the sequence would exceed capacity.
func (s *Store) AddMessage(m event.Message) {
	s.messages = append(s.messages, event.Message{})
	copy(s.messages[1:], s.messages)
	s.messages[0] = m
	if len(s.messages) > s.messageCap {
		s.messages = s.messages[:s.messageCap]
	}
}

// AddToolCall inserts tc at the head of the tool call sequence, evicting the
// oldest entry if the sequence would exceed capacity.
func (s *Store) AddToolCall(tc event.ToolCall) {
	s.toolCalls = append(s.toolCalls, event.ToolCall{})
	copy(s.toolCalls[1:], s.toolCalls)
	s.toolCalls[0] = tc
	if len(s.toolCalls) > s.toolCallCap {
		s.toolCalls = s.toolCalls[:s.toolCallCap]
	}
}

// Clear empties both sequences. Idempotent.
func (s *Store) Clear() {
	s.messages = s.messages[:0]
	s.toolCalls = s.toolCalls[:0]
}

// Len returns the current sequence lengths (messages, tool calls).
func (s *Store) Len() (int, int) {
	return len(s.messages), len(s.toolCalls)
}

// Snapshot is an immutable, self-contained view of the store at a point in
// time, swapped wholesale into the UI model on each change.
type Snapshot struct {
	Messages  []event.Message
	ToolCalls []event.ToolCall
	BuiltAt   time.Time
}

// Snapshot copies the current sequences into a new Snapshot.
func (s *Store) Snapshot() *Snapshot {
	msgs := make([]event.Message, len(s.messages))
	copy(msgs, s.messages)
	calls := make([]event.ToolCall, len(s.toolCalls))
	copy(calls, s.toolCalls)
	return &Snapshot{
		Messages:  msgs,
		ToolCalls: calls,
		BuiltAt:   time.Now(),
	}
}

// FindMessage looks up a message by id. A miss means the event was evicted or
// cleared; callers degrade to "no selection".
func (snap *Snapshot) FindMessage(id string) (event.Message, bool) {
	for _, m := range snap.Messages {
		if m.ID == id {
			return m, true
		}
	}
	return event.Message{}, false
}

// FindToolCall looks up a tool call by id.
func (snap *Snapshot) FindToolCall(id string) (event.ToolCall, bool) {
	for _, tc := range snap.ToolCalls {
		if tc.ID == id {
			return tc, true
		}
	}
	return event.ToolCall{}, false
}
