// Package event defines the traffic records displayed by agenttop: A2A
// messages exchanged between agents and MCP tool invocations.
//
// Events are immutable after creation. Status is assigned when an event is
// manufactured and never transitions afterward; the store only appends and
// evicts, it never rewrites.
package event

import "time"

// Kind discriminates selected events in the detail view.
type Kind string

const (
	KindMessage  Kind = "message"
	KindToolCall Kind = "tool_call"
)

// MessageType categorizes an A2A message.
type MessageType string

const (
	TypeTaskRequest  MessageType = "task_request"
	TypeTaskResponse MessageType = "task_response"
	TypeStatusUpdate MessageType = "status_update"
	TypeContextShare MessageType = "context_share"
	TypeErrorReport  MessageType = "error_report"
	TypeHeartbeat    MessageType = "heartbeat"
)

// MessageTypes lists every known message type in display order.
var MessageTypes = []MessageType{
	TypeTaskRequest,
	TypeTaskResponse,
	TypeStatusUpdate,
	TypeContextShare,
	TypeErrorReport,
	TypeHeartbeat,
}

// IsValid reports whether t is a known message type.
func (t MessageType) IsValid() bool {
	for _, known := range MessageTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Priority of an A2A message.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityNormal   Priority = "normal"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// MessageStatus is the delivery outcome of an A2A message.
type MessageStatus string

const (
	StatusDelivered MessageStatus = "delivered"
	StatusPending   MessageStatus = "pending"
	StatusFailed    MessageStatus = "failed"
)

// MessageMeta is an additive bag of optional message attributes.
type MessageMeta struct {
	Encrypted  bool `json:"encrypted"`
	RetryCount int  `json:"retry_count"`
}

// Message is one simulated agent-to-agent communication.
// Invariant: From != To.
type Message struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	From      string        `json:"from"`
	To        string        `json:"to"`
	Type      MessageType   `json:"type"`
	Priority  Priority      `json:"priority"`
	Status    MessageStatus `json:"status"`
	Body      string        `json:"body"`
	Meta      MessageMeta   `json:"meta"`
}

// CallStatus is the state of an MCP tool invocation.
type CallStatus string

const (
	CallCompleted CallStatus = "completed"
	CallRunning   CallStatus = "running"
	CallQueued    CallStatus = "queued"
	CallFailed    CallStatus = "failed"
)

// IsValid reports whether s is a known call status.
func (s CallStatus) IsValid() bool {
	switch s {
	case CallCompleted, CallRunning, CallQueued, CallFailed:
		return true
	}
	return false
}

// ToolCall is one simulated MCP tool invocation by an agent.
//
// Invariants: DurationMs is non-nil iff Status is CallCompleted, and Result
// and Error are never both set.
type ToolCall struct {
	ID         string            `json:"id"`
	Timestamp  time.Time         `json:"timestamp"`
	AgentID    string            `json:"agent_id"`
	Tool       string            `json:"tool"`
	Status     CallStatus        `json:"status"`
	DurationMs *int64            `json:"duration_ms,omitempty"`
	Params     map[string]string `json:"params,omitempty"`
	Result     string            `json:"result,omitempty"`
	Error      string            `json:"error,omitempty"`
}
