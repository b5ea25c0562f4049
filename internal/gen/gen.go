// Package gen manufactures the synthetic A2A and MCP traffic shown on the
// dashboard. All values are drawn from the live catalog, so generation cannot
// fail at runtime; there is no error path here.
package gen

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/mkarlin/agenttop/internal/catalog"
	"github.com/mkarlin/agenttop/internal/event"
)

// Rand is the source of randomness injected into a Generator. Tests supply a
// seeded source to get reproducible streams.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// NewRand returns a Rand backed by math/rand with the given seed.
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

// Source produces the events fed into the store. Generator is the synthetic
// implementation; a real upstream feed (a bus delivering genuine inter-agent
// traffic) can implement Source and plug into the same append path without
// touching the store, metrics, filters, or views.
type Source interface {
	NextMessage() event.Message
	NextToolCall() event.ToolCall
}

// Generator synthesizes events from a catalog using an injected Rand.
// Not safe for concurrent use; all calls happen on the UI loop.
type Generator struct {
	cat *catalog.Catalog
	rng Rand
	now func() time.Time
}

// New creates a Generator drawing from cat.
func New(cat *catalog.Catalog, rng Rand) *Generator {
	return &Generator{cat: cat, rng: rng, now: time.Now}
}

// SetCatalog swaps the catalog after a config reload. Events already in the
// store keep their old agent ids; renderers degrade on lookup misses.
func (g *Generator) SetCatalog(cat *catalog.Catalog) { g.cat = cat }

var bodyTemplates = map[event.MessageType][]string{
	event.TypeTaskRequest: {
		"%s asks %s to break down the incoming work item",
		"%s hands %s a retrieval task over the shared corpus",
		"%s requests %s to draft a patch for the flagged module",
	},
	event.TypeTaskResponse: {
		"%s returns results to %s: task complete, artifacts attached",
		"%s reports back to %s with a partial result and open items",
	},
	event.TypeStatusUpdate: {
		"%s notifies %s: progressing, no blockers",
		"%s tells %s it is waiting on an upstream dependency",
	},
	event.TypeContextShare: {
		"%s shares working context with %s for the active task",
		"%s forwards %s the latest summary of the session state",
	},
	event.TypeErrorReport: {
		"%s reports an execution error to %s and requests retry guidance",
		"%s escalates a validation failure to %s",
	},
	event.TypeHeartbeat: {
		"%s pings %s: alive and responsive",
	},
}

// NextMessage manufactures one A2A message. Sender and recipient are drawn
// uniformly from the catalog; the recipient is resampled until it differs
// from the sender.
func (g *Generator) NextMessage() event.Message {
	agents := g.cat.Agents()
	from := agents[g.rng.Intn(len(agents))]
	to := agents[g.rng.Intn(len(agents))]
	for to.ID == from.ID {
		to = agents[g.rng.Intn(len(agents))]
	}

	mt := event.MessageTypes[g.rng.Intn(len(event.MessageTypes))]
	templates := bodyTemplates[mt]
	body := fmt.Sprintf(templates[g.rng.Intn(len(templates))], from.DisplayName, to.DisplayName)

	return event.Message{
		ID:        uuid.NewString(),
		Timestamp: g.now(),
		From:      from.ID,
		To:        to.ID,
		Type:      mt,
		Priority:  g.priority(),
		Status:    g.messageStatus(),
		Body:      body,
		Meta: event.MessageMeta{
			Encrypted:  g.rng.Float64() < 0.3,
			RetryCount: 0,
		},
	}
}

// NextToolCall manufactures one MCP tool invocation. Duration and a canned
// result are set only for completed calls; failed calls carry an error.
func (g *Generator) NextToolCall() event.ToolCall {
	agents := g.cat.Agents()
	tools := g.cat.Tools()
	agent := agents[g.rng.Intn(len(agents))]
	tool := tools[g.rng.Intn(len(tools))]

	tc := event.ToolCall{
		ID:        uuid.NewString(),
		Timestamp: g.now(),
		AgentID:   agent.ID,
		Tool:      tool,
		Status:    g.callStatus(),
		Params: map[string]string{
			"invoked_by": agent.ID,
			"arg":        fmt.Sprintf("req-%04d", g.rng.Intn(10000)),
		},
	}

	switch tc.Status {
	case event.CallCompleted:
		d := int64(50 + g.rng.Intn(2000))
		tc.DurationMs = &d
		tc.Result = fmt.Sprintf("%s returned %d items", tool, 1+g.rng.Intn(20))
	case event.CallFailed:
		tc.Error = failReasons[g.rng.Intn(len(failReasons))]
	}
	return tc
}

var failReasons = []string{
	"timeout waiting for tool response",
	"tool returned non-zero exit status",
	"rate limited by upstream provider",
	"malformed tool arguments",
}

// priority draws from the weighted set normal 60%, low 25%, high 10%,
// critical 5%.
func (g *Generator) priority() event.Priority {
	r := g.rng.Float64()
	switch {
	case r < 0.60:
		return event.PriorityNormal
	case r < 0.85:
		return event.PriorityLow
	case r < 0.95:
		return event.PriorityHigh
	default:
		return event.PriorityCritical
	}
}

// messageStatus draws delivered 90%, pending 7%, failed 3%.
func (g *Generator) messageStatus() event.MessageStatus {
	r := g.rng.Float64()
	switch {
	case r < 0.90:
		return event.StatusDelivered
	case r < 0.97:
		return event.StatusPending
	default:
		return event.StatusFailed
	}
}

// callStatus draws completed 90%, running 4%, queued 3%, failed 3%.
func (g *Generator) callStatus() event.CallStatus {
	r := g.rng.Float64()
	switch {
	case r < 0.90:
		return event.CallCompleted
	case r < 0.94:
		return event.CallRunning
	case r < 0.97:
		return event.CallQueued
	default:
		return event.CallFailed
	}
}
