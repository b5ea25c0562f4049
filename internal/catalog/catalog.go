// Package catalog holds the static registries agenttop synthesizes events
// from: the agent roster and the tool vocabulary. The catalog is loaded once
// at startup from configuration and swapped wholesale on a config reload;
// the event pipeline never mutates it.
package catalog

// AgentStatus is the configured operational state of an agent. It is
// configuration, not telemetry: nothing in the event pipeline changes it.
type AgentStatus string

const (
	StatusActive      AgentStatus = "active"
	StatusStandby     AgentStatus = "standby"
	StatusMaintenance AgentStatus = "maintenance"
)

// Agent is one roster entry.
type Agent struct {
	ID          string      `mapstructure:"id" json:"id"`
	DisplayName string      `mapstructure:"name" json:"name"`
	Glyph       string      `mapstructure:"glyph" json:"glyph"`
	Accent      string      `mapstructure:"accent" json:"accent"`
	Status      AgentStatus `mapstructure:"status" json:"status"`
}

// Catalog is the immutable registry view handed to the generator and the
// renderers.
type Catalog struct {
	agents []Agent
	tools  []string
	byID   map[string]int
}

// New builds a catalog from a roster and tool list.
func New(agents []Agent, tools []string) *Catalog {
	byID := make(map[string]int, len(agents))
	for i, a := range agents {
		byID[a.ID] = i
	}
	return &Catalog{agents: agents, tools: tools, byID: byID}
}

// Agents returns the roster in configuration order.
func (c *Catalog) Agents() []Agent { return c.agents }

// Tools returns the tool vocabulary.
func (c *Catalog) Tools() []string { return c.tools }

// Lookup finds an agent by id.
func (c *Catalog) Lookup(id string) (Agent, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Agent{}, false
	}
	return c.agents[i], true
}

// DisplayName resolves an agent id to its display name, degrading to the raw
// id when the agent is not in the catalog (e.g. after a config reload removed
// it). Renderers must never fail on an unknown id.
func (c *Catalog) DisplayName(id string) string {
	if a, ok := c.Lookup(id); ok {
		return a.DisplayName
	}
	return id
}

// ActiveCount returns the number of agents whose configured status is active.
func (c *Catalog) ActiveCount() int {
	n := 0
	for _, a := range c.agents {
		if a.Status == StatusActive {
			n++
		}
	}
	return n
}
