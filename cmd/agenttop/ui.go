package main

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/mkarlin/agenttop/internal/catalog"
	"github.com/mkarlin/agenttop/internal/event"
	"github.com/mkarlin/agenttop/internal/export"
	"github.com/mkarlin/agenttop/internal/filter"
	"github.com/mkarlin/agenttop/internal/gen"
	"github.com/mkarlin/agenttop/internal/metrics"
	"github.com/mkarlin/agenttop/internal/store"
)

// --- Messages ---

type genMessageMsg struct{}

type genToolCallMsg struct{}

type configChangedMsg struct{}

type configReloadedMsg struct {
	cfg *catalog.Config
	err error
}

type exportDoneMsg struct {
	path string
	err  error
}

type noticeExpiredMsg struct {
	seq int
}

// --- Key bindings ---

type keyMap struct {
	Quit        key.Binding
	Tab         key.Binding
	Pause       key.Binding
	Clear       key.Binding
	Export      key.Binding
	TypeFilter  key.Binding
	StatFilter  key.Binding
	AgentFilter key.Binding
	Up          key.Binding
	Down        key.Binding
	Enter       key.Binding
	Esc         key.Binding
	Help        key.Binding
}

var keys = keyMap{
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Tab:         key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
	Pause:       key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause/resume")),
	Clear:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear logs")),
	Export:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
	TypeFilter:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "cycle type filter")),
	StatFilter:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle status filter")),
	AgentFilter: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "cycle agent filter")),
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/up", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/down", "down")),
	Enter:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "inspect")),
	Esc:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close detail")),
	Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}

// viewKeys maps single keys to views for fast navigation.
var viewKeys = map[string]viewID{
	"d": viewDashboard,
	"m": viewMessages,
	"t": viewTools,
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Pause, k.Clear, k.Export, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Pause, k.Clear, k.Export},
		{k.TypeFilter, k.StatFilter, k.AgentFilter, k.Enter},
		{k.Up, k.Down, k.Esc, k.Quit},
	}
}

// contextHelp returns help text appropriate for the current view.
func contextHelp(v viewID) string {
	switch v {
	case viewMessages:
		return "j/k: move | enter: inspect | f: type filter | /: agent filter | space: pause | c: clear | e: export | q: quit"
	case viewTools:
		return "j/k: move | enter: inspect | s: status filter | /: agent filter | space: pause | c: clear | e: export | q: quit"
	default:
		return "j/k: select agent | enter: filter by agent | d/m/t: views | space: pause | c: clear | e: export | ?: help | q: quit"
	}
}

// --- Views ---

type viewID int

const (
	viewDashboard viewID = iota
	viewMessages
	viewTools
	viewCount // sentinel
)

func (v viewID) String() string {
	switch v {
	case viewDashboard:
		return "Dashboard"
	case viewMessages:
		return "Messages"
	case viewTools:
		return "Tool Calls"
	}
	return "?"
}

// --- Selection ---

// selection identifies the event currently open in the detail view.
// A zero selection means nothing is selected.
type selection struct {
	kind event.Kind
	id   string
}

func (s selection) active() bool { return s.id != "" }

// --- Model ---

type uiModel struct {
	cfg    *catalog.Config
	cat    *catalog.Catalog
	st     *store.Store
	gen    *gen.Generator
	logger *zap.Logger

	snap  *store.Snapshot
	stats metrics.Stats

	activeView   viewID
	width        int
	height       int
	cursor       int
	paused       bool
	typeFilter   string // filter.All or a MessageType value
	statusFilter string // filter.All or a CallStatus value
	agentFilter  string // "" = all agents
	sel          selection

	notice    string
	noticeSeq int

	help     help.Model
	showHelp bool

	lastEvent time.Time
}

func newModel(cfg *catalog.Config, cat *catalog.Catalog, st *store.Store, g *gen.Generator, logger *zap.Logger) uiModel {
	snap := st.Snapshot()
	return uiModel{
		cfg:          cfg,
		cat:          cat,
		st:           st,
		gen:          g,
		logger:       logger,
		snap:         snap,
		stats:        metrics.Compute(snap, cat),
		typeFilter:   filter.All,
		statusFilter: filter.All,
		help:         help.New(),
	}
}

func (m uiModel) Init() tea.Cmd {
	return nil
}

// refresh rebuilds the snapshot and stats after a store mutation, and
// degrades a selection whose event is gone (cleared or evicted) to none.
func (m *uiModel) refresh() {
	m.snap = m.st.Snapshot()
	m.stats = metrics.Compute(m.snap, m.cat)
	m.clampCursor()
	if m.sel.active() {
		switch m.sel.kind {
		case event.KindMessage:
			if _, ok := m.snap.FindMessage(m.sel.id); !ok {
				m.sel = selection{}
			}
		case event.KindToolCall:
			if _, ok := m.snap.FindToolCall(m.sel.id); !ok {
				m.sel = selection{}
			}
		}
	}
}

// filteredMessages applies the type and agent filters (logical AND).
func (m uiModel) filteredMessages() []event.Message {
	return filter.MessagesByAgent(filter.Messages(m.snap.Messages, m.typeFilter), m.agentFilter)
}

// filteredToolCalls applies the status and agent filters (logical AND).
func (m uiModel) filteredToolCalls() []event.ToolCall {
	return filter.ToolCallsByAgent(filter.ToolCalls(m.snap.ToolCalls, m.statusFilter), m.agentFilter)
}

// listLen is the cursor range for the active view.
func (m uiModel) listLen() int {
	switch m.activeView {
	case viewDashboard:
		return len(m.cat.Agents())
	case viewMessages:
		return len(m.filteredMessages())
	case viewTools:
		return len(m.filteredToolCalls())
	}
	return 0
}

func (m *uiModel) clampCursor() {
	n := m.listLen()
	if n == 0 {
		m.cursor = 0
	} else if m.cursor >= n {
		m.cursor = n - 1
	}
}

// setNotice shows a transient status-bar notice for a few seconds.
func (m *uiModel) setNotice(text string) tea.Cmd {
	m.notice = text
	m.noticeSeq++
	seq := m.noticeSeq
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case genMessageMsg:
		// Pause is a cooperative check at the top of the generation turn.
		// The schedule stays armed, so resume picks up on the next tick
		// without replaying missed ones.
		if m.paused {
			return m, nil
		}
		ev := m.gen.NextMessage()
		m.st.AddMessage(ev)
		m.lastEvent = ev.Timestamp
		m.logger.Debug("message generated",
			zap.String("id", ev.ID), zap.String("from", ev.From), zap.String("to", ev.To))
		m.refresh()

	case genToolCallMsg:
		if m.paused {
			return m, nil
		}
		ev := m.gen.NextToolCall()
		m.st.AddToolCall(ev)
		m.lastEvent = ev.Timestamp
		m.logger.Debug("tool call generated",
			zap.String("id", ev.ID), zap.String("agent", ev.AgentID), zap.String("tool", ev.Tool))
		m.refresh()

	case configChangedMsg:
		path := m.cfg.Path
		return m, func() tea.Msg {
			cfg, err := catalog.Load(path)
			return configReloadedMsg{cfg: cfg, err: err}
		}

	case configReloadedMsg:
		if msg.err != nil {
			m.logger.Warn("config reload failed", zap.Error(msg.err))
			return m, m.setNotice("config reload failed, keeping previous catalog")
		}
		// Swap the catalog only. Capacities and cadence stay as started;
		// events referencing removed agents render with raw ids.
		m.cat = msg.cfg.Catalog()
		m.gen.SetCatalog(m.cat)
		m.refresh()
		return m, m.setNotice("catalog reloaded")

	case exportDoneMsg:
		if msg.err != nil {
			m.logger.Warn("export failed", zap.Error(msg.err))
			return m, m.setNotice("export failed: " + msg.err.Error())
		}
		return m, m.setNotice("exported to " + msg.path)

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
	}

	return m, nil
}

func (m uiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Single-key view shortcuts, unless the detail overlay is open.
	if !m.sel.active() {
		if v, ok := viewKeys[msg.String()]; ok {
			m.activeView = v
			m.cursor = 0
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Esc):
		m.sel = selection{}

	case key.Matches(msg, keys.Tab):
		m.activeView = (m.activeView + 1) % viewCount
		m.cursor = 0
		m.sel = selection{}

	case key.Matches(msg, keys.Pause):
		m.paused = !m.paused

	case key.Matches(msg, keys.Clear):
		// Clear empties the store and drops the selection; filters and the
		// pause flag stay as they are.
		m.st.Clear()
		m.sel = selection{}
		m.refresh()

	case key.Matches(msg, keys.Export):
		snap, stats := m.snap, m.stats
		return m, func() tea.Msg {
			now := time.Now()
			path := export.Filename(now)
			doc := export.Build(snap, stats, now)
			if err := export.WriteFile(path, doc); err != nil {
				return exportDoneMsg{err: err}
			}
			return exportDoneMsg{path: path}
		}

	case key.Matches(msg, keys.TypeFilter):
		if m.activeView == viewMessages {
			m.typeFilter = nextTypeFilter(m.typeFilter)
			m.cursor = 0
		}

	case key.Matches(msg, keys.StatFilter):
		if m.activeView == viewTools {
			m.statusFilter = nextStatusFilter(m.statusFilter)
			m.cursor = 0
		}

	case key.Matches(msg, keys.AgentFilter):
		if m.activeView == viewMessages || m.activeView == viewTools {
			m.agentFilter = nextAgentFilter(m.cat, m.agentFilter)
			m.cursor = 0
		}

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < m.listLen()-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Enter):
		switch m.activeView {
		case viewDashboard:
			// Drill down: filter the event views by the selected agent.
			agents := m.cat.Agents()
			if m.cursor < len(agents) {
				m.agentFilter = agents[m.cursor].ID
				m.activeView = viewMessages
				m.cursor = 0
			}
		case viewMessages:
			msgs := m.filteredMessages()
			if m.cursor < len(msgs) {
				m.sel = selection{kind: event.KindMessage, id: msgs[m.cursor].ID}
			}
		case viewTools:
			calls := m.filteredToolCalls()
			if m.cursor < len(calls) {
				m.sel = selection{kind: event.KindToolCall, id: calls[m.cursor].ID}
			}
		}

	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
	}

	return m, nil
}

// nextTypeFilter cycles all -> each message type -> all.
func nextTypeFilter(cur string) string {
	if cur == filter.All {
		return string(event.MessageTypes[0])
	}
	for i, t := range event.MessageTypes {
		if string(t) == cur {
			if i+1 < len(event.MessageTypes) {
				return string(event.MessageTypes[i+1])
			}
			return filter.All
		}
	}
	return filter.All
}

var callStatusCycle = []event.CallStatus{
	event.CallCompleted,
	event.CallRunning,
	event.CallQueued,
	event.CallFailed,
}

// nextStatusFilter cycles all -> each call status -> all.
func nextStatusFilter(cur string) string {
	if cur == filter.All {
		return string(callStatusCycle[0])
	}
	for i, s := range callStatusCycle {
		if string(s) == cur {
			if i+1 < len(callStatusCycle) {
				return string(callStatusCycle[i+1])
			}
			return filter.All
		}
	}
	return filter.All
}

// nextAgentFilter cycles "" -> each catalog agent -> "".
func nextAgentFilter(cat *catalog.Catalog, cur string) string {
	agents := cat.Agents()
	if len(agents) == 0 {
		return ""
	}
	if cur == "" {
		return agents[0].ID
	}
	for i, a := range agents {
		if a.ID == cur {
			if i+1 < len(agents) {
				return agents[i+1].ID
			}
			return ""
		}
	}
	return ""
}
