package main

import (
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/mkarlin/agenttop/internal/catalog"
	"github.com/mkarlin/agenttop/internal/event"
	"github.com/mkarlin/agenttop/internal/filter"
	"github.com/mkarlin/agenttop/internal/gen"
	"github.com/mkarlin/agenttop/internal/store"
)

func testConfig() *catalog.Config {
	return &catalog.Config{
		Store: catalog.GenStoreConfig{MessageCap: 100, ToolCallCap: 50},
		Gen: catalog.GenConfig{
			MessageDelayMin:  time.Second,
			MessageDelayMax:  2 * time.Second,
			ToolCallDelayMin: time.Second,
			ToolCallDelayMax: 2 * time.Second,
		},
		Agents: catalog.DefaultAgents,
		Tools:  catalog.DefaultTools,
	}
}

// testModel creates a uiModel with a seeded generator and a fixed size.
func testModel() uiModel {
	cfg := testConfig()
	cat := cfg.Catalog()
	st := store.New(cfg.Store.MessageCap, cfg.Store.ToolCallCap)
	g := gen.New(cat, gen.NewRand(1))
	m := newModel(cfg, cat, st, g, zap.NewNop())
	m.width = 100
	m.height = 30
	m.help.Width = 100
	return m
}

func seedMessage(m *uiModel, id, from, to string, mt event.MessageType) {
	m.st.AddMessage(event.Message{
		ID: id, Timestamp: time.Now(), From: from, To: to,
		Type: mt, Priority: event.PriorityNormal,
		Status: event.StatusDelivered, Body: "test traffic " + id,
	})
	m.refresh()
}

func seedToolCall(m *uiModel, id, agent string, status event.CallStatus) {
	tc := event.ToolCall{
		ID: id, Timestamp: time.Now(), AgentID: agent,
		Tool: "web_search", Status: status,
	}
	if status == event.CallCompleted {
		d := int64(100)
		tc.DurationMs = &d
		tc.Result = "ok"
	}
	if status == event.CallFailed {
		tc.Error = "timeout"
	}
	m.st.AddToolCall(tc)
	m.refresh()
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m uiModel, msg tea.Msg) (uiModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	um, ok := next.(uiModel)
	if !ok {
		t.Fatalf("Update returned %T, want uiModel", next)
	}
	return um, cmd
}

func TestViewLoading(t *testing.T) {
	m := testModel()
	m.width = 0
	if out := m.View(); out != "Loading..." {
		t.Errorf("zero-width View = %q, want Loading...", out)
	}
}

func TestPauseDropsScheduledTicks(t *testing.T) {
	m := testModel()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if !m.paused {
		t.Fatal("space did not pause")
	}

	// Scheduled ticks keep arriving while paused; each is dropped.
	for i := 0; i < 5; i++ {
		m, _ = update(t, m, genMessageMsg{})
		m, _ = update(t, m, genToolCallMsg{})
	}
	if m.stats.TotalMessages != 0 || m.stats.TotalCalls != 0 {
		t.Fatalf("paused model appended events: %d messages, %d calls",
			m.stats.TotalMessages, m.stats.TotalCalls)
	}

	// Resume: the next tick generates exactly one event, no backlog replay.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m, _ = update(t, m, genMessageMsg{})
	if m.stats.TotalMessages != 1 {
		t.Errorf("after resume: %d messages, want 1", m.stats.TotalMessages)
	}
}

func TestPauseDoesNotTouchStore(t *testing.T) {
	m := testModel()
	seedMessage(&m, "m1", "orchestrator", "coder", event.TypeTaskRequest)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if m.stats.TotalMessages != 1 {
		t.Errorf("pausing changed the store: %d messages", m.stats.TotalMessages)
	}
}

func TestGenerationAppendsNewestFirst(t *testing.T) {
	m := testModel()
	m, _ = update(t, m, genMessageMsg{})
	m, _ = update(t, m, genToolCallMsg{})

	if m.stats.TotalMessages != 1 || m.stats.TotalCalls != 1 {
		t.Fatalf("stats = %+v, want 1 message and 1 call", m.stats)
	}
	msg := m.snap.Messages[0]
	if msg.From == msg.To {
		t.Error("generated message has sender == recipient")
	}
}

func TestClearResetsSelectionOnly(t *testing.T) {
	m := testModel()
	seedMessage(&m, "m1", "orchestrator", "coder", event.TypeTaskRequest)
	m.activeView = viewMessages
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.sel.active() {
		t.Fatal("enter did not select the message")
	}
	m.typeFilter = string(event.TypeTaskRequest)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace}) // pause

	m, _ = update(t, m, keyPress('c'))

	if m.stats.TotalMessages != 0 {
		t.Errorf("clear left %d messages", m.stats.TotalMessages)
	}
	if m.sel.active() {
		t.Error("clear did not reset the selection")
	}
	if m.typeFilter != string(event.TypeTaskRequest) {
		t.Error("clear altered the type filter")
	}
	if !m.paused {
		t.Error("clear altered the pause flag")
	}

	// Clearing again is a no-op.
	m, _ = update(t, m, keyPress('c'))
	if m.stats.TotalMessages != 0 || m.sel.active() {
		t.Error("second clear changed state")
	}
}

func TestDanglingSelectionDegrades(t *testing.T) {
	m := testModel()
	seedMessage(&m, "m1", "orchestrator", "coder", event.TypeTaskRequest)
	m.sel = selection{kind: event.KindMessage, id: "m1"}

	m.st.Clear()
	m.refresh()

	if m.sel.active() {
		t.Error("selection survived clear of its event")
	}
}

func TestDetailForMissingEventRenders(t *testing.T) {
	m := testModel()
	m.sel = selection{kind: event.KindToolCall, id: "gone"}
	out := m.renderDetail()
	if !strings.Contains(out, "no longer available") {
		t.Errorf("detail for missing event = %q", out)
	}
}

func TestTypeFilterCycle(t *testing.T) {
	cur := filter.All
	seen := map[string]bool{}
	for i := 0; i < len(event.MessageTypes); i++ {
		cur = nextTypeFilter(cur)
		seen[cur] = true
	}
	if len(seen) != len(event.MessageTypes) {
		t.Errorf("cycle visited %d types, want %d", len(seen), len(event.MessageTypes))
	}
	if next := nextTypeFilter(cur); next != filter.All {
		t.Errorf("cycle did not wrap to all, got %q", next)
	}
	if nextTypeFilter("bogus") != filter.All {
		t.Error("unknown filter value should reset to all")
	}
}

func TestEmptyFilterThenBackToAll(t *testing.T) {
	m := testModel()
	seedMessage(&m, "m1", "orchestrator", "coder", event.TypeTaskRequest)
	seedMessage(&m, "m2", "coder", "reviewer", event.TypeTaskResponse)

	m.typeFilter = string(event.TypeHeartbeat)
	if got := m.filteredMessages(); len(got) != 0 {
		t.Errorf("heartbeat filter matched %d messages, want 0", len(got))
	}

	m.typeFilter = filter.All
	if got := m.filteredMessages(); len(got) != 2 {
		t.Errorf("all filter matched %d messages, want 2", len(got))
	}
}

func TestAgentFilterCombinesWithStatusFilter(t *testing.T) {
	m := testModel()
	seedToolCall(&m, "t1", "coder", event.CallCompleted)
	seedToolCall(&m, "t2", "coder", event.CallFailed)
	seedToolCall(&m, "t3", "researcher", event.CallCompleted)

	m.statusFilter = string(event.CallCompleted)
	m.agentFilter = "coder"
	got := m.filteredToolCalls()
	if len(got) != 1 || got[0].ID != "t1" {
		t.Errorf("AND-composed filters returned %+v, want only t1", got)
	}
}

func TestEnterOnDashboardDrillsIntoAgent(t *testing.T) {
	m := testModel()
	m.cursor = 2 // "coder" in the default roster
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.activeView != viewMessages {
		t.Errorf("activeView = %v, want Messages", m.activeView)
	}
	if m.agentFilter != "coder" {
		t.Errorf("agentFilter = %q, want coder", m.agentFilter)
	}
}

func TestEnterSelectsAndEscCloses(t *testing.T) {
	m := testModel()
	seedToolCall(&m, "t1", "coder", event.CallFailed)
	m.activeView = viewTools

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.sel != (selection{kind: event.KindToolCall, id: "t1"}) {
		t.Fatalf("selection = %+v", m.sel)
	}

	out := m.View()
	if !strings.Contains(out, "MCP Tool Call") || !strings.Contains(out, "timeout") {
		t.Error("detail view missing tool call fields")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.sel.active() {
		t.Error("esc did not close the detail view")
	}
}

func TestSelectingAgainReplacesSelection(t *testing.T) {
	m := testModel()
	seedMessage(&m, "m1", "orchestrator", "coder", event.TypeTaskRequest)
	seedMessage(&m, "m2", "coder", "reviewer", event.TypeTaskResponse)
	m.activeView = viewMessages

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	first := m.sel
	m.cursor = 1
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.sel == first {
		t.Error("second enter did not replace the selection")
	}
}

func TestViewShortcutsAndTab(t *testing.T) {
	m := testModel()
	m, _ = update(t, m, keyPress('m'))
	if m.activeView != viewMessages {
		t.Errorf("m shortcut: view = %v", m.activeView)
	}
	m, _ = update(t, m, keyPress('t'))
	if m.activeView != viewTools {
		t.Errorf("t shortcut: view = %v", m.activeView)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.activeView != viewDashboard {
		t.Errorf("tab wrap: view = %v", m.activeView)
	}
}

func TestLookupMissRendersRawID(t *testing.T) {
	m := testModel()
	seedMessage(&m, "m1", "ghost-7", "coder", event.TypeTaskRequest)
	m.activeView = viewMessages
	m.width = 200 // avoid truncating the line under test

	out := m.View()
	if !strings.Contains(out, "ghost-7") {
		t.Error("unknown sender id not rendered as raw id")
	}
}

func TestRenderDeterministic(t *testing.T) {
	m := testModel()
	seedMessage(&m, "m1", "orchestrator", "coder", event.TypeTaskRequest)
	seedToolCall(&m, "t1", "coder", event.CallCompleted)
	m.lastEvent = time.Time{} // pin the status bar

	if a, b := m.View(), m.View(); a != b {
		t.Error("two renders with identical inputs differ")
	}
}

func TestTitleBarShowsPaused(t *testing.T) {
	m := testModel()
	m.paused = true
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("paused badge missing from title bar")
	}
}

func TestExportWritesDocument(t *testing.T) {
	dir := t.TempDir()
	orig, _ := os.Getwd()
	os.Chdir(dir)
	defer os.Chdir(orig)

	m := testModel()
	seedMessage(&m, "m1", "orchestrator", "coder", event.TypeTaskRequest)

	m, cmd := update(t, m, keyPress('e'))
	if cmd == nil {
		t.Fatal("export did not return a command")
	}
	done, ok := cmd().(exportDoneMsg)
	if !ok {
		t.Fatal("export command did not produce exportDoneMsg")
	}
	if done.err != nil {
		t.Fatalf("export failed: %v", done.err)
	}
	if _, err := os.Stat(done.path); err != nil {
		t.Fatalf("export file missing: %v", err)
	}

	// Export does not mutate any state.
	if m.stats.TotalMessages != 1 {
		t.Error("export changed the store")
	}

	m, _ = update(t, m, done)
	if !strings.Contains(m.notice, "exported to") {
		t.Errorf("notice = %q", m.notice)
	}
}

func TestExportFailureSurfacesNotice(t *testing.T) {
	m := testModel()
	m, _ = update(t, m, exportDoneMsg{err: os.ErrPermission})
	if !strings.Contains(m.notice, "export failed") {
		t.Errorf("notice = %q", m.notice)
	}
	if m.stats.TotalMessages != 0 {
		t.Error("failed export disturbed the store")
	}
}

func TestNoticeExpiry(t *testing.T) {
	m := testModel()
	m, _ = update(t, m, exportDoneMsg{path: "x.json"})
	seq := m.noticeSeq

	// A stale expiry (older seq) is ignored.
	m, _ = update(t, m, noticeExpiredMsg{seq: seq - 1})
	if m.notice == "" {
		t.Error("stale expiry cleared a fresh notice")
	}

	m, _ = update(t, m, noticeExpiredMsg{seq: seq})
	if m.notice != "" {
		t.Error("notice not cleared on expiry")
	}
}

func TestConfigReloadSwapsCatalog(t *testing.T) {
	m := testModel()
	newCfg := testConfig()
	newCfg.Agents = []catalog.Agent{
		{ID: "alpha", DisplayName: "Alpha", Status: catalog.StatusActive},
		{ID: "beta", DisplayName: "Beta", Status: catalog.StatusActive},
	}

	m, _ = update(t, m, configReloadedMsg{cfg: newCfg})
	if len(m.cat.Agents()) != 2 {
		t.Errorf("catalog not swapped: %d agents", len(m.cat.Agents()))
	}
	if !strings.Contains(m.notice, "catalog reloaded") {
		t.Errorf("notice = %q", m.notice)
	}
}

func TestConfigReloadFailureKeepsCatalog(t *testing.T) {
	m := testModel()
	before := len(m.cat.Agents())
	m, _ = update(t, m, configReloadedMsg{err: os.ErrNotExist})
	if len(m.cat.Agents()) != before {
		t.Error("failed reload replaced the catalog")
	}
	if !strings.Contains(m.notice, "reload failed") {
		t.Errorf("notice = %q", m.notice)
	}
}

func TestCursorClampAfterShrink(t *testing.T) {
	m := testModel()
	seedMessage(&m, "m1", "orchestrator", "coder", event.TypeTaskRequest)
	seedMessage(&m, "m2", "coder", "reviewer", event.TypeTaskResponse)
	m.activeView = viewMessages
	m.cursor = 1

	m.st.Clear()
	m.refresh()
	if m.cursor != 0 {
		t.Errorf("cursor = %d after clear, want 0", m.cursor)
	}
}

func TestViewIDString(t *testing.T) {
	tests := []struct {
		v    viewID
		want string
	}{
		{viewDashboard, "Dashboard"},
		{viewMessages, "Messages"},
		{viewTools, "Tool Calls"},
		{viewID(99), "?"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("viewID(%d).String() = %q, want %q", int(tt.v), got, tt.want)
		}
	}
}
