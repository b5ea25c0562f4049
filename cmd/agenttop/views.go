package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/mkarlin/agenttop/internal/catalog"
	"github.com/mkarlin/agenttop/internal/event"
)

// --- Styles ---

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Background(lipgloss.Color("#1E1E2E")).
			Padding(0, 1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#CDD6F4")).
			Background(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#6C7086")).
				Background(lipgloss.Color("#313244")).
				Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#89B4FA"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#A6E3A1"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F9E2AF"))

	badStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8"))

	fromStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#89B4FA")).
			Bold(true)

	toStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#A6E3A1"))

	pausedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1E1E2E")).
			Background(lipgloss.Color("#F9E2AF")).
			Padding(0, 1)

	noticeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F9E2AF"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CDD6F4")).
			Background(lipgloss.Color("#1E1E2E"))

	tileStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475A")).
			Padding(0, 1)

	tileValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#CDD6F4"))

	detailBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7C3AED")).
			Padding(0, 2)

	detailHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#CBA6F7"))
)

// messageStatusStyle maps a delivery status to its accent style.
func messageStatusStyle(s event.MessageStatus) lipgloss.Style {
	switch s {
	case event.StatusDelivered:
		return okStyle
	case event.StatusPending:
		return warnStyle
	default:
		return badStyle
	}
}

// callStatusStyle maps a call status to its accent style.
func callStatusStyle(s event.CallStatus) lipgloss.Style {
	switch s {
	case event.CallCompleted:
		return okStyle
	case event.CallRunning, event.CallQueued:
		return warnStyle
	default:
		return badStyle
	}
}

func priorityStyle(p event.Priority) lipgloss.Style {
	switch p {
	case event.PriorityCritical:
		return badStyle
	case event.PriorityHigh:
		return warnStyle
	case event.PriorityLow:
		return dimStyle
	default:
		return lipgloss.NewStyle()
	}
}

func agentStatusStyle(s catalog.AgentStatus) lipgloss.Style {
	switch s {
	case catalog.StatusActive:
		return okStyle
	case catalog.StatusStandby:
		return warnStyle
	default:
		return badStyle
	}
}

// --- View rendering ---

func (m uiModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(m.renderTitleBar())
	b.WriteRune('\n')
	b.WriteString(m.renderTabBar())
	b.WriteRune('\n')
	b.WriteRune('\n')

	contentHeight := m.height - 5 // title + tabs + status + padding
	if m.showHelp {
		contentHeight -= 4
	}

	var content string
	switch {
	case m.sel.active():
		content = m.renderDetail()
	case m.activeView == viewDashboard && m.width >= 120:
		// Split-pane: roster and tiles left, live message feed right.
		leftWidth := m.width/2 - 1
		rightWidth := m.width - leftWidth - 3
		content = renderSplitPane(m.renderDashboard(), m.renderMessages(), leftWidth, rightWidth, contentHeight)
	case m.activeView == viewDashboard:
		content = m.renderDashboard()
	case m.activeView == viewMessages:
		content = m.renderMessages()
	case m.activeView == viewTools:
		content = m.renderTools()
	}

	lines := strings.Split(content, "\n")
	if len(lines) > contentHeight {
		lines = lines[:contentHeight]
	}
	content = strings.Join(lines, "\n")

	// Truncate each line to terminal width so content doesn't wrap
	// on resize. Uses ANSI-aware width measurement.
	content = truncateLines(content, m.width)
	b.WriteString(content)

	// Pad to fill screen.
	rendered := strings.Count(b.String(), "\n")
	for rendered < m.height-2 {
		b.WriteRune('\n')
		rendered++
	}

	if m.showHelp {
		b.WriteString(m.help.View(keys))
	} else {
		b.WriteString(m.renderStatusBar())
	}

	return b.String()
}

func (m uiModel) renderTitleBar() string {
	title := titleStyle.Render("agenttop")
	var badge string
	if m.paused {
		badge = " " + pausedStyle.Render("PAUSED")
	}
	stats := dimStyle.Render(fmt.Sprintf(
		"%d messages | %d/%d calls ok | %d active agents | avg %.0fms",
		m.stats.TotalMessages,
		m.stats.SuccessfulCalls,
		m.stats.TotalCalls,
		m.stats.ActiveAgents,
		m.stats.AvgDurationMs,
	))
	gap := strings.Repeat(" ", max(0, m.width-lipgloss.Width(title)-lipgloss.Width(badge)-lipgloss.Width(stats)-2))
	return title + badge + gap + stats
}

func (m uiModel) renderTabBar() string {
	var tabs []string
	for i := viewID(0); i < viewCount; i++ {
		if i == m.activeView {
			tabs = append(tabs, tabActiveStyle.Render(i.String()))
		} else {
			tabs = append(tabs, tabInactiveStyle.Render(i.String()))
		}
	}
	if m.sel.active() {
		tabs = append(tabs, tabActiveStyle.Render("Detail"))
	}
	return strings.Join(tabs, " ")
}

func (m uiModel) renderStatusBar() string {
	left := " " + contextHelp(m.activeView)
	if m.notice != "" {
		left = " " + noticeStyle.Render(m.notice)
	}
	var right string
	if !m.lastEvent.IsZero() {
		right = fmt.Sprintf("last event %s ago ", time.Since(m.lastEvent).Truncate(time.Second))
	}
	gap := strings.Repeat(" ", max(0, m.width-lipgloss.Width(left)-lipgloss.Width(right)))
	return statusBarStyle.Render(left + gap + right)
}

// --- Dashboard view ---

func (m uiModel) renderDashboard() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Agents"))
	b.WriteRune('\n')
	for i, a := range m.cat.Agents() {
		cursor := "  "
		if m.activeView == viewDashboard && i == m.cursor {
			cursor = "> "
		}
		glyph := lipgloss.NewStyle().Foreground(lipgloss.Color(a.Accent)).Render(a.Glyph)
		badge := agentStatusStyle(a.Status).Render(strings.ToUpper(string(a.Status)))
		name := fmt.Sprintf("%-14s", a.DisplayName)
		if i == m.cursor && m.activeView == viewDashboard {
			name = lipgloss.NewStyle().Bold(true).Render(name)
		}
		b.WriteString(fmt.Sprintf("%s%s %s %s %s\n",
			cursor, glyph, name, dimStyle.Render(fmt.Sprintf("%-14s", a.ID)), badge))
	}
	if len(m.cat.Agents()) == 0 {
		b.WriteString(dimStyle.Render("  (no agents configured)"))
		b.WriteRune('\n')
	}

	b.WriteRune('\n')
	b.WriteString(m.renderTiles())
	b.WriteRune('\n')

	// Recent activity strip: the newest few messages.
	b.WriteString(headerStyle.Render("Recent Messages"))
	b.WriteRune('\n')
	msgs := m.snap.Messages
	if len(msgs) == 0 {
		b.WriteString(dimStyle.Render("  (no messages yet)"))
		b.WriteRune('\n')
	}
	for i := 0; i < len(msgs) && i < 5; i++ {
		e := msgs[i]
		b.WriteString(fmt.Sprintf("  %s %s -> %s %s\n",
			dimStyle.Render(e.Timestamp.Format("15:04:05")),
			fromStyle.Render(m.cat.DisplayName(e.From)),
			toStyle.Render(m.cat.DisplayName(e.To)),
			dimStyle.Render(string(e.Type))))
	}

	return b.String()
}

// renderTiles draws the metric tiles row.
func (m uiModel) renderTiles() string {
	tile := func(label, value string) string {
		return tileStyle.Render(
			dimStyle.Render(label) + "\n" + tileValueStyle.Render(value))
	}
	avg := "-"
	if m.stats.AvgDurationMs > 0 {
		avg = fmt.Sprintf("%.0fms", m.stats.AvgDurationMs)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		tile("Messages", fmt.Sprintf("%d", m.stats.TotalMessages)),
		" ",
		tile("Calls OK", fmt.Sprintf("%d/%d", m.stats.SuccessfulCalls, m.stats.TotalCalls)),
		" ",
		tile("Active Agents", fmt.Sprintf("%d/%d", m.stats.ActiveAgents, len(m.cat.Agents()))),
		" ",
		tile("Avg Duration", avg),
	)
}

// --- Messages view ---

// filterLabel names the active filters in the section header.
func (m uiModel) filterLabel(primary string) string {
	var parts []string
	if primary != "all" {
		parts = append(parts, primary)
	}
	if m.agentFilter != "" {
		parts = append(parts, "agent:"+m.agentFilter)
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + fromStyle.Render("[filter: "+strings.Join(parts, " ")+"]")
}

func (m uiModel) renderMessages() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Messages"))
	b.WriteString(m.filterLabel(m.typeFilter))
	b.WriteRune('\n')

	msgs := m.filteredMessages()
	if len(msgs) == 0 {
		b.WriteString(dimStyle.Render("  (no matching messages)"))
		b.WriteRune('\n')
		return b.String()
	}

	visible := m.height - 9
	if visible < 3 {
		visible = 3
	}
	offset := 0
	if m.activeView == viewMessages && m.cursor >= visible {
		offset = m.cursor - visible + 1
	}

	for i := offset; i < len(msgs) && i < offset+visible; i++ {
		e := msgs[i]
		cursor := "  "
		if m.activeView == viewMessages && i == m.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%s %s %s -> %s  %s  %s",
			cursor,
			dimStyle.Render(e.Timestamp.Format("15:04:05")),
			priorityStyle(e.Priority).Render(fmt.Sprintf("%-8s", e.Priority)),
			fromStyle.Render(m.cat.DisplayName(e.From)),
			toStyle.Render(m.cat.DisplayName(e.To)),
			messageStatusStyle(e.Status).Render(string(e.Status)),
			dimStyle.Render(truncate(e.Body, 60)))
		b.WriteString(line)
		b.WriteRune('\n')
	}

	return b.String()
}

// --- Tool Calls view ---

func (m uiModel) renderTools() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Tool Calls"))
	b.WriteString(m.filterLabel(m.statusFilter))
	b.WriteRune('\n')

	calls := m.filteredToolCalls()
	if len(calls) == 0 {
		b.WriteString(dimStyle.Render("  (no matching tool calls)"))
		b.WriteRune('\n')
		return b.String()
	}

	visible := m.height - 9
	if visible < 3 {
		visible = 3
	}
	offset := 0
	if m.cursor >= visible {
		offset = m.cursor - visible + 1
	}

	for i := offset; i < len(calls) && i < offset+visible; i++ {
		tc := calls[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		tail := ""
		switch {
		case tc.DurationMs != nil:
			tail = dimStyle.Render(fmt.Sprintf("%dms", *tc.DurationMs))
		case tc.Error != "":
			tail = badStyle.Render(truncate(tc.Error, 40))
		}
		line := fmt.Sprintf("%s%s %s %s  %s  %s",
			cursor,
			dimStyle.Render(tc.Timestamp.Format("15:04:05")),
			fromStyle.Render(fmt.Sprintf("%-14s", m.cat.DisplayName(tc.AgentID))),
			fmt.Sprintf("%-14s", tc.Tool),
			callStatusStyle(tc.Status).Render(fmt.Sprintf("%-9s", tc.Status)),
			tail)
		b.WriteString(line)
		b.WriteRune('\n')
	}

	return b.String()
}

// --- Detail view ---

func (m uiModel) renderDetail() string {
	var body string
	switch m.sel.kind {
	case event.KindMessage:
		e, ok := m.snap.FindMessage(m.sel.id)
		if !ok {
			return dimStyle.Render("  (event no longer available)")
		}
		body = m.renderMessageDetail(e)
	case event.KindToolCall:
		tc, ok := m.snap.FindToolCall(m.sel.id)
		if !ok {
			return dimStyle.Render("  (event no longer available)")
		}
		body = m.renderToolCallDetail(tc)
	}
	return detailBoxStyle.Width(min(m.width-4, 100)).Render(body)
}

func (m uiModel) renderMessageDetail(e event.Message) string {
	var b strings.Builder
	b.WriteString(detailHeaderStyle.Render("A2A Message"))
	b.WriteRune('\n')
	b.WriteString(dimStyle.Render("id: " + e.ID))
	b.WriteRune('\n')
	b.WriteRune('\n')
	b.WriteString(fmt.Sprintf("%s %s\n", dimStyle.Render("time:    "), e.Timestamp.Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("%s %s (%s)\n", dimStyle.Render("from:    "), fromStyle.Render(m.cat.DisplayName(e.From)), e.From))
	b.WriteString(fmt.Sprintf("%s %s (%s)\n", dimStyle.Render("to:      "), toStyle.Render(m.cat.DisplayName(e.To)), e.To))
	b.WriteString(fmt.Sprintf("%s %s\n", dimStyle.Render("type:    "), string(e.Type)))
	b.WriteString(fmt.Sprintf("%s %s\n", dimStyle.Render("priority:"), priorityStyle(e.Priority).Render(string(e.Priority))))
	b.WriteString(fmt.Sprintf("%s %s\n", dimStyle.Render("status:  "), messageStatusStyle(e.Status).Render(string(e.Status))))
	b.WriteString(fmt.Sprintf("%s encrypted=%t retries=%d\n", dimStyle.Render("meta:    "), e.Meta.Encrypted, e.Meta.RetryCount))
	b.WriteRune('\n')
	for _, line := range wrapText(e.Body, min(m.width-10, 92)) {
		b.WriteString(line)
		b.WriteRune('\n')
	}
	b.WriteRune('\n')
	b.WriteString(dimStyle.Render("esc: close"))
	return b.String()
}

func (m uiModel) renderToolCallDetail(tc event.ToolCall) string {
	var b strings.Builder
	b.WriteString(detailHeaderStyle.Render("MCP Tool Call"))
	b.WriteRune('\n')
	b.WriteString(dimStyle.Render("id: " + tc.ID))
	b.WriteRune('\n')
	b.WriteRune('\n')
	b.WriteString(fmt.Sprintf("%s %s\n", dimStyle.Render("time:  "), tc.Timestamp.Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("%s %s (%s)\n", dimStyle.Render("agent: "), fromStyle.Render(m.cat.DisplayName(tc.AgentID)), tc.AgentID))
	b.WriteString(fmt.Sprintf("%s %s\n", dimStyle.Render("tool:  "), tc.Tool))
	b.WriteString(fmt.Sprintf("%s %s\n", dimStyle.Render("status:"), callStatusStyle(tc.Status).Render(string(tc.Status))))
	if tc.DurationMs != nil {
		b.WriteString(fmt.Sprintf("%s %dms\n", dimStyle.Render("took:  "), *tc.DurationMs))
	}
	if len(tc.Params) > 0 {
		b.WriteRune('\n')
		b.WriteString(dimStyle.Render("params:"))
		b.WriteRune('\n')
		for k, v := range tc.Params {
			b.WriteString(fmt.Sprintf("  %s = %s\n", k, v))
		}
	}
	if tc.Result != "" {
		b.WriteRune('\n')
		b.WriteString(okStyle.Render("result: " + tc.Result))
		b.WriteRune('\n')
	}
	if tc.Error != "" {
		b.WriteRune('\n')
		b.WriteString(badStyle.Render("error: " + tc.Error))
		b.WriteRune('\n')
	}
	b.WriteRune('\n')
	b.WriteString(dimStyle.Render("esc: close"))
	return b.String()
}

// --- Split-pane rendering ---

// renderSplitPane renders two content panes side by side with a vertical separator.
func renderSplitPane(left, right string, leftWidth, rightWidth, maxHeight int) string {
	leftLines := strings.Split(left, "\n")
	rightLines := strings.Split(right, "\n")

	maxLines := max(len(leftLines), len(rightLines))
	if maxLines > maxHeight {
		maxLines = maxHeight
	}
	for len(leftLines) < maxLines {
		leftLines = append(leftLines, "")
	}
	for len(rightLines) < maxLines {
		rightLines = append(rightLines, "")
	}

	sep := dimStyle.Render("│")
	var b strings.Builder
	for i := 0; i < maxLines; i++ {
		l := ansi.Truncate(leftLines[i], leftWidth, "")
		pad := leftWidth - lipgloss.Width(l)
		if pad > 0 {
			l += strings.Repeat(" ", pad)
		}
		r := ansi.Truncate(rightLines[i], rightWidth, "")
		b.WriteString(l)
		b.WriteString(" ")
		b.WriteString(sep)
		b.WriteString(" ")
		b.WriteString(r)
		b.WriteRune('\n')
	}
	return b.String()
}

// --- Helpers ---

// truncateLines truncates each line in content to at most width visible
// characters, preserving ANSI escape codes.
func truncateLines(content string, width int) string {
	if width <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if lipgloss.Width(line) > width {
			lines[i] = ansi.Truncate(line, width, "")
		}
	}
	return strings.Join(lines, "\n")
}

// wrapText breaks s into lines of at most width characters, splitting on word
// boundaries where possible. If a single word exceeds width it is hard-split.
func wrapText(s string, width int) []string {
	if width <= 0 {
		width = 80
	}
	paragraphs := strings.Split(s, "\n")
	var lines []string
	for _, para := range paragraphs {
		lines = append(lines, wrapParagraph(para, width)...)
	}
	return lines
}

func wrapParagraph(s string, width int) []string {
	if len(s) <= width {
		return []string{s}
	}
	var lines []string
	for len(s) > 0 {
		if len(s) <= width {
			lines = append(lines, s)
			break
		}
		cut := -1
		for i := width; i > 0; i-- {
			if s[i] == ' ' {
				cut = i
				break
			}
		}
		if cut <= 0 {
			cut = width
			lines = append(lines, s[:cut])
			s = s[cut:]
		} else {
			lines = append(lines, s[:cut])
			s = s[cut+1:] // skip the space
		}
	}
	return lines
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
