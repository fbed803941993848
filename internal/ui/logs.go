package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lectern-app/lectern/internal/logtail"
)

// logState holds the tail of the lectern log file.
type logState struct {
	viewport viewport.Model
	follow   bool
	lines    []string
	err      error
}

type logTailMsg struct {
	lines []string
	err   error
}

// refreshLogs reads the log file off the update loop.
func (m *Model) refreshLogs() tea.Cmd {
	path := m.logFile
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		raw, err := logtail.Read(path, LogBufferLimit)
		if err != nil {
			return logTailMsg{err: err}
		}
		return logTailMsg{lines: logtail.FormatLines(raw)}
	}
}

func (m *Model) handleLogTail(msg logTailMsg) {
	m.logs.err = msg.err
	if msg.err == nil {
		m.logs.lines = msg.lines
	}
	m.updateLogViewport()
}

func (m *Model) updateLogViewport() {
	if !m.ready {
		return
	}
	styles := m.theme.Styles()
	var content string
	switch {
	case m.logFile == "":
		content = styles.MutedText.Render("Logging to file is disabled.")
	case len(m.logs.lines) == 0:
		content = styles.MutedText.Render("No log entries yet.")
	default:
		content = strings.Join(clipLines(m.logs.lines, m.width), "\n")
	}
	m.logs.viewport.SetContent(content)
	if m.logs.follow {
		m.logs.viewport.GotoBottom()
	}
}

// handleLogsKey scrolls the log view. Scrolling up pauses follow mode.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	vp := &m.logs.viewport
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logs.follow = !m.logs.follow
		if m.logs.follow {
			vp.GotoBottom()
			return m, m.refreshLogs()
		}
	case key.Matches(msg, m.keys.Down):
		vp.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		vp.ScrollUp(1)
		m.logs.follow = false
	case key.Matches(msg, m.keys.HalfPageDown):
		vp.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		vp.HalfPageUp()
		m.logs.follow = false
	case key.Matches(msg, m.keys.PageDown):
		vp.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		vp.PageUp()
		m.logs.follow = false
	case key.Matches(msg, m.keys.Top):
		vp.GotoTop()
		m.logs.follow = false
	case key.Matches(msg, m.keys.Bottom):
		vp.GotoBottom()
	}
	return m, nil
}

func (m Model) renderLogs() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	var parts []string
	if m.logFile != "" {
		parts = append(parts, bg.Render(truncateMiddle(m.logFile, max(m.width/2, 20)), styles.MutedText))
	}
	if m.logs.follow {
		parts = append(parts, bg.Render("following", styles.SuccessText))
	} else {
		parts = append(parts, bg.Render("paused", styles.WarningText))
	}
	if m.logs.err != nil {
		parts = append(parts, bg.Render(truncate(m.logs.err.Error(), max(m.width/2, 20)), styles.DangerText))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.logs.viewport.View(),
		styles.Footer.Width(m.width).Render(bg.Join(parts, "  ")),
	)
}
