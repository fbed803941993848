package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lectern-app/lectern/internal/state"
)

func paneIndex(id state.PaneID) int {
	if id == state.PaneFiles {
		return 1
	}
	return 0
}

func (m Model) paneFor(id state.PaneID) state.Pane {
	if id == state.PaneFiles {
		return m.snapshot.Files
	}
	return m.snapshot.Status
}

func (m *Model) updatePaneViewports() {
	if !m.ready {
		return
	}
	styles := m.theme.Styles()
	for _, id := range []state.PaneID{state.PaneStatus, state.PaneFiles} {
		pane := m.paneFor(id)
		var content string
		if pane.HasContent {
			content = strings.Join(clipLines(pane.Lines, m.width), "\n")
		} else {
			content = styles.MutedText.Render("Waiting for the first update...")
		}
		m.panes[paneIndex(id)].SetContent(content)
	}
}

// handlePaneKey scrolls the status or files pane.
func (m Model) handlePaneKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	idx := 0
	if m.currentView == ViewFiles {
		idx = 1
	}
	vp := &m.panes[idx]
	switch {
	case key.Matches(msg, m.keys.Down):
		vp.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		vp.ScrollUp(1)
	case key.Matches(msg, m.keys.PageDown):
		vp.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		vp.PageUp()
	case key.Matches(msg, m.keys.Top):
		vp.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		vp.GotoBottom()
	}
	return m, nil
}

func (m Model) renderPane(id state.PaneID) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.panes[paneIndex(id)].View(),
		m.renderPaneFooter(id),
	)
}

// renderPaneFooter reports freshness: when the pane last refreshed and
// whether recent polls failed. Failed polls keep the previous content.
func (m Model) renderPaneFooter(id state.PaneID) string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	pane := m.paneFor(id)

	var parts []string
	if !pane.LastUpdated.IsZero() {
		parts = append(parts, bg.Render("Updated "+pane.LastUpdated.Format("15:04:05"), styles.MutedText))
	}
	if pane.LastError != nil {
		style := styles.WarningText
		if pane.IsOffline() {
			style = styles.DangerText
		}
		errText := truncate(fmt.Sprintf("%v", pane.LastError), max(m.width/2, 20))
		parts = append(parts, bg.Render(fmt.Sprintf("%d failed: %s", pane.ConsecutiveFailures, errText), style))
	}
	if len(parts) == 0 {
		parts = append(parts, bg.Render("Polling "+id.String(), styles.FaintText))
	}
	return styles.Footer.Width(m.width).Render(bg.Join(parts, "  "))
}

// paneAge describes how long ago a pane refreshed, for the header.
func paneAge(pane state.Pane, now time.Time) string {
	if pane.LastUpdated.IsZero() {
		return "never"
	}
	d := now.Sub(pane.LastUpdated)
	switch {
	case d < time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return pane.LastUpdated.Format("15:04")
	}
}
