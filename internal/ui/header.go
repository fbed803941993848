package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var viewTitles = map[View]string{
	ViewLibrary:  "Library",
	ViewStatus:   "Status",
	ViewFiles:    "Downloads",
	ViewSettings: "Settings",
	ViewLogs:     "Logs",
}

// renderHeader renders the status bar: logo, server, receiver state, list
// position and refresh age.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("lectern", styles.Logo)}

	if m.server != "" && !compact {
		parts = append(parts, bg.Render(truncate(m.server, 30), styles.MutedText))
	}

	status := m.snapshot.Status
	switch {
	case status.IsOffline():
		parts = append(parts, bg.Render("● OFFLINE", styles.DangerText))
	case status.HasContent:
		parts = append(parts, bg.Render("● ONLINE", styles.SuccessText))
	default:
		parts = append(parts, bg.Render("● CONNECTING", styles.WarningText))
	}

	lib := m.snapshot.Library
	parts = append(parts,
		bg.Render("Entries:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", len(lib.Entries)), styles.Text),
	)

	if !compact {
		parts = append(parts,
			bg.Render("Status:", styles.MutedText)+bg.Space()+
				bg.Render(paneAge(status, time.Now()), styles.InfoText),
		)
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(styles.Header.Render(bg.Join(parts, "  ")))
}

// renderCommandBar lists the keys that matter for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewSettings:
		commands = []cmd{
			{"←/→", "Choose"},
			{"↑/↓", "Field"},
			{"enter", "Save"},
			{"esc", "Done"},
		}
	case ViewLogs:
		followLabel := "Pause"
		if !m.logs.follow {
			followLabel = "Follow"
		}
		commands = []cmd{
			{"F", followLabel},
			{"j/k", "Scroll"},
			{"g/G", "Top/Bottom"},
		}
	case ViewStatus, ViewFiles:
		commands = []cmd{
			{"j/k", "Scroll"},
		}
	default:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"m", "More"},
			{"g", "Top"},
		}
	}
	commands = append(commands,
		cmd{"c/s/f/o/l", "Views"},
		cmd{"?", "Help"},
	)

	segments := make([]string, 0, len(commands)+1)
	segments = append(segments, bg.Render(viewTitles[m.currentView], styles.AccentText.Bold(true)))
	for _, c := range commands {
		segments = append(segments, bg.Binding(c.key, c.desc, styles.AccentText, styles.MutedText))
	}

	return styles.Footer.Width(m.width).Render(bg.Join(segments, "  "))
}
