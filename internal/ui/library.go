package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lectern-app/lectern/internal/paging"
	"github.com/lectern-app/lectern/internal/state"
)

// Footer labels for the load-more control.
const (
	loadMoreLabel = "Load more"
	loadingLabel  = "Loading…"
	endLabel      = "End of content"
	toTopLabel    = "g Back to top"
)

// libraryState holds the content list view.
type libraryState struct {
	viewport viewport.Model

	// settleSeq numbers scroll events; only the newest one is checked against
	// the load threshold once scrolling pauses.
	settleSeq int
	showToTop bool

	// requesting is set while an explicit load-more request is in flight.
	requesting bool
}

type scrollSettledMsg struct {
	seq int
}

type pageMsg struct {
	result   paging.Result
	err      error
	explicit bool
}

// handleLibraryKey processes keyboard input for the library view.
func (m Model) handleLibraryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	vp := &m.library.viewport
	before := vp.YOffset

	switch {
	case key.Matches(msg, m.keys.LoadMore):
		return m.loadMore()
	case key.Matches(msg, m.keys.Down):
		vp.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		vp.ScrollUp(1)
	case key.Matches(msg, m.keys.HalfPageDown):
		vp.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		vp.HalfPageUp()
	case key.Matches(msg, m.keys.PageDown):
		vp.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		vp.PageUp()
	case key.Matches(msg, m.keys.Top):
		vp.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		vp.GotoBottom()
	default:
		return m, nil
	}

	if vp.YOffset == before {
		return m, nil
	}
	return m, m.scheduleSettle()
}

// scheduleSettle starts a new debounce window. Earlier windows become stale.
func (m *Model) scheduleSettle() tea.Cmd {
	m.library.settleSeq++
	seq := m.library.settleSeq
	return tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return scrollSettledMsg{seq: seq}
	})
}

// handleScrollSettled runs the debounced work for the newest scroll event:
// the back-to-top hint and the load threshold check.
func (m Model) handleScrollSettled(msg scrollSettledMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.library.settleSeq {
		return m, nil
	}
	vp := m.library.viewport
	m.library.showToTop = vp.YOffset > vp.Height
	if m.pager == nil || m.snapshot.Library.Ended {
		return m, nil
	}
	return m, triggerCmd(m, m.libraryViewport())
}

// loadMore requests the next page regardless of scroll position.
func (m Model) loadMore() (tea.Model, tea.Cmd) {
	if m.pager == nil || m.snapshot.Library.Ended || m.library.requesting {
		return m, nil
	}
	m.library.requesting = true
	pager, ctx := m.pager, m.ctx
	return m, func() tea.Msg {
		res, err := pager.LoadMore(ctx)
		return pageMsg{result: res, err: err, explicit: true}
	}
}

func triggerCmd(m Model, v paging.Viewport) tea.Cmd {
	pager, ctx := m.pager, m.ctx
	return func() tea.Msg {
		res, err := pager.Trigger(ctx, v)
		return pageMsg{result: res, err: err}
	}
}

// handlePage refreshes the snapshot after a page request. A page that was
// appended may leave the view still inside the threshold, so the check runs
// again; failures and empty pages wait for the next scroll.
func (m Model) handlePage(msg pageMsg) (tea.Model, tea.Cmd) {
	if msg.explicit {
		m.library.requesting = false
	}
	ev := m.log.Debug().Str("outcome", msg.result.Outcome.String()).Int("page", msg.result.Page)
	if msg.err != nil {
		ev = m.log.Warn().Err(msg.err).Str("outcome", msg.result.Outcome.String()).Int("page", msg.result.Page)
	}
	ev.Msg("page request finished")

	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if msg.result.Outcome == paging.OutcomeAppended {
		cmds = append(cmds, m.scheduleSettle())
	}
	return m, tea.Batch(cmds...)
}

// libraryViewport describes the list's scroll position for the threshold.
func (m Model) libraryViewport() paging.Viewport {
	vp := m.library.viewport
	return paging.Viewport{
		Offset:        vp.YOffset,
		Height:        vp.Height,
		ContentHeight: vp.TotalLineCount(),
	}
}

func (m *Model) updateLibraryViewport() {
	if !m.ready {
		return
	}
	lines := renderEntries(m.snapshot.Library, m.theme.Styles(), m.width)
	m.library.viewport.SetContent(strings.Join(lines, "\n"))
}

// renderEntries lays out entries as a title line, an optional link and the
// remaining text lines, separated by blank lines.
func renderEntries(lib state.Library, styles Styles, width int) []string {
	if len(lib.Entries) == 0 {
		return []string{styles.MutedText.Render("No content yet.")}
	}
	var lines []string
	for i, e := range lib.Entries {
		if i > 0 {
			lines = append(lines, "")
		}
		title := e.Title
		if title == "" && len(e.Lines) > 0 {
			title = e.Lines[0]
		}
		lines = append(lines, styles.AccentText.Bold(true).Render(truncate(title, width)))
		if e.Href != "" {
			lines = append(lines, styles.FaintText.Render(truncate(e.Href, width)))
		}
		for _, line := range clipLines(e.Lines, width-2) {
			if line == title {
				continue
			}
			lines = append(lines, "  "+styles.Text.Render(line))
		}
	}
	return lines
}

func (m Model) renderLibrary() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.library.viewport.View(),
		m.renderLibraryFooter(),
	)
}

// renderLibraryFooter shows the load control, the end marker, notices and
// the back-to-top hint on one line.
func (m Model) renderLibraryFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	lib := m.snapshot.Library

	var parts []string
	switch {
	case lib.Loading || m.library.requesting:
		parts = append(parts, bg.Render(loadingLabel, styles.WarningText))
	case lib.Ended:
		parts = append(parts, bg.Render(endLabel, styles.MutedText))
	case lib.Total > 1:
		parts = append(parts, bg.Binding("m", loadMoreLabel, styles.AccentText, styles.MutedText))
	}
	if lib.Total > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("Page %d/%d", max(lib.Page, 1), lib.Total), styles.FaintText))
	}
	if lib.Notice != "" {
		parts = append(parts, bg.Render(lib.Notice, styles.NoticeStyle(lib.Level).Background(bg.Color())))
	}
	if m.library.showToTop {
		parts = append(parts, bg.Render(toTopLabel, styles.InfoText))
	}
	return styles.Footer.Width(m.width).Render(bg.Join(parts, "  "))
}
