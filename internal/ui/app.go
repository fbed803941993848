package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/lectern-app/lectern/internal/librarian"
	"github.com/lectern-app/lectern/internal/paging"
	"github.com/lectern-app/lectern/internal/prefs"
	"github.com/lectern-app/lectern/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewLibrary View = iota
	ViewStatus
	ViewFiles
	ViewSettings
	ViewLogs
)

var viewOrder = []View{ViewLibrary, ViewStatus, ViewFiles, ViewSettings, ViewLogs}

func (v View) String() string {
	switch v {
	case ViewStatus:
		return "status"
	case ViewFiles:
		return "files"
	case ViewSettings:
		return "settings"
	case ViewLogs:
		return "logs"
	default:
		return "library"
	}
}

// ParseView maps a preference name to a view, defaulting to the library.
func ParseView(name string) View {
	for _, v := range viewOrder {
		if v.String() == strings.ToLower(strings.TrimSpace(name)) {
			return v
		}
	}
	return ViewLibrary
}

// Pager loads further pages of the content list.
type Pager interface {
	Trigger(ctx context.Context, v paging.Viewport) (paging.Result, error)
	LoadMore(ctx context.Context) (paging.Result, error)
	Cursor() paging.Cursor
}

// SettingsClient fetches and submits the settings form.
type SettingsClient interface {
	librarian.Getter
	librarian.Poster
}

// Options configures the UI.
type Options struct {
	Context        context.Context
	Store          *state.Store
	Pager          Pager
	Client         SettingsClient
	SettingsPath   string
	Server         string
	LogFile        string
	PollTick       time.Duration
	ScrollDebounce time.Duration
	ThemeName      string
	StartView      string
	PrefsPath      string
	Logger         zerolog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx          context.Context
	store        *state.Store
	pager        Pager
	client       SettingsClient
	settingsPath string
	server       string
	logFile      string
	prefsPath    string
	pollTick     time.Duration
	debounce     time.Duration
	log          zerolog.Logger
	keys         keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	// Data state
	snapshot state.Snapshot

	library  libraryState
	panes    [2]viewport.Model // status, files
	settings settingsState
	logs     logState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}
	debounce := opts.ScrollDebounce
	if debounce <= 0 {
		debounce = DefaultScrollDebounce
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	return Model{
		ctx:          ctx,
		store:        opts.Store,
		pager:        opts.Pager,
		client:       opts.Client,
		settingsPath: opts.SettingsPath,
		server:       opts.Server,
		logFile:      opts.LogFile,
		prefsPath:    prefsPath,
		pollTick:     pollTick,
		debounce:     debounce,
		log:          opts.Logger.With().Str("component", "ui").Logger(),
		keys:         DefaultKeyMap(),
		theme:        GetTheme(themeName),
		currentView:  ParseView(opts.StartView),
		logs:         logState{follow: true},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if cmd := m.enterView(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		first := !m.ready
		if first {
			m.initViewports()
		}
		m.ready = true
		m.resizeViewports()
		m.updateLibraryViewport()
		m.updatePaneViewports()
		m.updateLogViewport()
		if first && m.store != nil {
			// A short first page may already sit inside the load threshold.
			return m, tea.Batch(fetchSnapshotCmd(m.store), m.scheduleSettle())
		}
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.updateLibraryViewport()
		m.updatePaneViewports()
		return m, nil

	case scrollSettledMsg:
		return m.handleScrollSettled(msg)

	case pageMsg:
		return m.handlePage(msg)

	case settingsLoadedMsg:
		return m.handleSettingsLoaded(msg)

	case settingsSubmittedMsg:
		return m.handleSettingsSubmitted(msg)

	case settingsMessageExpiredMsg:
		m.handleSettingsMessageExpired(msg)
		return m, nil

	case logTailMsg:
		m.handleLogTail(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	// A focused settings input swallows printable keys.
	if m.currentView == ViewSettings && m.settings.editing() && msg.String() != "ctrl+c" {
		return m.handleSettingsKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.savePrefs()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.updateLibraryViewport()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		return m.switchView(m.stepView(1))

	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchView(m.stepView(-1))

	case key.Matches(msg, m.keys.Escape):
		return m.switchView(ViewLibrary)

	case key.Matches(msg, m.keys.ViewLibrary):
		return m.switchView(ViewLibrary)

	case key.Matches(msg, m.keys.ViewStatus):
		return m.switchView(ViewStatus)

	case key.Matches(msg, m.keys.ViewFiles):
		return m.switchView(ViewFiles)

	case key.Matches(msg, m.keys.ViewSettings):
		return m.switchView(ViewSettings)

	case key.Matches(msg, m.keys.ViewLogs):
		return m.switchView(ViewLogs)
	}

	// View-specific keys
	switch m.currentView {
	case ViewLibrary:
		return m.handleLibraryKey(msg)
	case ViewStatus, ViewFiles:
		return m.handlePaneKey(msg)
	case ViewSettings:
		return m.handleSettingsKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}

	return m, nil
}

func (m Model) stepView(delta int) View {
	for i, v := range viewOrder {
		if v == m.currentView {
			return viewOrder[(i+delta+len(viewOrder))%len(viewOrder)]
		}
	}
	return ViewLibrary
}

func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	if m.currentView == v {
		return m, nil
	}
	m.currentView = v
	return m, m.enterView()
}

// enterView returns the command that populates the current view.
func (m *Model) enterView() tea.Cmd {
	switch m.currentView {
	case ViewSettings:
		return m.loadSettings()
	case ViewLogs:
		return m.refreshLogs()
	}
	return nil
}

// handleTick processes the refresh tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}

	if m.currentView == ViewLogs && m.logs.follow {
		if cmd := m.refreshLogs(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, View: m.currentView.String()}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.Warn().Err(err).Msg("save prefs failed")
	}
}

func (m *Model) initViewports() {
	m.library.viewport = viewport.New(m.width, m.bodyHeight()-1)
	for i := range m.panes {
		m.panes[i] = viewport.New(m.width, m.bodyHeight()-1)
	}
	m.logs.viewport = viewport.New(m.width, m.bodyHeight()-1)
}

func (m *Model) resizeViewports() {
	h := max(m.bodyHeight()-1, 1)
	m.library.viewport.Width, m.library.viewport.Height = m.width, h
	for i := range m.panes {
		m.panes[i].Width, m.panes[i].Height = m.width, h
	}
	m.logs.viewport.Width, m.logs.viewport.Height = m.width, h
}

// bodyHeight is the number of rows below the header and command bar.
func (m Model) bodyHeight() int {
	return max(m.height-chromeRows, 1)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLibrary:
		return m.renderLibrary()
	case ViewStatus:
		return m.renderPane(state.PaneStatus)
	case ViewFiles:
		return m.renderPane(state.PaneFiles)
	case ViewSettings:
		return m.renderSettings()
	case ViewLogs:
		return m.renderLogs()
	default:
		return ""
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program. Cancelling opts.Context stops it
// without an error.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
