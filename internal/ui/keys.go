package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Escape     key.Binding

	// View switching
	ViewLibrary  key.Binding
	ViewStatus   key.Binding
	ViewFiles    key.Binding
	ViewSettings key.Binding
	ViewLogs     key.Binding

	// Navigation
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding

	// Library
	LoadMore key.Binding

	// Logs
	ToggleFollow key.Binding

	// Settings
	PrevChoice key.Binding
	NextChoice key.Binding
	Submit     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "e"),
			key.WithHelp("e", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next view"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous view"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Return to library"),
		),

		ViewLibrary: key.NewBinding(
			key.WithKeys("c", "1"),
			key.WithHelp("c", "Library"),
		),
		ViewStatus: key.NewBinding(
			key.WithKeys("s", "2"),
			key.WithHelp("s", "Receiver status"),
		),
		ViewFiles: key.NewBinding(
			key.WithKeys("f", "3"),
			key.WithHelp("f", "Downloads"),
		),
		ViewSettings: key.NewBinding(
			key.WithKeys("o", "4"),
			key.WithHelp("o", "Settings"),
		),
		ViewLogs: key.NewBinding(
			key.WithKeys("l", "5"),
			key.WithHelp("l", "Logs"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Scroll down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Back to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", " "),
			key.WithHelp("pgdown", "Page down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "Half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Half page down"),
		),

		LoadMore: key.NewBinding(
			key.WithKeys("m", "enter"),
			key.WithHelp("m", "Load more"),
		),

		ToggleFollow: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "Toggle follow mode"),
		),

		PrevChoice: key.NewBinding(
			key.WithKeys("left", "["),
			key.WithHelp("left", "Previous choice"),
		),
		NextChoice: key.NewBinding(
			key.WithKeys("right", "]"),
			key.WithHelp("right", "Next choice"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Save settings"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ViewLibrary, k.ViewStatus, k.ViewFiles, k.ViewSettings, k.ViewLogs},
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.PageDown, k.PageUp, k.HalfPageDown, k.HalfPageUp},
		{k.LoadMore},
		{k.ToggleFollow},
		{k.PrevChoice, k.NextChoice, k.Submit},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
