package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lectern-app/lectern/internal/settings"
)

// settingsState holds the receiver settings form view.
type settingsState struct {
	form   *settings.Form
	inputs []textinput.Model // parallel to form.Fields; unused for select fields
	focus  int               // 0 is the transponder selector, i+1 is field i

	loading    bool
	submitting bool
	err        error

	message    string
	messageSeq int
}

type settingsLoadedMsg struct {
	form settings.Form
	err  error
}

type settingsSubmittedMsg struct {
	form settings.Form
	err  error
}

type settingsMessageExpiredMsg struct {
	seq int
}

// editing reports whether a text input has focus.
func (s settingsState) editing() bool {
	field := s.focusedField()
	return field != nil && len(field.Options) == 0
}

func (s settingsState) focusedField() *settings.Field {
	if s.form == nil || !s.form.FieldsVisible || s.focus < 1 || s.focus > len(s.form.Fields) {
		return nil
	}
	return &s.form.Fields[s.focus-1]
}

// choices lists selector values in display order: none, the presets, custom.
func (s settingsState) choices() []string {
	out := []string{settings.SelectionNone}
	if s.form != nil {
		for _, p := range s.form.Presets {
			out = append(out, p.ID)
		}
	}
	return append(out, settings.SelectionCustom)
}

func (s settingsState) choiceLabel(id string) string {
	switch id {
	case settings.SelectionNone:
		return "Select a satellite"
	case settings.SelectionCustom:
		return "Custom satellite"
	}
	if s.form != nil {
		if p, ok := s.form.Preset(id); ok {
			return p.Label
		}
	}
	return id
}

// loadSettings fetches the form once; later visits reuse it.
func (m *Model) loadSettings() tea.Cmd {
	if m.settings.form != nil || m.settings.loading {
		return nil
	}
	if m.client == nil || strings.TrimSpace(m.settingsPath) == "" {
		m.settings.err = fmt.Errorf("settings are not configured")
		return nil
	}
	m.settings.loading = true
	m.settings.err = nil
	client, path, ctx := m.client, m.settingsPath, m.ctx
	return func() tea.Msg {
		reqCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
		defer cancel()
		body, err := client.Get(reqCtx, path)
		if err != nil {
			return settingsLoadedMsg{err: fmt.Errorf("load settings: %w", err)}
		}
		form, err := settings.Parse(body)
		if err != nil {
			return settingsLoadedMsg{err: fmt.Errorf("load settings: %w", err)}
		}
		if form.Action == "" {
			form.Action = path
		}
		return settingsLoadedMsg{form: form}
	}
}

func (m Model) handleSettingsLoaded(msg settingsLoadedMsg) (tea.Model, tea.Cmd) {
	m.settings.loading = false
	if msg.err != nil {
		m.settings.err = msg.err
		m.log.Warn().Err(msg.err).Msg("settings load failed")
		return m, nil
	}
	return m, m.setSettingsForm(msg.form)
}

func (m Model) handleSettingsSubmitted(msg settingsSubmittedMsg) (tea.Model, tea.Cmd) {
	m.settings.submitting = false
	if msg.err != nil {
		m.settings.err = msg.err
		m.log.Warn().Err(msg.err).Msg("settings submit failed")
		return m, nil
	}
	m.settings.err = nil
	m.log.Info().Str("selected", msg.form.Selected).Int("errors", len(msg.form.Errors)).Msg("settings saved")
	return m, m.setSettingsForm(msg.form)
}

func (m *Model) handleSettingsMessageExpired(msg settingsMessageExpiredMsg) {
	if msg.seq == m.settings.messageSeq {
		m.settings.message = ""
	}
}

// setSettingsForm installs a freshly parsed form and schedules its message
// to disappear.
func (m *Model) setSettingsForm(form settings.Form) tea.Cmd {
	m.settings.form = &form
	m.settings.focus = 0
	m.settings.inputs = make([]textinput.Model, len(form.Fields))
	for i, field := range form.Fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 64
		ti.Width = 24
		ti.SetValue(field.Value)
		m.settings.inputs[i] = ti
	}

	m.settings.messageSeq++
	m.settings.message = form.Message
	if form.Message == "" {
		return nil
	}
	seq := m.settings.messageSeq
	return tea.Tick(SettingsMessageTimeout, func(time.Time) tea.Msg {
		return settingsMessageExpiredMsg{seq: seq}
	})
}

// syncInputs copies form values into the text inputs after a selection.
func (m *Model) syncInputs() {
	if m.settings.form == nil {
		return
	}
	for i, field := range m.settings.form.Fields {
		if i < len(m.settings.inputs) {
			m.settings.inputs[i].SetValue(field.Value)
		}
	}
}

// handleSettingsKey processes keyboard input for the settings view.
func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.settings
	if s.form == nil {
		return m, nil
	}

	if s.editing() {
		switch msg.String() {
		case "esc":
			return m, m.focusSettings(0)
		case "enter":
			return m.submitSettings()
		case "up", "shift+tab":
			return m, m.focusSettings(s.focus - 1)
		case "down", "tab":
			return m, m.focusSettings(s.focus + 1)
		}
		i := s.focus - 1
		var cmd tea.Cmd
		s.inputs[i], cmd = s.inputs[i].Update(msg)
		s.form.SetValue(s.form.Fields[i].Name, s.inputs[i].Value())
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submitSettings()
	case key.Matches(msg, m.keys.PrevChoice):
		m.cycleSettings(-1)
	case key.Matches(msg, m.keys.NextChoice):
		m.cycleSettings(1)
	case key.Matches(msg, m.keys.Up):
		return m, m.focusSettings(s.focus - 1)
	case key.Matches(msg, m.keys.Down):
		return m, m.focusSettings(s.focus + 1)
	}
	return m, nil
}

// cycleSettings moves the selector, or the focused select field, by delta.
func (m *Model) cycleSettings(delta int) {
	s := &m.settings
	if field := s.focusedField(); field != nil {
		if len(field.Options) == 0 {
			return
		}
		idx := 0
		for i, o := range field.Options {
			if o.Value == field.Value {
				idx = i
				break
			}
		}
		next := field.Options[(idx+delta+len(field.Options))%len(field.Options)]
		s.form.SetValue(field.Name, next.Value)
		return
	}

	choices := s.choices()
	idx := 0
	for i, id := range choices {
		if id == s.form.Selected {
			idx = i
			break
		}
	}
	s.form.Select(choices[(idx+delta+len(choices))%len(choices)])
	m.syncInputs()
}

// focusSettings moves focus, clamped to the selector and the visible fields.
func (m *Model) focusSettings(focus int) tea.Cmd {
	s := &m.settings
	last := 0
	if s.form != nil && s.form.FieldsVisible {
		last = len(s.form.Fields)
	}
	focus = min(max(focus, 0), last)

	if s.focus > 0 && s.focus-1 < len(s.inputs) {
		s.inputs[s.focus-1].Blur()
	}
	s.focus = focus
	if s.editing() {
		return s.inputs[focus-1].Focus()
	}
	return nil
}

func (m Model) submitSettings() (tea.Model, tea.Cmd) {
	s := &m.settings
	if s.form == nil || s.submitting || !s.form.CanSubmit() || m.client == nil {
		return m, nil
	}
	s.submitting = true
	s.err = nil
	form := *s.form
	form.Fields = append([]settings.Field(nil), s.form.Fields...)
	client, ctx := m.client, m.ctx
	return m, func() tea.Msg {
		reqCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
		defer cancel()
		next, err := form.Submit(reqCtx, client)
		return settingsSubmittedMsg{form: next, err: err}
	}
}

func (m Model) renderSettings() string {
	styles := m.theme.Styles()
	s := m.settings

	var lines []string
	switch {
	case s.loading:
		lines = append(lines, styles.MutedText.Render("Loading settings..."))
	case s.form == nil && s.err != nil:
		lines = append(lines, styles.DangerText.Render(s.err.Error()))
	case s.form == nil:
		lines = append(lines, styles.MutedText.Render("No settings loaded."))
	default:
		lines = append(lines, m.renderSettingsForm(styles)...)
	}

	body := strings.Join(clipLines(lines, m.width), "\n")
	return styles.Text.Width(m.width).Height(m.bodyHeight()).Render(body)
}

func (m Model) renderSettingsForm(styles Styles) []string {
	s := m.settings
	form := s.form
	const labelWidth = 18

	selector := "‹ " + s.choiceLabel(form.Selected) + " ›"
	selStyle := styles.Text
	if s.focus == 0 {
		selStyle = styles.Selected
	}
	lines := []string{
		styles.MutedText.Render(padRight("Satellite", labelWidth)) + selStyle.Render(selector),
	}
	if p, ok := form.Preset(form.Selected); ok && p.Coverage != "" {
		lines = append(lines, styles.MutedText.Render(padRight("Coverage", labelWidth))+styles.InfoText.Render(p.Coverage))
	}
	lines = append(lines, "")

	if form.FieldsVisible {
		for i, field := range form.Fields {
			label := styles.MutedText.Render(padRight(field.Label, labelWidth))
			var value string
			if len(field.Options) > 0 {
				value = "‹ " + optionLabel(field) + " ›"
			} else if i < len(s.inputs) {
				value = s.inputs[i].View()
			}
			if s.focus == i+1 {
				value = styles.Selected.Render(value)
			}
			lines = append(lines, label+value)
		}
	} else if form.Selected != settings.SelectionNone {
		var summary []string
		for _, field := range form.Fields {
			if field.Value != "" {
				summary = append(summary, field.Label+" "+optionLabel(field))
			}
		}
		lines = append(lines, styles.FaintText.Render(strings.Join(summary, "  ")))
	}
	lines = append(lines, "")

	for _, e := range form.Errors {
		lines = append(lines, styles.DangerText.Render(e))
	}
	if s.err != nil {
		lines = append(lines, styles.DangerText.Render(s.err.Error()))
	}
	if s.message != "" {
		lines = append(lines, styles.SuccessText.Render(s.message))
	}

	switch {
	case s.submitting:
		lines = append(lines, styles.WarningText.Render("Saving..."))
	case form.CanSubmit():
		lines = append(lines, styles.AccentText.Render("enter")+styles.MutedText.Render(": Save"))
	default:
		lines = append(lines, styles.MutedText.Render("Choose a satellite to save settings."))
	}
	return lines
}

func optionLabel(field settings.Field) string {
	for _, o := range field.Options {
		if o.Value == field.Value {
			return o.Label
		}
	}
	return field.Value
}
