package settings

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/lectern-app/lectern/internal/fragment"
	"github.com/lectern-app/lectern/internal/librarian"
)

// FormID is the id of the settings form in the server markup.
const FormID = "settings-form"

// ErrNoForm is returned when markup carries no settings form.
var ErrNoForm = errors.New("settings form not found")

// Option is one choice of a select field.
type Option struct {
	Value string
	Label string
}

// Field is one editable form field.
type Field struct {
	Name    string
	Label   string
	Value   string
	Saved   string // value rendered by the server, before local edits
	Options []Option
}

// Form is the client-side model of the receiver settings form. It is rebuilt
// from server markup after every submission.
type Form struct {
	Action        string
	Fields        []Field
	Presets       []Preset
	Selected      string
	FieldsVisible bool
	Message       string
	Errors        []string
}

// Parse builds a Form from markup containing #settings-form.
func Parse(markup string) (Form, error) {
	doc, err := fragment.ParseDocument(markup)
	if err != nil {
		return Form{}, fmt.Errorf("parse settings markup: %w", err)
	}
	node := fragment.FindID(doc, FormID)
	if node == nil {
		return Form{}, ErrNoForm
	}

	form := Form{Action: fragment.Attr(node, "action")}
	labels := labelsFor(node)

	var presetSelect *html.Node
	for _, el := range fragment.All(node, isControl) {
		name := fragment.Attr(el, "name")
		if name == "" {
			continue
		}
		if name == "preset" {
			presetSelect = el
			continue
		}
		field := Field{Name: name, Label: labels[fragment.Attr(el, "id")]}
		switch el.DataAtom {
		case atom.Input:
			if t := strings.ToLower(fragment.Attr(el, "type")); t == "submit" || t == "button" {
				continue
			}
			field.Saved = fragment.Attr(el, "value")
		case atom.Select:
			for _, opt := range fragment.All(el, func(n *html.Node) bool { return n.DataAtom == atom.Option }) {
				o := Option{Value: optionValue(opt), Label: fragment.Text(opt)}
				field.Options = append(field.Options, o)
				if fragment.HasAttr(opt, "selected") {
					field.Saved = o.Value
				}
			}
		case atom.Textarea:
			field.Saved = fragment.Text(el)
		}
		if field.Label == "" {
			field.Label = name
		}
		field.Value = field.Saved
		form.Fields = append(form.Fields, field)
	}

	for _, el := range fragment.All(node, func(n *html.Node) bool { return fragment.HasClass(n, "field-error") }) {
		form.Errors = append(form.Errors, fragment.Text(el))
	}
	if msg := fragment.First(node, func(n *html.Node) bool { return fragment.HasClass(n, "message") }); msg != nil {
		form.Message = fragment.Text(msg)
	}

	if presetSelect != nil {
		form.Presets = presetsFrom(presetSelect)
	}
	if len(form.Presets) == 0 {
		form.Presets = DefaultPresets()
	}

	form.SelectSavedPreset()
	form.Select(form.Selected)
	return form, nil
}

// Field returns the named field.
func (f *Form) Field(name string) (*Field, bool) {
	for i := range f.Fields {
		if f.Fields[i].Name == name {
			return &f.Fields[i], true
		}
	}
	return nil, false
}

// SetValue edits a field locally.
func (f *Form) SetValue(name, value string) bool {
	field, ok := f.Field(name)
	if !ok {
		return false
	}
	field.Value = value
	return true
}

// Saved returns the values the server rendered, skipping absent ones.
func (f *Form) Saved() map[string]string {
	out := make(map[string]string)
	for _, field := range f.Fields {
		if field.Saved != "" {
			out[field.Name] = field.Saved
		}
	}
	return out
}

// Preset looks up a preset by id with a linear scan.
func (f *Form) Preset(id string) (Preset, bool) {
	for _, p := range f.Presets {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}

// SelectSavedPreset picks the first preset whose values all equal the saved
// ones. With no match, non-empty saved values select the custom entry and
// empty ones select none.
func (f *Form) SelectSavedPreset() {
	saved := f.Saved()
	for _, p := range f.Presets {
		if matches(p.Values, saved) {
			f.Selected = p.ID
			return
		}
	}
	if len(saved) > 0 {
		f.Selected = SelectionCustom
		return
	}
	f.Selected = SelectionNone
}

// Select applies a selector value: none fills defaults, custom restores the
// saved values and reveals the manual fields, and a preset id fills that
// preset's values. An unknown id falls back to defaults.
func (f *Form) Select(id string) {
	if id == "" {
		id = SelectionNone
	}
	var data map[string]string
	switch id {
	case SelectionNone:
		data = DefaultValues()
	case SelectionCustom:
		data = f.Saved()
	default:
		if p, ok := f.Preset(id); ok {
			data = p.Values
		} else {
			data = DefaultValues()
		}
	}
	for k, v := range data {
		f.SetValue(k, v)
	}
	f.Selected = id
	f.FieldsVisible = id == SelectionCustom
}

// CanSubmit reports whether the submit button is shown.
func (f *Form) CanSubmit() bool {
	return f.Selected != SelectionNone
}

// Values serializes the form for submission.
func (f *Form) Values() url.Values {
	values := url.Values{}
	for _, field := range f.Fields {
		values.Set(field.Name, field.Value)
	}
	return values
}

// Submit posts the form and returns the form re-rendered from the response.
// The manual-fields visibility carries over from f.
func (f *Form) Submit(ctx context.Context, poster librarian.Poster) (Form, error) {
	if !f.CanSubmit() {
		return *f, fmt.Errorf("no transponder selected")
	}
	action := f.Action
	if strings.TrimSpace(action) == "" {
		return *f, fmt.Errorf("settings form has no action")
	}
	body, err := poster.PostForm(ctx, action, f.Values())
	if err != nil {
		return *f, fmt.Errorf("submit settings: %w", err)
	}
	next, err := Parse(body)
	if err != nil {
		return *f, fmt.Errorf("submit settings: %w", err)
	}
	if next.Action == "" {
		next.Action = f.Action
	}
	next.FieldsVisible = f.FieldsVisible
	return next, nil
}

func isControl(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Input, atom.Select, atom.Textarea:
		return true
	}
	return false
}

func optionValue(n *html.Node) string {
	if fragment.HasAttr(n, "value") {
		return fragment.Attr(n, "value")
	}
	return fragment.Text(n)
}

func labelsFor(form *html.Node) map[string]string {
	out := make(map[string]string)
	for _, l := range fragment.All(form, func(n *html.Node) bool { return n.DataAtom == atom.Label }) {
		if id := fragment.Attr(l, "for"); id != "" {
			out[id] = strings.TrimSuffix(fragment.Text(l), ":")
		}
	}
	return out
}

func presetsFrom(sel *html.Node) []Preset {
	var presets []Preset
	for _, opt := range fragment.All(sel, func(n *html.Node) bool { return n.DataAtom == atom.Option }) {
		id := optionValue(opt)
		if id == SelectionNone || id == SelectionCustom {
			continue
		}
		data := fragment.DataAttrs(opt)
		p := Preset{ID: id, Label: fragment.Text(opt), Coverage: data["coverage"]}
		delete(data, "coverage")
		p.Values = data
		presets = append(presets, p)
	}
	return presets
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
