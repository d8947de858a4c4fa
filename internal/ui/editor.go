package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/arisanku/arisan-admin/internal/form"
)

const editorLabelWidth = 20

// formEditor binds one text input per field to a form.Buffer.
type formEditor struct {
	title    string
	buf      *form.Buffer
	inputs   []textinput.Model
	focus    int
	pickable map[string]bool
}

func newFormEditor(title string, buf *form.Buffer, pickable ...string) *formEditor {
	e := &formEditor{title: title, buf: buf, pickable: make(map[string]bool, len(pickable))}
	for _, name := range pickable {
		e.pickable[name] = true
	}
	for _, f := range buf.Fields() {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 1024
		ti.Placeholder = placeholder(f)
		ti.SetValue(f.Value)
		e.inputs = append(e.inputs, ti)
	}
	e.setFocus(0)
	return e
}

func placeholder(f form.Field) string {
	switch f.Kind {
	case form.Number:
		return "0"
	case form.Date:
		return "YYYY-MM-DD"
	case form.List:
		return "https://…, https://…"
	}
	return ""
}

func (e *formEditor) setFocus(i int) {
	n := len(e.inputs)
	if n == 0 {
		return
	}
	i = ((i % n) + n) % n
	for j := range e.inputs {
		if j == i {
			e.inputs[j].Focus()
		} else {
			e.inputs[j].Blur()
		}
	}
	e.focus = i
}

// focused returns the field under the cursor.
func (e *formEditor) focused() form.Field {
	if len(e.inputs) == 0 {
		return form.Field{}
	}
	return e.buf.Field(e.focus)
}

// canPick reports whether the focused field accepts a gallery image.
func (e *formEditor) canPick() bool {
	return e.pickable[e.focused().Name]
}

// apply stores a picked image URL: list fields gain an entry, text fields
// are replaced.
func (e *formEditor) apply(field, url string) {
	if !e.buf.Has(field) {
		return
	}
	for i, f := range e.buf.Fields() {
		if f.Name != field {
			continue
		}
		if f.Kind == form.List {
			e.buf.Append(field, url)
		} else {
			e.buf.Set(field, url)
		}
		e.inputs[i].SetValue(e.buf.Value(field))
		e.inputs[i].CursorEnd()
	}
}

// sync copies every input into the buffer.
func (e *formEditor) sync() {
	for i, f := range e.buf.Fields() {
		e.buf.Set(f.Name, e.inputs[i].Value())
	}
}

func (e *formEditor) update(msg tea.KeyMsg, keys keyMap) tea.Cmd {
	if len(e.inputs) == 0 {
		return nil
	}
	switch {
	case key.Matches(msg, keys.NextField):
		e.setFocus(e.focus + 1)
		return nil
	case key.Matches(msg, keys.PrevField):
		e.setFocus(e.focus - 1)
		return nil
	}
	var cmd tea.Cmd
	e.inputs[e.focus], cmd = e.inputs[e.focus].Update(msg)
	e.buf.Set(e.buf.Field(e.focus).Name, e.inputs[e.focus].Value())
	return cmd
}

func (e *formEditor) view(styles Styles) string {
	lines := make([]string, 0, len(e.inputs))
	for i, f := range e.buf.Fields() {
		labelStyle := styles.MutedText
		marker := "  "
		if i == e.focus {
			labelStyle = styles.AccentText.Bold(true)
			marker = styles.AccentText.Render("› ")
		}
		label := f.Label
		if e.pickable[f.Name] {
			label += " *"
		}
		lines = append(lines, marker+labelStyle.Render(padRight(label, editorLabelWidth))+e.inputs[i].View())
	}
	return strings.Join(lines, "\n")
}
