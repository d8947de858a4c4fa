package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/arisanku/arisan-admin/internal/api"
	"github.com/arisanku/arisan-admin/internal/form"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// errorText returns the message shown to the operator for err.
func errorText(err error) string {
	if err == nil {
		return ""
	}
	var verr *form.ValidationError
	if errors.As(err, &verr) {
		return verr.First()
	}
	return api.Message(err)
}

// noticeModal is the blocking alert. Any key dismisses it.
type noticeModal struct {
	title   string
	message string
	danger  bool
}

func newNotice(title string, err error) *noticeModal {
	return &noticeModal{title: title, message: errorText(err), danger: true}
}

func (n *noticeModal) Update(msg tea.Msg, _ keyMap) (Modal, tea.Cmd, bool) {
	if _, ok := msg.(tea.KeyMsg); ok {
		return nil, nil, true
	}
	return n, nil, false
}

func (n *noticeModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	titleStyle := styles.AccentText.Bold(true)
	if n.danger {
		titleStyle = styles.DangerText
	}
	body := titleStyle.Render(n.title) + "\n\n" +
		styles.Text.Render(n.message) + "\n\n" +
		styles.FaintText.Render("tekan tombol apa saja")
	return renderDialog(theme, body, 56, width, height)
}

// promptModal asks a yes/no question and runs onYes on confirmation.
type promptModal struct {
	title  string
	text   string
	danger bool
	onYes  func() tea.Cmd
}

func (p *promptModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil, false
	}
	switch {
	case key.Matches(km, keys.Yes):
		var cmd tea.Cmd
		if p.onYes != nil {
			cmd = p.onYes()
		}
		return nil, cmd, true
	case key.Matches(km, keys.No):
		return nil, nil, true
	}
	return p, nil, false
}

func (p *promptModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	return renderDialog(theme, promptBody(styles, p.title, p.text, p.danger), 52, width, height)
}

func promptBody(styles Styles, title, text string, danger bool) string {
	titleStyle := styles.AccentText.Bold(true)
	if danger {
		titleStyle = styles.DangerText
	}
	return titleStyle.Render(title) + "\n\n" +
		styles.Text.Render(text) + "\n\n" +
		hintLine(styles, "y", "Ya", "n", "Tidak")
}

// inputModal is a small form that is not tied to a record session, such as
// a balance transfer or an upload path.
type inputModal struct {
	editor   *formEditor
	err      error
	busy     bool
	submit   func(*form.Buffer) (tea.Cmd, error)
	preview  func(*form.Buffer) string
	closeNow bool
}

func newInputModal(title string, buf *form.Buffer, submit func(*form.Buffer) (tea.Cmd, error)) *inputModal {
	return &inputModal{editor: newFormEditor(title, buf), submit: submit}
}

func (m *inputModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil, false
	}
	switch {
	case key.Matches(km, keys.Escape):
		return nil, nil, true
	case key.Matches(km, keys.Confirm):
		cmd, err := m.submit(m.editor.buf)
		if err != nil {
			m.err = err
			return m, nil, false
		}
		return nil, cmd, true
	}
	m.err = nil
	return m, m.editor.update(km, keys), false
}

func (m *inputModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(m.editor.title))
	b.WriteString("\n\n")
	b.WriteString(m.editor.view(styles))
	if m.preview != nil {
		if p := m.preview(m.editor.buf); p != "" {
			b.WriteString("\n")
			b.WriteString(styles.InfoText.Render(p))
		}
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(errorText(m.err)))
	}
	b.WriteString("\n\n")
	b.WriteString(hintLine(styles, "enter", "Kirim", "esc", "Batal"))
	return renderDialog(theme, b.String(), 60, width, height)
}

// textModal shows scrollable read-only text, such as a transaction history.
type textModal struct {
	title string
	vp    viewport.Model
}

func newTextModal(title, body string, width, height int) *textModal {
	vp := viewport.New(max(min(width-8, 90), 20), max(height-10, 3))
	vp.SetContent(body)
	return &textModal{title: title, vp: vp}
}

func (t *textModal) setContent(body string) {
	t.vp.SetContent(body)
	t.vp.GotoTop()
}

func (t *textModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return t, nil, false
	}
	switch {
	case key.Matches(km, keys.Escape), km.String() == "q", km.String() == "enter":
		return nil, nil, true
	case key.Matches(km, keys.Up):
		t.vp.ScrollUp(1)
	case key.Matches(km, keys.Down):
		t.vp.ScrollDown(1)
	case key.Matches(km, keys.Top):
		t.vp.GotoTop()
	case key.Matches(km, keys.Bottom):
		t.vp.GotoBottom()
	case key.Matches(km, keys.NextPage):
		t.vp.PageDown()
	case key.Matches(km, keys.PrevPage):
		t.vp.PageUp()
	}
	return t, nil, false
}

func (t *textModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	body := styles.AccentText.Bold(true).Render(t.title) + "\n\n" +
		t.vp.View() + "\n\n" +
		hintLine(styles, "j/k", "Gulir", "esc", "Tutup")
	return renderDialog(theme, body, t.vp.Width+2, width, height)
}
