package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arisanku/arisan-admin/internal/api"
	"github.com/arisanku/arisan-admin/internal/config"
	"github.com/arisanku/arisan-admin/internal/session"
)

// fakeRequester serves canned collections and records every write.
type fakeRequester struct {
	mu     sync.Mutex
	data   map[string]any
	envs   map[string]*api.Envelope
	errs   map[string]error
	calls  []string
	bodies map[string]any
	// onWrite lets a test change the served data after a write.
	onWrite func(f *fakeRequester, call string, body any)
}

func newFakeRequester() *fakeRequester {
	return &fakeRequester{
		data:   make(map[string]any),
		envs:   make(map[string]*api.Envelope),
		errs:   make(map[string]error),
		bodies: make(map[string]any),
	}
}

func (f *fakeRequester) set(path string, v any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[path] = v
}

func (f *fakeRequester) fail(call string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[call] = err
}

func (f *fakeRequester) called(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeRequester) body(call string) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[call]
}

func (f *fakeRequester) Get(_ context.Context, path string, dest any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := "GET " + path
	f.calls = append(f.calls, call)
	if err := f.errs[call]; err != nil {
		return err
	}
	v, ok := f.data[path]
	if !ok {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeRequester) GetEnvelope(_ context.Context, path string) (*api.Envelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := "GET " + path
	f.calls = append(f.calls, call)
	if err := f.errs[call]; err != nil {
		return nil, err
	}
	if env, ok := f.envs[path]; ok {
		return env, nil
	}
	return &api.Envelope{}, nil
}

func (f *fakeRequester) write(method, path string, body any) (*api.Envelope, error) {
	f.mu.Lock()
	call := method + " " + path
	f.calls = append(f.calls, call)
	f.bodies[call] = body
	err := f.errs[call]
	env, ok := f.envs[path]
	hook := f.onWrite
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if hook != nil {
		hook(f, call, body)
	}
	if !ok {
		env = &api.Envelope{}
	}
	return env, nil
}

func (f *fakeRequester) Post(_ context.Context, path string, body any) (*api.Envelope, error) {
	return f.write("POST", path, body)
}

func (f *fakeRequester) Put(_ context.Context, path string, body any) (*api.Envelope, error) {
	return f.write("PUT", path, body)
}

func (f *fakeRequester) Delete(_ context.Context, path string) (*api.Envelope, error) {
	return f.write("DELETE", path, nil)
}

func (f *fakeRequester) Upload(_ context.Context, path, filename string, content io.Reader) (*api.Envelope, error) {
	data, _ := io.ReadAll(content)
	return f.write("UPLOAD", path, map[string]any{"filename": filename, "size": len(data)})
}

func rawJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return raw
}

// newTestModel builds an authenticated Model over fr.
func newTestModel(t *testing.T, fr *fakeRequester) Model {
	t.Helper()
	sess := session.New(session.NewMemoryKV())
	if err := sess.SaveToken("test-token"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	return buildModel(t, fr, sess)
}

func buildModel(t *testing.T, fr *fakeRequester, sess *session.Session) Model {
	t.Helper()
	cfg := config.Config{
		APIURL:            "http://backend.test/api",
		PageSize:          50,
		LogDir:            t.TempDir(),
		MaxImageDimension: 1920,
	}
	m := New(Options{
		Context:  context.Background(),
		Services: api.NewServices(fr),
		Session:  sess,
		Config:   cfg,
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

// updater is anything the harness can feed messages to: a screen or the
// login form.
type updater interface {
	update(msg tea.Msg) tea.Cmd
}

// harness drives one screen: it runs commands synchronously and feeds the
// resulting messages back. Commands that block (ticks, cursor blinks) are
// dropped.
type harness struct {
	t       *testing.T
	s       updater
	flashes []flashMsg
	notices []noticeMsg
	routed  []tea.Msg
}

func newHarness(t *testing.T, s updater) *harness {
	t.Helper()
	s.update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return &harness{t: t, s: s}
}

func (h *harness) send(msg tea.Msg) {
	h.t.Helper()
	h.run(h.s.update(msg), 0)
}

func (h *harness) mount() {
	h.t.Helper()
	sc, ok := h.s.(screen)
	if !ok {
		h.t.Fatalf("%T is not a screen", h.s)
	}
	h.run(sc.mount(), 0)
}

func (h *harness) key(keys ...string) {
	h.t.Helper()
	for _, k := range keys {
		h.send(keyMsg(k))
	}
}

func (h *harness) run(cmd tea.Cmd, depth int) {
	h.t.Helper()
	if depth > 8 {
		h.t.Fatalf("command chain too deep")
	}
	for _, msg := range collect(cmd) {
		switch m := msg.(type) {
		case flashMsg:
			h.flashes = append(h.flashes, m)
		case noticeMsg:
			h.notices = append(h.notices, m)
		case pickImageMsg, imagePickedMsg, pickCancelledMsg, loggedInMsg:
			h.routed = append(h.routed, msg)
		default:
			h.run(h.s.update(msg), depth+1)
		}
	}
}

func (h *harness) lastFlash() string {
	if len(h.flashes) == 0 {
		return ""
	}
	return h.flashes[len(h.flashes)-1].text
}

// collect runs cmd and flattens batches. A command that does not return
// quickly is treated as a timer and skipped.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(100 * time.Millisecond):
		return nil
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// keyMsg builds a key press from its string form.
func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "space", " ":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+g":
		return tea.KeyMsg{Type: tea.KeyCtrlG}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	case "ctrl+down":
		return tea.KeyMsg{Type: tea.KeyCtrlDown}
	case "ctrl+up":
		return tea.KeyMsg{Type: tea.KeyCtrlUp}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// typeText sends each rune of text as its own key press.
func (h *harness) typeText(text string) {
	h.t.Helper()
	for _, r := range text {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// fill sets editor inputs by field name.
func fill(t *testing.T, ed *formEditor, values map[string]string) {
	t.Helper()
	if ed == nil {
		t.Fatalf("editor not open")
	}
	for name, value := range values {
		found := false
		for i, f := range ed.buf.Fields() {
			if f.Name == name {
				ed.inputs[i].SetValue(value)
				found = true
			}
		}
		if !found {
			t.Fatalf("editor has no field %q", name)
		}
	}
}

func listOf[T listItem](t *testing.T, m Model, s Screen) *listScreen[T] {
	t.Helper()
	ls, ok := m.screens[s].(*listScreen[T])
	if !ok {
		t.Fatalf("screen %s is %T", s, m.screens[s])
	}
	return ls
}

func backendErr(status int, message string) error {
	return &api.Error{Method: "GET", Path: "test", Status: status, Message: message}
}

func mustContain(t *testing.T, what, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Fatalf("%s = %q, want it to contain %q", what, got, want)
	}
}

var errBoom = fmt.Errorf("boom")
