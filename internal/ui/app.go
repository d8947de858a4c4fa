package ui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/arisanku/arisan-admin/internal/api"
	"github.com/arisanku/arisan-admin/internal/config"
	"github.com/arisanku/arisan-admin/internal/logging"
	"github.com/arisanku/arisan-admin/internal/prefs"
	"github.com/arisanku/arisan-admin/internal/session"
)

// Screen identifies one top-level screen.
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenArisan
	ScreenPatungan
	ScreenUsers
	ScreenEvents
	ScreenSettings
	ScreenGallery
	ScreenActivity
)

// screenOrder is the tab and number-key order.
var screenOrder = []Screen{
	ScreenDashboard,
	ScreenArisan,
	ScreenPatungan,
	ScreenUsers,
	ScreenEvents,
	ScreenSettings,
	ScreenGallery,
	ScreenActivity,
}

func (s Screen) String() string {
	switch s {
	case ScreenDashboard:
		return "Dashboard"
	case ScreenArisan:
		return "Arisan"
	case ScreenPatungan:
		return "Patungan"
	case ScreenUsers:
		return "Pengguna"
	case ScreenEvents:
		return "Event"
	case ScreenSettings:
		return "Pengaturan"
	case ScreenGallery:
		return "Galeri"
	case ScreenActivity:
		return "Aktivitas"
	default:
		return "?"
	}
}

// screen is one top-level view. Screens own their state and talk to the
// backend through commands; the Model routes keys and messages to them.
type screen interface {
	id() Screen
	// mount runs every time the screen becomes active.
	mount() tea.Cmd
	update(msg tea.Msg) tea.Cmd
	view(width, height int) string
	commands() []command
	// capturing reports whether the screen consumes every key, e.g. while
	// a form or search box is open.
	capturing() bool
}

type command struct{ key, desc string }

// Options configures the UI.
type Options struct {
	Context   context.Context
	Services  *api.Services
	Session   *session.Session
	Config    config.Config
	Logger    *slog.Logger
	ThemeName string
	PrefsPath string
	Prefs     prefs.Prefs
}

// env is shared by the Model and every screen.
type env struct {
	ctx       context.Context
	services  *api.Services
	session   *session.Session
	cfg       config.Config
	logger    *slog.Logger
	keys      keyMap
	theme     Theme
	prefsPath string
	prefs     prefs.Prefs

	// current is the visible screen.
	current Screen
}

func (e *env) savePrefs() {
	if e.prefsPath == "" {
		return
	}
	if err := prefs.Save(e.prefsPath, e.prefs); err != nil {
		e.logger.Warn("save preferences failed", "path", e.prefsPath, "error", err)
	}
}

// Model is the root application state for Bubble Tea.
type Model struct {
	env     *env
	screens map[Screen]screen
	login   *loginScreen
	authed  bool

	width  int
	height int
	ready  bool

	showHelp bool
	notice   Modal

	flash       string
	flashDanger bool
	flashSeq    int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	sess := opts.Session
	if sess == nil {
		sess = session.New(session.NewMemoryKV())
	}
	cfg := opts.Config
	if cfg.PageSize <= 0 {
		cfg.PageSize = config.Default().PageSize
	}

	p := opts.Prefs
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = p.Theme
	}
	theme := GetTheme(themeName)
	p.Theme = theme.Name

	e := &env{
		ctx:       ctx,
		services:  opts.Services,
		session:   sess,
		cfg:       cfg,
		logger:    logger.With("component", "ui"),
		keys:      DefaultKeyMap(),
		theme:     theme,
		prefsPath: opts.PrefsPath,
		prefs:     p,
	}

	m := Model{
		env:    e,
		login:  newLoginScreen(e),
		authed: sess.Authenticated(),
	}
	m.screens = map[Screen]screen{
		ScreenDashboard: newDashboardScreen(e),
		ScreenArisan:    newArisanScreen(e),
		ScreenPatungan:  newPatunganScreen(e),
		ScreenUsers:     newUsersScreen(e),
		ScreenEvents:    newEventsScreen(e),
		ScreenSettings:  newSettingsScreen(e),
		ScreenGallery:   newGalleryScreen(e),
		ScreenActivity:  newActivityScreen(e),
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if !m.authed {
		return m.login.init()
	}
	return m.screens[m.env.current].mount()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, m.broadcast(msg)

	case flashMsg:
		m.flashSeq++
		m.flash = msg.text
		m.flashDanger = msg.danger
		seq := m.flashSeq
		return m, tea.Tick(FlashDuration, func(time.Time) tea.Msg {
			return clearFlashMsg{seq: seq}
		})

	case clearFlashMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil

	case noticeMsg:
		if api.IsUnauthorized(msg.err) && m.authed {
			m.env.logger.Warn("session rejected by backend", "error", msg.err)
			m = m.logout()
			m.notice = &noticeModal{title: "Sesi berakhir", message: "Silakan login kembali.", danger: true}
			return m, m.login.init()
		}
		m.notice = newNotice(msg.title, msg.err)
		return m, nil

	case loggedInMsg:
		m.authed = true
		m.env.current = ScreenDashboard
		return m, tea.Batch(m.screens[m.env.current].mount(), flashCmd("Login berhasil"))

	case pickImageMsg:
		m.env.current = ScreenGallery
		return m, m.screens[ScreenGallery].update(msg)

	case imagePickedMsg:
		m.env.current = msg.to
		return m, m.screens[msg.to].update(msg)

	case pickCancelledMsg:
		m.env.current = msg.to
		return m, nil
	}

	return m, m.broadcast(msg)
}

// broadcast forwards msg to the login screen and every screen. Screens
// ignore results addressed to another screen.
func (m Model) broadcast(msg tea.Msg) tea.Cmd {
	cmds := []tea.Cmd{m.login.update(msg)}
	for _, s := range screenOrder {
		cmds = append(cmds, m.screens[s].update(msg))
	}
	return tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Memuat..."
	}
	if m.notice != nil {
		return m.notice.View(m.env.theme, m.width, m.height)
	}
	if !m.authed {
		return m.login.view(m.width, m.height)
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.env.keys
	if key.Matches(msg, keys.Quit) {
		return m, tea.Quit
	}

	// Any key dismisses the notice.
	if m.notice != nil {
		m.notice = nil
		return m, nil
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if !m.authed {
		return m, m.login.update(msg)
	}

	cur := m.screens[m.env.current]
	if cur.capturing() {
		return m, cur.update(msg)
	}

	switch {
	case key.Matches(msg, keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, keys.CycleTheme):
		m.env.theme = GetTheme(NextTheme(m.env.theme.Name))
		m.env.prefs.Theme = m.env.theme.Name
		m.env.savePrefs()
		return m, nil

	case key.Matches(msg, keys.Logout):
		m = m.logout()
		return m, tea.Batch(m.login.init(), flashCmd("Anda telah logout"))

	case key.Matches(msg, keys.Tab):
		return m.switchTo(m.offsetScreen(1))

	case key.Matches(msg, keys.ShiftTab):
		return m.switchTo(m.offsetScreen(-1))
	}

	for i, b := range keys.Screens {
		if key.Matches(msg, b) {
			return m.switchTo(screenOrder[i])
		}
	}

	return m, cur.update(msg)
}

func (m Model) offsetScreen(delta int) Screen {
	n := len(screenOrder)
	for i, s := range screenOrder {
		if s == m.env.current {
			return screenOrder[((i+delta)%n+n)%n]
		}
	}
	return ScreenDashboard
}

func (m Model) switchTo(s Screen) (tea.Model, tea.Cmd) {
	m.env.current = s
	return m, m.screens[s].mount()
}

func (m Model) logout() Model {
	if err := m.env.session.Logout(); err != nil {
		m.env.logger.Warn("logout failed", "error", err)
	} else {
		m.env.logger.Info("logged out")
	}
	m.authed = false
	m.env.current = ScreenDashboard
	m.login.reset()
	return m
}

// renderMain renders the full UI: header, command bar, content, status line.
func (m Model) renderMain() string {
	contentHeight := max(m.height-chromeHeight, 1)
	return m.renderHeader() + "\n" +
		m.renderCommandBar() + "\n" +
		m.screens[m.env.current].view(m.width, contentHeight) + "\n" +
		m.renderStatusLine()
}

// Messages

// flashMsg shows a transient status-line message.
type flashMsg struct {
	text   string
	danger bool
}

type clearFlashMsg struct{ seq int }

// noticeMsg opens the blocking alert.
type noticeMsg struct {
	title string
	err   error
}

type loggedInMsg struct{}

// pickImageMsg asks the gallery to pick an image for field of the editor
// on screen from.
type pickImageMsg struct {
	from  Screen
	field string
}

// imagePickedMsg returns the chosen URL to the editor on screen to.
type imagePickedMsg struct {
	to    Screen
	field string
	url   string
}

type pickCancelledMsg struct{ to Screen }

// Commands

func flashCmd(text string) tea.Cmd {
	return func() tea.Msg { return flashMsg{text: text} }
}

func flashErrCmd(text string) tea.Cmd {
	return func() tea.Msg { return flashMsg{text: text, danger: true} }
}

func noticeCmd(title string, err error) tea.Cmd {
	return func() tea.Msg { return noticeMsg{title: title, err: err} }
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.env.ctx))
	_, err := p.Run()
	return err
}
