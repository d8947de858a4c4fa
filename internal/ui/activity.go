package ui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arisanku/arisan-admin/internal/logtail"
)

const activityRefreshInterval = 2 * time.Second

// activityLevels is the cycle order of the minimum level filter.
var activityLevels = []string{"debug", "info", "warn", "error"}

var (
	activityTimeRe  = regexp.MustCompile(`^(\d{2}:\d{2}:\d{2})`)
	activityLevelRe = regexp.MustCompile(`\b(DEBUG|INFO|WARN|ERROR)\b`)
)

type activityLoadedMsg struct {
	lines []string
	err   error
}

type activityTickMsg struct{}

// activityScreen tails the console's own log file.
type activityScreen struct {
	env *env

	lines    []string
	loadErr  error
	loading  bool
	loadedAt time.Time
	follow   bool
	level    int
	ticking  bool

	search         textinput.Model
	searching      bool
	searchRe       *regexp.Regexp
	searchMatches  []int
	searchMatchIdx int

	pane   viewport.Model
	width  int
	height int
}

func newActivityScreen(e *env) *activityScreen {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "cari log…"
	ti.CharLimit = 100

	return &activityScreen{
		env:    e,
		follow: true,
		level:  1,
		search: ti,
		pane:   viewport.New(0, 0),
	}
}

func (a *activityScreen) id() Screen { return ScreenActivity }

func (a *activityScreen) capturing() bool { return a.searching }

func (a *activityScreen) mount() tea.Cmd {
	cmds := []tea.Cmd{a.load()}
	if a.follow && !a.ticking {
		a.ticking = true
		cmds = append(cmds, activityTick())
	}
	return tea.Batch(cmds...)
}

func activityTick() tea.Cmd {
	return tea.Tick(activityRefreshInterval, func(time.Time) tea.Msg { return activityTickMsg{} })
}

// load reads the tail of the log file off the update loop.
func (a *activityScreen) load() tea.Cmd {
	if a.loading {
		return nil
	}
	a.loading = true
	path, level := a.env.cfg.LogPath(), activityLevels[a.level]
	return func() tea.Msg {
		entries, err := logtail.Tail(path, ActivityLineLimit, level)
		if err != nil {
			return activityLoadedMsg{err: err}
		}
		lines := make([]string, 0, len(entries))
		for _, e := range entries {
			lines = append(lines, logtail.Format(e))
		}
		return activityLoadedMsg{lines: lines}
	}
}

func (a *activityScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.resize()
		return nil

	case activityLoadedMsg:
		a.loading = false
		a.loadErr = msg.err
		if msg.err == nil {
			a.lines = msg.lines
			a.loadedAt = time.Now()
			a.findMatches()
		}
		a.refresh()
		return nil

	case activityTickMsg:
		if !a.follow || a.env.current != ScreenActivity {
			a.ticking = false
			return nil
		}
		return tea.Batch(a.load(), activityTick())

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return nil
}

func (a *activityScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	keys := a.env.keys
	if a.searching {
		return a.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Follow):
		a.follow = !a.follow
		if a.follow {
			a.pane.GotoBottom()
			if !a.ticking {
				a.ticking = true
				return tea.Batch(a.load(), activityTick())
			}
		}
		return nil

	case key.Matches(msg, keys.Level):
		a.level = (a.level + 1) % len(activityLevels)
		return tea.Batch(a.load(), flashCmd("Level minimum: "+strings.ToUpper(activityLevels[a.level])))

	case key.Matches(msg, keys.Refresh):
		return a.load()

	case key.Matches(msg, keys.Search):
		a.searching = true
		return a.search.Focus()

	case key.Matches(msg, keys.Escape):
		if a.searchRe != nil {
			a.clearSearch()
		}
		return nil

	case key.Matches(msg, keys.Up):
		a.follow = false
		a.pane.ScrollUp(1)
	case key.Matches(msg, keys.Down):
		a.pane.ScrollDown(1)
	case key.Matches(msg, keys.Top):
		a.follow = false
		a.pane.GotoTop()
	case key.Matches(msg, keys.Bottom):
		a.pane.GotoBottom()

	case key.Matches(msg, keys.NextPage):
		if a.searchRe != nil {
			a.stepMatch(1)
			return nil
		}
		a.pane.PageDown()
	case key.Matches(msg, keys.PrevPage):
		if a.searchRe != nil {
			a.stepMatch(-1)
			return nil
		}
		a.follow = false
		a.pane.PageUp()
	}
	return nil
}

func (a *activityScreen) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	keys := a.env.keys
	switch {
	case key.Matches(msg, keys.Confirm):
		a.searching = false
		a.search.Blur()
		query := a.search.Value()
		if query == "" {
			a.clearSearch()
			return nil
		}
		re, err := regexp.Compile("(?i)" + query)
		if err != nil {
			return flashErrCmd("Pola tidak valid: " + err.Error())
		}
		a.searchRe = re
		a.findMatches()
		if len(a.searchMatches) == 0 {
			a.refresh()
			return flashErrCmd("Tidak ada yang cocok")
		}
		a.searchMatchIdx = len(a.searchMatches) - 1
		a.scrollToMatch()
		return nil

	case key.Matches(msg, keys.Escape):
		a.searching = false
		a.search.Blur()
		a.search.SetValue("")
		return nil
	}

	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	return cmd
}

func (a *activityScreen) clearSearch() {
	a.searchRe = nil
	a.searchMatches = nil
	a.searchMatchIdx = 0
	a.search.SetValue("")
	a.refresh()
}

func (a *activityScreen) findMatches() {
	a.searchMatches = nil
	if a.searchRe == nil {
		return
	}
	for i, line := range a.lines {
		if a.searchRe.MatchString(line) {
			a.searchMatches = append(a.searchMatches, i)
		}
	}
	if a.searchMatchIdx >= len(a.searchMatches) {
		a.searchMatchIdx = max(len(a.searchMatches)-1, 0)
	}
}

func (a *activityScreen) stepMatch(delta int) {
	n := len(a.searchMatches)
	if n == 0 {
		return
	}
	a.searchMatchIdx = (a.searchMatchIdx + delta + n) % n
	a.scrollToMatch()
}

// scrollToMatch centers the active match and stops following.
func (a *activityScreen) scrollToMatch() {
	if a.searchMatchIdx >= len(a.searchMatches) {
		return
	}
	a.follow = false
	a.refresh()
	target := a.searchMatches[a.searchMatchIdx]
	a.pane.SetYOffset(max(target-a.pane.Height/2, 0))
}

// resize fits the viewport inside the titled box and status line.
func (a *activityScreen) resize() {
	a.pane.Width = max(a.width-4, 10)
	a.pane.Height = max(a.height-chromeHeight-3, 3)
	a.refresh()
}

// refresh re-renders the buffered lines into the viewport.
func (a *activityScreen) refresh() {
	styles := a.env.theme.Styles()
	a.pane.Style = lipgloss.NewStyle().Background(lipgloss.Color(a.env.theme.FocusBg))
	bg := NewBgStyle(a.env.theme.FocusBg)

	active := -1
	if a.searchMatchIdx < len(a.searchMatches) {
		active = a.searchMatches[a.searchMatchIdx]
	}

	rendered := make([]string, len(a.lines))
	for i, line := range a.lines {
		switch {
		case i == active:
			rendered[i] = lipgloss.NewStyle().
				Background(lipgloss.Color(a.env.theme.Accent)).
				Foreground(lipgloss.Color(a.env.theme.Background)).
				Render(line)
		case a.searchRe != nil && a.searchRe.MatchString(line):
			rendered[i] = bg.Render(line, styles.AccentText)
		default:
			rendered[i] = colorizeLogLine(line, styles, bg)
		}
	}
	a.pane.SetContent(strings.Join(rendered, "\n"))
	if a.follow {
		a.pane.GotoBottom()
	}
}

// colorizeLogLine colors the time and level prefix of a formatted entry.
func colorizeLogLine(line string, styles Styles, bg BgStyle) string {
	if strings.TrimSpace(line) == "" {
		return line
	}
	var b strings.Builder
	rest := line
	if m := activityTimeRe.FindStringSubmatchIndex(rest); m != nil {
		b.WriteString(bg.Render(rest[m[2]:m[3]], styles.FaintText))
		rest = rest[m[3]:]
	}
	if m := activityLevelRe.FindStringSubmatchIndex(rest); m != nil && strings.TrimSpace(rest[:m[2]]) == "" {
		level := rest[m[2]:m[3]]
		b.WriteString(bg.Space())
		b.WriteString(bg.Render(level, levelStyle(level, styles).Bold(true)))
		rest = rest[m[3]:]
	}
	b.WriteString(bg.Render(rest, styles.Text))
	return b.String()
}

func levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "INFO":
		return styles.SuccessText
	case "WARN":
		return styles.WarningText
	case "ERROR":
		return styles.DangerText
	case "DEBUG":
		return styles.InfoText
	default:
		return styles.Text
	}
}

func (a *activityScreen) commands() []command {
	return []command{
		{"f", boolLabel(a.follow, "Berhenti ikuti", "Ikuti")},
		{"l", "Level"},
		{"/", "Cari"},
		{"r", "Muat ulang"},
	}
}

func (a *activityScreen) view(width, height int) string {
	if a.width != width || a.height != height+chromeHeight {
		a.width, a.height = width, height+chromeHeight
		a.resize()
	}
	styles := a.env.theme.Styles()

	title := "Aktivitas · " + strings.ToUpper(activityLevels[a.level]) + "+"
	if a.follow {
		title += " · mengikuti"
	}
	box := renderTitledBox(a.env.theme, title, a.pane.View(), width, height-1, true)
	return box + "\n" + a.renderStatus(styles, width)
}

func (a *activityScreen) renderStatus(styles Styles, width int) string {
	if a.searching {
		return " " + a.search.View()
	}
	var parts []string
	switch {
	case a.loadErr != nil:
		parts = append(parts, styles.DangerText.Render(errorText(a.loadErr)))
	case len(a.lines) == 0 && !a.loading:
		parts = append(parts, styles.MutedText.Render("Tidak ada data"))
	default:
		parts = append(parts, styles.MutedText.Render(fmt.Sprintf("%d baris", len(a.lines))))
	}
	if a.searchRe != nil {
		pos := 0
		if len(a.searchMatches) > 0 {
			pos = a.searchMatchIdx + 1
		}
		parts = append(parts, styles.AccentText.Render(fmt.Sprintf("/%s %d/%d", a.search.Value(), pos, len(a.searchMatches))))
	}
	if !a.loadedAt.IsZero() {
		parts = append(parts, styles.FaintText.Render("dimuat "+a.loadedAt.Format("15:04:05")))
	}
	parts = append(parts, styles.FaintText.Render(truncateMiddle(a.env.cfg.LogPath(), max(width/3, 20))))
	return " " + strings.Join(parts, styles.FaintText.Render(" · "))
}
