package ui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/arisanku/arisan-admin/internal/api"
	"github.com/arisanku/arisan-admin/internal/form"
	"github.com/arisanku/arisan-admin/internal/format"
	"github.com/arisanku/arisan-admin/internal/resource"
)

// listItem is a record the list screen can search, sort and identify.
type listItem interface {
	resource.Record
	resource.Viewable
}

// column is one table column. A zero width shares the remaining space.
type column[T any] struct {
	title   string
	width   int
	sortKey string
	value   func(T) string
	badge   bool
}

// listSpec describes what a list screen shows and which operations it
// offers. Nil hooks disable the matching feature.
type listSpec[T listItem] struct {
	screen   Screen
	noun     string
	columns  []column[T]
	sortKeys []string
	// arrange orders the collection while no sort key is selected.
	arrange func([]T) []T
	// describe names a record in confirmations.
	describe func(T) string

	fields   func() []form.Field
	prefill  func(T) map[string]string
	payload  func(b *form.Buffer, creating bool) (any, error)
	pickable []string
	noCreate bool
	noEdit   bool
	noDelete bool

	detail     func(s *listScreen[T], r T, styles Styles, width int) string
	openDetail func(s *listScreen[T], r T) tea.Cmd

	// Group editor: a panel under the form, its keys, and the nested
	// member form.
	editorPanel func(s *listScreen[T], r T, styles Styles, width int) string
	editorKeys  func(s *listScreen[T], msg tea.KeyMsg) (tea.Cmd, bool)
	childTitle  string
	childFields func() []form.Field
	childSubmit func(s *listScreen[T], parent T, b *form.Buffer) (tea.Cmd, error)

	banner      func(s *listScreen[T], width int) string
	keys        func(s *listScreen[T], msg tea.KeyMsg) (tea.Cmd, bool)
	afterEdit   func(s *listScreen[T], r T) tea.Cmd
	onMsg       func(s *listScreen[T], msg tea.Msg) tea.Cmd
	onMount     func(s *listScreen[T]) tea.Cmd
	onQuery     func(q resource.Query)
	capture     func() bool
	extra       []command
	multiSelect bool
}

// listScreen is the generic searchable, sortable, paginated table with a
// create/edit form, delete confirmation and detail overlay.
type listScreen[T listItem] struct {
	env  *env
	spec listSpec[T]
	ctrl *resource.Controller[T]

	query   resource.Query
	cursor  int
	loading bool

	session resource.Session[T]
	editor  *formEditor
	child   *formEditor
	modal   Modal

	search    textinput.Model
	searching bool

	selected map[string]bool

	width  int
	height int
}

func newListScreen[T listItem](e *env, spec listSpec[T], backend resource.Backend[T]) *listScreen[T] {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "cari…"
	ti.CharLimit = 100

	s := &listScreen[T]{
		env:      e,
		spec:     spec,
		ctrl:     resource.NewController(strings.ToLower(spec.screen.String()), backend, e.logger),
		query:    resource.Query{Page: 1, PageSize: e.cfg.PageSize},
		search:   ti,
		selected: make(map[string]bool),
	}
	return s
}

func (s *listScreen[T]) id() Screen { return s.spec.screen }

func (s *listScreen[T]) capturing() bool {
	if s.spec.capture != nil && s.spec.capture() {
		return true
	}
	return s.searching || s.session.Open() || s.modal != nil
}

func (s *listScreen[T]) mount() tea.Cmd {
	cmd := s.fetch()
	if s.spec.onMount != nil {
		return tea.Batch(cmd, s.spec.onMount(s))
	}
	return cmd
}

// fetch reloads the collection unless a load is already running.
func (s *listScreen[T]) fetch() tea.Cmd {
	if s.loading {
		return nil
	}
	s.loading = true
	ctx, ctrl, screen := s.env.ctx, s.ctrl, s.spec.screen
	return func() tea.Msg {
		return fetchedMsg{screen: screen, err: ctrl.FetchAll(ctx)}
	}
}

// page derives the visible window from the latest snapshot.
func (s *listScreen[T]) page() resource.Page[T] {
	items := s.ctrl.Snapshot().Items
	if s.spec.arrange != nil && s.query.SortKey == "" {
		items = s.spec.arrange(items)
	}
	return resource.Derive(items, s.query)
}

// current returns the record under the cursor.
func (s *listScreen[T]) current() (T, bool) {
	p := s.page()
	if s.cursor < 0 || s.cursor >= len(p.Items) {
		var zero T
		return zero, false
	}
	return p.Items[s.cursor], true
}

func (s *listScreen[T]) clamp() {
	p := s.page()
	s.query.Page = p.Page
	if s.cursor >= len(p.Items) {
		s.cursor = len(p.Items) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// writeOp is one backend write started from this screen.
type writeOp struct {
	action string // infinitive for the failure notice, e.g. "menyimpan"
	id     string // record reselected after the write
	done   string // flash text on success
	stay   bool   // keep the editor open (member actions)
	direct bool   // not tied to the session, e.g. order decisions
	run    func(context.Context) error
	then   func() tea.Cmd
}

func (s *listScreen[T]) write(op writeOp) tea.Cmd {
	ctx, screen := s.env.ctx, s.spec.screen
	return func() tea.Msg {
		return writtenMsg{screen: screen, op: op, err: op.run(ctx)}
	}
}

func (s *listScreen[T]) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width, s.height = msg.Width, msg.Height
		return nil

	case tea.KeyMsg:
		return s.handleKey(msg)

	case fetchedMsg:
		if msg.screen != s.spec.screen {
			return nil
		}
		return s.handleFetched(msg)

	case writtenMsg:
		if msg.screen != s.spec.screen {
			return nil
		}
		return s.handleWritten(msg)

	case reselectedMsg[T]:
		if msg.screen != s.spec.screen {
			return nil
		}
		s.clamp()
		if msg.err != nil {
			return flashErrCmd("Gagal memuat ulang: " + errorText(msg.err))
		}
		if msg.ok {
			s.session.Reselect(msg.record)
		}
		return nil

	case bulkDoneMsg:
		if msg.screen != s.spec.screen {
			return nil
		}
		return s.handleBulkDone(msg)

	case imagePickedMsg:
		if msg.to != s.spec.screen {
			return nil
		}
		if s.child != nil {
			s.child.apply(msg.field, msg.url)
		} else if s.editor != nil {
			s.editor.apply(msg.field, msg.url)
		}
		return flashCmd("Gambar dipilih")
	}

	if s.spec.onMsg != nil {
		return s.spec.onMsg(s, msg)
	}
	return nil
}

func (s *listScreen[T]) handleFetched(msg fetchedMsg) tea.Cmd {
	s.loading = false
	s.clamp()
	if target, ok := s.session.Target(); ok {
		if fresh, found := resource.Find(s.ctrl.Snapshot().Items, target.RecordID()); found {
			s.session.Reselect(fresh)
		}
	}
	if msg.err == nil {
		return nil
	}
	if api.IsUnauthorized(msg.err) {
		return noticeCmd("Gagal memuat "+s.spec.noun, msg.err)
	}
	return flashErrCmd("Gagal memuat " + s.spec.noun + ": " + errorText(msg.err))
}

func (s *listScreen[T]) handleWritten(msg writtenMsg) tea.Cmd {
	op := msg.op
	if msg.err != nil {
		if !op.direct {
			s.session.Fail(msg.err)
		}
		return noticeCmd("Gagal "+op.action, msg.err)
	}

	var refreshed *T
	if op.id != "" {
		if r, ok := resource.Find(s.ctrl.Snapshot().Items, op.id); ok {
			refreshed = &r
		}
	}
	switch {
	case op.direct:
	case s.session.Mode() == resource.ModeAddingMember:
		s.session.Succeed(refreshed)
		s.child = nil
	case op.stay:
		s.session.Settle(refreshed)
	default:
		s.session.Succeed(nil)
		s.editor = nil
	}
	s.clamp()
	if op.then != nil {
		return tea.Batch(flashCmd(op.done), op.then())
	}
	return flashCmd(op.done)
}

func (s *listScreen[T]) handleBulkDone(msg bulkDoneMsg) tea.Cmd {
	if msg.err != nil {
		return noticeCmd("Gagal menghapus", msg.err)
	}
	for _, id := range msg.result.Succeeded {
		delete(s.selected, id)
	}
	s.clamp()
	ok, failed := msg.result.Counts()
	if failed > 0 {
		return noticeCmd("Hapus massal",
			fmt.Errorf("%d berhasil, %d gagal: %s", ok, failed, errorText(msg.result.Failed[0].Err)))
	}
	return flashCmd(fmt.Sprintf("%d %s dihapus", ok, strings.ToLower(s.spec.noun)))
}

func (s *listScreen[T]) handleKey(msg tea.KeyMsg) tea.Cmd {
	keys := s.env.keys

	if s.modal != nil {
		next, cmd, done := s.modal.Update(msg, keys)
		if done {
			s.modal = nil
		} else {
			s.modal = next
		}
		return cmd
	}
	if s.searching {
		return s.handleSearchKey(msg)
	}

	switch s.session.Mode() {
	case resource.ModeEditing:
		return s.handleEditorKey(msg)
	case resource.ModeAddingMember:
		return s.handleChildKey(msg)
	case resource.ModeConfirmingDelete:
		return s.handleDeleteKey(msg)
	case resource.ModeViewingDetail:
		if key.Matches(msg, keys.Escape) || key.Matches(msg, keys.Detail) || msg.String() == "q" {
			s.session.Cancel()
		}
		return nil
	}

	if s.spec.keys != nil {
		if cmd, handled := s.spec.keys(s, msg); handled {
			return cmd
		}
	}

	switch {
	case key.Matches(msg, keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
	case key.Matches(msg, keys.Down):
		if s.cursor < len(s.page().Items)-1 {
			s.cursor++
		}
	case key.Matches(msg, keys.Top):
		s.cursor = 0
	case key.Matches(msg, keys.Bottom):
		s.cursor = max(len(s.page().Items)-1, 0)
	case key.Matches(msg, keys.NextPage):
		s.query.NextPage()
		s.cursor = 0
		s.clamp()
	case key.Matches(msg, keys.PrevPage):
		s.query.PrevPage()
		s.cursor = 0
		s.clamp()
	case key.Matches(msg, keys.Search):
		s.searching = true
		s.search.SetValue(s.query.Search)
		s.search.CursorEnd()
		return s.search.Focus()
	case key.Matches(msg, keys.Sort):
		s.cycleSort()
	case key.Matches(msg, keys.Reverse):
		if s.query.SortKey != "" {
			s.query.ToggleSort(s.query.SortKey)
			s.queryChanged()
		}
	case key.Matches(msg, keys.Refresh):
		return s.fetch()
	case key.Matches(msg, keys.Add):
		return s.openCreate()
	case key.Matches(msg, keys.Edit):
		return s.openEdit()
	case key.Matches(msg, keys.Delete):
		if r, ok := s.current(); ok && !s.spec.noDelete {
			s.session.OpenDelete(r)
		}
	case key.Matches(msg, keys.Detail):
		if s.spec.detail == nil {
			return s.openEdit()
		}
		if r, ok := s.current(); ok && s.session.OpenDetail(r) && s.spec.openDetail != nil {
			return s.spec.openDetail(s, r)
		}
	case s.spec.multiSelect && key.Matches(msg, keys.Select):
		if r, ok := s.current(); ok {
			id := r.RecordID()
			if s.selected[id] {
				delete(s.selected, id)
			} else {
				s.selected[id] = true
			}
			if s.cursor < len(s.page().Items)-1 {
				s.cursor++
			}
		}
	}
	return nil
}

// cycleSort moves to the next sort key. A single key toggles direction.
func (s *listScreen[T]) cycleSort() {
	keys := s.spec.sortKeys
	if len(keys) == 0 {
		return
	}
	next := keys[0]
	if i := slices.Index(keys, s.query.SortKey); i >= 0 && len(keys) > 1 {
		next = keys[(i+1)%len(keys)]
	}
	s.query.ToggleSort(next)
	s.queryChanged()
}

func (s *listScreen[T]) queryChanged() {
	s.cursor = 0
	s.clamp()
	if s.spec.onQuery != nil {
		s.spec.onQuery(s.query)
	}
}

func (s *listScreen[T]) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	keys := s.env.keys
	switch {
	case key.Matches(msg, keys.Escape):
		s.searching = false
		s.search.Blur()
		s.search.SetValue("")
		s.query.SetSearch("")
		s.queryChanged()
		return nil
	case msg.String() == "enter":
		s.searching = false
		s.search.Blur()
		return nil
	}
	var cmd tea.Cmd
	s.search, cmd = s.search.Update(msg)
	if s.search.Value() != s.query.Search {
		s.query.SetSearch(s.search.Value())
		s.queryChanged()
	}
	return cmd
}

func (s *listScreen[T]) openCreate() tea.Cmd {
	if s.spec.noCreate || s.spec.fields == nil || !s.session.OpenCreate() {
		return nil
	}
	s.editor = newFormEditor("Tambah "+s.spec.noun, form.New(s.spec.fields()...), s.spec.pickable...)
	return nil
}

func (s *listScreen[T]) openEdit() tea.Cmd {
	if s.spec.noEdit || s.spec.fields == nil {
		return nil
	}
	r, ok := s.current()
	if !ok || !s.session.OpenEdit(r) {
		return nil
	}
	buf := form.New(s.spec.fields()...)
	if s.spec.prefill != nil {
		buf.Prefill(s.spec.prefill(r))
	}
	s.editor = newFormEditor("Ubah "+s.spec.noun, buf, s.spec.pickable...)
	if s.spec.afterEdit != nil {
		return s.spec.afterEdit(s, r)
	}
	return nil
}

// reselect refetches and swaps the open target for its fresh copy.
func (s *listScreen[T]) reselect(id string) tea.Cmd {
	ctx, ctrl, screen := s.env.ctx, s.ctrl, s.spec.screen
	return func() tea.Msg {
		r, ok, err := ctrl.RefreshAndReselect(ctx, id)
		return reselectedMsg[T]{screen: screen, record: r, ok: ok, err: err}
	}
}

func (s *listScreen[T]) handleEditorKey(msg tea.KeyMsg) tea.Cmd {
	keys := s.env.keys
	if s.session.Submitting() {
		return nil
	}
	switch {
	case key.Matches(msg, keys.Escape):
		s.session.Cancel()
		s.editor = nil
		return nil
	case key.Matches(msg, keys.Pick):
		if s.editor.canPick() {
			from, field := s.spec.screen, s.editor.focused().Name
			return func() tea.Msg { return pickImageMsg{from: from, field: field} }
		}
		return nil
	case key.Matches(msg, keys.Confirm):
		return s.submit()
	}
	if s.spec.editorKeys != nil {
		if cmd, handled := s.spec.editorKeys(s, msg); handled {
			return cmd
		}
	}
	return s.editor.update(msg, keys)
}

// submit validates the form and starts the create or update write.
func (s *listScreen[T]) submit() tea.Cmd {
	s.editor.sync()
	target, editing := s.session.Target()
	payload, err := s.spec.payload(s.editor.buf, !editing)
	if err != nil {
		s.session.Fail(err)
		return nil
	}
	if err := s.session.Begin(); err != nil {
		return nil
	}
	if editing {
		id := target.RecordID()
		return s.write(writeOp{
			action: "menyimpan " + strings.ToLower(s.spec.noun),
			id:     id,
			done:   s.spec.noun + " diperbarui",
			run: func(ctx context.Context) error {
				return s.ctrl.Update(ctx, id, payload)
			},
		})
	}
	return s.write(writeOp{
		action: "menambah " + strings.ToLower(s.spec.noun),
		done:   s.spec.noun + " ditambahkan",
		run: func(ctx context.Context) error {
			return s.ctrl.Create(ctx, payload)
		},
	})
}

// openChild enters the nested member form of the record being edited.
func (s *listScreen[T]) openChild() tea.Cmd {
	if s.spec.childFields == nil || !s.session.OpenAddMember() {
		return nil
	}
	s.child = newFormEditor(s.spec.childTitle, form.New(s.spec.childFields()...))
	return nil
}

func (s *listScreen[T]) handleChildKey(msg tea.KeyMsg) tea.Cmd {
	keys := s.env.keys
	if s.session.Submitting() {
		return nil
	}
	switch {
	case key.Matches(msg, keys.Escape):
		s.session.Cancel()
		s.child = nil
		return nil
	case key.Matches(msg, keys.Confirm):
		s.child.sync()
		parent, ok := s.session.Target()
		if !ok {
			return nil
		}
		cmd, err := s.spec.childSubmit(s, parent, s.child.buf)
		if err != nil {
			s.session.Fail(err)
			return nil
		}
		if err := s.session.Begin(); err != nil {
			return nil
		}
		return cmd
	}
	return s.child.update(msg, keys)
}

func (s *listScreen[T]) handleDeleteKey(msg tea.KeyMsg) tea.Cmd {
	keys := s.env.keys
	if s.session.Submitting() {
		return nil
	}
	switch {
	case key.Matches(msg, keys.Yes):
		target, ok := s.session.Target()
		if !ok || s.session.Begin() != nil {
			return nil
		}
		id := target.RecordID()
		return s.write(writeOp{
			action: "menghapus " + strings.ToLower(s.spec.noun),
			done:   s.spec.noun + " dihapus",
			run: func(ctx context.Context) error {
				return s.ctrl.Remove(ctx, id)
			},
		})
	case key.Matches(msg, keys.No):
		s.session.Cancel()
	}
	return nil
}

func (s *listScreen[T]) commands() []command {
	if s.session.Open() || s.modal != nil || s.searching {
		return []command{{"enter", "Simpan/Ya"}, {"tab", "Kolom"}, {"esc", "Batal"}}
	}
	cmds := []command{{"/", "Cari"}, {"s", "Urut"}, {"n/p", "Hal"}, {"r", "Muat"}}
	if !s.spec.noCreate && s.spec.fields != nil {
		cmds = append(cmds, command{"a", "Tambah"})
	}
	if !s.spec.noEdit && s.spec.fields != nil {
		cmds = append(cmds, command{"e", "Ubah"})
	}
	if !s.spec.noDelete {
		cmds = append(cmds, command{"d", "Hapus"})
	}
	if s.spec.detail != nil {
		cmds = append(cmds, command{"enter", "Detail"})
	}
	return append(cmds, s.spec.extra...)
}

func (s *listScreen[T]) describe(r T) string {
	if s.spec.describe != nil {
		return s.spec.describe(r)
	}
	return r.RecordID()
}

// Rendering

func (s *listScreen[T]) view(width, height int) string {
	theme := s.env.theme
	styles := theme.Styles()

	if s.modal != nil {
		return s.modal.View(theme, width, height)
	}

	switch s.session.Mode() {
	case resource.ModeEditing:
		return renderDialog(theme, s.renderEditor(styles, width), min(width-4, 96), width, height)
	case resource.ModeAddingMember:
		return renderDialog(theme, s.renderChild(styles), 64, width, height)
	case resource.ModeConfirmingDelete:
		target, _ := s.session.Target()
		text := fmt.Sprintf("Hapus %q? Tindakan ini tidak bisa dibatalkan.", s.describe(target))
		body := promptBody(styles, "Hapus "+s.spec.noun, text, true)
		if s.session.Submitting() {
			body += "\n" + styles.WarningText.Render("Menghapus…")
		}
		return renderDialog(theme, body, 56, width, height)
	case resource.ModeViewingDetail:
		target, _ := s.session.Target()
		body := styles.AccentText.Bold(true).Render(s.spec.noun+" · "+s.describe(target)) + "\n\n" +
			s.spec.detail(s, target, styles, min(width-8, 92)) + "\n\n" +
			hintLine(styles, "esc", "Tutup")
		return renderDialog(theme, body, min(width-4, 96), width, height)
	}

	var banner string
	bannerHeight := 0
	if s.spec.banner != nil {
		banner = s.spec.banner(s, width)
		bannerHeight = strings.Count(banner, "\n") + 1
	}

	page := s.page()
	tableHeight := max(height-bannerHeight-1, 3)
	title := fmt.Sprintf("%s (%s)", s.spec.noun, format.Number(int64(page.Total)))
	table := renderTitledBox(theme, title, s.renderRows(page, width-2, tableHeight-2), width, tableHeight, true)

	out := table + "\n" + s.renderFooter(page, width)
	if banner != "" {
		out = banner + "\n" + out
	}
	return out
}

func (s *listScreen[T]) renderEditor(styles Styles, width int) string {
	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(s.editor.title))
	b.WriteString("\n\n")
	b.WriteString(s.editor.view(styles))

	if target, ok := s.session.Target(); ok && s.spec.editorPanel != nil {
		b.WriteString("\n\n")
		b.WriteString(s.spec.editorPanel(s, target, styles, min(width-8, 92)))
	}
	if err := s.session.Err(); err != nil {
		b.WriteString("\n\n")
		b.WriteString(styles.DangerText.Render(errorText(err)))
	}
	if s.session.Submitting() {
		b.WriteString("\n\n")
		b.WriteString(styles.WarningText.Render("Menyimpan…"))
	}

	hints := []string{"enter", "Simpan", "tab", "Kolom"}
	if len(s.spec.pickable) > 0 {
		hints = append(hints, "ctrl+g", "Galeri (*)")
	}
	hints = append(hints, "esc", "Batal")
	b.WriteString("\n\n")
	b.WriteString(hintLine(styles, hints...))
	return b.String()
}

func (s *listScreen[T]) renderChild(styles Styles) string {
	var b strings.Builder
	title := s.spec.childTitle
	if parent, ok := s.session.Target(); ok {
		title += " · " + s.describe(parent)
	}
	b.WriteString(styles.AccentText.Bold(true).Render(title))
	b.WriteString("\n\n")
	b.WriteString(s.child.view(styles))
	if err := s.session.Err(); err != nil {
		b.WriteString("\n\n")
		b.WriteString(styles.DangerText.Render(errorText(err)))
	}
	if s.session.Submitting() {
		b.WriteString("\n\n")
		b.WriteString(styles.WarningText.Render("Menyimpan…"))
	}
	b.WriteString("\n\n")
	b.WriteString(hintLine(styles, "enter", "Tambah", "esc", "Kembali"))
	return b.String()
}

// columnWidths spreads width over the columns, one cell apart.
func (s *listScreen[T]) columnWidths(width int) []int {
	cols := s.spec.columns
	widths := make([]int, len(cols))
	fixed, flex := 0, 0
	for i, c := range cols {
		widths[i] = c.width
		fixed += c.width
		if c.width == 0 {
			flex++
		}
	}
	if flex > 0 {
		rest := width - fixed - len(cols)
		share := max(rest/flex, 8)
		for i := range widths {
			if widths[i] == 0 {
				widths[i] = share
			}
		}
	}
	return widths
}

func (s *listScreen[T]) renderRows(page resource.Page[T], width, height int) string {
	theme := s.env.theme
	styles := theme.Styles().WithBackground(theme.FocusBg)
	snap := s.ctrl.Snapshot()

	if !snap.Loaded && len(page.Items) == 0 {
		if snap.LastError != nil {
			return styles.DangerText.Render(" " + errorText(snap.LastError))
		}
		return styles.MutedText.Render(" Memuat…")
	}

	inner := width - 2
	widths := s.columnWidths(inner)

	header := make([]string, len(s.spec.columns))
	for i, c := range s.spec.columns {
		title := c.title
		if c.sortKey != "" && c.sortKey == s.query.SortKey {
			title += ternary(s.query.Desc, " ▼", " ▲")
		}
		header[i] = fit(title, widths[i])
	}
	lines := []string{"  " + styles.MutedText.Bold(true).Render(strings.Join(header, " "))}

	if len(page.Items) == 0 {
		lines = append(lines, "  "+styles.MutedText.Render("Tidak ada data"))
		return strings.Join(lines, "\n")
	}

	visible := max(height-1, 1)
	start := 0
	if s.cursor >= visible {
		start = s.cursor - visible + 1
	}
	end := min(start+visible, len(page.Items))

	for i := start; i < end; i++ {
		r := page.Items[i]
		marker := "  "
		if s.spec.multiSelect && s.selected[r.RecordID()] {
			marker = "● "
		}
		cells := make([]string, len(s.spec.columns))
		plain := make([]string, len(s.spec.columns))
		for j, c := range s.spec.columns {
			v := c.value(r)
			plain[j] = fit(v, widths[j])
			if c.badge && v != "" {
				cells[j] = padRight(styles.StatusStyle(v).Render(truncate(v, widths[j]-2)), widths[j])
			} else {
				cells[j] = styles.Text.Render(plain[j])
			}
		}
		if i == s.cursor {
			lines = append(lines, styles.Selected.Width(width).Render(marker+strings.Join(plain, " ")))
			continue
		}
		lines = append(lines, styles.AccentText.Render(marker)+strings.Join(cells, styles.Text.Render(" ")))
	}
	return strings.Join(lines, "\n")
}

func (s *listScreen[T]) renderFooter(page resource.Page[T], width int) string {
	styles := s.env.theme.Styles()
	if s.searching {
		return " " + s.search.View()
	}

	parts := []string{
		styles.MutedText.Render(fmt.Sprintf("Hal %d/%d", page.Page, page.PageCount)),
		styles.MutedText.Render(format.Number(int64(page.Total)) + " data"),
	}
	if s.query.SortKey != "" {
		parts = append(parts, styles.MutedText.Render("urut "+s.query.SortKey+ternary(s.query.Desc, " ▼", " ▲")))
	}
	if s.query.Search != "" {
		parts = append(parts, styles.AccentText.Render(fmt.Sprintf("cari %q", s.query.Search)))
	}
	if n := len(s.selected); s.spec.multiSelect && n > 0 {
		parts = append(parts, styles.WarningText.Render(fmt.Sprintf("%d dipilih", n)))
	}
	if s.loading {
		parts = append(parts, styles.InfoText.Render("memuat…"))
	}
	if snap := s.ctrl.Snapshot(); snap.Stale() {
		msg := "! " + errorText(snap.LastError) + " · data lama"
		parts = append(parts, styles.DangerText.Render(truncate(msg, max(width/2, 20))))
	}
	return " " + strings.Join(parts, styles.FaintText.Render(" · "))
}

// Messages

type fetchedMsg struct {
	screen Screen
	err    error
}

type writtenMsg struct {
	screen Screen
	op     writeOp
	err    error
}

type reselectedMsg[T any] struct {
	screen Screen
	record T
	ok     bool
	err    error
}

type bulkDoneMsg struct {
	screen Screen
	result resource.BulkResult
	err    error
}
