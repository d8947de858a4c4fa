package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Logout     key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Escape     key.Binding
	Screens    []key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	NextPage key.Binding
	PrevPage key.Binding

	// List actions
	Search  key.Binding
	Sort    key.Binding
	Reverse key.Binding
	Refresh key.Binding
	Add     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Detail  key.Binding

	// Forms
	Confirm   key.Binding
	NextField key.Binding
	PrevField key.Binding
	Pick      key.Binding
	Yes       key.Binding
	No        key.Binding

	// Member panel inside the group editor
	MemberUp     key.Binding
	MemberDown   key.Binding
	MemberAdd    key.Binding
	MemberSettle key.Binding
	MemberRemove key.Binding

	// Screen-specific
	Approve    key.Binding
	Reject     key.Binding
	Transfer   key.Binding
	History    key.Binding
	Select     key.Binding
	BulkDelete key.Binding
	Upload     key.Binding
	Copy       key.Binding
	Follow     key.Binding
	Level      key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	screens := make([]key.Binding, len(screenOrder))
	for i, s := range screenOrder {
		k := string(rune('1' + i))
		screens[i] = key.NewBinding(key.WithKeys(k), key.WithHelp(k, s.String()))
	}

	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "Keluar")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "Bantuan")),
		CycleTheme: key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "Ganti tema")),
		Logout:     key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "Logout")),
		Tab:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "Layar berikutnya")),
		ShiftTab:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "Layar sebelumnya")),
		Escape:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "Batal")),
		Screens:    screens,

		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "Naik")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "Turun")),
		Top:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "Paling atas")),
		Bottom:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "Paling bawah")),
		NextPage: key.NewBinding(key.WithKeys("n", "pgdown", "right"), key.WithHelp("n", "Halaman berikutnya")),
		PrevPage: key.NewBinding(key.WithKeys("p", "pgup", "left"), key.WithHelp("p", "Halaman sebelumnya")),

		Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "Cari")),
		Sort:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "Urutkan")),
		Reverse: key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "Balik urutan")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "Muat ulang")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "Tambah")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "Ubah")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "Hapus")),
		Detail:  key.NewBinding(key.WithKeys("enter", "v"), key.WithHelp("enter", "Detail")),

		Confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "Simpan")),
		NextField: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "Kolom berikutnya")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "Kolom sebelumnya")),
		Pick:      key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "Pilih dari galeri")),
		Yes:       key.NewBinding(key.WithKeys("y", "Y", "enter"), key.WithHelp("y", "Ya")),
		No:        key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "Tidak")),

		MemberUp:     key.NewBinding(key.WithKeys("ctrl+up"), key.WithHelp("ctrl+↑", "Anggota sebelumnya")),
		MemberDown:   key.NewBinding(key.WithKeys("ctrl+down"), key.WithHelp("ctrl+↓", "Anggota berikutnya")),
		MemberAdd:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "Tambah anggota")),
		MemberSettle: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "Lunas / refund")),
		MemberRemove: key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "Hapus anggota")),

		Approve:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "Setujui")),
		Reject:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "Tolak")),
		Transfer:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "Kirim saldo")),
		History:    key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "Riwayat")),
		Select:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "Pilih")),
		BulkDelete: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "Hapus terpilih")),
		Upload:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "Unggah")),
		Copy:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "Salin URL")),
		Follow:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "Ikuti")),
		Level:      key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "Level")),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		append([]key.Binding{k.Tab, k.ShiftTab}, k.Screens...),
		{k.Up, k.Down, k.Top, k.Bottom, k.NextPage, k.PrevPage},
		{k.Search, k.Sort, k.Reverse, k.Refresh, k.Add, k.Edit, k.Delete, k.Detail},
		{k.Confirm, k.NextField, k.PrevField, k.Pick, k.Escape},
		{k.MemberUp, k.MemberDown, k.MemberAdd, k.MemberSettle, k.MemberRemove},
		{k.Approve, k.Reject, k.Transfer, k.History, k.Select, k.BulkDelete, k.Upload, k.Copy},
		{k.CycleTheme, k.Logout, k.Help, k.Quit},
	}
}
