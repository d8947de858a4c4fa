package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	theme := m.env.theme
	styles := theme.Styles()
	k := m.env.keys

	sections := []helpSection{
		{
			title: "Navigasi",
			items: []helpItem{
				{"tab/1-8", "Pindah layar"},
				{"j/k", "Naik/turun"},
				{"g/G", "Paling atas/bawah"},
				{"n/p", "Halaman berikutnya/sebelumnya"},
			},
		},
		{
			title: "Daftar",
			items: []helpItem{
				{k.Search.Help().Key, k.Search.Help().Desc},
				{"s/S", "Ganti kolom urut / balik arah"},
				{k.Refresh.Help().Key, k.Refresh.Help().Desc},
				{"a/e/d", "Tambah/ubah/hapus"},
				{k.Detail.Help().Key, k.Detail.Help().Desc},
			},
		},
		{
			title: "Formulir",
			items: []helpItem{
				{"tab", "Kolom berikutnya"},
				{"enter", "Simpan"},
				{k.Pick.Help().Key, k.Pick.Help().Desc},
				{"ctrl+n/p/x", "Anggota: tambah/lunas/hapus"},
				{"esc", "Batal"},
			},
		},
		{
			title: "Umum",
			items: []helpItem{
				{k.CycleTheme.Help().Key, k.CycleTheme.Help().Desc},
				{k.Logout.Help().Key, k.Logout.Help().Desc},
				{k.Help.Help().Key, k.Help.Help().Desc},
				{k.Quit.Help().Key, k.Quit.Help().Desc},
			},
		},
	}

	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("Pintasan Keyboard"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Warning)).
		Width(12)

	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")

		for _, item := range section.items {
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}

		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	return renderDialog(theme, b.String(), 48, m.width, m.height)
}

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}
