package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arisanku/arisan-admin/internal/api"
	"github.com/arisanku/arisan-admin/internal/dashboard"
	"github.com/arisanku/arisan-admin/internal/format"
)

type summaryMsg struct {
	summary dashboard.Summary
	err     error
}

// summaryCard is one tile of the dashboard banner.
type summaryCard struct {
	title string
	value string
	note  string
}

func newDashboardScreen(e *env) *listScreen[api.Order] {
	var (
		summary        dashboard.Summary
		summaryErr     error
		summaryLoading bool
	)

	loadSummary := func(s *listScreen[api.Order]) tea.Cmd {
		if summaryLoading {
			return nil
		}
		summaryLoading = true
		ctx, src, orders := s.env.ctx, dashboard.ServiceSource{Services: s.env.services}, s.ctrl.Snapshot().Items
		return func() tea.Msg {
			sum, err := dashboard.Load(ctx, src, orders)
			return summaryMsg{summary: sum, err: err}
		}
	}

	decide := func(s *listScreen[api.Order], status string) (tea.Cmd, bool) {
		o, ok := s.current()
		if !ok {
			return nil, true
		}
		if !o.Pending() {
			return flashErrCmd("Order sudah diproses"), true
		}
		verb := ternary(status == api.OrderApproved, "Setujui", "Tolak")
		s.modal = &promptModal{
			title:  verb + " Order",
			text:   fmt.Sprintf("%s order %s dari %s sebesar %s?", verb, o.Type, o.IDUser, format.RupiahFloat(o.Total())),
			danger: status == api.OrderRejected,
			onYes: func() tea.Cmd {
				return s.write(writeOp{
					action: ternary(status == api.OrderApproved, "menyetujui order", "menolak order"),
					id:     o.RecordID(),
					done:   "Order " + strings.ToLower(status),
					direct: true,
					run: func(ctx context.Context) error {
						return s.ctrl.Update(ctx, o.RecordID(), status)
					},
					then: func() tea.Cmd { return loadSummary(s) },
				})
			},
		}
		return nil, true
	}

	spec := listSpec[api.Order]{
		screen: ScreenDashboard,
		noun:   "Order",
		columns: []column[api.Order]{
			{title: "Tanggal", width: 18, sortKey: "createdAt", value: func(o api.Order) string { return format.DateTime(o.ParsedCreatedAt()) }},
			{title: "Tipe", width: 14, value: func(o api.Order) string { return o.Type }},
			{title: "User", value: func(o api.Order) string { return o.IDUser }},
			{title: "Total", width: 16, sortKey: "price", value: func(o api.Order) string { return format.RupiahFloat(o.Total()) }},
			{title: "Status", width: 10, sortKey: "status", badge: true, value: func(o api.Order) string { return o.Status }},
		},
		sortKeys: []string{"createdAt", "price", "status"},
		arrange:  dashboard.SortOrders,
		describe: func(o api.Order) string { return o.Type + " " + o.IDUser },
		noCreate: true,
		noEdit:   true,
		noDelete: true,

		detail: func(_ *listScreen[api.Order], o api.Order, styles Styles, width int) string {
			return detailRows(styles,
				"Tanggal", format.DateTime(o.ParsedCreatedAt()),
				"Tipe", o.Type,
				"User", o.IDUser,
				"Harga", format.RupiahFloat(o.Price),
				"Kode unik", format.RupiahFloat(o.UniqueCode),
				"Total", format.RupiahFloat(o.Total()),
				"Status", o.Status,
				"Bukti", truncateMiddle(o.Image, max(width-16, 20)),
			)
		},

		onMount: loadSummary,
		onMsg: func(_ *listScreen[api.Order], msg tea.Msg) tea.Cmd {
			sm, ok := msg.(summaryMsg)
			if !ok {
				return nil
			}
			summaryLoading = false
			summary, summaryErr = sm.summary, sm.err
			if sm.err != nil && api.IsUnauthorized(sm.err) {
				return noticeCmd("Gagal memuat ringkasan", sm.err)
			}
			return nil
		},

		banner: func(s *listScreen[api.Order], width int) string {
			pending := 0
			for _, o := range s.ctrl.Snapshot().Items {
				if o.Pending() {
					pending++
				}
			}
			cards := []summaryCard{
				{"Saldo Anggota", format.RupiahFloat(summary.MemberBalance), format.Number(int64(summary.MemberCount)) + " anggota"},
				{"Koperasi Bulanan", format.RupiahFloat(summary.KoperasiBulanan), ""},
				{"Koperasi Tahunan", format.RupiahFloat(summary.KoperasiTahunan), ""},
				{"Sedekah", format.RupiahFloat(summary.Sedekah), ""},
				{"Patungan Penuh", format.RupiahFloat(summary.SoldOutValue), format.Number(int64(summary.SoldOutCount)) + " patungan"},
				{"Order Pending", format.Number(int64(pending)), "menunggu keputusan"},
			}
			return renderSummaryCards(s.env.theme, cards, width, summaryLoading, summaryErr)
		},

		keys: func(s *listScreen[api.Order], msg tea.KeyMsg) (tea.Cmd, bool) {
			keys := s.env.keys
			switch {
			case key.Matches(msg, keys.Approve):
				return decide(s, api.OrderApproved)
			case key.Matches(msg, keys.Reject):
				return decide(s, api.OrderRejected)
			case key.Matches(msg, keys.Refresh):
				return tea.Batch(s.fetch(), loadSummary(s)), true
			}
			return nil, false
		},

		extra: []command{{"a", "Setujui"}, {"x", "Tolak"}},
	}
	return newListScreen(e, spec, e.services.Orders)
}

// renderSummaryCards lays the cards out in rows, six per row on wide
// terminals and three otherwise.
func renderSummaryCards(theme Theme, cards []summaryCard, width int, loading bool, err error) string {
	styles := theme.Styles()
	perRow := 3
	if width >= LayoutWideWidth {
		perRow = 6
	}
	cardWidth := max((width-perRow)/perRow, 14)

	tiles := make([]string, 0, len(cards))
	for _, c := range cards {
		value := c.value
		if loading {
			value = "…"
		}
		body := styles.MutedText.Render(fit(c.title, cardWidth-4)) + "\n" +
			styles.AccentText.Bold(true).Render(fit(value, cardWidth-4))
		if c.note != "" {
			body += "\n" + styles.FaintText.Render(fit(c.note, cardWidth-4))
		} else {
			body += "\n"
		}
		tiles = append(tiles, lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(theme.Border)).
			Padding(0, 1).
			Width(cardWidth-2).
			Render(body))
	}

	var rows []string
	for i := 0; i < len(tiles); i += perRow {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, tiles[i:min(i+perRow, len(tiles))]...))
	}
	out := lipgloss.JoinVertical(lipgloss.Left, rows...)
	if err != nil {
		out += "\n " + styles.DangerText.Render("Ringkasan tidak lengkap: "+errorText(err))
	}
	return out
}
