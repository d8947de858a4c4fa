package ui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/arisanku/arisan-admin/internal/api"
	"github.com/arisanku/arisan-admin/internal/form"
	"github.com/arisanku/arisan-admin/internal/format"
	"github.com/arisanku/arisan-admin/internal/phone"
	"github.com/arisanku/arisan-admin/internal/resource"
)

var userSortKeys = []string{"fullName", "email", "phone", "balance"}

type historyMsg struct {
	phone string
	items []api.Transaction
	err   error
}

func newUsersScreen(e *env) *listScreen[api.User] {
	users := e.services.Users

	spec := listSpec[api.User]{
		screen: ScreenUsers,
		noun:   "Pengguna",
		columns: []column[api.User]{
			{title: "Nama", sortKey: "fullName", value: func(u api.User) string { return u.FullName }},
			{title: "Email", width: 26, sortKey: "email", value: func(u api.User) string { return u.Email }},
			{title: "Telepon", width: 16, sortKey: "phone", value: func(u api.User) string { return u.Phone }},
			{title: "Saldo", width: 16, sortKey: "balance", value: func(u api.User) string { return format.RupiahFloat(u.Balance) }},
		},
		sortKeys: userSortKeys,
		describe: func(u api.User) string { return u.FullName },
		noEdit:   true,
		noDelete: true,
		fields: func() []form.Field {
			return []form.Field{
				{Name: "fullName", Label: "Nama Lengkap"},
				{Name: "phone", Label: "Nomor HP"},
			}
		},
		payload: func(b *form.Buffer, _ bool) (any, error) {
			p := api.NewUserPayload{FullName: b.Value("fullName"), Phone: b.Value("phone")}
			if err := form.Validate(p); err != nil {
				return nil, err
			}
			canonical, err := phone.Normalize(p.Phone)
			if err != nil {
				return nil, err
			}
			p.Phone = canonical
			return p, nil
		},
		detail: func(_ *listScreen[api.User], u api.User, styles Styles, _ int) string {
			return detailRows(styles,
				"Nama", u.FullName,
				"Email", u.Email,
				"Telepon", u.Phone,
				"Alamat", u.Address,
				"Saldo", format.RupiahFloat(u.Balance),
				"Role", u.IDRole.String(),
			)
		},
		onQuery: func(q resource.Query) {
			e.prefs.UserSort = q.SortKey
			e.prefs.UserSortDesc = q.Desc
			e.savePrefs()
		},
		keys: func(s *listScreen[api.User], msg tea.KeyMsg) (tea.Cmd, bool) {
			keys := s.env.keys
			switch {
			case key.Matches(msg, keys.Transfer):
				if u, ok := s.current(); ok {
					s.modal = newTransferModal(s, users, u)
				}
				return nil, true
			case key.Matches(msg, keys.History):
				u, ok := s.current()
				if !ok {
					return nil, true
				}
				s.modal = newTextModal("Riwayat · "+u.FullName, "Memuat…", s.width, s.height)
				ctx, number := s.env.ctx, u.Phone
				return func() tea.Msg {
					items, err := users.History(ctx, number)
					return historyMsg{phone: number, items: items, err: err}
				}, true
			}
			return nil, false
		},
		onMsg: func(s *listScreen[api.User], msg tea.Msg) tea.Cmd {
			hm, ok := msg.(historyMsg)
			if !ok {
				return nil
			}
			tm, ok := s.modal.(*textModal)
			if !ok {
				return nil
			}
			if hm.err != nil {
				tm.setContent(s.env.theme.Styles().DangerText.Render(errorText(hm.err)))
				return nil
			}
			tm.setContent(renderHistory(hm.items, s.env.theme.Styles()))
			return nil
		},
		extra: []command{{"t", "Kirim saldo"}, {"h", "Riwayat"}},
	}

	s := newListScreen(e, spec, users)
	s.query.SortKey = e.prefs.UserSort
	s.query.Desc = e.prefs.UserSortDesc
	if !slices.Contains(userSortKeys, s.query.SortKey) {
		s.query.SortKey, s.query.Desc = "fullName", false
	}
	return s
}

// newTransferModal asks for the amount to credit to u's wallet.
func newTransferModal(s *listScreen[api.User], users api.UserService, u api.User) *inputModal {
	buf := form.New(form.Field{Name: "amount", Label: "Jumlah saldo", Kind: form.Number})
	m := newInputModal("Kirim saldo ke "+u.FullName, buf, func(b *form.Buffer) (tea.Cmd, error) {
		amount, err := b.Amount("amount")
		if err != nil {
			return nil, err
		}
		p := api.TransferPayload{Phone: u.Phone, Balance: amount}
		if err := form.Validate(p); err != nil {
			return nil, err
		}
		done := fmt.Sprintf("%s terkirim ke %s", format.RupiahFloat(amount), u.FullName)
		return s.write(writeOp{
			action: "mengirim saldo",
			id:     u.RecordID(),
			done:   done,
			direct: true,
			run: func(ctx context.Context) error {
				return s.ctrl.Mutate(ctx, "transfer", func(ctx context.Context) error {
					return users.Transfer(ctx, p)
				})
			},
		}), nil
	})
	m.preview = func(b *form.Buffer) string {
		amount, err := b.Amount("amount")
		if err != nil || amount <= 0 {
			return ""
		}
		return "= " + format.RupiahFloat(amount)
	}
	return m
}

// renderHistory lists wallet movements, newest first.
func renderHistory(items []api.Transaction, styles Styles) string {
	if len(items) == 0 {
		return styles.MutedText.Render("Tidak ada data")
	}
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b api.Transaction) int {
		return b.ParsedCreatedAt().Compare(a.ParsedCreatedAt())
	})

	lines := make([]string, 0, len(sorted))
	for _, t := range sorted {
		sign := ternary(t.Income(), "+", "-")
		amountStyle := ternary(t.Income(), styles.SuccessText, styles.DangerText)
		status := ternary(t.Income(), badgeIncome, badgeOutcome)
		lines = append(lines,
			styles.MutedText.Render(fit(format.DateTime(t.ParsedCreatedAt()), 18))+" "+
				styles.StatusStyle(status).Render(fit(status, 7))+" "+
				amountStyle.Render(fit(sign+format.RupiahFloat(t.Nominal), 16))+" "+
				styles.Text.Render(strings.TrimSpace(t.Type+" "+t.Ket)))
	}
	return strings.Join(lines, "\n")
}

// detailRows renders label/value pairs for a detail overlay.
func detailRows(styles Styles, pairs ...string) string {
	lines := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		value := pairs[i+1]
		if strings.TrimSpace(value) == "" {
			value = "-"
		}
		lines = append(lines, styles.MutedText.Render(padRight(pairs[i], 14))+styles.Text.Render(value))
	}
	return strings.Join(lines, "\n")
}
