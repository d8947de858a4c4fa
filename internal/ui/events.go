package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arisanku/arisan-admin/internal/api"
	"github.com/arisanku/arisan-admin/internal/form"
	"github.com/arisanku/arisan-admin/internal/format"
)

type participantsMsg struct {
	eventID string
	items   []api.Participant
	err     error
}

func newEventsScreen(e *env) *listScreen[api.Event] {
	events := e.services.Events

	// Participants of the event shown in the detail overlay.
	var (
		shownFor     string
		participants []api.Participant
		loadErr      error
		loading      bool
	)

	spec := listSpec[api.Event]{
		screen: ScreenEvents,
		noun:   "Event",
		columns: []column[api.Event]{
			{title: "Nama", sortKey: "name", value: func(ev api.Event) string { return ev.Name }},
			{title: "Tanggal", width: 11, sortKey: "dueDate", value: func(ev api.Event) string { return ev.DueDay() }},
			{title: "Harga", width: 15, sortKey: "price", value: func(ev api.Event) string { return format.RupiahFloat(ev.Price) }},
			{title: "Lokasi", width: 20, value: func(ev api.Event) string { return ev.Location }},
		},
		sortKeys: []string{"name", "dueDate", "price"},
		describe: func(ev api.Event) string { return ev.Name },
		fields: func() []form.Field {
			return []form.Field{
				{Name: "name", Label: "Nama"},
				{Name: "image", Label: "Gambar"},
				{Name: "dueDate", Label: "Tanggal", Kind: form.Date},
				{Name: "price", Label: "Harga", Kind: form.Number},
				{Name: "desc", Label: "Deskripsi"},
				{Name: "location", Label: "Lokasi"},
			}
		},
		prefill: func(ev api.Event) map[string]string { return ev.FormValues() },
		payload: func(b *form.Buffer, _ bool) (any, error) {
			price, err := b.Amount("price")
			if err != nil {
				return nil, err
			}
			p := api.EventPayload{
				Name:     b.Value("name"),
				Image:    b.Value("image"),
				DueDate:  b.Value("dueDate"),
				Price:    price,
				Desc:     b.Value("desc"),
				Location: b.Value("location"),
			}
			if err := form.Validate(p); err != nil {
				return nil, err
			}
			return p, nil
		},
		pickable: []string{"image"},

		openDetail: func(s *listScreen[api.Event], ev api.Event) tea.Cmd {
			shownFor, participants, loadErr, loading = ev.RecordID(), nil, nil, true
			ctx, id := s.env.ctx, ev.RecordID()
			return func() tea.Msg {
				items, err := events.Participants(ctx, id)
				return participantsMsg{eventID: id, items: items, err: err}
			}
		},
		onMsg: func(_ *listScreen[api.Event], msg tea.Msg) tea.Cmd {
			pm, ok := msg.(participantsMsg)
			if !ok || pm.eventID != shownFor {
				return nil
			}
			participants, loadErr, loading = pm.items, pm.err, false
			return nil
		},
		detail: func(_ *listScreen[api.Event], ev api.Event, styles Styles, width int) string {
			var b strings.Builder
			b.WriteString(detailRows(styles,
				"Tanggal", ev.DueDay(),
				"Harga", format.RupiahFloat(ev.Price),
				"Lokasi", ev.Location,
				"Gambar", truncateMiddle(ev.Image, max(width-16, 20)),
			))
			b.WriteString("\n\n")
			b.WriteString(styles.Text.Render(ev.Desc))
			b.WriteString("\n\n")

			switch {
			case loading:
				b.WriteString(styles.MutedText.Render("Memuat peserta…"))
			case loadErr != nil:
				b.WriteString(styles.DangerText.Render(errorText(loadErr)))
			default:
				b.WriteString(styles.AccentText.Bold(true).Render(fmt.Sprintf("Peserta (%d)", len(participants))))
				if len(participants) == 0 {
					b.WriteString("\n")
					b.WriteString(styles.MutedText.Render("  Tidak ada data"))
				}
				for _, p := range participants {
					b.WriteString("\n  ")
					b.WriteString(styles.Text.Render(fit(p.FullName, max(width-22, 12))))
					b.WriteString(" ")
					b.WriteString(styles.MutedText.Render(p.Phone))
				}
			}
			return b.String()
		},
	}
	return newListScreen(e, spec, events)
}

func newSettingsScreen(e *env) *listScreen[api.Setting] {
	spec := listSpec[api.Setting]{
		screen: ScreenSettings,
		noun:   "Pengaturan",
		columns: []column[api.Setting]{
			{title: "Key", width: 28, sortKey: "key", value: func(s api.Setting) string { return s.Key }},
			{title: "Value", sortKey: "value", value: func(s api.Setting) string { return s.Value }},
		},
		sortKeys: []string{"key", "value"},
		describe: func(s api.Setting) string { return s.Key },
		fields: func() []form.Field {
			return []form.Field{
				{Name: "key", Label: "Key"},
				{Name: "value", Label: "Value"},
			}
		},
		prefill: func(s api.Setting) map[string]string { return s.FormValues() },
		payload: func(b *form.Buffer, _ bool) (any, error) {
			p := api.SettingPayload{Key: b.Value("key"), Value: b.Value("value")}
			if err := form.Validate(p); err != nil {
				return nil, err
			}
			return p, nil
		},
	}
	return newListScreen(e, spec, e.services.Settings)
}
