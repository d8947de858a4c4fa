package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/arisanku/arisan-admin/internal/api"
	"github.com/arisanku/arisan-admin/internal/form"
	"github.com/arisanku/arisan-admin/internal/format"
	"github.com/arisanku/arisan-admin/internal/phone"
	"github.com/arisanku/arisan-admin/internal/resource"
)

// groupRecord is an arisan or patungan with its member list.
type groupRecord interface {
	listItem
	GroupMembers() []api.Member
	GroupInfo() api.Group
	FormValues() map[string]string
}

// groupKind holds what differs between arisan and patungan.
type groupKind struct {
	screen        Screen
	noun          string
	withDate      bool
	lots          bool
	settleLabel   string
	settleAction  string
	confirmSettle bool
	payload       func(b *form.Buffer, creating bool) (any, error)
}

// memberDraft is the nested add-member form.
type memberDraft struct {
	Phone string `label:"Nomor HP" validate:"required,phone_id"`
	Lots  int    `label:"Jumlah Lot" validate:"min=1"`
}

// memberPanelRows is the number of members listed under the group form.
const memberPanelRows = 8

func newArisanScreen(e *env) *listScreen[api.Arisan] {
	return newGroupScreen[api.Arisan](e, groupKind{
		screen:       ScreenArisan,
		noun:         "Arisan",
		withDate:     true,
		settleLabel:  "Lunas",
		settleAction: "menandai lunas",
		payload:      arisanPayload,
	}, e.services.Arisan, e.services.Arisan)
}

func newPatunganScreen(e *env) *listScreen[api.Patungan] {
	return newGroupScreen[api.Patungan](e, groupKind{
		screen:        ScreenPatungan,
		noun:          "Patungan",
		lots:          true,
		settleLabel:   "Refund",
		settleAction:  "refund anggota",
		confirmSettle: true,
		payload:       patunganPayload,
	}, e.services.Patungan, e.services.Patungan)
}

func newGroupScreen[G groupRecord](e *env, kind groupKind, backend resource.Backend[G], members api.MemberService) *listScreen[G] {
	memberCursor := 0

	selectedMember := func(r G) (api.Member, bool) {
		ms := r.GroupMembers()
		if len(ms) == 0 {
			return api.Member{}, false
		}
		memberCursor = max(0, min(memberCursor, len(ms)-1))
		return ms[memberCursor], true
	}

	// memberWrite runs a member action under the controller's in-flight
	// guard and keeps the group editor open on the refreshed record.
	memberWrite := func(s *listScreen[G], parent G, action, done string, run func(ctx context.Context, groupID string) error) tea.Cmd {
		if s.session.Begin() != nil {
			return nil
		}
		groupID := parent.RecordID()
		return s.write(writeOp{
			action: action,
			id:     groupID,
			done:   done,
			stay:   true,
			run: func(ctx context.Context) error {
				return s.ctrl.Mutate(ctx, action, func(ctx context.Context) error {
					return run(ctx, groupID)
				})
			},
		})
	}

	columns := []column[G]{
		{title: "Judul", sortKey: "title", value: func(r G) string { return r.GroupInfo().Title }},
		{title: "Slot", width: 9, sortKey: "totalSlot", value: func(r G) string {
			g := r.GroupInfo()
			return fmt.Sprintf("%d/%d", g.FilledSlots(), g.TotalSlot)
		}},
		{title: "Sisa", width: 5, sortKey: "sisaSlot", value: func(r G) string { return strconv.Itoa(r.GroupInfo().SisaSlot) }},
		{title: "Target", width: 15, sortKey: "targetPay", value: func(r G) string { return format.RupiahFloat(r.GroupInfo().TargetPay) }},
		{title: "Lokasi", width: 14, value: func(r G) string { return r.GroupInfo().Location }},
	}
	sortKeys := []string{"title", "totalSlot", "sisaSlot", "targetPay"}
	if kind.withDate {
		columns = append(columns, column[G]{title: "Tagih", width: 11, sortKey: "penagihanDate", value: func(r G) string {
			return r.GroupInfo().PenagihanDate
		}})
		sortKeys = append(sortKeys, "penagihanDate")
	}
	columns = append(columns,
		column[G]{title: "Anggota", width: 8, value: func(r G) string { return strconv.Itoa(len(r.GroupMembers())) }},
		column[G]{title: "Status", width: 10, badge: true, value: func(r G) string {
			return ternary(r.GroupInfo().SoldOut(), badgeFull, badgeOpen)
		}},
	)

	childFields := func() []form.Field {
		fields := []form.Field{{Name: "phone", Label: "Nomor HP"}}
		if kind.lots {
			fields = append(fields, form.Field{Name: "lots", Label: "Jumlah Lot", Kind: form.Number, Default: "1"})
		}
		return fields
	}

	spec := listSpec[G]{
		screen:   kind.screen,
		noun:     kind.noun,
		columns:  columns,
		sortKeys: sortKeys,
		describe: func(r G) string { return r.GroupInfo().Title },
		fields:   func() []form.Field { return groupFields() },
		prefill:  func(r G) map[string]string { return r.FormValues() },
		payload:  kind.payload,
		pickable: []string{"banner", "document"},

		afterEdit: func(s *listScreen[G], r G) tea.Cmd {
			memberCursor = 0
			return s.reselect(r.RecordID())
		},

		editorPanel: func(s *listScreen[G], r G, styles Styles, width int) string {
			return renderMemberPanel(r.GroupMembers(), r.GroupInfo(), memberCursor, kind, styles, width)
		},

		editorKeys: func(s *listScreen[G], msg tea.KeyMsg) (tea.Cmd, bool) {
			keys := s.env.keys
			parent, editing := s.session.Target()
			if !editing {
				return nil, false
			}
			switch {
			case key.Matches(msg, keys.MemberUp):
				memberCursor = max(memberCursor-1, 0)
				return nil, true
			case key.Matches(msg, keys.MemberDown):
				memberCursor = min(memberCursor+1, max(len(parent.GroupMembers())-1, 0))
				return nil, true
			case key.Matches(msg, keys.MemberAdd):
				return s.openChild(), true
			case key.Matches(msg, keys.MemberSettle):
				m, ok := selectedMember(parent)
				if !ok {
					return nil, true
				}
				if !kind.confirmSettle && m.IsPayed {
					return flashCmd(memberName(m) + " sudah lunas"), true
				}
				settle := func() tea.Cmd {
					return memberWrite(s, parent, kind.settleAction, kind.settleLabel+" "+memberName(m)+" berhasil",
						func(ctx context.Context, groupID string) error {
							return members.SettleMember(ctx, groupID, m)
						})
				}
				if !kind.confirmSettle {
					return settle(), true
				}
				s.modal = &promptModal{
					title: kind.settleLabel + " Anggota",
					text:  fmt.Sprintf("%s pembayaran %s?", kind.settleLabel, memberName(m)),
					onYes: settle,
				}
				return nil, true
			case key.Matches(msg, keys.MemberRemove):
				m, ok := selectedMember(parent)
				if !ok {
					return nil, true
				}
				s.modal = &promptModal{
					title:  "Hapus Anggota",
					text:   fmt.Sprintf("Keluarkan %s dari %s?", memberName(m), parent.GroupInfo().Title),
					danger: true,
					onYes: func() tea.Cmd {
						return memberWrite(s, parent, "menghapus anggota", memberName(m)+" dikeluarkan",
							func(ctx context.Context, groupID string) error {
								return members.RemoveMember(ctx, groupID, m)
							})
					},
				}
				return nil, true
			}
			return nil, false
		},

		childTitle:  "Tambah Anggota",
		childFields: childFields,
		childSubmit: func(s *listScreen[G], parent G, b *form.Buffer) (tea.Cmd, error) {
			draft := memberDraft{Phone: b.Value("phone"), Lots: 1}
			if kind.lots {
				n, err := b.Int("lots")
				if err != nil {
					return nil, err
				}
				draft.Lots = int(n)
			}
			if err := form.Validate(draft); err != nil {
				return nil, err
			}
			canonical, err := phone.Normalize(draft.Phone)
			if err != nil {
				return nil, err
			}
			groupID := parent.RecordID()
			return s.write(writeOp{
				action: "menambah anggota",
				id:     groupID,
				done:   canonical + " ditambahkan",
				stay:   true,
				run: func(ctx context.Context) error {
					return s.ctrl.Mutate(ctx, "add member", func(ctx context.Context) error {
						return members.AddMember(ctx, groupID, canonical, draft.Lots)
					})
				},
			}), nil
		},

		extra: []command{{"enter", "Ubah + anggota"}},
	}
	return newListScreen(e, spec, backend)
}

// groupFields is the create/edit template shared by arisan and patungan.
func groupFields() []form.Field {
	return []form.Field{
		{Name: "title", Label: "Judul"},
		{Name: "description", Label: "Deskripsi"},
		{Name: "location", Label: "Lokasi"},
		{Name: "targetLot", Label: "Target Member", Kind: form.Number, Default: "0"},
		{Name: "targetAmount", Label: "Target Bulanan", Kind: form.Number, Default: "0"},
		{Name: "banner", Label: "Banner", Kind: form.List},
		{Name: "document", Label: "Dokumen", Kind: form.List},
	}
}

func arisanPayload(b *form.Buffer, _ bool) (any, error) {
	lots, err := b.Int("targetLot")
	if err != nil {
		return nil, err
	}
	amount, err := b.Amount("targetAmount")
	if err != nil {
		return nil, err
	}
	p := api.GroupPayload{
		Title:        b.Value("title"),
		Description:  b.Value("description"),
		Keterangan:   b.Value("description"),
		Banner:       b.List("banner"),
		Document:     b.List("document"),
		Location:     b.Value("location"),
		TargetLot:    lots,
		TargetAmount: amount,
	}
	if err := form.Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

func patunganPayload(b *form.Buffer, _ bool) (any, error) {
	lots, err := b.Int("targetLot")
	if err != nil {
		return nil, err
	}
	amount, err := b.Amount("targetAmount")
	if err != nil {
		return nil, err
	}
	p := api.PatunganPayload{
		Title:        b.Value("title"),
		Description:  b.Value("description"),
		Keterangan:   b.Value("description"),
		Banner:       b.List("banner"),
		Document:     b.List("document"),
		Location:     b.Value("location"),
		TargetLot:    lots,
		TargetAmount: amount,
	}
	if err := form.Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

func memberName(m api.Member) string {
	if strings.TrimSpace(m.Name) != "" {
		return m.Name
	}
	if m.PhoneNumber != "" {
		return m.PhoneNumber
	}
	return m.IDUser
}

// renderMemberPanel lists the members of the group being edited.
func renderMemberPanel(members []api.Member, g api.Group, cursor int, kind groupKind, styles Styles, width int) string {
	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(
		fmt.Sprintf("Anggota %d · slot %d/%d · terkumpul %s",
			len(members), g.FilledSlots(), g.TotalSlot, format.RupiahFloat(g.Collected()))))
	b.WriteString("\n")

	if len(members) == 0 {
		b.WriteString(styles.MutedText.Render("  Belum ada anggota"))
	} else {
		cursor = max(0, min(cursor, len(members)-1))
		start := 0
		if cursor >= memberPanelRows {
			start = cursor - memberPanelRows + 1
		}
		end := min(start+memberPanelRows, len(members))
		nameWidth := max(width-44, 12)
		for i := start; i < end; i++ {
			m := members[i]
			marker := "  "
			if i == cursor {
				marker = styles.AccentText.Render("› ")
			}
			status := ternary(m.IsPayed, badgePaid, badgeUnpaid)
			line := marker +
				styles.Text.Render(fit(memberName(m), nameWidth)) + " " +
				styles.MutedText.Render(fit(m.PhoneNumber, 16)) + " "
			if kind.lots {
				line += styles.MutedText.Render(fit(fmt.Sprintf("%d lot", m.JumlahLot), 7)) + " "
			}
			line += styles.StatusStyle(status).Render(status)
			b.WriteString(line)
			if i < end-1 {
				b.WriteString("\n")
			}
		}
		if len(members) > memberPanelRows {
			b.WriteString("\n")
			b.WriteString(styles.FaintText.Render(fmt.Sprintf("  %d/%d", cursor+1, len(members))))
		}
	}

	b.WriteString("\n")
	b.WriteString(hintLine(styles,
		"ctrl+↑/↓", "Pilih",
		"ctrl+n", "Tambah",
		"ctrl+p", kind.settleLabel,
		"ctrl+x", "Keluarkan"))
	return b.String()
}
