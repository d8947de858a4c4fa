package ui

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/arisanku/arisan-admin/internal/api"
	"github.com/arisanku/arisan-admin/internal/form"
	"github.com/arisanku/arisan-admin/internal/upload"
)

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

func newGalleryScreen(e *env) *listScreen[api.Image] {
	gallery := e.services.Gallery

	// pick is set while an editor on another screen waits for an image.
	var pick *pickImageMsg

	spec := listSpec[api.Image]{
		screen: ScreenGallery,
		noun:   "Gambar",
		columns: []column[api.Image]{
			{title: "Nama", width: 32, sortKey: "fileName", value: func(i api.Image) string { return i.FileName }},
			{title: "URL", value: func(i api.Image) string { return truncateMiddle(i.PreviewURL, 64) }},
		},
		sortKeys:    []string{"fileName"},
		describe:    func(i api.Image) string { return i.FileName },
		noEdit:      true,
		multiSelect: true,
		capture:     func() bool { return pick != nil },

		detail: func(_ *listScreen[api.Image], i api.Image, styles Styles, _ int) string {
			return detailRows(styles,
				"Nama", i.FileName,
				"File ID", i.FileID,
				"URL", i.PreviewURL,
			)
		},

		banner: func(_ *listScreen[api.Image], _ int) string {
			if pick == nil {
				return ""
			}
			styles := e.theme.Styles()
			return " " + styles.WarningText.Render(fmt.Sprintf("Pilih gambar untuk kolom %q", pick.field)) + "  " +
				hintLine(styles, "enter", "Pilih", "esc", "Batal")
		},

		onMsg: func(s *listScreen[api.Image], msg tea.Msg) tea.Cmd {
			pm, ok := msg.(pickImageMsg)
			if !ok {
				return nil
			}
			pick = &pm
			return s.fetch()
		},

		keys: func(s *listScreen[api.Image], msg tea.KeyMsg) (tea.Cmd, bool) {
			keys := s.env.keys
			if pick != nil {
				switch {
				case key.Matches(msg, keys.Escape):
					to := pick.from
					pick = nil
					return func() tea.Msg { return pickCancelledMsg{to: to} }, true
				case key.Matches(msg, keys.Confirm):
					img, ok := s.current()
					if !ok {
						return nil, true
					}
					picked := imagePickedMsg{to: pick.from, field: pick.field, url: img.PreviewURL}
					pick = nil
					return func() tea.Msg { return picked }, true
				case key.Matches(msg, keys.Add), key.Matches(msg, keys.Upload),
					key.Matches(msg, keys.Delete), key.Matches(msg, keys.BulkDelete):
					return nil, true
				}
				return nil, false
			}

			switch {
			case key.Matches(msg, keys.Add), key.Matches(msg, keys.Upload):
				s.modal = newUploadModal(s)
				return nil, true

			case key.Matches(msg, keys.Copy):
				img, ok := s.current()
				if !ok {
					return nil, true
				}
				if err := copyToClipboard(img.PreviewURL); err != nil {
					return flashErrCmd("Gagal menyalin URL: " + err.Error()), true
				}
				return flashCmd("URL disalin"), true

			case key.Matches(msg, keys.BulkDelete):
				ids := s.selectedIDs()
				if len(ids) == 0 {
					return flashErrCmd("Belum ada gambar yang dipilih"), true
				}
				s.modal = &promptModal{
					title:  "Hapus Gambar",
					text:   fmt.Sprintf("Hapus %d gambar terpilih?", len(ids)),
					danger: true,
					onYes: func() tea.Cmd {
						ctx, ctrl := s.env.ctx, s.ctrl
						return func() tea.Msg {
							result, err := ctrl.RemoveMany(ctx, ids)
							return bulkDoneMsg{screen: ScreenGallery, result: result, err: err}
						}
					},
				}
				return nil, true
			}
			return nil, false
		},

		extra: []command{{"u", "Unggah"}, {"space", "Pilih"}, {"D", "Hapus terpilih"}, {"c", "Salin URL"}},
	}
	return newListScreen(e, spec, gallery)
}

// selectedIDs returns the marked ids in display order.
func (s *listScreen[T]) selectedIDs() []string {
	items := s.ctrl.Snapshot().Items
	ids := make([]string, 0, len(s.selected))
	for _, r := range items {
		if s.selected[r.RecordID()] {
			ids = append(ids, r.RecordID())
		}
	}
	return ids
}

// newUploadModal asks for a local image path and uploads it.
func newUploadModal(s *listScreen[api.Image]) *inputModal {
	buf := form.New(form.Field{Name: "path", Label: "Path file"})
	maxDim := s.env.cfg.MaxImageDimension
	return newInputModal("Unggah Gambar", buf, func(b *form.Buffer) (tea.Cmd, error) {
		path := b.Value("path")
		if err := form.Required("Path file", path); err != nil {
			return nil, err
		}
		prepared, err := upload.PrepareFile(path, maxDim)
		if err != nil {
			return nil, err
		}
		done := prepared.Payload.Name + " diunggah"
		if prepared.Resized {
			done += fmt.Sprintf(" (diperkecil ke %dx%d)", prepared.Width, prepared.Height)
		}
		return s.write(writeOp{
			action: "mengunggah gambar",
			done:   done,
			direct: true,
			run: func(ctx context.Context) error {
				return s.ctrl.Create(ctx, prepared.Payload)
			},
		}), nil
	})
}
