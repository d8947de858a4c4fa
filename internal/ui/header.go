package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/arisanku/arisan-admin/internal/session"
)

// renderHeader renders the logo, the screen tabs and the session expiry.
func (m Model) renderHeader() string {
	theme := m.env.theme
	styles := theme.Styles().WithBackground(theme.Surface)
	bg := NewBgStyle(theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("arisan-admin", styles.Logo)}

	tabs := make([]string, 0, len(screenOrder))
	for i, s := range screenOrder {
		label := fmt.Sprintf("%d", i+1)
		if !compact {
			label += " " + s.String()
		}
		if s == m.env.current {
			tabs = append(tabs, bg.Render("["+label+"]", styles.AccentText.Bold(true)))
		} else {
			tabs = append(tabs, bg.Render(label, styles.MutedText))
		}
	}
	parts = append(parts, strings.Join(tabs, bg.Space()))

	if exp, ok := session.ExpiresAt(m.env.session.Token()); ok {
		left := time.Until(exp)
		style := styles.MutedText
		if left < time.Hour {
			style = styles.WarningText
		}
		parts = append(parts, bg.Render("sesi s/d "+exp.Local().Format("02 Jan 15:04"), style))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderCommandBar renders the command hints of the active screen.
func (m Model) renderCommandBar() string {
	theme := m.env.theme
	styles := theme.Styles().WithBackground(theme.Surface)
	bg := NewBgStyle(theme.Surface)

	commands := m.screens[m.env.current].commands()
	commands = append(commands, command{"?", "Bantuan"})

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

// renderStatusLine shows the latest flash message, or the backend address.
func (m Model) renderStatusLine() string {
	theme := m.env.theme
	styles := theme.Styles().WithBackground(theme.Surface)
	bg := NewBgStyle(theme.Surface)

	var content string
	switch {
	case m.flash != "" && m.flashDanger:
		content = bg.Render("!", styles.DangerText) + bg.Space() + bg.Render(m.flash, styles.DangerText)
	case m.flash != "":
		content = bg.Render("✓", styles.SuccessText) + bg.Space() + bg.Render(m.flash, styles.Text)
	default:
		content = bg.Render("api", styles.FaintText) + bg.Space() +
			bg.Render(truncateMiddle(m.env.cfg.APIURL, 60), styles.MutedText)
	}
	return styles.Footer.Width(m.width).Render(content)
}
