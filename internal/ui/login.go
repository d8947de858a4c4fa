package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arisanku/arisan-admin/internal/form"
	"github.com/arisanku/arisan-admin/internal/phone"
)

type loginStep int

const (
	stepPhone loginStep = iota
	stepCode
)

var resendKey = key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "Kirim ulang"))

type otpSentMsg struct {
	phone string
	err   error
}

type otpValidatedMsg struct {
	token string
	err   error
}

// loginTickMsg drives the resend countdown. Ticks from an earlier
// countdown carry an old seq and are dropped.
type loginTickMsg struct{ seq int }

// loginScreen is the two-step OTP login shown until a token is stored.
type loginScreen struct {
	env *env

	step  loginStep
	phone textinput.Model
	code  textinput.Model
	busy  bool
	err   string
	info  string

	// number is the normalized phone the code was sent to.
	number   string
	resendAt time.Time
	tickSeq  int
	now      func() time.Time
}

func newLoginScreen(e *env) *loginScreen {
	p := textinput.New()
	p.Prompt = ""
	p.Placeholder = "08xxxxxxxxxx"
	p.CharLimit = 20

	c := textinput.New()
	c.Prompt = ""
	c.Placeholder = "kode OTP"
	c.CharLimit = 8

	return &loginScreen{env: e, phone: p, code: c, now: time.Now}
}

// init starts at the phone step, prefilled with the pending number of an
// interrupted login.
func (l *loginScreen) init() tea.Cmd {
	l.reset()
	if pending := l.env.session.PendingPhone(); pending != "" {
		l.phone.SetValue(pending)
		l.phone.CursorEnd()
	}
	return l.phone.Focus()
}

func (l *loginScreen) reset() {
	l.step = stepPhone
	l.busy = false
	l.err = ""
	l.info = ""
	l.number = ""
	l.resendAt = time.Time{}
	l.tickSeq++
	l.phone.SetValue("")
	l.code.SetValue("")
	l.code.Blur()
}

func (l *loginScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return l.handleKey(msg)

	case otpSentMsg:
		l.busy = false
		if msg.err != nil {
			l.err = errorText(msg.err)
			l.env.logger.Warn("send otp failed", "phone", msg.phone, "error", msg.err)
			return nil
		}
		l.env.logger.Info("otp sent", "phone", msg.phone)
		if err := l.env.session.SavePendingPhone(msg.phone); err != nil {
			l.env.logger.Warn("save pending phone failed", "error", err)
		}
		l.number = msg.phone
		l.step = stepCode
		l.err = ""
		l.info = "Kode OTP dikirim ke WhatsApp " + msg.phone
		l.code.SetValue("")
		l.phone.Blur()
		l.resendAt = l.now().Add(OTPResendDelay)
		l.tickSeq++
		return tea.Batch(l.code.Focus(), l.tick())

	case otpValidatedMsg:
		l.busy = false
		if msg.err != nil {
			l.err = errorText(msg.err)
			l.env.logger.Warn("validate otp failed", "phone", l.number, "error", msg.err)
			return nil
		}
		if err := l.env.session.SaveToken(msg.token); err != nil {
			l.err = "Gagal menyimpan sesi: " + err.Error()
			l.env.logger.Error("save token failed", "error", err)
			return nil
		}
		l.env.logger.Info("logged in", "phone", l.number)
		l.reset()
		return func() tea.Msg { return loggedInMsg{} }

	case loginTickMsg:
		if msg.seq != l.tickSeq || l.step != stepCode || l.remaining() <= 0 {
			return nil
		}
		return l.tick()
	}
	return nil
}

func (l *loginScreen) tick() tea.Cmd {
	seq := l.tickSeq
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return loginTickMsg{seq: seq} })
}

// remaining is the time left before a new code may be requested.
func (l *loginScreen) remaining() time.Duration {
	if l.resendAt.IsZero() {
		return 0
	}
	return max(l.resendAt.Sub(l.now()), 0)
}

func (l *loginScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	keys := l.env.keys
	if l.busy {
		return nil
	}

	switch l.step {
	case stepPhone:
		if key.Matches(msg, keys.Confirm) {
			return l.sendOTP()
		}
		var cmd tea.Cmd
		l.phone, cmd = l.phone.Update(msg)
		return cmd

	default:
		switch {
		case key.Matches(msg, keys.Escape):
			l.step = stepPhone
			l.err = ""
			l.info = ""
			l.tickSeq++
			l.code.Blur()
			return l.phone.Focus()
		case key.Matches(msg, resendKey):
			if left := l.remaining(); left > 0 {
				l.err = fmt.Sprintf("Tunggu %d detik sebelum meminta kode baru", int(left.Round(time.Second).Seconds()))
				return nil
			}
			return l.requestOTP(l.number)
		case key.Matches(msg, keys.Confirm):
			return l.validateOTP()
		}
		var cmd tea.Cmd
		l.code, cmd = l.code.Update(msg)
		return cmd
	}
}

func (l *loginScreen) sendOTP() tea.Cmd {
	raw := strings.TrimSpace(l.phone.Value())
	if err := form.Required("Nomor HP", raw); err != nil {
		l.err = errorText(err)
		return nil
	}
	number, err := phone.Normalize(raw)
	if err != nil {
		l.err = "Nomor HP tidak valid"
		return nil
	}
	return l.requestOTP(number)
}

func (l *loginScreen) requestOTP(number string) tea.Cmd {
	l.busy = true
	l.err = ""
	l.info = "Mengirim kode…"
	ctx, auth := l.env.ctx, l.env.services.Auth
	return func() tea.Msg {
		return otpSentMsg{phone: number, err: auth.SendOTP(ctx, number)}
	}
}

func (l *loginScreen) validateOTP() tea.Cmd {
	code := strings.TrimSpace(l.code.Value())
	if err := form.Required("Kode OTP", code); err != nil {
		l.err = errorText(err)
		return nil
	}
	l.busy = true
	l.err = ""
	l.info = "Memeriksa kode…"
	ctx, auth, number := l.env.ctx, l.env.services.Auth, l.number
	return func() tea.Msg {
		token, err := auth.ValidateOTP(ctx, number, code)
		return otpValidatedMsg{token: token, err: err}
	}
}

func (l *loginScreen) view(width, height int) string {
	theme := l.env.theme
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Logo.Render("arisan-admin"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("Masuk dengan kode OTP WhatsApp"))
	b.WriteString("\n\n")

	label := func(s string) string { return styles.MutedText.Render(padRight(s, 10)) }
	switch l.step {
	case stepPhone:
		b.WriteString(label("Nomor HP") + l.phone.View())
		b.WriteString("\n\n")
		b.WriteString(hintLine(styles, "enter", "Kirim kode", "ctrl+c", "Keluar"))
	default:
		b.WriteString(label("Nomor HP") + styles.Text.Render(l.number))
		b.WriteString("\n")
		b.WriteString(label("Kode") + l.code.View())
		b.WriteString("\n\n")
		resend := "ctrl+r"
		if left := l.remaining(); left > 0 {
			resend = fmt.Sprintf("%ds", int(left.Round(time.Second).Seconds()))
		}
		b.WriteString(hintLine(styles, "enter", "Masuk", resend, "Kirim ulang", "esc", "Ganti nomor"))
	}

	if l.info != "" && l.err == "" {
		b.WriteString("\n\n")
		b.WriteString(styles.InfoText.Render(l.info))
	}
	if l.err != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.DangerText.Render(l.err))
	}

	content := lipgloss.NewStyle().Width(44).Render(b.String())
	return renderDialog(theme, content, 50, width, height)
}
