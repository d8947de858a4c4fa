// Package format renders amounts, counts and dates the way Indonesian
// operators read them: "Rp1.000.000", "12.500", "01 Mar 2026".
package format

import (
	"math"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	printer = message.NewPrinter(language.Indonesian)
	titler  = cases.Title(language.Indonesian)
)

// Number groups thousands with dots.
func Number(n int64) string {
	return printer.Sprintf("%d", n)
}

// Rupiah formats a whole-rupiah amount as "Rp1.000.000". Negative amounts
// keep their sign in front: "-Rp5.000".
func Rupiah(n int64) string {
	if n < 0 {
		return "-Rp" + Number(-n)
	}
	return "Rp" + Number(n)
}

// RupiahFloat rounds to the nearest rupiah before formatting.
func RupiahFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "Rp0"
	}
	return Rupiah(int64(math.Round(f)))
}

// Date renders t as "02 Jan 2006". The zero time renders as "-".
func Date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02 Jan 2006")
}

// DateTime renders t as "02 Jan 2006 15:04". The zero time renders as "-".
func DateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02 Jan 2006 15:04")
}

// Title capitalizes each word of s for headings and labels.
func Title(s string) string {
	return titler.String(strings.TrimSpace(s))
}

// Percent renders part/whole as a whole percentage, "0%" when whole is zero.
func Percent(part, whole int64) string {
	if whole <= 0 {
		return "0%"
	}
	return printer.Sprintf("%d%%", part*100/whole)
}
