// Package form holds the draft values of a create/edit modal.
package form

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind selects how a field value is edited and parsed.
type Kind int

const (
	Text Kind = iota
	Number
	List // comma or newline separated entries, e.g. image URLs
	Date // YYYY-MM-DD
)

// DateLayout is the wire format of Date fields.
const DateLayout = "2006-01-02"

// Field is one named draft value.
type Field struct {
	Name    string
	Label   string
	Kind    Kind
	Value   string
	Default string
}

// Buffer is an ordered field→draft mapping. It is owned by a single modal
// session and discarded when the session ends.
type Buffer struct {
	fields []Field
	index  map[string]int
}

// New builds a buffer from a template. Each field's Default is its empty
// value and is also the initial Value.
func New(fields ...Field) *Buffer {
	b := &Buffer{fields: make([]Field, len(fields)), index: make(map[string]int, len(fields))}
	for i, f := range fields {
		if f.Label == "" {
			f.Label = f.Name
		}
		f.Value = f.Default
		b.fields[i] = f
		b.index[f.Name] = i
	}
	return b
}

// Fields returns a copy of the fields in display order.
func (b *Buffer) Fields() []Field {
	out := make([]Field, len(b.fields))
	copy(out, b.fields)
	return out
}

// Len returns the number of fields.
func (b *Buffer) Len() int { return len(b.fields) }

// Field returns the i-th field.
func (b *Buffer) Field(i int) Field { return b.fields[i] }

// Has reports whether the buffer defines name.
func (b *Buffer) Has(name string) bool {
	_, ok := b.index[name]
	return ok
}

// Prefill loads values from a record. Fields missing from values get their
// template default.
func (b *Buffer) Prefill(values map[string]string) {
	for i := range b.fields {
		if v, ok := values[b.fields[i].Name]; ok {
			b.fields[i].Value = v
		} else {
			b.fields[i].Value = b.fields[i].Default
		}
	}
}

// Reset restores every field to its template default.
func (b *Buffer) Reset() {
	b.Prefill(nil)
}

// Value returns the raw draft of name, trimmed.
func (b *Buffer) Value(name string) string {
	i, ok := b.index[name]
	if !ok {
		return ""
	}
	return strings.TrimSpace(b.fields[i].Value)
}

// Set replaces the draft of name. Unknown names are ignored.
func (b *Buffer) Set(name, value string) {
	if i, ok := b.index[name]; ok {
		b.fields[i].Value = value
	}
}

// Values returns every trimmed draft keyed by field name.
func (b *Buffer) Values() map[string]string {
	out := make(map[string]string, len(b.fields))
	for _, f := range b.fields {
		out[f.Name] = strings.TrimSpace(f.Value)
	}
	return out
}

// Int parses name as a whole number. Thousands separators ('.', ',', ' ')
// and an "Rp" prefix are accepted. An empty draft is zero.
func (b *Buffer) Int(name string) (int64, error) {
	raw := cleanNumber(b.Value(name))
	if raw == "" {
		return 0, nil
	}
	raw = strings.NewReplacer(".", "", ",", "").Replace(raw)
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a whole number", b.label(name), b.Value(name))
	}
	return n, nil
}

// Amount parses name as a rupiah amount. Rupiah has no minor unit, so '.'
// and ',' are thousands separators and "Rp 1.500.000" reads as 1500000.
// An empty draft is zero.
func (b *Buffer) Amount(name string) (float64, error) {
	raw := strings.NewReplacer(".", "", ",", "").Replace(cleanNumber(b.Value(name)))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an amount", b.label(name), b.Value(name))
	}
	return float64(n), nil
}

// List splits name on commas and newlines, dropping blank entries.
func (b *Buffer) List(name string) []string {
	return SplitList(b.Value(name))
}

// SetList stores entries as the draft of name.
func (b *Buffer) SetList(name string, entries []string) {
	b.Set(name, JoinList(entries))
}

// Append adds entry to the list field name unless it is already present.
func (b *Buffer) Append(name, entry string) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return
	}
	entries := b.List(name)
	for _, e := range entries {
		if e == entry {
			return
		}
	}
	b.SetList(name, append(entries, entry))
}

// SplitList splits a comma/newline separated draft.
func SplitList(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == '\n' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinList is the inverse of SplitList.
func JoinList(entries []string) string {
	return strings.Join(entries, ", ")
}

func (b *Buffer) label(name string) string {
	if i, ok := b.index[name]; ok {
		return b.fields[i].Label
	}
	return name
}

func cleanNumber(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "Rp"), "rp")
	return strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
}
