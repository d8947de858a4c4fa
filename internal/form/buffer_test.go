package form

import (
	"reflect"
	"testing"
)

func groupTemplate() *Buffer {
	return New(
		Field{Name: "title", Label: "Judul"},
		Field{Name: "banner", Label: "Banner", Kind: List},
		Field{Name: "targetLot", Label: "Target Lot", Kind: Number, Default: "0"},
		Field{Name: "penagihanDate", Label: "Tanggal", Kind: Date},
	)
}

func TestBuffer_NewStartsFromDefaults(t *testing.T) {
	b := groupTemplate()
	if got := b.Value("targetLot"); got != "0" {
		t.Fatalf("Value(targetLot) = %q, want 0", got)
	}
	if got := b.Value("title"); got != "" {
		t.Fatalf("Value(title) = %q, want empty", got)
	}
	if b.Len() != 4 || b.Field(1).Name != "banner" {
		t.Fatalf("field order not kept: %#v", b.Fields())
	}
}

func TestBuffer_PrefillFallsBackToDefaults(t *testing.T) {
	b := groupTemplate()
	b.Set("targetLot", "99")
	b.Prefill(map[string]string{"title": "Arisan Mei", "unknown": "x"})

	if got := b.Value("title"); got != "Arisan Mei" {
		t.Fatalf("Value(title) = %q, want Arisan Mei", got)
	}
	if got := b.Value("targetLot"); got != "0" {
		t.Fatalf("Value(targetLot) = %q, want template default 0", got)
	}
	if b.Has("unknown") {
		t.Fatal("Prefill should not add unknown fields")
	}
}

func TestBuffer_ResetDiscardsDrafts(t *testing.T) {
	b := groupTemplate()
	b.Set("title", "draft")
	b.Reset()
	if got := b.Value("title"); got != "" {
		t.Fatalf("Value(title) after Reset = %q, want empty", got)
	}
}

func TestBuffer_Int(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"", 0},
		{"5", 5},
		{" 10000 ", 10000},
		{"1.000.000", 1000000},
		{"Rp 250.000", 250000},
		{"2,500", 2500},
	}
	b := groupTemplate()
	for _, tc := range cases {
		b.Set("targetLot", tc.in)
		got, err := b.Int("targetLot")
		if err != nil {
			t.Fatalf("Int(%q) returned error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Int(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}

	b.Set("targetLot", "lima")
	if _, err := b.Int("targetLot"); err == nil {
		t.Fatal("Int(lima) returned nil error")
	}
}

func TestBuffer_Amount(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "", want: 0},
		{in: "50000", want: 50000},
		{in: "10.000", want: 10000},
		{in: "1.000.000", want: 1000000},
		{in: "Rp1.000.000", want: 1000000},
		{in: "Rp 50.000", want: 50000},
		{in: "2,500", want: 2500},
		{in: "lima puluh", wantErr: true},
		{in: "-5000", wantErr: true},
	}
	for _, tc := range cases {
		b := New(Field{Name: "amount", Label: "Jumlah", Kind: Number})
		b.Set("amount", tc.in)
		got, err := b.Amount("amount")
		if (err != nil) != tc.wantErr {
			t.Fatalf("Amount(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if !tc.wantErr && got != tc.want {
			t.Fatalf("Amount(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestBuffer_ListFields(t *testing.T) {
	b := groupTemplate()
	b.Set("banner", "https://a/1.png,\n https://a/2.png ,,")
	want := []string{"https://a/1.png", "https://a/2.png"}
	if got := b.List("banner"); !reflect.DeepEqual(got, want) {
		t.Fatalf("List = %#v, want %#v", got, want)
	}

	b.Append("banner", "https://a/3.png")
	b.Append("banner", "https://a/1.png")
	b.Append("banner", "  ")
	want = append(want, "https://a/3.png")
	if got := b.List("banner"); !reflect.DeepEqual(got, want) {
		t.Fatalf("List after Append = %#v, want %#v", got, want)
	}
	if got := b.Value("banner"); got != "https://a/1.png, https://a/2.png, https://a/3.png" {
		t.Fatalf("Value = %q", got)
	}
}

func TestBuffer_UnknownFieldIsEmpty(t *testing.T) {
	b := groupTemplate()
	b.Set("missing", "x")
	if got := b.Value("missing"); got != "" {
		t.Fatalf("Value(missing) = %q, want empty", got)
	}
}
