package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestRead(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}
	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{"read all (0)", 0, expectedAll},
		{"read all (negative)", -1, expectedAll},
		{"read partial (5)", 5, expectedAll[5:]},
		{"read exactly all (10)", 10, expectedAll},
		{"read more than exists (20)", 20, expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Read(missing) = %v, %v; want nil, nil", got, err)
	}
}

func TestParse(t *testing.T) {
	line := `{"time":"2026-03-01T10:15:30.5+07:00","level":"WARN","msg":"fetch failed","resource":"arisan","count":3,"error":"timeout"}`
	e := Parse(line)

	if e.Level != "WARN" || e.Message != "fetch failed" {
		t.Fatalf("Parse = %+v", e)
	}
	want := time.Date(2026, 3, 1, 3, 15, 30, 500_000_000, time.UTC)
	if !e.Time.Equal(want) {
		t.Fatalf("Time = %v, want %v", e.Time, want)
	}
	if e.Attrs["resource"] != "arisan" || e.Attrs["count"] != "3" || e.Attrs["error"] != "timeout" {
		t.Fatalf("Attrs = %v", e.Attrs)
	}
}

func TestParse_PlainLine(t *testing.T) {
	e := Parse("panic: something odd")
	if e.Message != "panic: something odd" || e.Level != "" {
		t.Fatalf("Parse plain = %+v", e)
	}
	if got := Format(e); got != "panic: something odd" {
		t.Fatalf("Format plain = %q", got)
	}
}

func TestFormat_SortsAttributes(t *testing.T) {
	e := Entry{
		Level:   "INFO",
		Message: "deleted",
		Attrs:   map[string]string{"resource": "event", "id": "7"},
	}
	if got, want := Format(e), "INFO  deleted id=7 resource=event"; got != want {
		t.Fatalf("Format = %q, want %q", got, want)
	}
}

func TestTail_FiltersByLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arisan-admin.log")
	lines := []string{
		`{"level":"DEBUG","msg":"request"}`,
		`{"level":"INFO","msg":"fetched"}`,
		``,
		`{"level":"ERROR","msg":"delete failed"}`,
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	entries, err := Tail(path, 100, "info")
	if err != nil {
		t.Fatalf("Tail returned error: %v", err)
	}
	var got []string
	for _, e := range entries {
		got = append(got, e.Message)
	}
	if want := []string{"fetched", "delete failed"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Tail = %v, want %v", got, want)
	}
}
