package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileKV_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.toml")
	kv := NewFileKV(path)

	if got, err := kv.Get(KeyToken); err != nil || got != "" {
		t.Fatalf("Get on missing file = %q, %v; want empty", got, err)
	}
	if err := kv.Set(KeyToken, "tok"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := kv.Set(KeyPendingPhone, "+62812"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	reopened := NewFileKV(path)
	if got, _ := reopened.Get(KeyToken); got != "tok" {
		t.Fatalf("Get(token) = %q, want tok", got)
	}
	if got, _ := reopened.Get(KeyPendingPhone); got != "+62812" {
		t.Fatalf("Get(phone) = %q, want +62812", got)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("perm = %o, want 600", perm)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "accessTokens") {
		t.Fatalf("file = %q, want toml key accessTokens", data)
	}
}

func TestFileKV_Clear(t *testing.T) {
	kv := NewFileKV(filepath.Join(t.TempDir(), "session.toml"))
	_ = kv.Set(KeyToken, "tok")
	if err := kv.Clear(KeyToken); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if got, _ := kv.Get(KeyToken); got != "" {
		t.Fatalf("Get after Clear = %q, want empty", got)
	}
	if err := kv.Clear("missing"); err != nil {
		t.Fatalf("Clear(missing) returned error: %v", err)
	}
}

func TestFileKV_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	if err := os.WriteFile(path, []byte("not = [valid"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewFileKV(path).Get(KeyToken); err == nil || !strings.Contains(err.Error(), "parse session") {
		t.Fatalf("Get error = %v, want parse session error", err)
	}
}

func TestMemoryKV(t *testing.T) {
	var kv MemoryKV
	_ = kv.Set("a", "1")
	if got, _ := kv.Get("a"); got != "1" {
		t.Fatalf("Get = %q, want 1", got)
	}
	_ = kv.Clear("a")
	if got, _ := kv.Get("a"); got != "" {
		t.Fatalf("Get after Clear = %q", got)
	}
}
