// Package session persists the console login across runs.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"
)

// KV is a small string key/value store.
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Clear(key string) error
}

// MemoryKV keeps values in memory.
type MemoryKV struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: map[string]string{}}
}

func (m *MemoryKV) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	return nil
}

func (m *MemoryKV) Clear(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

const (
	lockTimeout   = 3 * time.Second
	lockRetry     = 50 * time.Millisecond
	fileMode      = 0o600
	directoryMode = 0o700
)

// FileKV stores values in a TOML file guarded by a sibling lock file so two
// console processes never interleave writes.
type FileKV struct {
	path string
	lock *flock.Flock
	mu   sync.Mutex
}

// NewFileKV returns a FileKV at path. The file is created on first write.
func NewFileKV(path string) *FileKV {
	return &FileKV{path: path, lock: flock.New(path + ".lock")}
}

// Path returns the session file location.
func (f *FileKV) Path() string { return f.path }

func (f *FileKV) Get(key string) (string, error) {
	var out string
	err := f.withLock(func() error {
		values, err := f.load()
		if err != nil {
			return err
		}
		out = values[key]
		return nil
	})
	return out, err
}

func (f *FileKV) Set(key, value string) error {
	return f.withLock(func() error {
		values, err := f.load()
		if err != nil {
			return err
		}
		values[key] = value
		return f.save(values)
	})
}

func (f *FileKV) Clear(key string) error {
	return f.withLock(func() error {
		values, err := f.load()
		if err != nil {
			return err
		}
		if _, ok := values[key]; !ok {
			return nil
		}
		delete(values, key)
		return f.save(values)
	})
}

func (f *FileKV) withLock(fn func() error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), directoryMode); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()
	locked, err := f.lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("lock session: %w", err)
	}
	if !locked {
		return errors.New("lock session: could not acquire file lock")
	}
	defer func() { _ = f.lock.Unlock() }()
	return fn()
}

func (f *FileKV) load() (map[string]string, error) {
	values := map[string]string{}
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if len(data) == 0 {
		return values, nil
	}
	if err := toml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	return values, nil
}

func (f *FileKV) save(values map[string]string) error {
	data, err := toml.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*.toml")
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}
