package resource

import (
	"context"
	"errors"
	"strconv"
	"sync"
)

type item struct {
	ID    string
	Name  string
	Email string
	Score any
	Ok    bool
}

func (i item) RecordID() string       { return i.ID }
func (i item) SearchFields() []string { return []string{i.Name, i.Email} }

func (i item) SortValue(key string) any {
	switch key {
	case "name":
		return i.Name
	case "score":
		return i.Score
	case "ok":
		return i.Ok
	}
	return nil
}

// memBackend is an in-memory Backend that records calls.
type memBackend struct {
	mu        sync.Mutex
	items     []item
	nextID    int
	listErr   error
	writeErr  error
	failIDs   map[string]bool
	calls     []string
	listCalls int
	block     chan struct{}
}

func (m *memBackend) List(context.Context) ([]item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	m.calls = append(m.calls, "list")
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]item, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *memBackend) Create(_ context.Context, payload any) error {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "create")
	if m.writeErr != nil {
		return m.writeErr
	}
	m.nextID++
	it := payload.(item)
	it.ID = strconv.Itoa(m.nextID)
	m.items = append(m.items, it)
	return nil
}

func (m *memBackend) Update(_ context.Context, id string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "update:"+id)
	if m.writeErr != nil {
		return m.writeErr
	}
	for i := range m.items {
		if m.items[i].ID == id {
			it := payload.(item)
			it.ID = id
			m.items[i] = it
			return nil
		}
	}
	return errors.New("not found")
}

func (m *memBackend) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "delete:"+id)
	if m.writeErr != nil || m.failIDs[id] {
		return errors.New("delete refused")
	}
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}
