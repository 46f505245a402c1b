package settings

import (
	"context"
	"maps"
	"sync"
)

// Memory is an in-process store.
type Memory struct {
	mu   sync.RWMutex
	recs map[string]Record
}

// NewMemory creates an empty memory store.
func NewMemory() *Memory {
	return &Memory{recs: make(map[string]Record)}
}

func key(client, page string) string {
	return client + "\x00" + page
}

func (m *Memory) Get(_ context.Context, client, page string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.recs[key(client, page)]
	if !ok {
		return nil, ErrNotFound
	}
	return maps.Clone(rec), nil
}

func (m *Memory) Put(_ context.Context, client, page string, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[key(client, page)] = maps.Clone(rec)
	return nil
}

func (m *Memory) Close() error { return nil }
