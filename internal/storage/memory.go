package storage

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Store, used for tests and STORAGE_BACKEND=memory.
type Memory struct {
	mu    sync.RWMutex
	data  map[string]entry
	clock func() time.Time
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return NewMemoryWithClock(time.Now)
}

// NewMemoryWithClock allows deterministic expiry in tests.
func NewMemoryWithClock(now func() time.Time) *Memory {
	return &Memory{data: make(map[string]entry), clock: now}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()
	if !ok || e.expired(m.clock()) {
		return "", ErrNotFound
	}
	return e.Value, nil
}

func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = newEntry(value, ttl, m.clock())
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

// Keys lists live keys. Handy for assertions.
func (m *Memory) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	now := m.clock()
	keys := make([]string, 0, len(m.data))
	for k, e := range m.data {
		if !e.expired(now) {
			keys = append(keys, k)
		}
	}
	return keys
}
