package storage

import (
	"errors"
	"sync"
)

// ErrNotFound is returned by a Backend when a key has never been written.
var ErrNotFound = errors.New("key not found")

// Backend is a minimal key-value store for persisted state.
type Backend interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}

// MemoryBackend keeps values in memory. Used by tests.
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string][]byte
	writes int
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (m *MemoryBackend) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value under key.
func (m *MemoryBackend) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = append([]byte(nil), value...)
	m.writes++
	return nil
}

// Writes returns how many times Set has been called.
func (m *MemoryBackend) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}
