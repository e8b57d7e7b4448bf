package blob

import (
	"fmt"
	"sync"

	"github.com/plumehq/plume/pkg/core"
)

// Memory implements core.Storage on a plain map. It backs tests and the
// degrade-to-session-only mode where no durable medium is available.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory returns an empty in-memory storage.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Get returns the blob stored under key, or core.ErrKeyNotFound.
func (m *Memory) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[key]
	if !ok {
		return "", fmt.Errorf("%q: %w", key, core.ErrKeyNotFound)
	}
	return value, nil
}

// Set replaces the blob stored under key.
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
