// internal/score/memory.go
//
// In-memory KV implementation.
// Used by tests and as a fallback when no durable backend is configured.
//
// Characteristics:
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package score

import (
	"context"
	"sync"
)

type memoryKV struct {
	mu   sync.RWMutex
	vals map[string]string
}

// NewMemoryKV constructs an empty in-memory KV.
func NewMemoryKV() KV {
	return &memoryKV{vals: make(map[string]string)}
}

func (m *memoryKV) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vals[key]
	return v, ok, nil
}

func (m *memoryKV) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vals[key] = value
	return nil
}
