package storage

import (
	"context"
	"sync"
)

// MemoryBackend keeps usage counters in process memory. It is the default
// backend when no Redis address is configured; counters reset on restart.
type MemoryBackend struct {
	mu     sync.RWMutex
	counts map[string]map[string]int64
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{counts: make(map[string]map[string]int64)}
}

func (m *MemoryBackend) IncrementUsage(_ context.Context, key, field string, value int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	fields, ok := m.counts[key]
	if !ok {
		fields = make(map[string]int64)
		m.counts[key] = fields
	}
	fields[field] += value
	return nil
}

func (m *MemoryBackend) GetUsage(_ context.Context, key string) (map[string]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fields, ok := m.counts[key]
	if !ok {
		return nil, &ErrNotFound{Key: key}
	}
	out := make(map[string]int64, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out, nil
}

func (m *MemoryBackend) ListUsage(_ context.Context) (map[string]map[string]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]map[string]int64, len(m.counts))
	for key, fields := range m.counts {
		entry := make(map[string]int64, len(fields))
		for k, v := range fields {
			entry[k] = v
		}
		out[key] = entry
	}
	return out, nil
}

func (m *MemoryBackend) ResetUsage(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.counts, key)
	return nil
}

func (m *MemoryBackend) Health(context.Context) error { return nil }

func (m *MemoryBackend) Close() error { return nil }
