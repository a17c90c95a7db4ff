package cache

import (
	"context"
	"sync"
	"time"

	"aldalil-gateway/internal/common/metrics"
)

type memoryEntry struct {
	entry     Entry
	expiresAt time.Time
}

// Memory is an in-process Store guarded by a mutex. Expired entries are
// dropped lazily on read and during Stats.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemory builds a memory store with the given entry TTL.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// NewMemoryWithClock is NewMemory with an injectable clock for tests.
func NewMemoryWithClock(ttl time.Duration, now func() time.Time) *Memory {
	m := NewMemory(ttl)
	m.now = now
	return m
}

func (m *Memory) Get(_ context.Context, key string) (Entry, bool, error) {
	m.mu.RLock()
	stored, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		metrics.CacheMisses.WithLabelValues("memory").Inc()
		return Entry{}, false, nil
	}
	if m.now().After(stored.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		metrics.CacheMisses.WithLabelValues("memory").Inc()
		return Entry{}, false, nil
	}

	metrics.CacheHits.WithLabelValues("memory").Inc()
	return stored.entry, true, nil
}

func (m *Memory) Put(_ context.Context, key string, entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{entry: entry, expiresAt: m.now().Add(m.ttl)}
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]memoryEntry)
	return nil
}

func (m *Memory) Stats(_ context.Context) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for key, stored := range m.entries {
		if now.After(stored.expiresAt) {
			delete(m.entries, key)
		}
	}
	return Stats{Backend: "memory", Entries: len(m.entries), TTL: m.ttl}, nil
}
