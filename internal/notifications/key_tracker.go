package notifications

import (
	"context"
	"sync"
	"time"
)

// KeyTracker remembers idempotency keys for a bounded time.
type KeyTracker interface {
	// Claim records key for ttl. It returns false when the key is already
	// held.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

type MemoryKeyTracker struct {
	mu   sync.Mutex
	keys map[string]time.Time
	now  func() time.Time
}

func NewMemoryKeyTracker() *MemoryKeyTracker {
	return &MemoryKeyTracker{
		keys: make(map[string]time.Time),
		now:  time.Now,
	}
}

func (m *MemoryKeyTracker) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, expires := range m.keys {
		if !now.Before(expires) {
			delete(m.keys, k)
		}
	}

	if _, held := m.keys[key]; held {
		return false, nil
	}

	m.keys[key] = now.Add(ttl)
	return true, nil
}
