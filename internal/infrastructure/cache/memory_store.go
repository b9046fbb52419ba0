package cache

import (
	"context"
	"sync"
	"time"

	"iamtoxico-bridge/internal/ports"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is the single-instance fallback used when REDIS_URL is unset
type MemoryStore struct {
	mu         sync.Mutex
	deliveries map[string]entry
	states     map[string]entry
	now        func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		deliveries: make(map[string]entry),
		states:     make(map[string]entry),
		now:        time.Now,
	}
}

func (s *MemoryStore) FirstDelivery(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(s.deliveries, now)
	if _, seen := s.deliveries[key]; seen {
		return false, nil
	}
	s.deliveries[key] = entry{value: "1", expiresAt: now.Add(ttl)}
	return true, nil
}

func (s *MemoryStore) PutState(ctx context.Context, state, shop string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(s.states, now)
	s.states[state] = entry{value: shop, expiresAt: now.Add(ttl)}
	return nil
}

func (s *MemoryStore) TakeState(ctx context.Context, state string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.states[state]
	if !ok {
		return "", false, nil
	}
	delete(s.states, state)
	if !s.now().Before(e.expiresAt) {
		return "", false, nil
	}
	return e.value, true, nil
}

// sweep drops expired entries; callers hold mu
func (s *MemoryStore) sweep(entries map[string]entry, now time.Time) {
	for key, e := range entries {
		if !now.Before(e.expiresAt) {
			delete(entries, key)
		}
	}
}

var (
	_ ports.DeliveryDeduper = (*MemoryStore)(nil)
	_ ports.OAuthStateStore = (*MemoryStore)(nil)
)
