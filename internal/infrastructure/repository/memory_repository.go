package repository

import (
	"context"
	"sync"
	"time"

	"iamtoxico-bridge/internal/domain"
	"iamtoxico-bridge/internal/ports"
)

// DefaultMemoryCapacity bounds the in-memory log
const DefaultMemoryCapacity = 500

// MemoryRepository keeps the most recent webhook events in a ring buffer.
// Used when MONGODB_URI is unset.
type MemoryRepository struct {
	mu       sync.Mutex
	events   []*domain.WebhookEvent
	capacity int
}

func NewMemoryRepository(capacity int) *MemoryRepository {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryRepository{capacity: capacity}
}

func (r *MemoryRepository) LogWebhook(ctx context.Context, event *domain.WebhookEvent) error {
	stored := *event
	if stored.ReceivedAt.IsZero() {
		stored.ReceivedAt = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, &stored)
	if overflow := len(r.events) - r.capacity; overflow > 0 {
		r.events = append([]*domain.WebhookEvent(nil), r.events[overflow:]...)
	}
	return nil
}

func (r *MemoryRepository) RecentWebhooks(ctx context.Context, limit int) ([]*domain.WebhookEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 || limit > len(r.events) {
		limit = len(r.events)
	}
	recent := make([]*domain.WebhookEvent, 0, limit)
	for i := len(r.events) - 1; i >= 0 && len(recent) < limit; i-- {
		copied := *r.events[i]
		recent = append(recent, &copied)
	}
	return recent, nil
}

var _ ports.WebhookEventLog = (*MemoryRepository)(nil)
