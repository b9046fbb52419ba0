// Package pubsub fans inbound webhook events out to live subscribers of the
// /bridge/events feed.
package pubsub

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"

	"iamtoxico-bridge/internal/domain"

	"github.com/rs/zerolog"
)

const subscriberBuffer = 16

// EventFilter narrows a subscription. Zero fields match everything.
type EventFilter struct {
	Platform domain.Platform
	Topics   []string
}

// Matches reports whether event passes the filter
func (f EventFilter) Matches(event *domain.WebhookEvent) bool {
	if f.Platform != "" && event.Platform != f.Platform {
		return false
	}
	if len(f.Topics) == 0 {
		return true
	}
	for _, topic := range f.Topics {
		if event.Topic == topic {
			return true
		}
	}
	return false
}

// Subscription receives matching events on Events until its context ends,
// after which Events is closed and Done is closed
type Subscription struct {
	ID     string
	Filter EventFilter
	Events chan *domain.WebhookEvent
	Done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

// Feed is an in-process broadcaster of processed webhook events
type Feed struct {
	mu            sync.RWMutex
	subscriptions map[string]*Subscription
	nextID        atomic.Int64
	dropped       atomic.Int64
	logger        zerolog.Logger
}

func NewFeed(logger zerolog.Logger) *Feed {
	return &Feed{
		subscriptions: make(map[string]*Subscription),
		logger:        logger,
	}
}

// Subscribe registers a subscription that lives until ctx is cancelled
func (f *Feed) Subscribe(ctx context.Context, filter EventFilter) *Subscription {
	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		ID:     "sub-" + strconv.FormatInt(f.nextID.Add(1), 10),
		Filter: filter,
		Events: make(chan *domain.WebhookEvent, subscriberBuffer),
		Done:   make(chan struct{}),
		ctx:    subCtx,
		cancel: cancel,
	}

	f.mu.Lock()
	f.subscriptions[sub.ID] = sub
	f.mu.Unlock()

	f.logger.Debug().
		Str("subscriptionId", sub.ID).
		Str("platform", string(filter.Platform)).
		Strs("topics", filter.Topics).
		Msg("Event feed subscription created")

	go func() {
		<-subCtx.Done()
		f.remove(sub.ID)
	}()
	return sub
}

func (f *Feed) remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sub, ok := f.subscriptions[id]
	if !ok {
		return
	}
	delete(f.subscriptions, id)
	sub.cancel()
	close(sub.Events)
	close(sub.Done)

	f.logger.Debug().Str("subscriptionId", id).Msg("Event feed subscription removed")
}

// Publish hands event to every matching subscriber without blocking and
// returns how many received it. A subscriber whose buffer is full misses
// the event.
func (f *Feed) Publish(event *domain.WebhookEvent) int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	delivered := 0
	for _, sub := range f.subscriptions {
		if !sub.Filter.Matches(event) {
			continue
		}
		select {
		case sub.Events <- event:
			delivered++
		case <-sub.ctx.Done():
		default:
			f.dropped.Add(1)
			f.logger.Warn().
				Str("subscriptionId", sub.ID).
				Str("topic", event.Topic).
				Msg("Subscriber buffer full, dropping event")
		}
	}
	return delivered
}

// Subscribers returns the number of live subscriptions
func (f *Feed) Subscribers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subscriptions)
}

// Dropped returns how many deliveries were skipped because a buffer was full
func (f *Feed) Dropped() int64 {
	return f.dropped.Load()
}
