package ports

import (
	"context"
	"time"

	"iamtoxico-bridge/internal/domain"
)

// TokenStore persists storefront access tokens keyed by shop domain
type TokenStore interface {
	Save(token domain.AccessToken) error
	Load(shop string) (domain.AccessToken, bool, error)
	// First returns any stored token, used to restore a connection on start
	First() (domain.AccessToken, bool, error)
	Delete(shop string) error
}

// WebhookEventLog records inbound webhook deliveries for operators
type WebhookEventLog interface {
	LogWebhook(ctx context.Context, event *domain.WebhookEvent) error
	RecentWebhooks(ctx context.Context, limit int) ([]*domain.WebhookEvent, error)
}

// DeliveryDeduper remembers webhook delivery ids so redelivered events are
// acknowledged without being processed twice
type DeliveryDeduper interface {
	// FirstDelivery reports true the first time key is seen within ttl
	FirstDelivery(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// OAuthStateStore holds anti-forgery state between install and callback
type OAuthStateStore interface {
	PutState(ctx context.Context, state, shop string, ttl time.Duration) error
	// TakeState returns the shop bound to state and invalidates it
	TakeState(ctx context.Context, state string) (string, bool, error)
}
