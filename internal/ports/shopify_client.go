package ports

import (
	"context"

	"iamtoxico-bridge/internal/domain"

	goshopify "github.com/bold-commerce/go-shopify/v4"
)

// ShopChecker is the lightweight call used to check that a token still works
type ShopChecker interface {
	GetShop(ctx context.Context) (*goshopify.Shop, error)
}

// TokenValidator decides whether a stored access token was revoked
type TokenValidator interface {
	ValidateToken(ctx context.Context, client ShopChecker, shopDomain string) bool
}

// Storefront is the subset of the Shopify Admin API the bridge writes to
type Storefront interface {
	ShopChecker
	ShopDomain() string

	// Fulfillment API
	CreateFulfillment(ctx context.Context, fulfillment domain.Fulfillment) (*goshopify.Fulfillment, error)

	// Webhook API
	EnsureWebhooks(ctx context.Context, baseURL string) ([]domain.WebhookSubscription, error)
}
