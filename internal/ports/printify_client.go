package ports

import (
	"context"

	"iamtoxico-bridge/internal/domain"
)

// ProductionProvider is the subset of the Printify API the bridge and the
// status endpoints drive
type ProductionProvider interface {
	// Shop API
	Shops(ctx context.Context) ([]domain.ProductionShop, error)

	// Catalog API
	Blueprints(ctx context.Context) ([]domain.Blueprint, error)

	// Order API
	CreateOrder(ctx context.Context, shopID int, req domain.ProductionOrderRequest) (domain.ProductionOrder, error)
	AllOrders(ctx context.Context, shopID int) ([]domain.ProductionOrder, error)
	CancelOrder(ctx context.Context, shopID int, orderID string) error

	// Product API
	PublishProduct(ctx context.Context, shopID int, productID string, flags domain.PublishFlags) error

	// Webhook API
	EnsureWebhooks(ctx context.Context, shopID int, baseURL string) ([]domain.WebhookSubscription, error)
}
