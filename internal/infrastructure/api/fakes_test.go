package api

import (
	"context"
	"sync"

	"iamtoxico-bridge/internal/domain"

	goshopify "github.com/bold-commerce/go-shopify/v4"
)

type fakeStorefront struct {
	mu           sync.Mutex
	shop         string
	fulfillments []domain.Fulfillment
	ensureCalls  int
}

func (f *fakeStorefront) ShopDomain() string { return f.shop }

func (f *fakeStorefront) GetShop(ctx context.Context) (*goshopify.Shop, error) {
	return &goshopify.Shop{MyshopifyDomain: f.shop}, nil
}

func (f *fakeStorefront) CreateFulfillment(ctx context.Context, fulfillment domain.Fulfillment) (*goshopify.Fulfillment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fulfillments = append(f.fulfillments, fulfillment)
	return &goshopify.Fulfillment{}, nil
}

func (f *fakeStorefront) EnsureWebhooks(ctx context.Context, baseURL string) ([]domain.WebhookSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensureCalls++
	return []domain.WebhookSubscription{
		{Topic: "orders/create", Address: baseURL + "/shopify/webhooks/orders"},
		{Topic: "app/uninstalled", Address: baseURL + "/shopify/webhooks/app"},
	}, nil
}

func (f *fakeStorefront) fulfilled() []domain.Fulfillment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Fulfillment(nil), f.fulfillments...)
}

type fakeProduction struct {
	mu         sync.Mutex
	shops      []domain.ProductionShop
	shopsErr   error
	blueprints []domain.Blueprint
	created    []domain.ProductionOrderRequest
	published  []string
}

func newFakeProduction() *fakeProduction {
	return &fakeProduction{
		shops: []domain.ProductionShop{
			{ID: 3, Title: "Pop-up", SalesChannel: "custom_integration"},
			{ID: 42, Title: "iamtoxico", SalesChannel: "shopify"},
		},
	}
}

func (f *fakeProduction) Shops(ctx context.Context) ([]domain.ProductionShop, error) {
	return f.shops, f.shopsErr
}

func (f *fakeProduction) Blueprints(ctx context.Context) ([]domain.Blueprint, error) {
	return f.blueprints, nil
}

func (f *fakeProduction) CreateOrder(ctx context.Context, shopID int, req domain.ProductionOrderRequest) (domain.ProductionOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, req)
	return domain.ProductionOrder{ID: "po-1", ExternalID: req.ExternalID}, nil
}

func (f *fakeProduction) AllOrders(ctx context.Context, shopID int) ([]domain.ProductionOrder, error) {
	return nil, nil
}

func (f *fakeProduction) CancelOrder(ctx context.Context, shopID int, orderID string) error {
	return nil
}

func (f *fakeProduction) PublishProduct(ctx context.Context, shopID int, productID string, flags domain.PublishFlags) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, productID)
	return nil
}

func (f *fakeProduction) EnsureWebhooks(ctx context.Context, shopID int, baseURL string) ([]domain.WebhookSubscription, error) {
	return []domain.WebhookSubscription{{Topic: "order:shipping-update", Address: baseURL + "/printify/webhooks"}}, nil
}

func (f *fakeProduction) createdOrders() []domain.ProductionOrderRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.ProductionOrderRequest(nil), f.created...)
}

type memoryTokens struct {
	mu     sync.Mutex
	tokens map[string]domain.AccessToken
}

func (m *memoryTokens) Save(token domain.AccessToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token.ShopDomain] = token
	return nil
}

func (m *memoryTokens) Load(shop string) (domain.AccessToken, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.tokens[shop]
	return token, ok, nil
}

func (m *memoryTokens) First() (domain.AccessToken, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, token := range m.tokens {
		return token, true, nil
	}
	return domain.AccessToken{}, false, nil
}

func (m *memoryTokens) Delete(shop string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, shop)
	return nil
}
