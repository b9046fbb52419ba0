package application

import (
	"context"
	"errors"
	"sync"

	"iamtoxico-bridge/internal/domain"
	"iamtoxico-bridge/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
)

type fakeStorefront struct {
	mu           sync.Mutex
	shop         string
	fulfillments []domain.Fulfillment
	failTracking map[string]bool
	webhooks     map[string]bool
	ensureCalls  int
	getShopErr   error
	ensureErr    error
}

func newFakeStorefront(shop string) *fakeStorefront {
	return &fakeStorefront{shop: shop, failTracking: map[string]bool{}, webhooks: map[string]bool{}}
}

func (f *fakeStorefront) ShopDomain() string { return f.shop }

func (f *fakeStorefront) GetShop(ctx context.Context) (*goshopify.Shop, error) {
	if f.getShopErr != nil {
		return nil, f.getShopErr
	}
	return &goshopify.Shop{Name: f.shop}, nil
}

func (f *fakeStorefront) CreateFulfillment(ctx context.Context, fulfillment domain.Fulfillment) (*goshopify.Fulfillment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTracking[fulfillment.TrackingNumber] {
		return nil, &domain.UpstreamError{Platform: domain.PlatformShopify, StatusCode: 422, Body: "invalid"}
	}
	f.fulfillments = append(f.fulfillments, fulfillment)
	return &goshopify.Fulfillment{Id: uint64(len(f.fulfillments))}, nil
}

func (f *fakeStorefront) EnsureWebhooks(ctx context.Context, baseURL string) ([]domain.WebhookSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensureCalls++
	if f.ensureErr != nil {
		return nil, f.ensureErr
	}
	for _, topic := range []string{"orders/create", "orders/cancelled", "app/uninstalled"} {
		f.webhooks[topic] = true
	}
	subs := make([]domain.WebhookSubscription, 0, len(f.webhooks))
	for topic := range f.webhooks {
		subs = append(subs, domain.WebhookSubscription{Topic: topic, Address: baseURL})
	}
	return subs, nil
}

type fakeProduction struct {
	mu           sync.Mutex
	shops        []domain.ProductionShop
	shopsCalls   int
	orders       []domain.ProductionOrder
	created      []domain.ProductionOrderRequest
	cancelled    []string
	published    []string
	publishFlags []domain.PublishFlags
	createErr    error
	ensureShopID int
}

func newFakeProduction() *fakeProduction {
	return &fakeProduction{
		shops: []domain.ProductionShop{
			{ID: 1, Title: "Etsy shop", SalesChannel: "etsy"},
			{ID: 42, Title: "iamtoxico", SalesChannel: "shopify"},
		},
	}
}

func (f *fakeProduction) Shops(ctx context.Context) ([]domain.ProductionShop, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shopsCalls++
	return f.shops, nil
}

func (f *fakeProduction) Blueprints(ctx context.Context) ([]domain.Blueprint, error) {
	return nil, nil
}

func (f *fakeProduction) CreateOrder(ctx context.Context, shopID int, req domain.ProductionOrderRequest) (domain.ProductionOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return domain.ProductionOrder{}, f.createErr
	}
	f.created = append(f.created, req)
	return domain.ProductionOrder{ID: "po-new", ExternalID: req.ExternalID}, nil
}

func (f *fakeProduction) AllOrders(ctx context.Context, shopID int) ([]domain.ProductionOrder, error) {
	return f.orders, nil
}

func (f *fakeProduction) CancelOrder(ctx context.Context, shopID int, orderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, orderID)
	return nil
}

func (f *fakeProduction) PublishProduct(ctx context.Context, shopID int, productID string, flags domain.PublishFlags) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, productID)
	f.publishFlags = append(f.publishFlags, flags)
	return nil
}

func (f *fakeProduction) EnsureWebhooks(ctx context.Context, shopID int, baseURL string) ([]domain.WebhookSubscription, error) {
	f.ensureShopID = shopID
	return []domain.WebhookSubscription{{Topic: "order:shipping-update", Address: baseURL + "/printify/webhooks"}}, nil
}

type memoryTokens struct {
	mu     sync.Mutex
	tokens map[string]domain.AccessToken
}

func newMemoryTokens() *memoryTokens {
	return &memoryTokens{tokens: map[string]domain.AccessToken{}}
}

func (m *memoryTokens) Save(token domain.AccessToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if token.ShopDomain == "" {
		return errors.New("shop domain required")
	}
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

type stubValidator struct{ valid bool }

func (s stubValidator) ValidateToken(ctx context.Context, client ports.ShopChecker, shopDomain string) bool {
	return s.valid
}
