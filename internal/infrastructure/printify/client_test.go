package printify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"iamtoxico-bridge/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testShopID = 777

// fakePrintify serves the subset of the v1 API the client exercises
type fakePrintify struct {
	mu            sync.Mutex
	webhooks      []Webhook
	webhookBodies []map[string]string
	orderBodies   []domain.ProductionOrderRequest
	cancelled     []string
	published     []string
	publishBodies []map[string]bool
	creates       int32
	authHeaders   []string
}

func (f *fakePrintify) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			f.authHeaders = append(f.authHeaders, r.Header.Get("Authorization"))
			f.mu.Unlock()
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/shops.json", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{
			{"id": 1, "title": "Etsy", "sales_channel": "etsy"},
			{"id": testShopID, "title": "iamtoxico", "sales_channel": "shopify"},
		})
	})
	r.Get("/shops/{shopID}/products.json", func(w http.ResponseWriter, r *http.Request) {
		pages := map[string][]map[string]any{
			"1": {{"id": "a", "title": "Hoodie"}, {"id": "b", "title": "Jogger"}},
			"2": {{"id": "c", "title": "Tee"}},
			"3": {{"id": "d", "title": "Shorts"}},
		}
		current := r.URL.Query().Get("page")
		n, _ := strconv.Atoi(current)
		writeJSON(w, map[string]any{"current_page": n, "last_page": 3, "data": pages[current]})
	})
	r.Post("/shops/{shopID}/products/{productID}/publish.json", func(w http.ResponseWriter, r *http.Request) {
		var flags map[string]bool
		json.NewDecoder(r.Body).Decode(&flags)
		if !flags["title"] || !flags["variants"] {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.published = append(f.published, chi.URLParam(r, "productID"))
		f.publishBodies = append(f.publishBodies, flags)
		f.mu.Unlock()
		writeJSON(w, map[string]any{})
	})
	r.Get("/shops/{shopID}/orders.json", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			writeJSON(w, map[string]any{"current_page": 1, "last_page": 2, "data": []map[string]any{
				{"id": "po-1", "external_id": "100", "status": "fulfilled"},
			}})
			return
		}
		writeJSON(w, map[string]any{"current_page": 2, "last_page": 2, "data": []map[string]any{
			{"id": "po-2", "external_id": "999", "status": "on-hold"},
		}})
	})
	r.Post("/shops/{shopID}/orders.json", func(w http.ResponseWriter, r *http.Request) {
		var body domain.ProductionOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.orderBodies = append(f.orderBodies, body)
		f.mu.Unlock()
		writeJSON(w, map[string]any{"id": "po-new"})
	})
	r.Post("/shops/{shopID}/orders/{orderID}/cancel.json", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.cancelled = append(f.cancelled, chi.URLParam(r, "orderID"))
		f.mu.Unlock()
		writeJSON(w, map[string]any{"id": chi.URLParam(r, "orderID"), "status": "canceled"})
	})
	r.Post("/shops/{shopID}/orders/shipping.json", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"standard": 499, "express": 1299, "priority": 1599, "economy": 399})
	})
	r.Get("/shops/{shopID}/webhooks.json", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, f.webhooks)
	})
	r.Post("/shops/{shopID}/webhooks.json", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		atomic.AddInt32(&f.creates, 1)
		f.mu.Lock()
		webhook := Webhook{
			ID:     "wh-" + strconv.Itoa(len(f.webhooks)+1),
			Topic:  body["topic"],
			URL:    body["url"],
			ShopID: chi.URLParam(r, "shopID"),
		}
		f.webhooks = append(f.webhooks, webhook)
		f.webhookBodies = append(f.webhookBodies, body)
		f.mu.Unlock()
		writeJSON(w, webhook)
	})
	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func newFakeClient(t *testing.T, secret string) (*Client, *fakePrintify) {
	t.Helper()
	fake := &fakePrintify{}
	server := httptest.NewServer(fake.routes())
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{
		APIKey:        "pfy-key",
		BaseURL:       server.URL,
		WebhookSecret: secret,
		RetryDelay:    time.Millisecond,
	}, nil, zerolog.Nop())
	require.NoError(t, err)
	return client, fake
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(ClientConfig{}, nil, zerolog.Nop())
	require.Error(t, err)
	assert.True(t, domain.IsConfigurationError(err))
}

func TestClient_Shops_PlainArrayIsSinglePage(t *testing.T) {
	client, fake := newFakeClient(t, "")

	shops, err := client.Shops(context.Background())
	require.NoError(t, err)
	require.Len(t, shops, 2)
	assert.Equal(t, testShopID, shops[1].ID)
	assert.Equal(t, "shopify", shops[1].SalesChannel)
	assert.Equal(t, []string{"Bearer pfy-key"}, fake.authHeaders)
}

func TestClient_AllProducts_ConcatenatesPagesInOrder(t *testing.T) {
	client, _ := newFakeClient(t, "")

	products, err := client.AllProducts(context.Background(), testShopID)
	require.NoError(t, err)

	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids)
}

func TestClient_Products_SinglePage(t *testing.T) {
	client, _ := newFakeClient(t, "")

	page, err := client.Products(context.Background(), testShopID, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 3, page.LastPage)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "c", page.Items[0].ID)
}

func TestClient_AllOrders(t *testing.T) {
	client, _ := newFakeClient(t, "")

	orders, err := client.AllOrders(context.Background(), testShopID)
	require.NoError(t, err)
	assert.Equal(t, []domain.ProductionOrder{
		{ID: "po-1", ExternalID: "100", Status: "fulfilled"},
		{ID: "po-2", ExternalID: "999", Status: "on-hold"},
	}, orders)
}

func TestClient_CreateOrder(t *testing.T) {
	client, fake := newFakeClient(t, "")

	created, err := client.CreateOrder(context.Background(), testShopID, domain.ProductionOrderRequest{
		ExternalID:     "999",
		Label:          "Order #999",
		ShippingMethod: domain.DefaultShippingMethod,
		LineItems:      []domain.ProductionLineItem{{ProductID: "p1", VariantID: 12345, Quantity: 2}},
		AddressTo:      domain.Recipient{FirstName: "Ada", Country: "US"},
	})
	require.NoError(t, err)
	assert.Equal(t, "po-new", created.ID)
	assert.Equal(t, "999", created.ExternalID)

	require.Len(t, fake.orderBodies, 1)
	body := fake.orderBodies[0]
	assert.Equal(t, "999", body.ExternalID)
	require.Len(t, body.LineItems, 1)
	assert.Equal(t, domain.ProductionLineItem{ProductID: "p1", VariantID: 12345, Quantity: 2}, body.LineItems[0])
}

func TestClient_CancelOrder(t *testing.T) {
	client, fake := newFakeClient(t, "")

	require.NoError(t, client.CancelOrder(context.Background(), testShopID, "po-2"))
	assert.Equal(t, []string{"po-2"}, fake.cancelled)
}

func TestClient_CalculateShipping(t *testing.T) {
	client, _ := newFakeClient(t, "")

	quote, err := client.CalculateShipping(context.Background(), testShopID, ShippingRequest{
		LineItems: []ShippingLineItem{{ProductID: "p1", VariantID: 1, Quantity: 1}},
		AddressTo: ShippingAddress{Country: "US"},
	})
	require.NoError(t, err)
	assert.Equal(t, 499, quote.Standard)
	assert.Equal(t, 1299, quote.Express)
}

func TestClient_PublishProduct(t *testing.T) {
	client, fake := newFakeClient(t, "")

	require.NoError(t, client.PublishProduct(context.Background(), testShopID, "p1", domain.DefaultPublishFlags()))
	assert.Equal(t, []string{"p1"}, fake.published)

	require.Len(t, fake.publishBodies, 1)
	body := fake.publishBodies[0]
	for _, key := range []string{"title", "description", "images", "variants", "tags", "keyFeatures", "shipping_template"} {
		assert.True(t, body[key], key)
	}
}

func TestClient_EnsureWebhooks_TwiceCreatesOncePerTopic(t *testing.T) {
	client, fake := newFakeClient(t, "whsec")
	ctx := context.Background()

	subs, err := client.EnsureWebhooks(ctx, testShopID, "https://bridge.example/")
	require.NoError(t, err)
	assert.Len(t, subs, len(RequiredTopics))

	subs, err = client.EnsureWebhooks(ctx, testShopID, "https://bridge.example")
	require.NoError(t, err)
	assert.Len(t, subs, len(RequiredTopics))
	assert.Equal(t, int32(len(RequiredTopics)), atomic.LoadInt32(&fake.creates))

	for _, sub := range subs {
		assert.Equal(t, "https://bridge.example/printify/webhooks", sub.Address)
	}
	for _, body := range fake.webhookBodies {
		assert.Equal(t, "whsec", body["secret"])
	}
}

func TestClient_RegisterWebhookIfMissing_Idempotent(t *testing.T) {
	client, fake := newFakeClient(t, "")
	ctx := context.Background()

	created, err := client.RegisterWebhookIfMissing(ctx, testShopID, TopicOrderShippingUpdate, "https://bridge.example/printify/webhooks")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = client.RegisterWebhookIfMissing(ctx, testShopID, TopicOrderShippingUpdate, "https://bridge.example/printify/webhooks")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fake.creates))
	_, hasSecret := fake.webhookBodies[0]["secret"]
	assert.False(t, hasSecret)
}

func TestClient_RetriesOn429(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0.01")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writeJSON(w, map[string]any{"id": "po-1", "external_id": "999", "status": "on-hold"})
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{APIKey: "k", BaseURL: server.URL}, nil, zerolog.Nop())
	require.NoError(t, err)

	order, err := client.GetOrder(context.Background(), testShopID, "po-1")
	require.NoError(t, err)
	assert.Equal(t, "999", order.ExternalID)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_RateLimitExhausted(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{APIKey: "k", BaseURL: server.URL, MaxRetries: 2}, nil, zerolog.Nop())
	require.NoError(t, err)

	_, err = client.Shops(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRateLimited))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestVerifyWebhook(t *testing.T) {
	body := []byte(`{"id":"evt-1","type":"order:shipping-update"}`)
	signature := SignWebhook("whsec", body)

	assert.True(t, VerifyWebhook("whsec", body, signature))
	assert.False(t, VerifyWebhook("other", body, signature))
	assert.False(t, VerifyWebhook("whsec", body, "sha256=zz"))
	assert.False(t, VerifyWebhook("whsec", body, ""))

	for i := range body {
		mutated := append([]byte(nil), body...)
		mutated[i] ^= 0x01
		assert.False(t, VerifyWebhook("whsec", mutated, signature), "byte %d", i)
	}

	assert.True(t, VerifyWebhook("", body, ""), "unsigned deliveries are accepted without a secret")
}
