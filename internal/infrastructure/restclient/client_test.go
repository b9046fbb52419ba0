package restclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"iamtoxico-bridge/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, maxRetries int) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(Config{
		Platform:   domain.PlatformPrintify,
		BaseURL:    server.URL + "/v1/",
		MaxRetries: maxRetries,
		RetryDelay: time.Millisecond,
		Authorize: func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer test-key")
		},
	}, nil, zerolog.Nop())
}

func TestClient_Do_DecodesJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/shops.json", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": 7, "title": "iamtoxico", "sales_channel": "shopify"}]`))
	}, 3)

	var shops []domain.ProductionShop
	_, err := client.Do(context.Background(), http.MethodGet, "shops.json", url.Values{"page": {"2"}}, nil, &shops)
	require.NoError(t, err)
	require.Len(t, shops, 1)
	assert.Equal(t, 7, shops[0].ID)
}

func TestClient_Do_SendsJSONBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "order:created", body["topic"])
		w.Write([]byte(`{"id": "wh-1"}`))
	}, 3)

	var out struct {
		ID string `json:"id"`
	}
	_, err := client.Do(context.Background(), http.MethodPost, "/webhooks.json", nil, map[string]string{"topic": "order:created"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "wh-1", out.ID)
}

func TestClient_Do_RetriesOnceAfter429(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0.01")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"products": [{"id": 1}]}`))
	}, 3)

	var slept []time.Duration
	client.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	var out struct {
		Products []struct {
			ID int `json:"id"`
		} `json:"products"`
	}
	_, err := client.Do(context.Background(), http.MethodGet, "products.json", nil, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	require.Len(t, slept, 1)
	assert.Equal(t, 10*time.Millisecond, slept[0])
	require.Len(t, out.Products, 1)
}

func TestClient_Do_RateLimitExhausted(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "slow down"}`))
	}, 2)

	_, err := client.Do(context.Background(), http.MethodGet, "shops.json", nil, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateLimited)

	var upstream *domain.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusTooManyRequests, upstream.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_Do_UpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"errors": {"reason": "invalid variant"}}`))
	}, 3)

	_, err := client.Do(context.Background(), http.MethodPost, "shops/1/orders.json", nil, map[string]string{}, nil)
	var upstream *domain.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusUnprocessableEntity, upstream.StatusCode)
	assert.Contains(t, upstream.Body, "invalid variant")
	assert.NotErrorIs(t, err, domain.ErrRateLimited)
}

func TestClient_Do_AbsoluteURL(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := New(Config{Platform: domain.PlatformShopify, BaseURL: "http://unused.invalid"}, nil, zerolog.Nop())
	_, err := client.Do(context.Background(), http.MethodGet, server.URL+"/products.json?page_info=abc", nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "/products.json?page_info=abc", gotPath)
}

func TestClient_Do_ContextCancelledWhileWaiting(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}, 3)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Do(ctx, http.MethodGet, "shops.json", nil, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRetryAfter(t *testing.T) {
	fallback := 2 * time.Second
	tests := []struct {
		name   string
		header string
		want   time.Duration
	}{
		{name: "empty", header: "", want: fallback},
		{name: "integer seconds", header: "3", want: 3 * time.Second},
		{name: "fractional seconds", header: "0.5", want: 500 * time.Millisecond},
		{name: "negative", header: "-1", want: 0},
		{name: "garbage", header: "soon", want: fallback},
		{name: "capped", header: "3600", want: time.Minute},
		{name: "above cap", header: "120", want: time.Minute},
		{name: "huge exponent", header: "1e12", want: time.Minute},
		{name: "out of float range", header: "1e400", want: fallback},
		{name: "infinity", header: "Inf", want: fallback},
		{name: "negative infinity", header: "-Inf", want: fallback},
		{name: "not a number", header: "NaN", want: fallback},
		{name: "past date", header: "Mon, 02 Jan 2006 15:04:05 GMT", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RetryAfter(tt.header, fallback))
		})
	}
}
