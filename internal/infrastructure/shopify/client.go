package shopify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"iamtoxico-bridge/internal/domain"
	"iamtoxico-bridge/internal/infrastructure/metrics"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// DefaultAPIVersion is the Admin REST API version the client targets
const DefaultAPIVersion = "2025-01"

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
)

// ClientConfig configures an Admin API client for one store
type ClientConfig struct {
	ShopDomain  string
	AccessToken string
	APIVersion  string
	Timeout     time.Duration
	// MaxRetries is the number of retries on 429 and 503. Zero means the
	// default, a negative value disables retries.
	MaxRetries int
	HTTPClient *http.Client
}

// Client is an Admin REST API client bound to one store and access token
type Client struct {
	shopDomain string
	api        *goshopify.Client
	logger     zerolog.Logger
}

// NewClient creates a Shopify Admin API client
func NewClient(cfg ClientConfig, m *metrics.Metrics, logger zerolog.Logger) (*Client, error) {
	shop := NormalizeShopDomain(cfg.ShopDomain)
	if shop == "" {
		return nil, &domain.ConfigurationError{Message: "shopify shop domain is required"}
	}
	version := cfg.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}
	logger = logger.With().Str("platform", string(domain.PlatformShopify)).Str("shop", shop).Logger()

	api, err := goshopify.NewClient(goshopify.App{}, shop, cfg.AccessToken,
		goshopify.WithVersion(version),
		goshopify.WithRetry(attempts(cfg.MaxRetries)),
		goshopify.WithHTTPClient(instrument(cfg.HTTPClient, cfg.Timeout, m)),
		goshopify.WithLogger(leveledLogger{logger: logger}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create shopify client: %w", err)
	}

	return &Client{
		shopDomain: shop,
		api:        api,
		logger:     logger,
	}, nil
}

// attempts converts a retry count into go-shopify's total attempt budget
func attempts(maxRetries int) int {
	switch {
	case maxRetries < 0:
		return 0
	case maxRetries == 0:
		return defaultMaxRetries + 1
	default:
		return maxRetries + 1
	}
}

// instrument returns a copy of base whose transport counts responses per status
func instrument(base *http.Client, timeout time.Duration, m *metrics.Metrics) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := &http.Client{}
	if base != nil {
		copied := *base
		client = &copied
	}
	if client.Timeout == 0 {
		client.Timeout = timeout
	}
	next := client.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	client.Transport = countingTransport{next: next, metrics: m}
	return client
}

type countingTransport struct {
	next    http.RoundTripper
	metrics *metrics.Metrics
}

func (t countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	t.metrics.UpstreamRequest(string(domain.PlatformShopify), resp.StatusCode)
	if resp.StatusCode == http.StatusTooManyRequests {
		t.metrics.UpstreamRetry(string(domain.PlatformShopify))
	}
	return resp, nil
}

// leveledLogger routes go-shopify's printf logging into zerolog
type leveledLogger struct {
	logger zerolog.Logger
}

func (l leveledLogger) Debugf(format string, v ...interface{}) { l.logger.Debug().Msgf(format, v...) }
func (l leveledLogger) Infof(format string, v ...interface{})  { l.logger.Info().Msgf(format, v...) }
func (l leveledLogger) Warnf(format string, v ...interface{})  { l.logger.Warn().Msgf(format, v...) }
func (l leveledLogger) Errorf(format string, v ...interface{}) { l.logger.Error().Msgf(format, v...) }

// ShopDomain returns the store this client is bound to
func (c *Client) ShopDomain() string {
	return c.shopDomain
}

// NormalizeShopDomain turns a bare store handle into its myshopify.com domain
func NormalizeShopDomain(shop string) string {
	shop = strings.TrimSpace(strings.ToLower(shop))
	shop = strings.TrimPrefix(shop, "https://")
	shop = strings.TrimPrefix(shop, "http://")
	shop = strings.TrimRight(shop, "/")
	if shop != "" && !strings.Contains(shop, ".") {
		shop += ".myshopify.com"
	}
	return shop
}

// Shop API

func (c *Client) GetShop(ctx context.Context) (*goshopify.Shop, error) {
	shop, err := c.api.Shop.Get(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get shop: %w", upstreamError(http.MethodGet, "shop.json", err))
	}
	return shop, nil
}

// upstreamError maps go-shopify response errors onto domain.UpstreamError so
// callers can branch on the status code. Transport errors pass through.
func upstreamError(method, path string, err error) error {
	var rateLimited goshopify.RateLimitError
	if errors.As(err, &rateLimited) {
		return &domain.UpstreamError{
			Platform:   domain.PlatformShopify,
			Method:     method,
			Path:       path,
			StatusCode: rateLimited.Status,
			Body:       rateLimited.Error(),
			Err:        domain.ErrRateLimited,
		}
	}
	var response goshopify.ResponseError
	if errors.As(err, &response) {
		return &domain.UpstreamError{
			Platform:   domain.PlatformShopify,
			Method:     method,
			Path:       path,
			StatusCode: response.Status,
			Body:       response.Error(),
			Err:        err,
		}
	}
	var decoding goshopify.ResponseDecodingError
	if errors.As(err, &decoding) && decoding.Status != 0 {
		return &domain.UpstreamError{
			Platform:   domain.PlatformShopify,
			Method:     method,
			Path:       path,
			StatusCode: decoding.Status,
			Body:       string(decoding.Body),
			Err:        err,
		}
	}
	return err
}
