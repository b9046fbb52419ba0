// Package printify is a client for the Printify REST API: shops, catalog,
// products, uploads, orders and webhooks.
package printify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"iamtoxico-bridge/internal/domain"
	"iamtoxico-bridge/internal/infrastructure/metrics"
	"iamtoxico-bridge/internal/infrastructure/restclient"

	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL = "https://api.printify.com/v1"

	productPageSize = 50
	orderPageSize   = 10
	uploadPageSize  = 100
)

// ClientConfig configures a Printify client
type ClientConfig struct {
	APIKey string
	// BaseURL overrides DefaultBaseURL
	BaseURL       string
	WebhookSecret string
	Timeout       time.Duration
	MaxRetries    int
	RetryDelay    time.Duration
	HTTPClient    *http.Client
}

// Client authenticates with a static bearer key
type Client struct {
	rest          *restclient.Client
	webhookSecret string
	logger        zerolog.Logger
}

// NewClient creates a Printify client
func NewClient(cfg ClientConfig, m *metrics.Metrics, logger zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, &domain.ConfigurationError{Message: "PRINTIFY_API_KEY is not set"}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	apiKey := cfg.APIKey

	rest := restclient.New(restclient.Config{
		Platform:   domain.PlatformPrintify,
		BaseURL:    baseURL,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		HTTPClient: cfg.HTTPClient,
		Authorize: func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+apiKey)
			req.Header.Set("User-Agent", "iamtoxico-bridge")
		},
	}, m, logger)

	return &Client{
		rest:          rest,
		webhookSecret: cfg.WebhookSecret,
		logger:        logger.With().Str("platform", string(domain.PlatformPrintify)).Logger(),
	}, nil
}

// page fetches one page. Endpoints that return a bare array are reported
// as a single page.
func page[T any](ctx context.Context, c *Client, path string, pageNum, limit int) (Page[T], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(pageNum))
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var raw json.RawMessage
	if _, err := c.rest.Do(ctx, http.MethodGet, path, query, nil, &raw); err != nil {
		return Page[T]{}, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return Page[T]{}, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		return Page[T]{Items: items, CurrentPage: 1, LastPage: 1}, nil
	}

	var envelope struct {
		CurrentPage int `json:"current_page"`
		LastPage    int `json:"last_page"`
		Data        []T `json:"data"`
	}
	if len(trimmed) > 0 {
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return Page[T]{}, fmt.Errorf("failed to decode %s: %w", path, err)
		}
	}
	if envelope.CurrentPage == 0 {
		envelope.CurrentPage = pageNum
	}
	return Page[T]{Items: envelope.Data, CurrentPage: envelope.CurrentPage, LastPage: envelope.LastPage}, nil
}

// paginate walks page=1..last_page and concatenates the results in order
func paginate[T any](ctx context.Context, c *Client, path string, limit int) ([]T, error) {
	var all []T
	for pageNum := 1; ; pageNum++ {
		p, err := page[T](ctx, c, path, pageNum, limit)
		if err != nil {
			return nil, err
		}
		all = append(all, p.Items...)
		if len(p.Items) == 0 || p.LastPage == 0 || pageNum >= p.LastPage {
			return all, nil
		}
	}
}

// Shops API

func (c *Client) Shops(ctx context.Context) ([]domain.ProductionShop, error) {
	shops, err := paginate[domain.ProductionShop](ctx, c, "shops.json", 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}
	return shops, nil
}

// Catalog API

func (c *Client) Blueprints(ctx context.Context) ([]domain.Blueprint, error) {
	var blueprints []domain.Blueprint
	if _, err := c.rest.Do(ctx, http.MethodGet, "catalog/blueprints.json", nil, nil, &blueprints); err != nil {
		return nil, fmt.Errorf("failed to list blueprints: %w", err)
	}
	return blueprints, nil
}

func (c *Client) Blueprint(ctx context.Context, blueprintID int) (*domain.Blueprint, error) {
	var blueprint domain.Blueprint
	path := fmt.Sprintf("catalog/blueprints/%d.json", blueprintID)
	if _, err := c.rest.Do(ctx, http.MethodGet, path, nil, nil, &blueprint); err != nil {
		return nil, fmt.Errorf("failed to get blueprint: %w", err)
	}
	return &blueprint, nil
}

func (c *Client) PrintProviders(ctx context.Context, blueprintID int) ([]PrintProvider, error) {
	var providers []PrintProvider
	path := fmt.Sprintf("catalog/blueprints/%d/print_providers.json", blueprintID)
	if _, err := c.rest.Do(ctx, http.MethodGet, path, nil, nil, &providers); err != nil {
		return nil, fmt.Errorf("failed to list print providers: %w", err)
	}
	return providers, nil
}

func (c *Client) CatalogVariants(ctx context.Context, blueprintID, printProviderID int) (*CatalogVariants, error) {
	var variants CatalogVariants
	path := fmt.Sprintf("catalog/blueprints/%d/print_providers/%d/variants.json", blueprintID, printProviderID)
	if _, err := c.rest.Do(ctx, http.MethodGet, path, nil, nil, &variants); err != nil {
		return nil, fmt.Errorf("failed to list catalog variants: %w", err)
	}
	return &variants, nil
}

// Uploads API

// UploadImage adds an image to the media library from a public URL
func (c *Client) UploadImage(ctx context.Context, fileName, imageURL string) (*UploadedImage, error) {
	body := map[string]string{"file_name": fileName, "url": imageURL}
	var uploaded UploadedImage
	if _, err := c.rest.Do(ctx, http.MethodPost, "uploads/images.json", nil, body, &uploaded); err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}
	return &uploaded, nil
}

func (c *Client) UploadedImages(ctx context.Context) ([]UploadedImage, error) {
	images, err := paginate[UploadedImage](ctx, c, "uploads.json", uploadPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	return images, nil
}
