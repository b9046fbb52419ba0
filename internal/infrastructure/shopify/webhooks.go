package shopify

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"iamtoxico-bridge/internal/domain"
	"iamtoxico-bridge/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
)

// WebhookRoutes maps each required topic to the router path that receives it
var WebhookRoutes = map[string]string{
	"orders/create":    "/shopify/webhooks/orders",
	"orders/updated":   "/shopify/webhooks/orders",
	"orders/cancelled": "/shopify/webhooks/orders",
	"orders/fulfilled": "/shopify/webhooks/orders",
	"products/create":  "/shopify/webhooks/products",
	"products/update":  "/shopify/webhooks/products",
	"products/delete":  "/shopify/webhooks/products",
	"refunds/create":   "/shopify/webhooks/refunds",
	"app/uninstalled":  "/shopify/webhooks/app",
}

// Webhook API

func (c *Client) Webhooks(ctx context.Context) ([]goshopify.Webhook, error) {
	webhooks, err := c.api.Webhook.List(ctx, goshopify.ListOptions{Limit: DefaultPageSize})
	if err != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", upstreamError(http.MethodGet, "webhooks.json", err))
	}
	return webhooks, nil
}

func (c *Client) CreateWebhook(ctx context.Context, topic, address string) (*goshopify.Webhook, error) {
	created, err := c.api.Webhook.Create(ctx, goshopify.Webhook{
		Topic:   topic,
		Address: address,
		Format:  "json",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook %s: %w", topic, upstreamError(http.MethodPost, "webhooks.json", err))
	}
	return created, nil
}

func (c *Client) DeleteWebhook(ctx context.Context, webhookID uint64) error {
	if err := c.api.Webhook.Delete(ctx, webhookID); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", upstreamError(http.MethodDelete, fmt.Sprintf("webhooks/%d.json", webhookID), err))
	}
	return nil
}

// RegisterWebhookIfMissing creates a subscription only when none exists for topic.
// It reports whether a subscription was created.
func (c *Client) RegisterWebhookIfMissing(ctx context.Context, topic, address string) (bool, error) {
	existing, err := c.Webhooks(ctx)
	if err != nil {
		return false, err
	}
	return c.registerIfMissing(ctx, existing, topic, address)
}

func (c *Client) registerIfMissing(ctx context.Context, existing []goshopify.Webhook, topic, address string) (bool, error) {
	for _, webhook := range existing {
		if webhook.Topic != topic {
			continue
		}
		if webhook.Address != address {
			c.logger.Warn().
				Str("topic", topic).
				Str("registered", webhook.Address).
				Str("wanted", address).
				Msg("Webhook already registered for a different address")
		}
		return false, nil
	}
	if _, err := c.CreateWebhook(ctx, topic, address); err != nil {
		return false, err
	}
	c.logger.Info().Str("topic", topic).Str("address", address).Msg("Webhook registered")
	return true, nil
}

// EnsureWebhooks registers every topic in WebhookRoutes against baseURL,
// listing remote subscriptions once. It returns the full subscription set.
func (c *Client) EnsureWebhooks(ctx context.Context, baseURL string) ([]domain.WebhookSubscription, error) {
	existing, err := c.Webhooks(ctx)
	if err != nil {
		return nil, err
	}
	baseURL = strings.TrimRight(baseURL, "/")

	for _, topic := range sortedTopics() {
		address := baseURL + WebhookRoutes[topic]
		created, err := c.registerIfMissing(ctx, existing, topic, address)
		if err != nil {
			return nil, err
		}
		if created {
			existing = append(existing, goshopify.Webhook{Topic: topic, Address: address})
		}
	}

	current, err := c.Webhooks(ctx)
	if err != nil {
		return nil, err
	}
	subscriptions := make([]domain.WebhookSubscription, 0, len(current))
	for _, webhook := range current {
		subscriptions = append(subscriptions, domain.WebhookSubscription{
			ID:      strconv.FormatUint(webhook.Id, 10),
			Topic:   webhook.Topic,
			Address: webhook.Address,
		})
	}
	return subscriptions, nil
}

// RequiredTopics lists the topics EnsureWebhooks registers, sorted
func RequiredTopics() []string {
	return sortedTopics()
}

func sortedTopics() []string {
	topics := make([]string, 0, len(WebhookRoutes))
	for topic := range WebhookRoutes {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}

var _ ports.Storefront = (*Client)(nil)
