package printify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"iamtoxico-bridge/internal/domain"
	"iamtoxico-bridge/internal/ports"
)

const (
	TopicOrderCreated          = "order:created"
	TopicOrderUpdated          = "order:updated"
	TopicOrderSentToProduction = "order:sent-to-production"
	TopicOrderShippingUpdate   = "order:shipping-update"
	TopicOrderCompleted        = "order:completed"
	TopicShipmentCreated       = "order:shipment:created"
	TopicShipmentDelivered     = "order:shipment:delivered"
	TopicPublishStarted        = "product:publish:started"
	TopicPublishSucceeded      = "product:publish:succeeded"
	TopicPublishFailed         = "product:publish:failed"

	// WebhookPath is the router path that receives Printify events
	WebhookPath = "/printify/webhooks"
	// SignatureHeader carries sha256=<hex hmac> when a secret is configured
	SignatureHeader = "X-Pfy-Signature"
)

// RequiredTopics are registered by EnsureWebhooks
var RequiredTopics = []string{
	TopicOrderCreated,
	TopicOrderUpdated,
	TopicOrderSentToProduction,
	TopicOrderShippingUpdate,
	TopicOrderCompleted,
}

func webhooksPath(shopID int) string {
	return fmt.Sprintf("shops/%d/webhooks.json", shopID)
}

func (c *Client) Webhooks(ctx context.Context, shopID int) ([]Webhook, error) {
	var webhooks []Webhook
	if _, err := c.rest.Do(ctx, http.MethodGet, webhooksPath(shopID), nil, nil, &webhooks); err != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", err)
	}
	return webhooks, nil
}

// CreateWebhook subscribes address to topic. The configured secret, if any,
// is registered with the subscription so deliveries are signed.
func (c *Client) CreateWebhook(ctx context.Context, shopID int, topic, address string) (*Webhook, error) {
	body := map[string]string{"topic": topic, "url": address}
	if c.webhookSecret != "" {
		body["secret"] = c.webhookSecret
	}
	var created Webhook
	if _, err := c.rest.Do(ctx, http.MethodPost, webhooksPath(shopID), nil, body, &created); err != nil {
		return nil, fmt.Errorf("failed to create webhook %s: %w", topic, err)
	}
	return &created, nil
}

func (c *Client) DeleteWebhook(ctx context.Context, shopID int, webhookID string) error {
	path := fmt.Sprintf("shops/%d/webhooks/%s.json", shopID, url.PathEscape(webhookID))
	if _, err := c.rest.Do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	return nil
}

// RegisterWebhookIfMissing creates a subscription only when none exists for topic
func (c *Client) RegisterWebhookIfMissing(ctx context.Context, shopID int, topic, address string) (bool, error) {
	existing, err := c.Webhooks(ctx, shopID)
	if err != nil {
		return false, err
	}
	return c.registerIfMissing(ctx, shopID, existing, topic, address)
}

func (c *Client) registerIfMissing(ctx context.Context, shopID int, existing []Webhook, topic, address string) (bool, error) {
	for _, webhook := range existing {
		if webhook.Topic == topic {
			return false, nil
		}
	}
	if _, err := c.CreateWebhook(ctx, shopID, topic, address); err != nil {
		return false, err
	}
	c.logger.Info().Int("shopId", shopID).Str("topic", topic).Str("url", address).Msg("Webhook registered")
	return true, nil
}

// EnsureWebhooks registers RequiredTopics against baseURL and returns the
// resulting subscription set
func (c *Client) EnsureWebhooks(ctx context.Context, shopID int, baseURL string) ([]domain.WebhookSubscription, error) {
	existing, err := c.Webhooks(ctx, shopID)
	if err != nil {
		return nil, err
	}
	address := strings.TrimRight(baseURL, "/") + WebhookPath

	for _, topic := range RequiredTopics {
		created, err := c.registerIfMissing(ctx, shopID, existing, topic, address)
		if err != nil {
			return nil, err
		}
		if created {
			existing = append(existing, Webhook{Topic: topic, URL: address})
		}
	}

	current, err := c.Webhooks(ctx, shopID)
	if err != nil {
		return nil, err
	}
	subscriptions := make([]domain.WebhookSubscription, 0, len(current))
	for _, webhook := range current {
		subscriptions = append(subscriptions, domain.WebhookSubscription{
			ID:      webhook.ID,
			Topic:   webhook.Topic,
			Address: webhook.URL,
		})
	}
	return subscriptions, nil
}

// SignsWebhooks reports whether inbound deliveries are expected to be signed
func (c *Client) SignsWebhooks() bool {
	return c.webhookSecret != ""
}

// VerifyWebhook checks a sha256=<hex> signature over body. With no secret
// configured every delivery is accepted.
func (c *Client) VerifyWebhook(body []byte, signature string) bool {
	return VerifyWebhook(c.webhookSecret, body, signature)
}

// VerifyWebhook is the stateless form of Client.VerifyWebhook
func VerifyWebhook(secret string, body []byte, signature string) bool {
	if secret == "" {
		return true
	}
	signature = strings.TrimPrefix(strings.TrimSpace(signature), "sha256=")
	provided, err := hex.DecodeString(signature)
	if err != nil || len(provided) == 0 {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(provided, mac.Sum(nil))
}

// SignWebhook produces the X-Pfy-Signature value for body
func SignWebhook(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

var _ ports.ProductionProvider = (*Client)(nil)
