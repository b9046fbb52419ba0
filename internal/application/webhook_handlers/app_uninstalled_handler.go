package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"iamtoxico-bridge/internal/domain"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// ConnectorResetter detaches a storefront after uninstall
type ConnectorResetter interface {
	Reset(shop string) error
}

// AppUninstalledHandler handles app uninstalled webhook events
type AppUninstalledHandler struct {
	logger     zerolog.Logger
	connectors ConnectorResetter
}

// NewAppUninstalledHandler creates a new app uninstalled webhook handler
func NewAppUninstalledHandler(logger zerolog.Logger, connectors ConnectorResetter) *AppUninstalledHandler {
	return &AppUninstalledHandler{
		logger:     logger,
		connectors: connectors,
	}
}

// CanHandle returns true if this handler can process the given topic
func (h *AppUninstalledHandler) CanHandle(topic string) bool {
	return topic == "app/uninstalled"
}

// Handle drops the storefront connection, the bridge and the stored token
func (h *AppUninstalledHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	var shop goshopify.Shop
	if err := json.Unmarshal(event.Payload, &shop); err != nil {
		return fmt.Errorf("failed to parse app uninstalled webhook payload: %w", err)
	}

	shopDomain := event.Shop
	if shopDomain == "" {
		shopDomain = shop.MyshopifyDomain
	}
	if shopDomain == "" {
		shopDomain = shop.Domain
	}

	h.logger.Info().
		Str("topic", event.Topic).
		Str("shop", shopDomain).
		Msg("Processing app uninstalled webhook event")

	if err := h.connectors.Reset(shopDomain); err != nil {
		return fmt.Errorf("failed to reset connectors: %w", err)
	}
	event.Outcome = "reset"

	h.logger.Info().Str("shop", shopDomain).Msg("App uninstalled - cleanup completed")
	return nil
}
