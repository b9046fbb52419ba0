package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"iamtoxico-bridge/internal/domain"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// ProductHandler handles product-related webhook events
type ProductHandler struct {
	logger zerolog.Logger
}

// NewProductHandler creates a new product webhook handler
func NewProductHandler(logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		logger: logger,
	}
}

// CanHandle returns true if this handler can process the given topic
func (h *ProductHandler) CanHandle(topic string) bool {
	return topic == "products/create" ||
		topic == "products/update" ||
		topic == "products/delete"
}

// Handle acknowledges a product webhook event. Products are authored on the
// production side, so storefront changes are only logged.
func (h *ProductHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	var product goshopify.Product
	if err := json.Unmarshal(event.Payload, &product); err != nil {
		return fmt.Errorf("failed to parse product webhook payload: %w", err)
	}

	event.Outcome = OutcomeLogged
	h.logger.Info().
		Str("topic", event.Topic).
		Str("shop", event.Shop).
		Uint64("productId", product.Id).
		Str("title", product.Title).
		Str("handle", product.Handle).
		Int("variants", len(product.Variants)).
		Msg("Processing product webhook event")
	return nil
}
