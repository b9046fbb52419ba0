package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"iamtoxico-bridge/internal/domain"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// RefundHandler acknowledges refund webhook events
type RefundHandler struct {
	logger zerolog.Logger
}

// NewRefundHandler creates a new refund webhook handler
func NewRefundHandler(logger zerolog.Logger) *RefundHandler {
	return &RefundHandler{logger: logger}
}

func (h *RefundHandler) CanHandle(topic string) bool {
	return topic == "refunds/create"
}

func (h *RefundHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	var refund goshopify.Refund
	if err := json.Unmarshal(event.Payload, &refund); err != nil {
		return fmt.Errorf("failed to parse refund webhook payload: %w", err)
	}

	event.Outcome = OutcomeLogged
	h.logger.Info().
		Str("shop", event.Shop).
		Uint64("refundId", refund.Id).
		Uint64("orderId", refund.OrderId).
		Int("lineItems", len(refund.RefundLineItems)).
		Msg("Refund received")
	return nil
}
