package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"iamtoxico-bridge/internal/application"
	"iamtoxico-bridge/internal/domain"
	"iamtoxico-bridge/internal/infrastructure/shopify"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// OrderHandler handles order-related webhook events
type OrderHandler struct {
	bridges BridgeSource
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order webhook handler
func NewOrderHandler(logger zerolog.Logger, bridges BridgeSource) *OrderHandler {
	return &OrderHandler{
		bridges: bridges,
		logger:  logger,
	}
}

// CanHandle returns true if this handler can process the given topic
func (h *OrderHandler) CanHandle(topic string) bool {
	return topic == "orders/create" ||
		topic == "orders/updated" ||
		topic == "orders/cancelled" ||
		topic == "orders/fulfilled"
}

// Handle processes an order webhook event
func (h *OrderHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	var order goshopify.Order
	if err := json.Unmarshal(event.Payload, &order); err != nil {
		return fmt.Errorf("failed to parse order webhook payload: %w", err)
	}
	orderID := strconv.FormatUint(order.Id, 10)

	h.logger.Info().
		Str("topic", event.Topic).
		Str("shop", event.Shop).
		Str("orderId", orderID).
		Str("name", order.Name).
		Int("lineItems", len(order.LineItems)).
		Msg("Processing order webhook event")

	switch event.Topic {
	case "orders/create":
		result, err := runBridge(ctx, h.bridges, event, func(ctx context.Context, bridge *application.Bridge) (domain.SyncResult, error) {
			return bridge.OnOrderCreated(ctx, shopify.ToDomainOrder(order))
		})
		if err != nil {
			return fmt.Errorf("failed to sync order %s: %w", orderID, err)
		}
		h.logger.Info().Str("orderId", orderID).Str("status", string(result.Status)).Str("reason", result.Reason).Msg("Order synced")
	case "orders/cancelled":
		result, err := runBridge(ctx, h.bridges, event, func(ctx context.Context, bridge *application.Bridge) (domain.SyncResult, error) {
			return bridge.OnOrderCancelled(ctx, orderID)
		})
		if err != nil {
			return fmt.Errorf("failed to cancel order %s: %w", orderID, err)
		}
		h.logger.Info().Str("orderId", orderID).Str("status", string(result.Status)).Msg("Order cancellation synced")
	case "orders/fulfilled":
		event.Outcome = OutcomeLogged
		h.logger.Info().Str("shop", event.Shop).Str("orderId", orderID).Msg("Order fulfilled")
	default:
		event.Outcome = OutcomeLogged
	}
	return nil
}
