package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"iamtoxico-bridge/internal/application"
	"iamtoxico-bridge/internal/domain"
	"iamtoxico-bridge/internal/infrastructure/printify"

	"github.com/rs/zerolog"
)

// ProductionHandler handles Printify order and product events
type ProductionHandler struct {
	bridges BridgeSource
	logger  zerolog.Logger
}

// NewProductionHandler creates a new Printify webhook handler
func NewProductionHandler(logger zerolog.Logger, bridges BridgeSource) *ProductionHandler {
	return &ProductionHandler{
		bridges: bridges,
		logger:  logger,
	}
}

// CanHandle claims every Printify order and product topic
func (h *ProductionHandler) CanHandle(topic string) bool {
	switch topic {
	case printify.TopicOrderCreated,
		printify.TopicOrderUpdated,
		printify.TopicOrderSentToProduction,
		printify.TopicOrderShippingUpdate,
		printify.TopicOrderCompleted,
		printify.TopicShipmentCreated,
		printify.TopicShipmentDelivered,
		printify.TopicPublishStarted,
		printify.TopicPublishSucceeded,
		printify.TopicPublishFailed:
		return true
	}
	return false
}

// Handle forwards shipping updates to the storefront as fulfillments; other
// topics are logged
func (h *ProductionHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	var payload productionEvent
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("failed to parse printify webhook payload: %w", err)
	}

	h.logger.Info().
		Str("topic", event.Topic).
		Str("eventId", payload.ID).
		Str("resourceId", payload.Resource.ID).
		Msg("Processing printify webhook event")

	switch event.Topic {
	case printify.TopicOrderShippingUpdate, printify.TopicOrderCompleted:
		shipment := payload.shipmentEvent(event.Topic)
		result, err := runBridge(ctx, h.bridges, event, func(ctx context.Context, bridge *application.Bridge) (domain.SyncResult, error) {
			return bridge.OnShipmentReady(ctx, shipment)
		})
		if err != nil {
			return fmt.Errorf("failed to fulfil order %s: %w", shipment.ExternalID, err)
		}
		h.logger.Info().
			Str("orderId", shipment.ExternalID).
			Str("status", string(result.Status)).
			Int("shipments", result.Shipments).
			Int("failed", result.Failed).
			Msg("Shipment synced")
	case printify.TopicPublishFailed:
		event.Outcome = OutcomeLogged
		h.logger.Warn().Str("productId", payload.Resource.ID).Msg("Product publish failed")
	default:
		event.Outcome = OutcomeLogged
	}
	return nil
}

// productionEvent is the Printify webhook envelope. Order fields appear
// either directly on the resource or under resource.data.
type productionEvent struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Resource struct {
		ID string `json:"id"`
		productionOrderFields
		Data productionOrderFields `json:"data"`
	} `json:"resource"`
}

type productionOrderFields struct {
	ExternalID string               `json:"external_id"`
	Shipments  []productionShipment `json:"shipments"`
}

type productionShipment struct {
	Number         string `json:"number"`
	TrackingNumber string `json:"tracking_number"`
	Carrier        string `json:"carrier"`
	URL            string `json:"url"`
}

func (e productionEvent) shipmentEvent(topic string) domain.ShipmentEvent {
	fields := e.Resource.productionOrderFields
	if fields.ExternalID == "" {
		fields.ExternalID = e.Resource.Data.ExternalID
	}
	if len(fields.Shipments) == 0 {
		fields.Shipments = e.Resource.Data.Shipments
	}

	shipments := make([]domain.Shipment, 0, len(fields.Shipments))
	for _, s := range fields.Shipments {
		number := s.Number
		if number == "" {
			number = s.TrackingNumber
		}
		shipments = append(shipments, domain.Shipment{TrackingNumber: number, Carrier: s.Carrier, URL: s.URL})
	}
	return domain.ShipmentEvent{
		ID:         e.ID,
		Topic:      topic,
		ExternalID: fields.ExternalID,
		Shipments:  shipments,
	}
}
