package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"iamtoxico-bridge/internal/domain"
	"iamtoxico-bridge/internal/infrastructure/printify"

	"github.com/go-chi/chi/v5"
)

const (
	outcomeDuplicate = "duplicate"
	outcomeFailed    = "failed"

	maxWebhookBody = 5 << 20
)

// shopifyWebhookKinds are the path suffixes under /shopify/webhooks
var shopifyWebhookKinds = map[string]bool{
	"orders":   true,
	"products": true,
	"refunds":  true,
	"app":      true,
}

func (s *Server) handleShopifyWebhook(w http.ResponseWriter, r *http.Request) {
	if !shopifyWebhookKinds[chi.URLParam(r, "kind")] {
		http.NotFound(w, r)
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	defer r.Body.Close()

	topic := r.Header.Get("X-Shopify-Topic")
	if topic == "" {
		writeError(w, http.StatusBadRequest, "Missing X-Shopify-Topic header")
		return
	}

	verified, ok := s.verifyShopify(payload, r.Header.Get("X-Shopify-Hmac-SHA256"))
	if !ok {
		s.deps.Metrics.WebhookReceived(string(domain.PlatformShopify), topic, false)
		s.logger.Warn().Str("topic", topic).Msg("Webhook signature verification failed")
		writeError(w, http.StatusUnauthorized, "Invalid signature")
		return
	}

	event := &domain.WebhookEvent{
		ID:         s.newID(),
		DeliveryID: r.Header.Get("X-Shopify-Webhook-Id"),
		Platform:   domain.PlatformShopify,
		Topic:      topic,
		Shop:       r.Header.Get("X-Shopify-Shop-Domain"),
		Payload:    payload,
		Verified:   verified,
		ReceivedAt: s.now().UTC(),
	}
	s.receive(r.Context(), event)
	writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
}

// verifyShopify reports (verified, accepted). With no secret configured the
// delivery is accepted unverified outside production.
func (s *Server) verifyShopify(payload []byte, signature string) (bool, bool) {
	app := s.deps.App
	if app.WebhookSecret == "" && app.APISecret == "" {
		return false, !s.deps.Production
	}
	if app.VerifyWebhook(payload, signature) {
		return true, true
	}
	return false, false
}

func (s *Server) handlePrintifyWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	defer r.Body.Close()

	secret := s.deps.PrintifyWebhookSecret
	if !printify.VerifyWebhook(secret, payload, r.Header.Get(printify.SignatureHeader)) {
		s.deps.Metrics.WebhookReceived(string(domain.PlatformPrintify), "unknown", false)
		s.logger.Warn().Msg("Printify webhook signature verification failed")
		writeError(w, http.StatusUnauthorized, "Invalid signature")
		return
	}

	var envelope struct {
		ID    string `json:"id"`
		Type  string `json:"type"`
		Topic string `json:"topic"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	topic := envelope.Type
	if topic == "" {
		topic = envelope.Topic
	}
	if topic == "" {
		topic = "unknown"
	}

	event := &domain.WebhookEvent{
		ID:         s.newID(),
		DeliveryID: envelope.ID,
		Platform:   domain.PlatformPrintify,
		Topic:      topic,
		Payload:    payload,
		Verified:   secret != "",
		ReceivedAt: s.now().UTC(),
	}
	s.receive(r.Context(), event)
	writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
}

// receive dedupes, dispatches, records and publishes an accepted delivery.
// Handler failures are recorded on the event and never reach the sender.
func (s *Server) receive(ctx context.Context, event *domain.WebhookEvent) {
	platform := string(event.Platform)
	s.deps.Metrics.WebhookReceived(platform, event.Topic, event.Verified)

	logger := s.logger.With().
		Str("platform", platform).
		Str("topic", event.Topic).
		Str("eventId", event.ID).
		Str("deliveryId", event.DeliveryID).
		Logger()

	if s.isDuplicate(ctx, event) {
		event.Duplicate = true
		event.Outcome = outcomeDuplicate
		s.deps.Metrics.WebhookDuplicate(platform)
		logger.Info().Msg("Duplicate webhook delivery, skipping")
	} else if err := s.deps.Dispatcher.Dispatch(ctx, event); err != nil {
		event.Error = err.Error()
		if event.Outcome == "" {
			event.Outcome = outcomeFailed
		}
		logger.Error().Err(err).Msg("Failed to process webhook event")
	} else {
		logger.Info().Str("outcome", event.Outcome).Msg("Webhook processed")
	}

	if s.deps.Events != nil {
		if err := s.deps.Events.LogWebhook(ctx, event); err != nil {
			logger.Error().Err(err).Msg("Failed to log webhook event")
		}
	}
	if s.deps.Feed != nil {
		s.deps.Feed.Publish(event)
	}
}

func (s *Server) isDuplicate(ctx context.Context, event *domain.WebhookEvent) bool {
	if event.DeliveryID == "" || s.deps.Deliveries == nil {
		return false
	}
	first, err := s.deps.Deliveries.FirstDelivery(ctx, string(event.Platform)+":"+event.DeliveryID, DeliveryTTL)
	if err != nil {
		s.logger.Warn().Err(err).Str("deliveryId", event.DeliveryID).Msg("Failed to check webhook delivery, processing anyway")
		return false
	}
	return !first
}
