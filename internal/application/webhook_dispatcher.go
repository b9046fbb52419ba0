package application

import (
	"context"
	"errors"
	"fmt"

	"iamtoxico-bridge/internal/domain"

	"github.com/rs/zerolog"
)

// OutcomeIgnored marks events no handler subscribes to
const OutcomeIgnored = "ignored"

// WebhookHandler processes webhook events for the topics it claims
type WebhookHandler interface {
	CanHandle(topic string) bool
	Handle(ctx context.Context, event *domain.WebhookEvent) error
}

// WebhookDispatcher routes webhook events to registered handlers by topic
type WebhookDispatcher struct {
	handlers []WebhookHandler
	logger   zerolog.Logger
}

// NewWebhookDispatcher creates a new webhook dispatcher
func NewWebhookDispatcher(logger zerolog.Logger) *WebhookDispatcher {
	return &WebhookDispatcher{logger: logger}
}

// RegisterHandler adds a handler; handlers run in registration order
func (d *WebhookDispatcher) RegisterHandler(handler WebhookHandler) {
	d.handlers = append(d.handlers, handler)
}

// Dispatch runs every handler that claims the event's topic. Events nobody
// claims are marked ignored and are not an error.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, event *domain.WebhookEvent) error {
	var (
		handled int
		errs    []error
	)
	for _, handler := range d.handlers {
		if !handler.CanHandle(event.Topic) {
			continue
		}
		handled++
		if err := handler.Handle(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", handler, err))
		}
	}

	if handled == 0 {
		if event.Outcome == "" {
			event.Outcome = OutcomeIgnored
		}
		d.logger.Debug().
			Str("platform", string(event.Platform)).
			Str("topic", event.Topic).
			Msg("No handler for webhook topic")
		return nil
	}
	return errors.Join(errs...)
}
