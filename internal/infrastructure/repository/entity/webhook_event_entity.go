package entity

import (
	"time"

	"iamtoxico-bridge/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoWebhookEventDoc represents a webhook delivery in MongoDB
type MongoWebhookEventDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	EventID    string             `bson:"eventId"`
	DeliveryID string             `bson:"deliveryId,omitempty"`
	Platform   string             `bson:"platform"`
	Topic      string             `bson:"topic"`
	Shop       string             `bson:"shop,omitempty"`
	Payload    string             `bson:"payload,omitempty"`
	Verified   bool               `bson:"verified"`
	Duplicate  bool               `bson:"duplicate,omitempty"`
	Outcome    string             `bson:"outcome,omitempty"`
	Error      string             `bson:"error,omitempty"`
	ReceivedAt time.Time          `bson:"receivedAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoWebhookEventDoc) ToDomain() *domain.WebhookEvent {
	return &domain.WebhookEvent{
		ID:         d.EventID,
		DeliveryID: d.DeliveryID,
		Platform:   domain.Platform(d.Platform),
		Topic:      d.Topic,
		Shop:       d.Shop,
		Payload:    []byte(d.Payload),
		Verified:   d.Verified,
		Duplicate:  d.Duplicate,
		Outcome:    d.Outcome,
		Error:      d.Error,
		ReceivedAt: d.ReceivedAt,
	}
}

// MongoWebhookEventDocFromDomain converts a domain entity to a MongoDB document.
// Payloads are stored as text so they stay readable in the shell.
func MongoWebhookEventDocFromDomain(event *domain.WebhookEvent) *MongoWebhookEventDoc {
	return &MongoWebhookEventDoc{
		EventID:    event.ID,
		DeliveryID: event.DeliveryID,
		Platform:   string(event.Platform),
		Topic:      event.Topic,
		Shop:       event.Shop,
		Payload:    string(event.Payload),
		Verified:   event.Verified,
		Duplicate:  event.Duplicate,
		Outcome:    event.Outcome,
		Error:      event.Error,
		ReceivedAt: event.ReceivedAt,
	}
}
