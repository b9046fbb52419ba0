package repository

import (
	"context"
	"fmt"
	"time"

	"iamtoxico-bridge/internal/domain"
	"iamtoxico-bridge/internal/infrastructure/repository/entity"
	"iamtoxico-bridge/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const webhookEventsCollection = "webhook_events"

// MongoRepository implements WebhookEventLog using MongoDB
type MongoRepository struct {
	webhooksCollection *mongo.Collection
}

// NewMongoRepository creates a new MongoDB repository
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		webhooksCollection: db.Collection(webhookEventsCollection),
	}
}

// EnsureIndexes creates the indexes the recent-events query relies on
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.webhooksCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "receivedAt", Value: -1}}},
		{Keys: bson.D{{Key: "platform", Value: 1}, {Key: "topic", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create webhook indexes: %w", err)
	}
	return nil
}

// LogWebhook logs a webhook event
func (r *MongoRepository) LogWebhook(ctx context.Context, event *domain.WebhookEvent) error {
	doc := entity.MongoWebhookEventDocFromDomain(event)
	doc.ID = primitive.NewObjectID()
	if doc.ReceivedAt.IsZero() {
		doc.ReceivedAt = time.Now()
	}

	_, err := r.webhooksCollection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to log webhook: %w", err)
	}

	return nil
}

// RecentWebhooks returns the newest events first
func (r *MongoRepository) RecentWebhooks(ctx context.Context, limit int) ([]*domain.WebhookEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "receivedAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.webhooksCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*domain.WebhookEvent
	for cursor.Next(ctx) {
		var doc entity.MongoWebhookEventDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode webhook: %w", err)
		}
		events = append(events, doc.ToDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return events, nil
}

var _ ports.WebhookEventLog = (*MongoRepository)(nil)
