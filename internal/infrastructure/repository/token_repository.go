package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"iamtoxico-bridge/internal/domain"
	"iamtoxico-bridge/internal/infrastructure/repository/entity"
	"iamtoxico-bridge/internal/infrastructure/shopify"
	"iamtoxico-bridge/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	shopTokensCollection = "shop_tokens"
	tokenOpTimeout       = 10 * time.Second
)

// MongoTokenStore implements TokenStore using MongoDB so every replica sees
// the token an install produced
type MongoTokenStore struct {
	collection *mongo.Collection
}

// NewMongoTokenStore creates a new MongoDB token store
func NewMongoTokenStore(db *mongo.Database) *MongoTokenStore {
	return &MongoTokenStore{
		collection: db.Collection(shopTokensCollection),
	}
}

// EnsureIndexes makes the shop domain unique
func (r *MongoTokenStore) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "shopDomain", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create token index: %w", err)
	}
	return nil
}

// Save upserts token under its shop domain
func (r *MongoTokenStore) Save(token domain.AccessToken) error {
	if token.ShopDomain == "" {
		return fmt.Errorf("failed to save token: shop domain is required")
	}
	ctx, cancel := context.WithTimeout(context.Background(), tokenOpTimeout)
	defer cancel()

	doc := entity.MongoAccessTokenDocFromDomain(token)
	doc.ShopDomain = shopify.NormalizeShopDomain(doc.ShopDomain)
	now := time.Now()

	update := bson.M{
		"$set": bson.M{
			"accessToken": doc.AccessToken,
			"scopes":      doc.Scopes,
			"updatedAt":   now,
		},
		"$setOnInsert": bson.M{
			"createdAt": now,
		},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"shopDomain": doc.ShopDomain}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// Load returns the token for shop
func (r *MongoTokenStore) Load(shop string) (domain.AccessToken, bool, error) {
	return r.findOne(bson.M{"shopDomain": shopify.NormalizeShopDomain(shop)}, nil)
}

// First returns the token for the alphabetically first shop
func (r *MongoTokenStore) First() (domain.AccessToken, bool, error) {
	return r.findOne(bson.M{}, options.FindOne().SetSort(bson.D{{Key: "shopDomain", Value: 1}}))
}

func (r *MongoTokenStore) findOne(filter bson.M, opts *options.FindOneOptions) (domain.AccessToken, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), tokenOpTimeout)
	defer cancel()

	var doc entity.MongoAccessTokenDoc
	var err error
	if opts != nil {
		err = r.collection.FindOne(ctx, filter, opts).Decode(&doc)
	} else {
		err = r.collection.FindOne(ctx, filter).Decode(&doc)
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.AccessToken{}, false, nil
	}
	if err != nil {
		return domain.AccessToken{}, false, fmt.Errorf("failed to load token: %w", err)
	}
	return doc.ToDomain(), true, nil
}

// Delete removes the token for shop; a missing token is not an error
func (r *MongoTokenStore) Delete(shop string) error {
	ctx, cancel := context.WithTimeout(context.Background(), tokenOpTimeout)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"shopDomain": shopify.NormalizeShopDomain(shop)}); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

var _ ports.TokenStore = (*MongoTokenStore)(nil)
