package entity

import (
	"time"

	"iamtoxico-bridge/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoAccessTokenDoc is a storefront access token in MongoDB, one per shop
type MongoAccessTokenDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	ShopDomain  string             `bson:"shopDomain"`
	AccessToken string             `bson:"accessToken"`
	Scopes      string             `bson:"scopes,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoAccessTokenDoc) ToDomain() domain.AccessToken {
	return domain.AccessToken{
		ShopDomain: d.ShopDomain,
		Token:      d.AccessToken,
		Scopes:     d.Scopes,
	}
}

// MongoAccessTokenDocFromDomain converts a domain entity to a MongoDB document
func MongoAccessTokenDocFromDomain(token domain.AccessToken) *MongoAccessTokenDoc {
	return &MongoAccessTokenDoc{
		ShopDomain:  token.ShopDomain,
		AccessToken: token.Token,
		Scopes:      token.Scopes,
	}
}
