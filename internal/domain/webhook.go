package domain

import "time"

// Platform identifies which side of the bridge an event came from
type Platform string

const (
	PlatformShopify  Platform = "shopify"
	PlatformPrintify Platform = "printify"
)

// WebhookSubscription is a (topic, address) pair registered with a platform
type WebhookSubscription struct {
	ID      string `json:"id"`
	Topic   string `json:"topic"`
	Address string `json:"address"`
}

// WebhookEvent is an inbound webhook delivery as recorded in the audit log
type WebhookEvent struct {
	ID         string    `json:"id"`
	DeliveryID string    `json:"delivery_id,omitempty"`
	Platform   Platform  `json:"platform"`
	Topic      string    `json:"topic"`
	Shop       string    `json:"shop,omitempty"`
	Payload    []byte    `json:"-"`
	Verified   bool      `json:"verified"`
	Duplicate  bool      `json:"duplicate,omitempty"`
	Outcome    string    `json:"outcome,omitempty"`
	Error      string    `json:"error,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

// AccessToken is an OAuth credential for one storefront
type AccessToken struct {
	ShopDomain string `json:"-"`
	Token      string `json:"access_token"`
	Scopes     string `json:"scopes"`
}
