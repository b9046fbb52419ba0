package domain

// DefaultShippingMethod is the standard shipping tier on the production side
const DefaultShippingMethod = 1

// DefaultCountryCode is used when a shipping address carries no country
const DefaultCountryCode = "US"

// ProductionShop is a shop registered with the production provider
type ProductionShop struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	SalesChannel string `json:"sales_channel"`
}

// ProductionLineItem references a production product variant
type ProductionLineItem struct {
	ProductID string `json:"product_id"`
	VariantID int    `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

// Recipient is the production-side shipping address
type Recipient struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Country   string `json:"country"`
	Region    string `json:"region"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2"`
	City      string `json:"city"`
	Zip       string `json:"zip"`
}

// ProductionOrderRequest is the payload submitted to create a production order
type ProductionOrderRequest struct {
	ExternalID               string               `json:"external_id"`
	Label                    string               `json:"label,omitempty"`
	LineItems                []ProductionLineItem `json:"line_items"`
	ShippingMethod           int                  `json:"shipping_method"`
	SendShippingNotification bool                 `json:"send_shipping_notification"`
	AddressTo                Recipient            `json:"address_to"`
}

// ProductionOrder is a production order as reported by the provider
type ProductionOrder struct {
	ID         string `json:"id"`
	ExternalID string `json:"external_id"`
	Status     string `json:"status"`
}

// ShippingQuote is the per-tier shipping cost in cents
type ShippingQuote struct {
	Standard int `json:"standard"`
	Express  int `json:"express"`
	Priority int `json:"priority"`
	Economy  int `json:"economy"`
}

// PublishFlags selects which product fields are pushed to the sales channel
type PublishFlags struct {
	Title            bool `json:"title"`
	Description      bool `json:"description"`
	Images           bool `json:"images"`
	Variants         bool `json:"variants"`
	Tags             bool `json:"tags"`
	KeyFeatures      bool `json:"keyFeatures"`
	ShippingTemplate bool `json:"shipping_template"`
}

// DefaultPublishFlags publishes every field, including key features and the
// shipping template
func DefaultPublishFlags() PublishFlags {
	return PublishFlags{
		Title:            true,
		Description:      true,
		Images:           true,
		Variants:         true,
		Tags:             true,
		KeyFeatures:      true,
		ShippingTemplate: true,
	}
}

// Blueprint is a catalog item offered by the production provider
type Blueprint struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Brand       string   `json:"brand"`
	Model       string   `json:"model"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}
