package domain

// Shipment carries tracking data produced by the production provider
type Shipment struct {
	TrackingNumber string `json:"number"`
	Carrier        string `json:"carrier"`
	URL            string `json:"url"`
}

// ShipmentEvent is a shipping update for a production order.
// ExternalID is the storefront order id the production order was created with.
type ShipmentEvent struct {
	ID         string
	Topic      string
	ExternalID string
	Shipments  []Shipment
}

// Fulfillment is the storefront-side record that marks an order as shipped
type Fulfillment struct {
	OrderID         string `json:"order_id"`
	TrackingNumber  string `json:"tracking_number"`
	TrackingCompany string `json:"tracking_company"`
	TrackingURL     string `json:"tracking_url,omitempty"`
	NotifyCustomer  bool   `json:"notify_customer"`
}
