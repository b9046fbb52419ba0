package domain

import (
	"strconv"
	"strings"
)

// OrderState is the implicit lifecycle of an order as it moves between platforms
type OrderState string

const (
	OrderStateCreated          OrderState = "created"
	OrderStateSentToProduction OrderState = "sent-to-production"
	OrderStateShipped          OrderState = "shipped"
	OrderStateFulfilled        OrderState = "fulfilled"
	OrderStateCancelled        OrderState = "cancelled"
)

// SKUPrefix marks a storefront SKU as backed by a print-on-demand product
const SKUPrefix = "PRFY"

// Order is the platform-agnostic view of a storefront order
type Order struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	LineItems       []LineItem `json:"line_items"`
	ShippingAddress Address    `json:"shipping_address"`
	State           OrderState `json:"state"`
}

// LineItem is a single storefront order line
type LineItem struct {
	SKU      string `json:"sku"`
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
}

// Address is a shipping recipient
type Address struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Phone        string `json:"phone"`
	Address1     string `json:"address1"`
	Address2     string `json:"address2"`
	City         string `json:"city"`
	Zip          string `json:"zip"`
	ProvinceCode string `json:"province_code"`
	CountryCode  string `json:"country_code"`
}

// SKURef is the production product/variant pair encoded in a storefront SKU
type SKURef struct {
	ProductID string
	VariantID int
}

// ParseSKU decodes a SKU of the form PRFY_<productId>_<variantId>.
// Any other shape, including extra delimiters, reports false.
func ParseSKU(sku string) (SKURef, bool) {
	parts := strings.Split(strings.TrimSpace(sku), "_")
	if len(parts) != 3 || parts[0] != SKUPrefix {
		return SKURef{}, false
	}
	if parts[1] == "" {
		return SKURef{}, false
	}
	variantID, err := strconv.Atoi(parts[2])
	if err != nil || variantID <= 0 {
		return SKURef{}, false
	}
	return SKURef{ProductID: parts[1], VariantID: variantID}, true
}

// FormatSKU is the inverse of ParseSKU
func FormatSKU(ref SKURef) string {
	return SKUPrefix + "_" + ref.ProductID + "_" + strconv.Itoa(ref.VariantID)
}
