package printify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"iamtoxico-bridge/internal/domain"
)

func ordersPath(shopID int) string {
	return fmt.Sprintf("shops/%d/orders.json", shopID)
}

func orderPath(shopID int, orderID, suffix string) string {
	return fmt.Sprintf("shops/%d/orders/%s%s.json", shopID, url.PathEscape(orderID), suffix)
}

func (c *Client) Orders(ctx context.Context, shopID, pageNum, limit int) (Page[Order], error) {
	if limit <= 0 {
		limit = orderPageSize
	}
	p, err := page[Order](ctx, c, ordersPath(shopID), pageNum, limit)
	if err != nil {
		return Page[Order]{}, fmt.Errorf("failed to list orders: %w", err)
	}
	return p, nil
}

// AllOrders returns every order in the shop as production order references
func (c *Client) AllOrders(ctx context.Context, shopID int) ([]domain.ProductionOrder, error) {
	orders, err := paginate[Order](ctx, c, ordersPath(shopID), orderPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	refs := make([]domain.ProductionOrder, 0, len(orders))
	for _, order := range orders {
		refs = append(refs, domain.ProductionOrder{ID: order.ID, ExternalID: order.ExternalID, Status: order.Status})
	}
	return refs, nil
}

func (c *Client) GetOrder(ctx context.Context, shopID int, orderID string) (*Order, error) {
	var order Order
	if _, err := c.rest.Do(ctx, http.MethodGet, orderPath(shopID, orderID, ""), nil, nil, &order); err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

// CreateOrder submits a production order
func (c *Client) CreateOrder(ctx context.Context, shopID int, req domain.ProductionOrderRequest) (domain.ProductionOrder, error) {
	var created struct {
		ID string `json:"id"`
	}
	if _, err := c.rest.Do(ctx, http.MethodPost, ordersPath(shopID), nil, req, &created); err != nil {
		return domain.ProductionOrder{}, fmt.Errorf("failed to create order: %w", err)
	}
	c.logger.Info().
		Int("shopId", shopID).
		Str("orderId", created.ID).
		Str("externalId", req.ExternalID).
		Int("lineItems", len(req.LineItems)).
		Msg("Production order created")
	return domain.ProductionOrder{ID: created.ID, ExternalID: req.ExternalID, Status: "pending"}, nil
}

// SendToProduction releases an on-hold order for manufacturing
func (c *Client) SendToProduction(ctx context.Context, shopID int, orderID string) (*Order, error) {
	var order Order
	if _, err := c.rest.Do(ctx, http.MethodPost, orderPath(shopID, orderID, "/send_to_production"), nil, nil, &order); err != nil {
		return nil, fmt.Errorf("failed to send order to production: %w", err)
	}
	return &order, nil
}

// CancelOrder cancels an order that has not yet entered production
func (c *Client) CancelOrder(ctx context.Context, shopID int, orderID string) error {
	if _, err := c.rest.Do(ctx, http.MethodPost, orderPath(shopID, orderID, "/cancel"), nil, nil, nil); err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}
	c.logger.Info().Int("shopId", shopID).Str("orderId", orderID).Msg("Production order cancelled")
	return nil
}

// CalculateShipping prices shipping for a prospective order
func (c *Client) CalculateShipping(ctx context.Context, shopID int, req ShippingRequest) (domain.ShippingQuote, error) {
	var quote domain.ShippingQuote
	path := fmt.Sprintf("shops/%d/orders/shipping.json", shopID)
	if _, err := c.rest.Do(ctx, http.MethodPost, path, nil, req, &quote); err != nil {
		return domain.ShippingQuote{}, fmt.Errorf("failed to calculate shipping: %w", err)
	}
	return quote, nil
}
