package shopify

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"iamtoxico-bridge/internal/domain"

	goshopify "github.com/bold-commerce/go-shopify/v4"
)

// Product API

func (c *Client) Products(ctx context.Context, limit int, pageInfo string) (Page[goshopify.Product], error) {
	products, pagination, err := c.api.Product.ListWithPagination(ctx, cursorOptions(limit, pageInfo))
	if err != nil {
		return Page[goshopify.Product]{}, fmt.Errorf("failed to list products: %w", upstreamError(http.MethodGet, "products.json", err))
	}
	return newPage(products, pagination), nil
}

func (c *Client) AllProducts(ctx context.Context) ([]goshopify.Product, error) {
	products, err := c.api.Product.ListAll(ctx, goshopify.ListOptions{Limit: DefaultPageSize})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", upstreamError(http.MethodGet, "products.json", err))
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, productID uint64) (*goshopify.Product, error) {
	product, err := c.api.Product.Get(ctx, productID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", upstreamError(http.MethodGet, fmt.Sprintf("products/%d.json", productID), err))
	}
	return product, nil
}

func (c *Client) CreateProduct(ctx context.Context, product goshopify.Product) (*goshopify.Product, error) {
	created, err := c.api.Product.Create(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", upstreamError(http.MethodPost, "products.json", err))
	}
	return created, nil
}

func (c *Client) UpdateProduct(ctx context.Context, product goshopify.Product) (*goshopify.Product, error) {
	updated, err := c.api.Product.Update(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", upstreamError(http.MethodPut, fmt.Sprintf("products/%d.json", product.Id), err))
	}
	return updated, nil
}

func (c *Client) DeleteProduct(ctx context.Context, productID uint64) error {
	if err := c.api.Product.Delete(ctx, productID); err != nil {
		return fmt.Errorf("failed to delete product: %w", upstreamError(http.MethodDelete, fmt.Sprintf("products/%d.json", productID), err))
	}
	return nil
}

// Order API

func orderFilters(status string) goshopify.OrderListOptions {
	if status == "" {
		status = string(goshopify.OrderStatusAny)
	}
	return goshopify.OrderListOptions{
		ListOptions: goshopify.ListOptions{Limit: DefaultPageSize},
		Status:      goshopify.OrderStatus(status),
	}
}

func (c *Client) Orders(ctx context.Context, status string, limit int, pageInfo string) (Page[goshopify.Order], error) {
	var options interface{} = cursorOptions(limit, pageInfo)
	if pageInfo == "" {
		filters := orderFilters(status)
		filters.Limit = pageSize(limit)
		options = filters
	}
	orders, pagination, err := c.api.Order.ListWithPagination(ctx, options)
	if err != nil {
		return Page[goshopify.Order]{}, fmt.Errorf("failed to list orders: %w", upstreamError(http.MethodGet, "orders.json", err))
	}
	return newPage(orders, pagination), nil
}

func (c *Client) AllOrders(ctx context.Context, status string) ([]goshopify.Order, error) {
	orders, err := c.api.Order.ListAll(ctx, orderFilters(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", upstreamError(http.MethodGet, "orders.json", err))
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, orderID uint64) (*goshopify.Order, error) {
	order, err := c.api.Order.Get(ctx, orderID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", upstreamError(http.MethodGet, fmt.Sprintf("orders/%d.json", orderID), err))
	}
	return order, nil
}

// Fulfillment API

// CreateFulfillment marks an order as shipped with the given tracking data
func (c *Client) CreateFulfillment(ctx context.Context, fulfillment domain.Fulfillment) (*goshopify.Fulfillment, error) {
	if fulfillment.OrderID == "" {
		return nil, fmt.Errorf("failed to create fulfillment: order id is required")
	}
	orderID, err := strconv.ParseUint(fulfillment.OrderID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to create fulfillment: invalid order id %q", fulfillment.OrderID)
	}

	created, err := c.api.Order.CreateFulfillment(ctx, orderID, goshopify.Fulfillment{
		TrackingNumber:  fulfillment.TrackingNumber,
		TrackingCompany: fulfillment.TrackingCompany,
		TrackingUrl:     fulfillment.TrackingURL,
		NotifyCustomer:  fulfillment.NotifyCustomer,
	})
	if err != nil {
		path := fmt.Sprintf("orders/%d/fulfillments.json", orderID)
		return nil, fmt.Errorf("failed to create fulfillment: %w", upstreamError(http.MethodPost, path, err))
	}
	c.logger.Info().
		Str("orderId", fulfillment.OrderID).
		Str("trackingNumber", fulfillment.TrackingNumber).
		Str("carrier", fulfillment.TrackingCompany).
		Msg("Fulfillment created")
	return created, nil
}

// Collection API

func (c *Client) CustomCollections(ctx context.Context) ([]goshopify.CustomCollection, error) {
	collections, err := c.api.CustomCollection.List(ctx, goshopify.ListOptions{Limit: DefaultPageSize})
	if err != nil {
		return nil, fmt.Errorf("failed to list custom collections: %w", upstreamError(http.MethodGet, "custom_collections.json", err))
	}
	return collections, nil
}

// CreateCustomCollection creates a collection, then adds each product to it
func (c *Client) CreateCustomCollection(ctx context.Context, title, bodyHTML string, productIDs []uint64) (*goshopify.CustomCollection, error) {
	created, err := c.api.CustomCollection.Create(ctx, goshopify.CustomCollection{
		Title:     title,
		BodyHTML:  bodyHTML,
		Published: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create custom collection: %w", upstreamError(http.MethodPost, "custom_collections.json", err))
	}

	for _, productID := range productIDs {
		if _, err := c.api.Collect.Create(ctx, goshopify.Collect{CollectionId: created.Id, ProductId: productID}); err != nil {
			return created, fmt.Errorf("failed to add product %d to collection: %w", productID, upstreamError(http.MethodPost, "collects.json", err))
		}
	}
	return created, nil
}

// Inventory API

func (c *Client) InventoryLevels(ctx context.Context, locationID uint64) ([]goshopify.InventoryLevel, error) {
	options := goshopify.InventoryLevelListOptions{Limit: DefaultPageSize}
	if locationID != 0 {
		options.LocationIds = []uint64{locationID}
	}
	levels, err := c.api.InventoryLevel.List(ctx, options)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory levels: %w", upstreamError(http.MethodGet, "inventory_levels.json", err))
	}
	return levels, nil
}

// AdjustInventory changes available stock by a relative amount
func (c *Client) AdjustInventory(ctx context.Context, inventoryItemID, locationID uint64, adjustment int) (*goshopify.InventoryLevel, error) {
	level, err := c.api.InventoryLevel.Adjust(ctx, goshopify.InventoryLevelAdjustOptions{
		InventoryItemId: inventoryItemID,
		LocationId:      locationID,
		Adjust:          adjustment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to adjust inventory: %w", upstreamError(http.MethodPost, "inventory_levels/adjust.json", err))
	}
	return level, nil
}
