package printify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"iamtoxico-bridge/internal/domain"
)

func productsPath(shopID int) string {
	return fmt.Sprintf("shops/%d/products.json", shopID)
}

func productPath(shopID int, productID, suffix string) string {
	return fmt.Sprintf("shops/%d/products/%s%s.json", shopID, url.PathEscape(productID), suffix)
}

func (c *Client) Products(ctx context.Context, shopID, pageNum, limit int) (Page[Product], error) {
	if limit <= 0 {
		limit = productPageSize
	}
	p, err := page[Product](ctx, c, productsPath(shopID), pageNum, limit)
	if err != nil {
		return Page[Product]{}, fmt.Errorf("failed to list products: %w", err)
	}
	return p, nil
}

func (c *Client) AllProducts(ctx context.Context, shopID int) ([]Product, error) {
	products, err := paginate[Product](ctx, c, productsPath(shopID), productPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, shopID int, productID string) (*Product, error) {
	var product Product
	if _, err := c.rest.Do(ctx, http.MethodGet, productPath(shopID, productID, ""), nil, nil, &product); err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

func (c *Client) CreateProduct(ctx context.Context, shopID int, input ProductInput) (*Product, error) {
	var product Product
	if _, err := c.rest.Do(ctx, http.MethodPost, productsPath(shopID), nil, input, &product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}

func (c *Client) UpdateProduct(ctx context.Context, shopID int, productID string, input ProductInput) (*Product, error) {
	var product Product
	if _, err := c.rest.Do(ctx, http.MethodPut, productPath(shopID, productID, ""), nil, input, &product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return &product, nil
}

func (c *Client) DeleteProduct(ctx context.Context, shopID int, productID string) error {
	if _, err := c.rest.Do(ctx, http.MethodDelete, productPath(shopID, productID, ""), nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// PublishProduct starts the publish-to-channel flow for a product
func (c *Client) PublishProduct(ctx context.Context, shopID int, productID string, flags domain.PublishFlags) error {
	if _, err := c.rest.Do(ctx, http.MethodPost, productPath(shopID, productID, "/publish"), nil, flags, nil); err != nil {
		return fmt.Errorf("failed to publish product: %w", err)
	}
	c.logger.Info().Int("shopId", shopID).Str("productId", productID).Msg("Product publish requested")
	return nil
}

// UnpublishProduct removes a product from the sales channel
func (c *Client) UnpublishProduct(ctx context.Context, shopID int, productID string) error {
	if _, err := c.rest.Do(ctx, http.MethodPost, productPath(shopID, productID, "/unpublish"), nil, nil, nil); err != nil {
		return fmt.Errorf("failed to unpublish product: %w", err)
	}
	return nil
}
