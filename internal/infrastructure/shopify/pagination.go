package shopify

import (
	goshopify "github.com/bold-commerce/go-shopify/v4"
)

// DefaultPageSize is the page size used by the "all" list variants
const DefaultPageSize = 250

// Page is one page of a cursor-paginated list
type Page[T any] struct {
	Items []T
	// NextPageInfo is the cursor for the following page, empty on the last page
	NextPageInfo string
}

func pageSize(limit int) int {
	if limit <= 0 || limit > DefaultPageSize {
		return DefaultPageSize
	}
	return limit
}

// cursorOptions builds the options for a page_info request. Shopify rejects
// filters alongside page_info, so only limit travels with the cursor.
func cursorOptions(limit int, pageInfo string) goshopify.ListOptions {
	return goshopify.ListOptions{Limit: pageSize(limit), PageInfo: pageInfo}
}

func newPage[T any](items []T, pagination *goshopify.Pagination) Page[T] {
	page := Page[T]{Items: items}
	if pagination != nil && pagination.NextPageOptions != nil {
		page.NextPageInfo = pagination.NextPageOptions.PageInfo
	}
	return page
}
