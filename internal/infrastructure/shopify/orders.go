package shopify

import (
	"strconv"

	"iamtoxico-bridge/internal/domain"

	goshopify "github.com/bold-commerce/go-shopify/v4"
)

// ToDomainOrder maps a REST or webhook order onto the platform-agnostic order
func ToDomainOrder(order goshopify.Order) domain.Order {
	out := domain.Order{
		ID:        strconv.FormatUint(order.Id, 10),
		Email:     order.Email,
		LineItems: make([]domain.LineItem, 0, len(order.LineItems)),
		State:     domain.OrderStateCreated,
	}
	for _, item := range order.LineItems {
		out.LineItems = append(out.LineItems, domain.LineItem{
			SKU:      item.SKU,
			Title:    item.Title,
			Quantity: item.Quantity,
		})
	}
	if address := order.ShippingAddress; address != nil {
		out.ShippingAddress = domain.Address{
			FirstName:    address.FirstName,
			LastName:     address.LastName,
			Phone:        address.Phone,
			Address1:     address.Address1,
			Address2:     address.Address2,
			City:         address.City,
			Zip:          address.Zip,
			ProvinceCode: address.ProvinceCode,
			CountryCode:  address.CountryCode,
		}
	}
	return out
}
