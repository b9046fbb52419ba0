package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"iamtoxico-bridge/internal/domain"
	"iamtoxico-bridge/internal/infrastructure/metrics"
	"iamtoxico-bridge/internal/ports"

	"github.com/rs/zerolog"
)

// DefaultSalesChannel is the production-side sales channel orders come from
const DefaultSalesChannel = "shopify"

const (
	opOrderCreated   = "order_created"
	opShipmentReady  = "shipment_ready"
	opOrderCancelled = "order_cancelled"
	opPublishProduct = "publish_product"
)

// Bridge translates order, shipment and cancellation events between the
// storefront and the production provider. It holds no order state; every
// decision is made against the live platforms.
type Bridge struct {
	storefront   ports.Storefront
	production   ports.ProductionProvider
	salesChannel string
	metrics      *metrics.Metrics
	logger       zerolog.Logger

	mu       sync.Mutex
	shopID   int
	resolved bool
}

// NewBridge creates a bridge between a connected storefront and production provider
func NewBridge(
	storefront ports.Storefront,
	production ports.ProductionProvider,
	salesChannel string,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Bridge {
	if salesChannel == "" {
		salesChannel = DefaultSalesChannel
	}
	return &Bridge{
		storefront:   storefront,
		production:   production,
		salesChannel: salesChannel,
		metrics:      m,
		logger:       logger.With().Str("component", "bridge").Logger(),
	}
}

// ResolveChannelShopID finds the production shop whose sales channel is the
// storefront. The first successful lookup is cached for the bridge lifetime.
func (b *Bridge) ResolveChannelShopID(ctx context.Context) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.resolved {
		return b.shopID, nil
	}

	shops, err := b.production.Shops(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve channel shop: %w", err)
	}
	for _, shop := range shops {
		if strings.EqualFold(shop.SalesChannel, b.salesChannel) {
			b.shopID = shop.ID
			b.resolved = true
			b.logger.Info().
				Int("shopId", shop.ID).
				Str("title", shop.Title).
				Str("salesChannel", b.salesChannel).
				Msg("Resolved production shop")
			return shop.ID, nil
		}
	}
	return 0, &domain.ConfigurationError{
		Message: fmt.Sprintf("no production shop is connected to sales channel %q", b.salesChannel),
	}
}

// ShopID returns the cached production shop id, if resolved
func (b *Bridge) ShopID() (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shopID, b.resolved
}

// OnOrderCreated submits a production order for the order's print-on-demand
// lines. Lines whose SKU does not follow the PRFY convention are dropped;
// an order with none left is skipped without calling the provider.
func (b *Bridge) OnOrderCreated(ctx context.Context, order domain.Order) (domain.SyncResult, error) {
	items := make([]domain.ProductionLineItem, 0, len(order.LineItems))
	for _, line := range order.LineItems {
		ref, ok := domain.ParseSKU(line.SKU)
		if !ok {
			continue
		}
		items = append(items, domain.ProductionLineItem{
			ProductID: ref.ProductID,
			VariantID: ref.VariantID,
			Quantity:  line.Quantity,
		})
	}

	if len(items) == 0 {
		result := domain.Skipped("no print-on-demand items in order")
		b.record(opOrderCreated, result)
		b.logger.Info().Str("orderId", order.ID).Msg("Order has no print-on-demand items, skipping")
		return result, nil
	}

	shopID, err := b.ResolveChannelShopID(ctx)
	if err != nil {
		return b.fail(opOrderCreated, err)
	}

	req := domain.ProductionOrderRequest{
		ExternalID:     order.ID,
		LineItems:      items,
		ShippingMethod: domain.DefaultShippingMethod,
		AddressTo:      recipientFor(order),
	}
	created, err := b.production.CreateOrder(ctx, shopID, req)
	if err != nil {
		return b.fail(opOrderCreated, err)
	}

	result := domain.SyncResult{Status: domain.SyncCreated, RemoteOrderID: created.ID}
	b.record(opOrderCreated, result)
	b.logger.Info().
		Str("orderId", order.ID).
		Str("productionOrderId", created.ID).
		Int("lineItems", len(items)).
		Int("droppedLineItems", len(order.LineItems)-len(items)).
		Msg("Production order submitted")
	return result, nil
}

func recipientFor(order domain.Order) domain.Recipient {
	address := order.ShippingAddress
	country := address.CountryCode
	if country == "" {
		country = domain.DefaultCountryCode
	}
	return domain.Recipient{
		FirstName: address.FirstName,
		LastName:  address.LastName,
		Email:     order.Email,
		Phone:     address.Phone,
		Country:   country,
		Region:    address.ProvinceCode,
		Address1:  address.Address1,
		Address2:  address.Address2,
		City:      address.City,
		Zip:       address.Zip,
	}
}

// OnShipmentReady creates one storefront fulfillment per shipment. A failed
// shipment is logged and counted; the remaining shipments are still sent.
func (b *Bridge) OnShipmentReady(ctx context.Context, event domain.ShipmentEvent) (domain.SyncResult, error) {
	if len(event.Shipments) == 0 {
		result := domain.Skipped("no shipments in event")
		b.record(opShipmentReady, result)
		return result, nil
	}
	if event.ExternalID == "" {
		result := domain.Skipped("event carries no storefront order id")
		b.record(opShipmentReady, result)
		b.logger.Warn().Str("eventId", event.ID).Msg("Shipment event without external id, skipping")
		return result, nil
	}

	var (
		fulfilled int
		errs      []error
	)
	for _, shipment := range event.Shipments {
		_, err := b.storefront.CreateFulfillment(ctx, domain.Fulfillment{
			OrderID:         event.ExternalID,
			TrackingNumber:  shipment.TrackingNumber,
			TrackingCompany: shipment.Carrier,
			TrackingURL:     shipment.URL,
			NotifyCustomer:  true,
		})
		if err != nil {
			b.logger.Error().
				Err(err).
				Str("orderId", event.ExternalID).
				Str("trackingNumber", shipment.TrackingNumber).
				Msg("Failed to create fulfillment")
			errs = append(errs, err)
			continue
		}
		fulfilled++
	}

	if fulfilled == 0 {
		return b.fail(opShipmentReady, errors.Join(errs...))
	}

	result := domain.SyncResult{Status: domain.SyncFulfilled, Shipments: fulfilled, Failed: len(errs)}
	b.record(opShipmentReady, result)
	b.logger.Info().
		Str("orderId", event.ExternalID).
		Int("shipments", fulfilled).
		Int("failed", len(errs)).
		Msg("Fulfillments created")
	return result, nil
}

// OnOrderCancelled cancels the production order created for orderID.
// When none exists the cancellation is treated as already settled.
func (b *Bridge) OnOrderCancelled(ctx context.Context, orderID string) (domain.SyncResult, error) {
	shopID, err := b.ResolveChannelShopID(ctx)
	if err != nil {
		return b.fail(opOrderCancelled, err)
	}

	orders, err := b.production.AllOrders(ctx, shopID)
	if err != nil {
		return b.fail(opOrderCancelled, err)
	}

	for _, order := range orders {
		if order.ExternalID != orderID {
			continue
		}
		if err := b.production.CancelOrder(ctx, shopID, order.ID); err != nil {
			return b.fail(opOrderCancelled, err)
		}
		result := domain.SyncResult{Status: domain.SyncCancelled, RemoteOrderID: order.ID}
		b.record(opOrderCancelled, result)
		b.logger.Info().Str("orderId", orderID).Str("productionOrderId", order.ID).Msg("Production order cancelled")
		return result, nil
	}

	result := domain.Skipped("no production order for storefront order")
	b.record(opOrderCancelled, result)
	b.logger.Info().Str("orderId", orderID).Msg("No production order to cancel")
	return result, nil
}

// PublishProduct pushes a production product to the storefront
func (b *Bridge) PublishProduct(ctx context.Context, productID string) (domain.SyncResult, error) {
	shopID, err := b.ResolveChannelShopID(ctx)
	if err != nil {
		return b.fail(opPublishProduct, err)
	}
	if err := b.production.PublishProduct(ctx, shopID, productID, domain.DefaultPublishFlags()); err != nil {
		return b.fail(opPublishProduct, err)
	}
	result := domain.SyncResult{Status: domain.SyncPublished}
	b.record(opPublishProduct, result)
	return result, nil
}

func (b *Bridge) fail(operation string, err error) (domain.SyncResult, error) {
	result := domain.SyncResult{Status: domain.SyncFailed, Reason: err.Error()}
	b.record(operation, result)
	return result, err
}

func (b *Bridge) record(operation string, result domain.SyncResult) {
	b.metrics.BridgeResult(operation, string(result.Status))
}
