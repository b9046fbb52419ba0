package application

import (
	"context"
	"fmt"
	"sync"

	"iamtoxico-bridge/internal/domain"
	"iamtoxico-bridge/internal/infrastructure/metrics"
	"iamtoxico-bridge/internal/ports"

	"github.com/rs/zerolog"
)

// StorefrontFactory builds a storefront client for an access token
type StorefrontFactory func(token domain.AccessToken) (ports.Storefront, error)

// ConnectorsConfig wires the platform clients into a Connectors
type ConnectorsConfig struct {
	Tokens        ports.TokenStore
	Validator     ports.TokenValidator
	NewStorefront StorefrontFactory
	// Production is nil when no Printify key is configured
	Production   ports.ProductionProvider
	SalesChannel string
}

// ConnectorStatus is a point-in-time view of what is connected
type ConnectorStatus struct {
	StorefrontConnected bool   `json:"shopify_connected"`
	Shop                string `json:"shop,omitempty"`
	ProductionConnected bool   `json:"printify_connected"`
	BridgeReady         bool   `json:"bridge_ready"`
	ProductionShopID    int    `json:"printify_shop_id,omitempty"`
}

// Connectors owns the live platform clients and the bridge built on them.
// The storefront client comes and goes with OAuth installs; the bridge is
// rebuilt whenever it changes.
type Connectors struct {
	mu            sync.RWMutex
	storefront    ports.Storefront
	production    ports.ProductionProvider
	bridge        *Bridge
	tokens        ports.TokenStore
	validator     ports.TokenValidator
	newStorefront StorefrontFactory
	salesChannel  string
	metrics       *metrics.Metrics
	logger        zerolog.Logger
}

// NewConnectors creates an empty registry; call Restore or ConnectStorefront
// to attach a storefront
func NewConnectors(cfg ConnectorsConfig, m *metrics.Metrics, logger zerolog.Logger) *Connectors {
	return &Connectors{
		production:    cfg.Production,
		tokens:        cfg.Tokens,
		validator:     cfg.Validator,
		newStorefront: cfg.NewStorefront,
		salesChannel:  cfg.SalesChannel,
		metrics:       m,
		logger:        logger,
	}
}

// ConnectStorefront persists token and makes it the active storefront
func (c *Connectors) ConnectStorefront(token domain.AccessToken) (ports.Storefront, error) {
	if c.newStorefront == nil {
		return nil, &domain.ConfigurationError{Message: "no storefront client factory configured"}
	}
	if c.tokens != nil {
		if err := c.tokens.Save(token); err != nil {
			return nil, fmt.Errorf("failed to save access token: %w", err)
		}
	}
	storefront, err := c.newStorefront(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create storefront client: %w", err)
	}

	c.mu.Lock()
	c.storefront = storefront
	c.bridge = nil
	c.mu.Unlock()

	c.logger.Info().Str("shop", storefront.ShopDomain()).Msg("Storefront connected")
	return storefront, nil
}

// Restore reconnects the storefront from the first persisted token. A token
// the platform rejects is deleted. It reports whether a storefront is attached.
func (c *Connectors) Restore(ctx context.Context) (bool, error) {
	if c.tokens == nil || c.newStorefront == nil {
		return false, nil
	}
	token, ok, err := c.tokens.First()
	if err != nil {
		return false, fmt.Errorf("failed to load access token: %w", err)
	}
	if !ok {
		return false, nil
	}

	storefront, err := c.newStorefront(token)
	if err != nil {
		return false, fmt.Errorf("failed to create storefront client: %w", err)
	}
	if c.validator != nil && !c.validator.ValidateToken(ctx, storefront, token.ShopDomain) {
		c.logger.Warn().Str("shop", token.ShopDomain).Msg("Stored token was revoked, discarding")
		if err := c.tokens.Delete(token.ShopDomain); err != nil {
			return false, fmt.Errorf("failed to delete revoked token: %w", err)
		}
		return false, nil
	}

	c.mu.Lock()
	c.storefront = storefront
	c.bridge = nil
	c.mu.Unlock()

	c.logger.Info().Str("shop", token.ShopDomain).Msg("Restored storefront token")
	return true, nil
}

// Reset detaches the storefront after an uninstall and forgets its token.
// The production client is kept; it is configured statically.
func (c *Connectors) Reset(shop string) error {
	c.mu.Lock()
	if shop == "" && c.storefront != nil {
		shop = c.storefront.ShopDomain()
	}
	if c.storefront != nil && (shop == "" || c.storefront.ShopDomain() == shop) {
		c.storefront = nil
	}
	c.bridge = nil
	c.mu.Unlock()

	c.logger.Info().Str("shop", shop).Msg("Connectors reset")
	if c.tokens == nil || shop == "" {
		return nil
	}
	if err := c.tokens.Delete(shop); err != nil {
		return fmt.Errorf("failed to delete access token: %w", err)
	}
	return nil
}

// Storefront returns the connected storefront or ErrNotConnected
func (c *Connectors) Storefront() (ports.Storefront, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.storefront == nil {
		return nil, fmt.Errorf("shopify: %w", domain.ErrNotConnected)
	}
	return c.storefront, nil
}

// Production returns the production client or ErrNotConnected
func (c *Connectors) Production() (ports.ProductionProvider, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.production == nil {
		return nil, fmt.Errorf("printify: %w", domain.ErrNotConnected)
	}
	return c.production, nil
}

// Bridge returns the bridge, building it on first use once both platforms
// are connected
func (c *Connectors) Bridge() (*Bridge, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bridge != nil {
		return c.bridge, nil
	}
	if c.storefront == nil {
		return nil, fmt.Errorf("shopify: %w", domain.ErrNotConnected)
	}
	if c.production == nil {
		return nil, fmt.Errorf("printify: %w", domain.ErrNotConnected)
	}
	c.bridge = NewBridge(c.storefront, c.production, c.salesChannel, c.metrics, c.logger)
	return c.bridge, nil
}

// Status reports what is currently connected
func (c *Connectors) Status() ConnectorStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := ConnectorStatus{
		StorefrontConnected: c.storefront != nil,
		ProductionConnected: c.production != nil,
		BridgeReady:         c.bridge != nil,
	}
	if c.storefront != nil {
		status.Shop = c.storefront.ShopDomain()
	}
	if c.bridge != nil {
		status.ProductionShopID, _ = c.bridge.ShopID()
	}
	return status
}
