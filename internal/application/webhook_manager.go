package application

import (
	"context"
	"fmt"
	"strings"

	"iamtoxico-bridge/internal/domain"

	"github.com/rs/zerolog"
)

// PlatformRegistration is the outcome of registering one platform's webhooks
type PlatformRegistration struct {
	Count    int                          `json:"count"`
	Webhooks []domain.WebhookSubscription `json:"webhooks,omitempty"`
	Error    string                       `json:"error,omitempty"`
}

// RegistrationReport is returned by the manual registration endpoint
type RegistrationReport struct {
	Shopify  PlatformRegistration `json:"shopify"`
	Printify PlatformRegistration `json:"printify"`
}

// ConnectResult describes an established bridge
type ConnectResult struct {
	Status           string `json:"status"`
	PrintifyShopID   int    `json:"printify_shop_id"`
	ShopifyWebhooks  int    `json:"shopify_webhooks"`
	PrintifyWebhooks int    `json:"printify_webhooks"`
	Message          string `json:"message"`
}

// WebhookManager registers the bridge's webhook subscriptions on both
// platforms. Registration is idempotent so it is safe to repeat.
type WebhookManager struct {
	connectors *Connectors
	baseURL    string
	logger     zerolog.Logger
}

// NewWebhookManager creates a manager that points subscriptions at baseURL
func NewWebhookManager(connectors *Connectors, baseURL string, logger zerolog.Logger) *WebhookManager {
	return &WebhookManager{
		connectors: connectors,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}

// BaseURL is the public URL subscriptions are registered against
func (m *WebhookManager) BaseURL() string {
	return m.baseURL
}

// RegisterAll ensures subscriptions on every connected platform and reports
// per-platform counts. A failure on one platform does not stop the other.
func (m *WebhookManager) RegisterAll(ctx context.Context) RegistrationReport {
	var report RegistrationReport

	subs, err := m.registerStorefront(ctx)
	report.Shopify = registration(subs, err)

	subs, err = m.registerProduction(ctx)
	report.Printify = registration(subs, err)

	m.logger.Info().
		Int("shopify", report.Shopify.Count).
		Str("shopifyError", report.Shopify.Error).
		Int("printify", report.Printify.Count).
		Str("printifyError", report.Printify.Error).
		Msg("Webhook registration completed")
	return report
}

// Connect builds the bridge, resolves the production shop and registers
// webhooks on both platforms
func (m *WebhookManager) Connect(ctx context.Context) (*ConnectResult, error) {
	bridge, err := m.connectors.Bridge()
	if err != nil {
		return nil, err
	}
	shopID, err := bridge.ResolveChannelShopID(ctx)
	if err != nil {
		return nil, err
	}

	storefrontHooks, err := m.registerStorefront(ctx)
	if err != nil {
		return nil, err
	}
	productionHooks, err := m.registerProduction(ctx)
	if err != nil {
		return nil, err
	}

	return &ConnectResult{
		Status:           "connected",
		PrintifyShopID:   shopID,
		ShopifyWebhooks:  len(storefrontHooks),
		PrintifyWebhooks: len(productionHooks),
		Message:          "Bridge established! Orders will sync automatically.",
	}, nil
}

func (m *WebhookManager) registerStorefront(ctx context.Context) ([]domain.WebhookSubscription, error) {
	storefront, err := m.connectors.Storefront()
	if err != nil {
		return nil, err
	}
	subs, err := storefront.EnsureWebhooks(ctx, m.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to register shopify webhooks: %w", err)
	}
	return subs, nil
}

func (m *WebhookManager) registerProduction(ctx context.Context) ([]domain.WebhookSubscription, error) {
	production, err := m.connectors.Production()
	if err != nil {
		return nil, err
	}
	bridge, err := m.connectors.Bridge()
	if err != nil {
		return nil, err
	}
	shopID, err := bridge.ResolveChannelShopID(ctx)
	if err != nil {
		return nil, err
	}
	subs, err := production.EnsureWebhooks(ctx, shopID, m.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to register printify webhooks: %w", err)
	}
	return subs, nil
}

func registration(subs []domain.WebhookSubscription, err error) PlatformRegistration {
	if err != nil {
		return PlatformRegistration{Error: err.Error()}
	}
	return PlatformRegistration{Count: len(subs), Webhooks: subs}
}
