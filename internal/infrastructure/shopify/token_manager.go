package shopify

import (
	"context"
	"errors"
	"net/http"

	"iamtoxico-bridge/internal/domain"
	"iamtoxico-bridge/internal/ports"

	"github.com/rs/zerolog"
)

// TokenManager checks whether stored access tokens are still accepted.
// Shopify tokens do not expire; they stop working when the app is uninstalled.
type TokenManager struct {
	logger zerolog.Logger
}

// NewTokenManager creates a new token manager
func NewTokenManager(logger zerolog.Logger) *TokenManager {
	return &TokenManager{logger: logger}
}

// ValidateToken reports false only when Shopify rejects the token with 401 or 403.
// Network failures and other statuses are treated as valid so a flaky
// upstream does not drop a working connection.
func (tm *TokenManager) ValidateToken(ctx context.Context, client ports.ShopChecker, shopDomain string) bool {
	_, err := client.GetShop(ctx)
	if err == nil {
		tm.logger.Debug().Str("shop", shopDomain).Msg("Token validation successful")
		return true
	}

	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) &&
		(upstream.StatusCode == http.StatusUnauthorized || upstream.StatusCode == http.StatusForbidden) {
		tm.logger.Warn().
			Int("status", upstream.StatusCode).
			Str("shop", shopDomain).
			Msg("Token validation failed: token is invalid or revoked")
		return false
	}

	tm.logger.Warn().
		Err(err).
		Str("shop", shopDomain).
		Msg("Token validation encountered an error (assuming token is valid)")
	return true
}

var _ ports.TokenValidator = (*TokenManager)(nil)
