package api

import (
	"net/http"

	"iamtoxico-bridge/internal/infrastructure/shopify"
)

// handleInstall starts the OAuth flow by redirecting the merchant to Shopify
func (s *Server) handleInstall(w http.ResponseWriter, r *http.Request) {
	shop := shopify.NormalizeShopDomain(r.URL.Query().Get("shop"))
	if shop == "" {
		writeError(w, http.StatusBadRequest, "Missing shop parameter")
		return
	}
	if s.deps.App.APIKey == "" {
		writeError(w, http.StatusBadRequest, "SHOPIFY_API_KEY not set")
		return
	}

	state := s.newID()
	if err := s.deps.States.PutState(r.Context(), state, shop, StateTTL); err != nil {
		s.logger.Error().Err(err).Msg("Failed to store oauth state")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	redirectURI := s.deps.Manager.BaseURL() + "/shopify/callback"
	http.Redirect(w, r, s.deps.App.AuthURL(shop, redirectURI, state), http.StatusFound)
}

// handleCallback completes the OAuth flow, connects the storefront and
// registers webhooks on both platforms
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	shop := shopify.NormalizeShopDomain(query.Get("shop"))
	code := query.Get("code")
	state := query.Get("state")
	if shop == "" || code == "" || state == "" {
		writeError(w, http.StatusBadRequest, "Missing required parameters")
		return
	}

	expectedShop, ok, err := s.deps.States.TakeState(ctx, state)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load oauth state")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !ok || expectedShop != shop {
		s.logger.Warn().Str("shop", shop).Msg("OAuth state mismatch")
		writeError(w, http.StatusForbidden, "Invalid state parameter")
		return
	}
	if !s.deps.App.VerifyCallback(query) {
		s.logger.Warn().Str("shop", shop).Msg("OAuth callback signature verification failed")
		writeError(w, http.StatusUnauthorized, "Invalid signature")
		return
	}

	token, err := s.deps.App.ExchangeCode(ctx, shop, code)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to exchange token")
		writeError(w, statusFor(err), err.Error())
		return
	}

	if _, err := s.deps.Connectors.ConnectStorefront(token); err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to connect storefront")
		writeError(w, http.StatusInternalServerError, "Failed to complete installation")
		return
	}

	// Registration failures are reported but do not fail the install
	report := s.deps.Manager.RegisterAll(ctx)

	s.logger.Info().
		Str("shop", shop).
		Str("scope", token.Scopes).
		Msg("OAuth token exchange completed")

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "connected",
		"shop":     shop,
		"scope":    token.Scopes,
		"message":  "Successfully connected to Shopify!",
		"webhooks": report,
	})
}
