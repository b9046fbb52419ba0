package shopify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"iamtoxico-bridge/internal/domain"

	goshopify "github.com/bold-commerce/go-shopify/v4"
)

// DefaultScopes are the access scopes requested at install time
const DefaultScopes = "write_products,read_products,write_orders,read_orders"

// App holds the partner app credentials used for OAuth and webhook verification
type App struct {
	APIKey        string
	APISecret     string
	WebhookSecret string
	Scopes        string
	HTTPClient    *http.Client
}

func (a App) scopes() string {
	if a.Scopes == "" {
		return DefaultScopes
	}
	return a.Scopes
}

func (a App) credentials() goshopify.App {
	return goshopify.App{ApiKey: a.APIKey, ApiSecret: a.APISecret, Scope: a.scopes()}
}

// AuthURL builds the authorization redirect for shop. state must be echoed
// back on the callback and checked before the code is exchanged.
func (a App) AuthURL(shop, redirectURI, state string) string {
	params := url.Values{}
	params.Set("client_id", a.APIKey)
	params.Set("scope", a.scopes())
	params.Set("redirect_uri", redirectURI)
	params.Set("state", state)
	return fmt.Sprintf("https://%s/admin/oauth/authorize?%s", NormalizeShopDomain(shop), params.Encode())
}

// ExchangeCode trades an authorization code for a permanent access token
func (a App) ExchangeCode(ctx context.Context, shop, code string) (domain.AccessToken, error) {
	shop = NormalizeShopDomain(shop)
	if a.APIKey == "" || a.APISecret == "" {
		return domain.AccessToken{}, &domain.ConfigurationError{Message: "shopify api key and secret are required"}
	}

	httpClient := a.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	client, err := goshopify.NewClient(a.credentials(), shop, "", goshopify.WithHTTPClient(httpClient))
	if err != nil {
		return domain.AccessToken{}, fmt.Errorf("failed to create token client: %w", err)
	}

	body := struct {
		ClientID     string `json:"client_id"`
		ClientSecret string `json:"client_secret"`
		Code         string `json:"code"`
	}{ClientID: a.APIKey, ClientSecret: a.APISecret, Code: code}
	req, err := client.NewRequest(ctx, http.MethodPost, "admin/oauth/access_token", body, nil)
	if err != nil {
		return domain.AccessToken{}, fmt.Errorf("failed to create token request: %w", err)
	}

	var tokenResponse struct {
		AccessToken string `json:"access_token"`
		Scope       string `json:"scope"`
	}
	if err := client.Do(req, &tokenResponse); err != nil {
		var response goshopify.ResponseError
		if errors.As(err, &response) {
			return domain.AccessToken{}, &domain.AuthError{StatusCode: response.Status, Message: response.Error()}
		}
		var decoding goshopify.ResponseDecodingError
		if errors.As(err, &decoding) {
			return domain.AccessToken{}, &domain.AuthError{StatusCode: decoding.Status, Message: "malformed token response"}
		}
		return domain.AccessToken{}, fmt.Errorf("failed to exchange token: %w", err)
	}
	if tokenResponse.AccessToken == "" {
		return domain.AccessToken{}, &domain.AuthError{StatusCode: http.StatusOK, Message: "token response carried no access token"}
	}

	return domain.AccessToken{
		ShopDomain: shop,
		Token:      tokenResponse.AccessToken,
		Scopes:     tokenResponse.Scope,
	}, nil
}

// VerifyWebhook checks X-Shopify-Hmac-SHA256 against the raw body
func (a App) VerifyWebhook(body []byte, signature string) bool {
	secret := a.WebhookSecret
	if secret == "" {
		secret = a.APISecret
	}
	return VerifyWebhook(secret, body, signature)
}

// VerifyWebhook compares the base64 HMAC-SHA256 of body under secret with
// signature in constant time. Malformed input yields false.
func VerifyWebhook(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	provided, err := base64.StdEncoding.Strict().DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(provided, mac.Sum(nil))
}

// SignWebhook produces the X-Shopify-Hmac-SHA256 value for body
func SignWebhook(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifyCallback checks the hex hmac parameter Shopify appends to the OAuth
// callback query
func (a App) VerifyCallback(query url.Values) bool {
	if a.APISecret == "" || query.Get("hmac") == "" {
		return false
	}
	ok, err := a.credentials().VerifyAuthorizationURL(&url.URL{RawQuery: query.Encode()})
	return err == nil && ok
}
