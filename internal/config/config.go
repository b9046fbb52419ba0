// Package config loads bridge settings from the environment and an optional
// .env file.
package config

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"iamtoxico-bridge/internal/domain"
	"iamtoxico-bridge/internal/infrastructure/printify"
	"iamtoxico-bridge/internal/infrastructure/shopify"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Host        string
	Environment string
	LogLevel    string
	// AppURL is the public base URL platforms deliver webhooks to
	AppURL             string
	CORSAllowedOrigins []string
	Shopify            ShopifyConfig
	Printify           PrintifyConfig
	HTTP               HTTPConfig
	RedisURL           string
	Mongo              MongoConfig
}

type ShopifyConfig struct {
	APIKey        string
	APISecret     string
	WebhookSecret string
	Scopes        string
	APIVersion    string
	TokenFile     string
	// ShopDomain and AccessToken allow a pre-provisioned connection without OAuth
	ShopDomain  string
	AccessToken string
}

type PrintifyConfig struct {
	APIKey        string
	WebhookSecret string
	SalesChannel  string
	BaseURL       string
}

// HTTPConfig bounds every outbound platform call
type HTTPConfig struct {
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

type MongoConfig struct {
	URI      string
	Database string
}

// Load reads configuration from environment variables, falling back to a
// .env file in the working directory and then to defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("env")
	v.SetConfigName(".env")
	v.AddConfigPath(".")

	v.SetDefault("PORT", "8080")
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SHOPIFY_SCOPES", shopify.DefaultScopes)
	v.SetDefault("SHOPIFY_API_VERSION", shopify.DefaultAPIVersion)
	v.SetDefault("SHOPIFY_TOKEN_FILE", "shopify_tokens.json")
	v.SetDefault("PRINTIFY_SALES_CHANNEL", "shopify")
	v.SetDefault("HTTP_TIMEOUT", "30s")
	v.SetDefault("RETRY_MAX", 3)
	v.SetDefault("RETRY_DEFAULT_DELAY", "1s")
	v.SetDefault("MONGODB_DATABASE", "iamtoxico")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	port := strings.TrimSpace(v.GetString("PORT"))
	cfg := &Config{
		Port:               port,
		Host:               strings.TrimSpace(v.GetString("HOST")),
		Environment:        v.GetString("ENVIRONMENT"),
		LogLevel:           strings.ToLower(v.GetString("LOG_LEVEL")),
		AppURL:             strings.TrimRight(strings.TrimSpace(v.GetString("APP_URL")), "/"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		Shopify: ShopifyConfig{
			APIKey:        strings.TrimSpace(v.GetString("SHOPIFY_API_KEY")),
			APISecret:     strings.TrimSpace(v.GetString("SHOPIFY_API_SECRET")),
			WebhookSecret: strings.TrimSpace(v.GetString("SHOPIFY_WEBHOOK_SECRET")),
			Scopes:        strings.TrimSpace(v.GetString("SHOPIFY_SCOPES")),
			APIVersion:    strings.TrimSpace(v.GetString("SHOPIFY_API_VERSION")),
			TokenFile:     strings.TrimSpace(v.GetString("SHOPIFY_TOKEN_FILE")),
			ShopDomain:    strings.TrimSpace(v.GetString("SHOPIFY_SHOP_DOMAIN")),
			AccessToken:   strings.TrimSpace(v.GetString("SHOPIFY_ACCESS_TOKEN")),
		},
		Printify: PrintifyConfig{
			APIKey:        strings.TrimSpace(v.GetString("PRINTIFY_API_KEY")),
			WebhookSecret: strings.TrimSpace(v.GetString("PRINTIFY_WEBHOOK_SECRET")),
			SalesChannel:  strings.TrimSpace(v.GetString("PRINTIFY_SALES_CHANNEL")),
			BaseURL:       strings.TrimSpace(v.GetString("PRINTIFY_BASE_URL")),
		},
		HTTP: HTTPConfig{
			Timeout:    v.GetDuration("HTTP_TIMEOUT"),
			MaxRetries: v.GetInt("RETRY_MAX"),
			RetryDelay: v.GetDuration("RETRY_DEFAULT_DELAY"),
		},
		RedisURL: strings.TrimSpace(v.GetString("REDIS_URL")),
		Mongo: MongoConfig{
			URI:      strings.TrimSpace(v.GetString("MONGODB_URI")),
			Database: strings.TrimSpace(v.GetString("MONGODB_DATABASE")),
		},
	}

	if cfg.AppURL == "" {
		cfg.AppURL = "http://localhost:" + port
	}
	if cfg.HTTP.Timeout <= 0 {
		return nil, fmt.Errorf("HTTP_TIMEOUT must be positive, got %q", v.GetString("HTTP_TIMEOUT"))
	}
	if cfg.HTTP.MaxRetries < 0 {
		return nil, fmt.Errorf("RETRY_MAX must not be negative")
	}

	return cfg, nil
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// IsProduction reports whether ENVIRONMENT is production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// clientRetries translates RETRY_MAX for the REST clients, where zero
// means the default and a negative value disables retries
func (c *Config) clientRetries() int {
	if c.HTTP.MaxRetries == 0 {
		return -1
	}
	return c.HTTP.MaxRetries
}

// ShopifyApp returns the partner app credentials
func (c *Config) ShopifyApp() shopify.App {
	return shopify.App{
		APIKey:        c.Shopify.APIKey,
		APISecret:     c.Shopify.APISecret,
		WebhookSecret: c.Shopify.WebhookSecret,
		Scopes:        c.Shopify.Scopes,
		HTTPClient:    &http.Client{Timeout: c.HTTP.Timeout},
	}
}

// ShopifyClient returns the Admin API client settings for token
func (c *Config) ShopifyClient(token domain.AccessToken) shopify.ClientConfig {
	return shopify.ClientConfig{
		ShopDomain:  token.ShopDomain,
		AccessToken: token.Token,
		APIVersion:  c.Shopify.APIVersion,
		Timeout:     c.HTTP.Timeout,
		MaxRetries:  c.clientRetries(),
	}
}

// ProvisionedToken is the access token configured through the environment, if any
func (c *Config) ProvisionedToken() (domain.AccessToken, bool) {
	if c.Shopify.ShopDomain == "" || c.Shopify.AccessToken == "" {
		return domain.AccessToken{}, false
	}
	return domain.AccessToken{
		ShopDomain: shopify.NormalizeShopDomain(c.Shopify.ShopDomain),
		Token:      c.Shopify.AccessToken,
		Scopes:     c.Shopify.Scopes,
	}, true
}

// PrintifyClient returns the Printify client settings
func (c *Config) PrintifyClient() printify.ClientConfig {
	return printify.ClientConfig{
		APIKey:        c.Printify.APIKey,
		BaseURL:       c.Printify.BaseURL,
		WebhookSecret: c.Printify.WebhookSecret,
		Timeout:       c.HTTP.Timeout,
		MaxRetries:    c.clientRetries(),
		RetryDelay:    c.HTTP.RetryDelay,
	}
}
