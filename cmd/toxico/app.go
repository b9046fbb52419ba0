package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"iamtoxico-bridge/internal/application"
	"iamtoxico-bridge/internal/config"
	"iamtoxico-bridge/internal/domain"
	"iamtoxico-bridge/internal/infrastructure/printify"
	"iamtoxico-bridge/internal/infrastructure/repository"
	"iamtoxico-bridge/internal/infrastructure/shopify"
	"iamtoxico-bridge/internal/ports"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// env carries what every subcommand needs. Configuration is loaded on first use
// so --help works without any credentials.
type env struct {
	out     io.Writer
	logger  zerolog.Logger
	cfg     *config.Config
	tokens  ports.TokenStore
	closers []func()
}

// newApp builds the command tree. The returned func releases any database
// connection a command opened.
func newApp(out io.Writer, logger zerolog.Logger) (*cli.Command, func()) {
	e := &env{out: out, logger: logger}
	app := &cli.Command{
		Name:  "toxico",
		Usage: "inspect and manage the iamtoxico Shopify store and Printify shops",
		Commands: []*cli.Command{
			e.shopifyCommand(),
			e.printifyCommand(),
			e.bridgeCommand(),
		},
	}
	return app, e.close
}

func (e *env) close() {
	for _, closer := range e.closers {
		closer()
	}
	e.closers = nil
}

func (e *env) config() (*config.Config, error) {
	if e.cfg != nil {
		return e.cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		e.logger = e.logger.Level(level)
	}
	e.cfg = cfg
	return cfg, nil
}

// tokenStore opens the store the API server writes OAuth tokens to
func (e *env) tokenStore(ctx context.Context) (ports.TokenStore, error) {
	if e.tokens != nil {
		return e.tokens, nil
	}
	cfg, err := e.config()
	if err != nil {
		return nil, err
	}
	if cfg.Mongo.URI == "" {
		e.tokens = shopify.NewFileTokenStore(cfg.Shopify.TokenFile)
		return e.tokens, nil
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	e.closers = append(e.closers, func() { client.Disconnect(context.Background()) })
	e.tokens = repository.NewMongoTokenStore(client.Database(cfg.Mongo.Database))
	return e.tokens, nil
}

// storefront builds a Shopify client from the stored OAuth token, or from
// SHOPIFY_SHOP_DOMAIN and SHOPIFY_ACCESS_TOKEN when set
func (e *env) storefront(ctx context.Context) (*shopify.Client, error) {
	cfg, err := e.config()
	if err != nil {
		return nil, err
	}
	token, ok := cfg.ProvisionedToken()
	if !ok {
		tokens, err := e.tokenStore(ctx)
		if err != nil {
			return nil, err
		}
		token, ok, err = tokens.First()
		if err != nil {
			return nil, fmt.Errorf("failed to load access token: %w", err)
		}
	}
	if !ok {
		return nil, fmt.Errorf("shopify: %w (complete the OAuth install first)", domain.ErrNotConnected)
	}
	return shopify.NewClient(cfg.ShopifyClient(token), nil, e.logger)
}

func (e *env) production() (*printify.Client, error) {
	cfg, err := e.config()
	if err != nil {
		return nil, err
	}
	return printify.NewClient(cfg.PrintifyClient(), nil, e.logger)
}

// connectors wires both clients the way the API server does, so bridge
// commands behave exactly like webhook-driven syncs
func (e *env) connectors(ctx context.Context) (*application.Connectors, error) {
	cfg, err := e.config()
	if err != nil {
		return nil, err
	}
	production, err := e.production()
	if err != nil {
		return nil, err
	}
	tokens, err := e.tokenStore(ctx)
	if err != nil {
		return nil, err
	}
	if token, ok := cfg.ProvisionedToken(); ok {
		if err := tokens.Save(token); err != nil {
			return nil, fmt.Errorf("failed to save provisioned token: %w", err)
		}
	}

	connectors := application.NewConnectors(application.ConnectorsConfig{
		Tokens:    tokens,
		Validator: shopify.NewTokenManager(e.logger),
		NewStorefront: func(token domain.AccessToken) (ports.Storefront, error) {
			client, err := shopify.NewClient(cfg.ShopifyClient(token), nil, e.logger)
			if err != nil {
				return nil, err
			}
			return client, nil
		},
		Production:   production,
		SalesChannel: cfg.Printify.SalesChannel,
	}, nil, e.logger)

	if _, err := connectors.Restore(ctx); err != nil {
		return nil, err
	}
	return connectors, nil
}

func (e *env) table() *tabwriter.Writer {
	return tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
}

func (e *env) printResult(result domain.SyncResult) {
	fmt.Fprintf(e.out, "status: %s\n", result.Status)
	if result.Reason != "" {
		fmt.Fprintf(e.out, "reason: %s\n", result.Reason)
	}
	if result.RemoteOrderID != "" {
		fmt.Fprintf(e.out, "printify order: %s\n", result.RemoteOrderID)
	}
	if result.Shipments > 0 || result.Failed > 0 {
		fmt.Fprintf(e.out, "shipments: %d (failed %d)\n", result.Shipments, result.Failed)
	}
}
