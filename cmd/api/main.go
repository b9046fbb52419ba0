package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"iamtoxico-bridge/internal/application"
	"iamtoxico-bridge/internal/application/webhook_handlers"
	"iamtoxico-bridge/internal/config"
	"iamtoxico-bridge/internal/domain"
	"iamtoxico-bridge/internal/infrastructure/api"
	"iamtoxico-bridge/internal/infrastructure/cache"
	"iamtoxico-bridge/internal/infrastructure/metrics"
	"iamtoxico-bridge/internal/infrastructure/printify"
	"iamtoxico-bridge/internal/infrastructure/pubsub"
	"iamtoxico-bridge/internal/infrastructure/repository"
	"iamtoxico-bridge/internal/infrastructure/shopify"
	"iamtoxico-bridge/internal/ports"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	ctx := context.Background()
	m := metrics.New()

	// Webhook audit log and tokens: MongoDB when configured, memory and file otherwise
	var (
		eventLog ports.WebhookEventLog
		tokens   ports.TokenStore
	)
	if cfg.Mongo.URI != "" {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		defer client.Disconnect(context.Background())

		repo := repository.NewMongoRepository(client.Database(cfg.Mongo.Database))
		if err := repo.EnsureIndexes(ctx); err != nil {
			logger.Warn().Err(err).Msg("Failed to create webhook event indexes")
		}
		eventLog = repo

		tokenStore := repository.NewMongoTokenStore(client.Database(cfg.Mongo.Database))
		if err := tokenStore.EnsureIndexes(ctx); err != nil {
			logger.Warn().Err(err).Msg("Failed to create token indexes")
		}
		tokens = tokenStore
	} else {
		logger.Warn().Msg("MONGODB_URI not set, webhook events are kept in memory")
		eventLog = repository.NewMemoryRepository(repository.DefaultMemoryCapacity)
		tokens = shopify.NewFileTokenStore(cfg.Shopify.TokenFile)
	}

	// Delivery dedupe and OAuth state: Redis when configured, in memory otherwise
	var (
		deliveries ports.DeliveryDeduper
		states     ports.OAuthStateStore
	)
	if cfg.RedisURL != "" {
		store, err := cache.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer store.Close()
		deliveries, states = store, store
	} else {
		logger.Warn().Msg("REDIS_URL not set, delivery dedupe and oauth state are process local")
		store := cache.NewMemoryStore()
		deliveries, states = store, store
	}

	// Platform clients
	var production ports.ProductionProvider
	printifyClient, err := printify.NewClient(cfg.PrintifyClient(), m, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("Printify not configured")
	} else {
		production = printifyClient
	}

	if token, ok := cfg.ProvisionedToken(); ok {
		if err := tokens.Save(token); err != nil {
			logger.Fatal().Err(err).Msg("Failed to save provisioned Shopify token")
		}
	}

	connectors := application.NewConnectors(application.ConnectorsConfig{
		Tokens:    tokens,
		Validator: shopify.NewTokenManager(logger),
		NewStorefront: func(token domain.AccessToken) (ports.Storefront, error) {
			client, err := shopify.NewClient(cfg.ShopifyClient(token), m, logger)
			if err != nil {
				return nil, err
			}
			return client, nil
		},
		Production:   production,
		SalesChannel: cfg.Printify.SalesChannel,
	}, m, logger)

	restored, err := connectors.Restore(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to restore Shopify connection")
	}
	logger.Info().
		Bool("shopify", restored).
		Bool("printify", production != nil).
		Msg("Connectors initialized")

	webhookManager := application.NewWebhookManager(connectors, cfg.AppURL, logger)

	// Initialize webhook dispatcher and register handlers
	webhookDispatcher := application.NewWebhookDispatcher(logger)
	webhookDispatcher.RegisterHandler(webhook_handlers.NewOrderHandler(logger, connectors))
	webhookDispatcher.RegisterHandler(webhook_handlers.NewProductHandler(logger))
	webhookDispatcher.RegisterHandler(webhook_handlers.NewRefundHandler(logger))
	webhookDispatcher.RegisterHandler(webhook_handlers.NewAppUninstalledHandler(logger, connectors))
	webhookDispatcher.RegisterHandler(webhook_handlers.NewProductionHandler(logger, connectors))

	server := api.NewServer(api.Dependencies{
		App:                   cfg.ShopifyApp(),
		Connectors:            connectors,
		Manager:               webhookManager,
		Dispatcher:            webhookDispatcher,
		Events:                eventLog,
		Deliveries:            deliveries,
		States:                states,
		Feed:                  pubsub.NewFeed(logger),
		Metrics:               m,
		PrintifyWebhookSecret: cfg.Printify.WebhookSecret,
		Production:            cfg.IsProduction(),
		AllowedOrigins:        cfg.CORSAllowedOrigins,
	}, logger)

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Addr()).Str("appUrl", cfg.AppURL).Msg("Starting API server")
		logger.Info().Msg("OAuth install at " + cfg.AppURL + "/shopify/install?shop=iamtoxico")
		logger.Info().Msg("Swagger documentation available at " + cfg.AppURL + "/swagger/index.html")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	stop, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	<-stop.Done()

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
		httpServer.Close()
	}
}
