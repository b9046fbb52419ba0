// Package api is the HTTP surface of the bridge: Shopify OAuth, inbound
// webhooks from both platforms, and the operator endpoints.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"iamtoxico-bridge/internal/application"
	"iamtoxico-bridge/internal/infrastructure/metrics"
	"iamtoxico-bridge/internal/infrastructure/pubsub"
	"iamtoxico-bridge/internal/infrastructure/shopify"
	"iamtoxico-bridge/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

const (
	// AppName is reported by the service descriptor
	AppName = "iamtoxico Shopify Integration"

	// DeliveryTTL bounds how long a webhook delivery id is remembered
	DeliveryTTL = 24 * time.Hour
	// StateTTL bounds the time between install and callback
	StateTTL = 10 * time.Minute

	defaultDocsPath = "./docs/swagger.json"
)

// Dependencies wires the router to the application layer
type Dependencies struct {
	App        shopify.App
	Connectors *application.Connectors
	Manager    *application.WebhookManager
	Dispatcher *application.WebhookDispatcher
	Events     ports.WebhookEventLog
	Deliveries ports.DeliveryDeduper
	States     ports.OAuthStateStore
	Feed       *pubsub.Feed
	Metrics    *metrics.Metrics

	// PrintifyWebhookSecret enables X-Pfy-Signature checks when set
	PrintifyWebhookSecret string
	// Production rejects unsigned Shopify webhooks when no secret is configured
	Production     bool
	AllowedOrigins []string
	DocsPath       string
}

// Server holds the HTTP handlers
type Server struct {
	deps   Dependencies
	logger zerolog.Logger
	newID  func() string
	now    func() time.Time
}

// NewServer creates the HTTP server handlers
func NewServer(deps Dependencies, logger zerolog.Logger) *Server {
	if deps.DocsPath == "" {
		deps.DocsPath = defaultDocsPath
	}
	if len(deps.AllowedOrigins) == 0 {
		deps.AllowedOrigins = []string{"*"}
	}
	return &Server{
		deps:   deps,
		logger: logger.With().Str("component", "api").Logger(),
		newID:  uuid.NewString,
		now:    time.Now,
	}
}

// Routes builds the chi router
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/", s.handleHome)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.deps.Metrics.Handler())
	}

	// Swagger documentation
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, s.deps.DocsPath)
	})
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/shopify", func(r chi.Router) {
		r.Get("/install", s.handleInstall)
		r.Get("/callback", s.handleCallback)
		r.Post("/webhooks/{kind}", s.handleShopifyWebhook)
	})

	r.Route("/printify", func(r chi.Router) {
		r.Post("/webhooks", s.handlePrintifyWebhook)
		r.Get("/status", s.handlePrintifyStatus)
		r.Get("/blueprints", s.handleBlueprints)
	})

	r.Post("/webhooks/register", s.handleRegisterWebhooks)
	r.Get("/webhooks/events", s.handleRecentEvents)

	r.Route("/bridge", func(r chi.Router) {
		r.Post("/connect", s.handleConnect)
		r.Get("/status", s.handleStatus)
		r.Post("/products/{productID}/publish", s.handlePublish)
		r.Get("/events", s.handleEventStream)
	})

	return r
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"app":    AppName,
		"status": "running",
		"endpoints": map[string]string{
			"install":  "/shopify/install?shop=YOUR_SHOP.myshopify.com",
			"callback": "/shopify/callback",
			"webhooks": "/shopify/webhooks/orders",
			"printify": "/printify/webhooks",
			"bridge":   "/bridge/status",
			"events":   "/bridge/events",
			"docs":     "/swagger/index.html",
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
