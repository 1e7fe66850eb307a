// Package routes defines the API routing configuration.
// It wires repositories, services and handlers and registers all routes.
package routes

import (
	"github.com/sohamgherwada/PayQI/internal/config"
	"github.com/sohamgherwada/PayQI/internal/handlers"
	"github.com/sohamgherwada/PayQI/internal/logger"
	"github.com/sohamgherwada/PayQI/internal/metrics"
	"github.com/sohamgherwada/PayQI/internal/middleware"
	"github.com/sohamgherwada/PayQI/internal/repositories"
	"github.com/sohamgherwada/PayQI/internal/repositories/cache"
	"github.com/sohamgherwada/PayQI/internal/services/auth"
	"github.com/sohamgherwada/PayQI/internal/services/gateway"
	"github.com/sohamgherwada/PayQI/internal/services/ledger"
	"github.com/sohamgherwada/PayQI/internal/services/payment"
	"github.com/sohamgherwada/PayQI/internal/services/rates"
	"github.com/sohamgherwada/PayQI/internal/services/webhook"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, db *gorm.DB, cacheStore cache.Cache) {
	log := logger.Get()

	// Repositories
	merchantRepo := repositories.NewMerchantRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)

	// Services
	authService := auth.NewService(merchantRepo, auth.Config{
		JWTSecret:    config.GetEnv("JWT_SECRET", "change_me"),
		TokenExpires: config.GetDurationEnv("JWT_EXPIRES", 0),
	}, log)

	ratesCfg := rates.DefaultConfig()
	ratesCfg.FeedBaseURL = config.GetEnv("PRICE_FEED_URL", ratesCfg.FeedBaseURL)
	ratesCfg.CacheTTL = config.GetDurationEnv("EXCHANGE_RATE_CACHE_TTL", ratesCfg.CacheTTL)
	rateConverter := rates.NewService(cacheStore, ratesCfg, log)

	allocator := ledger.NewAllocator(config.GetEnv("XRP_WALLET_ADDRESS", ""))

	gatewayCfg := gateway.DefaultConfig()
	gatewayCfg.BaseURL = config.GetEnv("NOWPAYMENTS_BASE_URL", gatewayCfg.BaseURL)
	gatewayCfg.APIKey = config.GetEnv("NOWPAYMENTS_API_KEY", "")
	gatewayCfg.CallbackURL = config.GetEnv("WEBHOOK_CALLBACK_URL", "")
	gatewayClient := gateway.NewClient(gatewayCfg, log)

	metrics.Register()
	paymentService := payment.NewService(
		paymentRepo,
		allocator,
		rateConverter,
		gatewayClient,
		metrics.PrometheusCollector{},
		log,
	)

	webhookService := webhook.NewService(
		paymentService,
		config.GetEnv("NOWPAYMENTS_IPN_SECRET", ""),
		log,
	)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	transactionHandler := handlers.NewTransactionHandler(paymentService)
	webhookHandler := handlers.NewWebhookHandler(webhookService)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	app.Get("/health", handlers.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")
	api.Get("/health", handlers.HealthCheck)

	// Public endpoints
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)
	// Provider-authenticated via signature header, not bearer token.
	api.Post("/payments/webhook", webhookHandler.HandleWebhook)

	// Merchant endpoints
	authed := api.Group("", authMiddleware.Handler)
	authed.Get("/me", authHandler.Me)
	authed.Post("/payments", paymentHandler.CreatePayment)
	authed.Get("/payments/:id", paymentHandler.GetPayment)
	authed.Get("/transactions", transactionHandler.ListTransactions)
}
