package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/LucasAlvarez99/LA-PICADA/internal"
	"github.com/LucasAlvarez99/LA-PICADA/internal/catalog"
	"github.com/LucasAlvarez99/LA-PICADA/internal/handler/storefront"
	"github.com/LucasAlvarez99/LA-PICADA/internal/middleware"
	"github.com/LucasAlvarez99/LA-PICADA/internal/notify"
	"github.com/LucasAlvarez99/LA-PICADA/internal/payment"
	"github.com/LucasAlvarez99/LA-PICADA/internal/router"
	"github.com/LucasAlvarez99/LA-PICADA/internal/routes"
	"github.com/LucasAlvarez99/LA-PICADA/internal/session"
	"github.com/LucasAlvarez99/LA-PICADA/internal/telemetry"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// ==========================================================================
	// Catalog: PostgreSQL when configured, seeded memory otherwise
	// ==========================================================================

	var provider catalog.Provider
	if cfg.DatabaseUrl != "" {
		logger.Info("Connecting to database...")
		sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer sqlDB.Close()

		if err := sqlDB.Ping(); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}
		logger.Info("Database connection established")

		logger.Info("Running database migrations...")
		if err := internal.RunMigrations(sqlDB); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logger.Info("Database migrations completed successfully")

		pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
		if err != nil {
			return fmt.Errorf("failed to create connection pool: %w", err)
		}
		defer pool.Close()

		provider = catalog.NewPostgresProvider(pool)
	} else {
		logger.Warn("DATABASE_URL not set, serving the seeded in-memory catalog")
		provider = catalog.NewSeededProvider()
	}

	// ==========================================================================
	// Order collaborators
	// ==========================================================================

	shop := notify.ShopInfo{
		Name:          cfg.Shop.Name,
		Address:       cfg.Shop.Address,
		WhatsAppPhone: cfg.Shop.WhatsAppPhone,
	}

	var payments payment.Provider
	if cfg.MercadoPago.AccessToken != "" {
		payments, err = payment.NewMercadoPagoProvider(payment.MercadoPagoConfig{
			AccessToken: cfg.MercadoPago.AccessToken,
			BackURL:     cfg.MercadoPago.BackURL,
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize Mercado Pago provider: %w", err)
		}
		logger.Info("Mercado Pago provider initialized")
	} else {
		payments = payment.NewMockProvider()
		logger.Warn("MP_ACCESS_TOKEN not set, using mock payment provider")
	}

	var notifier notify.Notifier
	if cfg.Email.Host != "" && cfg.Email.OperatorEmail != "" {
		notifier = notify.NewEmailNotifier(notify.SMTPConfig{
			Host:          cfg.Email.Host,
			Port:          int(cfg.Email.Port),
			Username:      cfg.Email.Username,
			Password:      cfg.Email.Password,
			From:          cfg.Email.From,
			FromName:      cfg.Email.FromName,
			OperatorEmail: cfg.Email.OperatorEmail,
		}, shop, logger)
		logger.Info("Email notifier initialized", "operator", cfg.Email.OperatorEmail)
	} else {
		notifier = notify.NewLogNotifier(shop, logger)
		logger.Warn("SMTP not configured, order notifications will only be logged")
	}

	// ==========================================================================
	// Sessions and handlers
	// ==========================================================================

	sessions := session.NewRegistry(notifier, payments, shop, logger)
	go func() {
		for range time.Tick(time.Hour) {
			sessions.Prune()
		}
	}()

	metrics := middleware.NewMetrics("lapicada")
	business := telemetry.NewBusinessMetrics("lapicada")

	secure := cfg.Env == "prod"
	storefrontDeps := routes.StorefrontDeps{
		ProductHandler:  storefront.NewProductHandler(provider, business, logger),
		CartHandler:     storefront.NewCartHandler(sessions, provider, business, logger, secure),
		CheckoutHandler: storefront.NewCheckoutHandler(sessions, business, logger, secure),
	}

	// ==========================================================================
	// Router
	// ==========================================================================

	r := router.New(
		middleware.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		middleware.CORS(cfg.AllowedOrigins),
		middleware.WithRequestLogger(logger),
		middleware.AccessLog(logger),
	)

	// Metrics endpoint (protect via firewall in production)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		metrics.Handler().ServeHTTP(w, req)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	routes.RegisterStorefrontRoutes(r, storefrontDeps)

	// ==========================================================================
	// Start server
	// ==========================================================================

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("Starting server", "address", addr, "env", cfg.Env)

	if err := http.ListenAndServe(addr, r); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
