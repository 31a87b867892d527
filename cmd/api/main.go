package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"green-kart/internal/auth"
	"green-kart/internal/config"
	"green-kart/internal/database"
	"green-kart/internal/delivery"
	"green-kart/internal/handler"
	"green-kart/internal/ingest"
	"green-kart/internal/pricing"
	"green-kart/internal/repository"
	"green-kart/internal/router"
	"green-kart/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting green-kart API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)

	// Initialize domain components
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	pricer := pricing.NewEngine(cfg.Pricing.GSTRate)
	estimator := delivery.NewEstimator(estimatorConfig(cfg.Delivery))

	// Initialize bulk ingestion with an optional S3 import source
	ingester := ingest.NewService(productRepo, logger)
	var importSource ingest.Source
	if cfg.S3.Enabled {
		importSource, err = ingest.NewS3Source(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 import source, imports by reference disabled")
			importSource = nil
		}
	} else {
		logger.Info().Msg("S3 disabled, imports by reference unavailable")
	}

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, pricer, estimator, logger)
	accountService := service.NewAccountService(userRepo, tokens, logger)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Product:  handler.NewProductHandler(productService, logger),
		Order:    handler.NewOrderHandler(orderService, logger),
		Auth:     handler.NewAuthHandler(accountService, logger),
		Admin:    handler.NewAdminHandler(ingester, importSource, logger),
		Delivery: handler.NewDeliveryHandler(estimator, logger),
	}

	// Initialize router
	mux := router.New(handlers, tokens, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// estimatorConfig maps the environment-driven delivery settings onto the
// estimator's tier table.
func estimatorConfig(cfg config.DeliveryConfig) *delivery.Config {
	base := delivery.DefaultConfig()
	base.MetroPrefixes = cfg.MetroPrefixes
	base.Metro.Fee = cfg.MetroFee
	base.Metro.MinDays = cfg.MetroMinDays
	base.Metro.MaxDays = cfg.MetroMaxDays
	base.Standard.Fee = cfg.StandardFee
	base.Standard.MinDays = cfg.StandardMin
	base.Standard.MaxDays = cfg.StandardMax
	return base
}
