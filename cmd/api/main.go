package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	coreport "github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/messaging"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/persistence"
	userUseCase "github.com/amirhossein-jamali/wallet-ledger/internal/domain/usecase/user"
	walletUseCase "github.com/amirhossein-jamali/wallet-ledger/internal/domain/usecase/wallet"
	webhookUseCase "github.com/amirhossein-jamali/wallet-ledger/internal/domain/usecase/webhook"

	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/api/middleware"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/cache"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/gateway/paystack"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/logger"
	messagingAdapter "github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/messaging"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/metrics"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/repository"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/security"
	timeProvider "github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate essential configuration
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create logger
	appLogger := logger.NewZapLogger(cfg.IsProduction(), cfg.Logger.Format)
	appLogger.SetLevel(logger.ParseLevel(cfg.Logger.Level))
	defer func() { _ = appLogger.Flush() }()

	tp := timeProvider.NewRealTimeProvider()

	// Connect to the database
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), time.Minute)
	defer cancelStartup()

	dbManager := database.NewManager(database.NewConfig(cfg), appLogger, tp)
	db, err := dbManager.Connect(startupCtx)
	if err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer func() { _ = dbManager.Close() }()

	// Run migrations
	if cfg.Database.AutoMigrate {
		if err := dbManager.MigrationManager().MigrateAll(startupCtx); err != nil {
			appLogger.Error("Failed to run migrations", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}

	// Metrics
	var (
		appMetrics   coreport.Metrics = metrics.NewNoop()
		httpRecorder middleware.HTTPRecorder
		metricsPage  http.Handler
	)
	if cfg.Metrics.Enabled {
		prom := metrics.NewPrometheus()
		appMetrics, httpRecorder, metricsPage = prom, prom, prom.Handler()
		if err := dbManager.StartPoolMonitor(prom, cfg.Metrics.PoolInterval); err != nil {
			appLogger.Warn("Connection pool monitor not started", map[string]any{
				"error": err.Error(),
			})
		}
	}

	// Unit of work (transaction manager)
	uow := database.NewUnitOfWork(db, appLogger, tp)

	idempotency, closeIdempotency, err := newIdempotencyStore(startupCtx, cfg, db, tp, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize idempotency store", map[string]any{
			"backend": cfg.Idempotency.Backend,
			"error":   err.Error(),
		})
		os.Exit(1)
	}
	defer closeIdempotency()

	publisher := newPublisher(cfg, appLogger)
	defer func() { _ = publisher.Close() }()

	// Gateway
	paystackClient := paystack.NewClient(paystack.Config{
		BaseURL:     cfg.Gateway.BaseURL,
		SecretKey:   cfg.Gateway.SecretKey,
		CallbackURL: cfg.Gateway.CallbackURL,
		Currency:    cfg.Wallet.Currency,
		Timeout:     cfg.Gateway.Timeout,
	}, appLogger)

	hasher := security.NewBcryptPINHasher(cfg.Security.BcryptCost)

	// Initialize use cases
	walletConfig := walletUseCase.DefaultConfig()
	walletConfig.Currency = cfg.Wallet.Currency
	walletConfig.GatewayTimeout = cfg.Gateway.Timeout
	walletConfig.WithdrawalReason = cfg.Wallet.WithdrawalReason
	walletConfig.HistoryDefaultLimit = cfg.Wallet.HistoryDefaultLimit
	walletConfig.HistoryMaxLimit = cfg.Wallet.HistoryMaxLimit

	walletService := walletUseCase.NewService(walletUseCase.Dependencies{
		UnitOfWork:   uow,
		Gateway:      paystackClient,
		PINHasher:    hasher,
		Idempotency:  idempotency,
		Publisher:    publisher,
		Metrics:      appMetrics,
		TimeProvider: tp,
		Logger:       appLogger,
	}, walletConfig, cfg.Idempotency.TTL)

	userService := userUseCase.NewUserUseCase(uow, hasher, tp, appLogger, cfg.Wallet.Currency)

	webhookVerifier, err := webhookUseCase.NewVerifier(cfg.WebhookSecret(), cfg.Webhook.Digest)
	if err != nil {
		appLogger.Error("Invalid webhook configuration", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	gate := webhookUseCase.NewGate(walletService, webhookVerifier, appMetrics, appLogger)

	authenticator := security.NewJWTAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer, tp)

	// Initialize API handlers
	handlers := routes.Handlers{
		Wallet:  handler.NewWalletHandler(walletService, tp, appLogger),
		Webhook: handler.NewWebhookHandler(gate, cfg.Webhook.SignatureHeader, cfg.Webhook.MaxBodyBytes, appLogger),
		Auth:    handler.NewAuthHandler(userService, appLogger),
		Bank:    handler.NewBankHandler(paystackClient, cfg.Gateway.Country, tp, coreport.Duration(cfg.Gateway.Timeout), appLogger),
		Health:  handler.NewHealthHandler(dbManager, appLogger),
	}

	// Initialize Gin router
	router := gin.New()

	// Setup middlewares
	routes.SetupMiddlewares(router, appLogger, httpRecorder)
	router.Use(middleware.BodyLimit(cfg.Webhook.MaxBodyBytes))

	// Setup routes
	routes.SetupRoutes(router, handlers, routes.Options{
		Verifier:       authenticator,
		MetricsHandler: metricsPage,
		MetricsPath:    cfg.Metrics.Path,
	})

	// Create HTTP server with configurable timeout values
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr":        server.Addr,
			"env":         cfg.Environment,
			"idempotency": cfg.Idempotency.Backend,
			"kafka":       cfg.Kafka.Enabled,
			"metrics":     cfg.Metrics.Enabled,
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// In-flight requests finish before the publisher and database close
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// newIdempotencyStore returns the configured store and a function releasing it
func newIdempotencyStore(ctx context.Context, cfg *config.Config, db *gorm.DB, tp coreport.TimeProvider, appLogger coreport.Logger) (persistence.IdempotencyStore, func(), error) {
	switch strings.ToLower(cfg.Idempotency.Backend) {
	case "", "database":
		return repository.NewIdempotencyRepository(db, tp, appLogger), func() {}, nil
	case "redis":
		client := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:    []string{cfg.Redis.Addr},
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
		}
		store := cache.NewRedisIdempotencyStore(client, cfg.Redis.Prefix, tp, appLogger)
		return store, func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown idempotency backend %q", cfg.Idempotency.Backend)
	}
}

// newPublisher returns the kafka publisher when enabled
func newPublisher(cfg *config.Config, appLogger coreport.Logger) messaging.EventPublisher {
	if !cfg.Kafka.Enabled {
		return messagingAdapter.NewNoopPublisher()
	}
	return messagingAdapter.NewKafkaPublisher(messagingAdapter.KafkaConfig{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.Topic,
		WriteTimeout: cfg.Kafka.WriteTimeout,
	}, appLogger)
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	// Validate server configuration
	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}

	if cfg.Server.ReadTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.readTimeout")
	}

	if cfg.Server.WriteTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.writeTimeout")
	}

	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	// Validate database configuration
	switch strings.ToLower(cfg.Database.Driver) {
	case database.DriverPostgres:
		if cfg.Database.Host == "" {
			missingConfigs = append(missingConfigs, "database.host (or WL_DATABASE_HOST)")
		}
		if cfg.Database.Username == "" {
			missingConfigs = append(missingConfigs, "database.username (or WL_DATABASE_USERNAME)")
		}
		if cfg.Database.Database == "" {
			missingConfigs = append(missingConfigs, "database.database (or WL_DATABASE_DATABASE)")
		}
	case database.DriverSQLite:
		if cfg.IsProduction() {
			return fmt.Errorf("database.driver sqlite is not supported in production")
		}
		if cfg.Database.Database == "" {
			missingConfigs = append(missingConfigs, "database.database")
		}
	default:
		return fmt.Errorf("invalid database.driver value: %s, must be one of: %s or %s",
			cfg.Database.Driver, database.DriverPostgres, database.DriverSQLite)
	}

	if cfg.Database.QueryTimeout == 0 {
		missingConfigs = append(missingConfigs, "database.queryTimeout")
	}

	// Secrets
	if cfg.Gateway.SecretKey == "" {
		missingConfigs = append(missingConfigs, "gateway.secretKey (or WL_GATEWAY_SECRETKEY)")
	}

	if cfg.Auth.JWTSecret == "" {
		missingConfigs = append(missingConfigs, "auth.jwtSecret (or WL_AUTH_JWTSECRET)")
	}

	if cfg.Idempotency.TTL <= 0 {
		missingConfigs = append(missingConfigs, "idempotency.ttl")
	}

	// Environment should be set with a valid value
	if cfg.Environment == "" {
		missingConfigs = append(missingConfigs, "environment")
	} else if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	// Logger configuration
	if cfg.Logger.Level == "" {
		missingConfigs = append(missingConfigs, "logger.level")
	}

	// Return error with list of missing configurations
	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	// If we're in production, do additional validation for sensitive settings
	if cfg.IsProduction() {
		var warnings []string

		// Check database security settings
		sslMode := strings.ToLower(cfg.Database.SSLMode)
		if sslMode != "require" && sslMode != "verify-ca" && sslMode != "verify-full" {
			warnings = append(warnings, "database.sslMode should be set to 'require', 'verify-ca', or 'verify-full' in production")
		}

		if len(cfg.Auth.JWTSecret) < 32 {
			warnings = append(warnings, "auth.jwtSecret should be at least 32 bytes in production")
		}

		if cfg.Security.BcryptCost < 10 {
			warnings = append(warnings, "security.bcryptCost is too low for production")
		}

		// Check timeout settings
		if cfg.Server.ReadTimeout < 5*time.Second {
			warnings = append(warnings, "server.readTimeout is too low for production")
		}

		if cfg.Server.WriteTimeout < 5*time.Second {
			warnings = append(warnings, "server.writeTimeout is too low for production")
		}

		if len(warnings) > 0 {
			log.Printf("Warning: potential security issues in production configuration: %v", warnings)
		}
	}

	return nil
}
