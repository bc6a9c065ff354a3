package routes

import (
	"net/http"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/security"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler
type Handlers struct {
	Wallet  *handler.WalletHandler
	Webhook *handler.WebhookHandler
	Auth    *handler.AuthHandler
	Bank    *handler.BankHandler
	Health  *handler.HealthHandler
}

// Options configures the cross-cutting parts of the router
type Options struct {
	Verifier       security.TokenVerifier
	MetricsHandler http.Handler // optional
	MetricsPath    string
}

// SetupRoutes configures all the routes for the API
func SetupRoutes(router *gin.Engine, handlers Handlers, options Options) {
	router.GET("/health", handlers.Health.Health)
	if options.MetricsHandler != nil {
		path := options.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, gin.WrapH(options.MetricsHandler))
	}

	// Signed by the gateway, not by a user
	router.POST("/wallet/paystack/webhook", handlers.Webhook.Paystack)

	authenticated := router.Group("/", middleware.Authenticate(options.Verifier))

	walletRoutes := authenticated.Group("/wallet")
	{
		walletRoutes.POST("/deposit", middleware.RequirePermission(entity.PermissionDeposit), handlers.Wallet.Deposit)
		walletRoutes.GET("/deposit/:reference/status", middleware.RequirePermission(entity.PermissionRead), handlers.Wallet.DepositStatus)
		walletRoutes.POST("/transfer", middleware.RequirePermission(entity.PermissionTransfer), handlers.Wallet.Transfer)
		walletRoutes.POST("/withdraw", middleware.RequirePermission(entity.PermissionTransfer), handlers.Wallet.Withdraw)
		walletRoutes.GET("/balance", middleware.RequirePermission(entity.PermissionRead), handlers.Wallet.Balance)
		walletRoutes.GET("/transactions", middleware.RequirePermission(entity.PermissionRead), handlers.Wallet.Transactions)
		walletRoutes.GET("/audit", middleware.RequirePermission(entity.PermissionRead), handlers.Wallet.Audit)
	}

	authenticated.POST("/auth/set-pin", handlers.Auth.SetPIN)

	bankRoutes := authenticated.Group("/banks", middleware.RequirePermission(entity.PermissionRead))
	{
		bankRoutes.GET("", handlers.Bank.ListBanks)
		bankRoutes.GET("/resolve", handlers.Bank.ResolveAccount)
	}
}

// SetupMiddlewares configures global middlewares for the API. recorder may be nil.
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger, recorder middleware.HTTPRecorder) {
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	if recorder != nil {
		router.Use(middleware.Metrics(recorder))
	}
	router.Use(middleware.ErrorHandler(logger))
}
