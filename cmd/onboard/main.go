// Command onboard creates (or finds) a user with an empty wallet and prints a
// bearer token for it. Sign-in is handled outside the ledger; this is the
// operator path for provisioning accounts.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
	userUseCase "github.com/amirhossein-jamali/wallet-ledger/internal/domain/usecase/user"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/security"
	timeProvider "github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/config"
)

type output struct {
	UserID       string    `json:"user_id"`
	WalletNumber string    `json:"wallet_number"`
	Created      bool      `json:"created"`
	Token        string    `json:"token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func main() {
	email := flag.String("email", "", "Email of the user to onboard")
	name := flag.String("name", "", "Full name of the user")
	expiryFlag := flag.String("expiry", "", "Token lifetime such as 1H, 1D, 1M or 1Y (default auth.tokenExpiry)")
	permsFlag := flag.String("perms", "", "Comma-separated permissions: deposit,transfer,read (default all)")
	flag.Parse()

	if strings.TrimSpace(*email) == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatalf("auth.jwtSecret is required")
	}

	if *expiryFlag == "" {
		*expiryFlag = cfg.Auth.TokenExpiry
	}
	expiry, err := entity.ParseExpiry(*expiryFlag)
	if err != nil {
		log.Fatalf("Invalid expiry: %v", err)
	}

	var permissions []entity.Permission
	if *permsFlag != "" {
		for _, raw := range strings.Split(*permsFlag, ",") {
			p, err := entity.ParsePermission(strings.TrimSpace(raw))
			if err != nil {
				log.Fatalf("Invalid permission: %v", err)
			}
			permissions = append(permissions, p)
		}
	}

	appLogger := logger.NewZapLogger(cfg.IsProduction(), "console")
	appLogger.SetLevel(logger.ParseLevel("warn"))
	defer func() { _ = appLogger.Flush() }()
	tp := timeProvider.NewRealTimeProvider()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	dbManager := database.NewManager(database.NewConfig(cfg), appLogger, tp)
	db, err := dbManager.Connect(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = dbManager.Close() }()

	if err := dbManager.MigrationManager().MigrateAll(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	uow := database.NewUnitOfWork(db, appLogger, tp)
	users := userUseCase.NewUserUseCase(uow, security.NewBcryptPINHasher(cfg.Security.BcryptCost), tp, appLogger, cfg.Wallet.Currency)

	result, err := users.Onboard(ctx, *email, *name)
	if err != nil {
		log.Fatalf("Failed to onboard %s: %v", *email, err)
	}

	token, err := security.NewJWTAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer, tp).
		Issue(entity.NewPrincipal(result.User.ID, permissions), expiry)
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(output{
		UserID:       result.User.ID,
		WalletNumber: result.Wallet.WalletNumber,
		Created:      result.Created,
		Token:        token,
		ExpiresAt:    expiry.ExpiresAt(tp.Now()),
	}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
