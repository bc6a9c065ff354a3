// Package dbtest opens migrated databases for tests.
package dbtest

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/logger"
	timeprovider "github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/time"
	"gorm.io/gorm"
)

var counter atomic.Int64

// TestDB is a connected, migrated database
type TestDB struct {
	Manager *database.Manager
	DB      *gorm.DB
	UoW     *database.UnitOfWork
}

// NewSQLite opens a private in-memory SQLite database. A single connection
// serializes transactions, so row locking is not needed for correctness.
func NewSQLite(t testing.TB) *TestDB {
	t.Helper()

	config := &database.Config{
		Driver:        database.DriverSQLite,
		Database:      fmt.Sprintf("file:wltest_%d?mode=memory&cache=shared&_busy_timeout=5000", counter.Add(1)),
		MaxOpenConns:  1,
		MaxIdleConns:  1,
		LogLevel:      "silent",
		RetryAttempts: 1,
	}
	return open(t, config)
}

// NewPostgres connects to the database named by WL_TEST_DB_* variables, or skips
func NewPostgres(t testing.TB) *TestDB {
	t.Helper()

	host := os.Getenv("WL_TEST_DB_HOST")
	if host == "" {
		t.Skip("WL_TEST_DB_HOST not set")
	}
	port, err := strconv.Atoi(envOrDefault("WL_TEST_DB_PORT", "5432"))
	if err != nil {
		t.Fatalf("invalid WL_TEST_DB_PORT: %v", err)
	}

	config := &database.Config{
		Driver:          database.DriverPostgres,
		Host:            host,
		Port:            port,
		Username:        envOrDefault("WL_TEST_DB_USERNAME", "postgres"),
		Password:        envOrDefault("WL_TEST_DB_PASSWORD", "postgres"),
		Database:        envOrDefault("WL_TEST_DB_DATABASE", "wallet_ledger_test"),
		SSLMode:         "disable",
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		QueryTimeout:    5 * time.Second,
		LogLevel:        "silent",
		RetryAttempts:   1,
	}
	tdb := open(t, config)

	// Tables are shared across tests on a server database
	for _, table := range []string{"ledger_entries", "transactions", "wallets", "users", "idempotency_keys"} {
		if err := tdb.DB.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("failed to clean %s: %v", table, err)
		}
	}
	return tdb
}

func open(t testing.TB, config *database.Config) *TestDB {
	t.Helper()

	log := logger.NewNoopLogger()
	clock := timeprovider.NewRealTimeProvider()
	manager := database.NewManager(config, log, clock)

	db, err := manager.Connect(context.Background())
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(func() {
		if err := manager.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	if err := manager.MigrationManager().MigrateAll(context.Background()); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return &TestDB{
		Manager: manager,
		DB:      db,
		UoW:     database.NewUnitOfWorkWithRetry(db, log, clock, database.RetryConfig{MaxAttempts: 3, RetryInterval: time.Millisecond}),
	}
}

func envOrDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}
