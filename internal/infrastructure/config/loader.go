package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// EnvPrefix is the prefix of every environment override, e.g. WL_GATEWAY_SECRETKEY
const EnvPrefix = "WL"

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	".env.local",
	"./configs/.env",
	"../.env",
	"../../.env",
}

// Load reads configuration for the current environment
func Load() (*Config, error) {
	return LoadFrom(viper.New(), getEnvironment())
}

// LoadFrom reads configuration into v for env. Missing yaml files are not an error.
func LoadFrom(v *viper.Viper, env string) (*Config, error) {
	loadDotEnvFiles(env)

	v.SetConfigName(env)
	v.SetConfigType("yaml")
	for _, path := range ConfigPaths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Set environment variables to override config
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.Environment = env

	return &config, nil
}

// loadDotEnvFiles loads every .env file found. Already exported variables win.
func loadDotEnvFiles(env string) {
	paths := append([]string{".env." + env}, DotEnvPaths...)
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
		}
	}
}

// setDefaults sets default values for every key so env overrides resolve through AutomaticEnv
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15*time.Second)
	v.SetDefault("server.writeTimeout", 30*time.Second)
	v.SetDefault("server.idleTimeout", 60*time.Second)
	v.SetDefault("server.readHeaderTimeout", 10*time.Second)
	v.SetDefault("server.shutdownTimeout", 10*time.Second)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.username", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "wallet_ledger")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 50)
	v.SetDefault("database.maxIdleConns", 25)
	v.SetDefault("database.connMaxLifetime", 30*time.Minute)
	v.SetDefault("database.connMaxIdleTime", 15*time.Minute)
	v.SetDefault("database.queryTimeout", 5*time.Second)
	v.SetDefault("database.slowQuery", 200*time.Millisecond)
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", 1*time.Second)
	v.SetDefault("database.autoMigrate", true)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")

	v.SetDefault("wallet.currency", "NGN")
	v.SetDefault("wallet.historyDefaultLimit", 20)
	v.SetDefault("wallet.historyMaxLimit", 100)
	v.SetDefault("wallet.withdrawalReason", "Wallet Withdrawal")

	v.SetDefault("gateway.baseURL", "https://api.paystack.co")
	v.SetDefault("gateway.secretKey", "")
	v.SetDefault("gateway.callbackURL", "")
	v.SetDefault("gateway.timeout", 30*time.Second)
	v.SetDefault("gateway.country", "nigeria")

	v.SetDefault("webhook.secret", "")
	v.SetDefault("webhook.digest", "sha512")
	v.SetDefault("webhook.signatureHeader", "x-paystack-signature")
	v.SetDefault("webhook.maxBodyBytes", int64(1<<20))

	v.SetDefault("auth.jwtSecret", "")
	v.SetDefault("auth.issuer", "wallet-ledger")
	v.SetDefault("auth.tokenExpiry", "1D")

	v.SetDefault("security.bcryptCost", 12)

	v.SetDefault("idempotency.backend", "database")
	v.SetDefault("idempotency.ttl", 24*time.Hour)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "wallet-ledger:idem:")

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "wallet.transactions")
	v.SetDefault("kafka.writeTimeout", 5*time.Second)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.poolInterval", 30*time.Second)
}

// getEnvironment determines the environment to use based on WL_ENV environment variable
func getEnvironment() string {
	env := os.Getenv(EnvPrefix + "_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}
