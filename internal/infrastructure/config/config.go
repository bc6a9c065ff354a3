package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Environment string            `mapstructure:"environment"`
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Logger      LoggerConfig      `mapstructure:"logger"`
	Wallet      WalletConfig      `mapstructure:"wallet"`
	Gateway     GatewayConfig     `mapstructure:"gateway"`
	Webhook     WebhookConfig     `mapstructure:"webhook"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Security    SecurityConfig    `mapstructure:"security"`
	Idempotency IdempotencyConfig `mapstructure:"idempotency"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Kafka       KafkaConfig       `mapstructure:"kafka"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres or sqlite
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"` // file path or :memory: for sqlite
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"`
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`
	SlowQuery       time.Duration `mapstructure:"slowQuery"`
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"`
	AutoMigrate     bool          `mapstructure:"autoMigrate"`
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level string `mapstructure:"level"`
	// Format is json or console; json is used in production regardless
	Format string `mapstructure:"format"`
}

// WalletConfig contains ledger settings
type WalletConfig struct {
	Currency            string `mapstructure:"currency"`
	HistoryDefaultLimit int    `mapstructure:"historyDefaultLimit"`
	HistoryMaxLimit     int    `mapstructure:"historyMaxLimit"`
	WithdrawalReason    string `mapstructure:"withdrawalReason"`
}

// GatewayConfig contains payment gateway settings
type GatewayConfig struct {
	BaseURL     string        `mapstructure:"baseURL"`
	SecretKey   string        `mapstructure:"secretKey"`
	CallbackURL string        `mapstructure:"callbackURL"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Country     string        `mapstructure:"country"`
}

// WebhookConfig contains webhook admission settings
type WebhookConfig struct {
	Secret          string `mapstructure:"secret"` // defaults to gateway.secretKey
	Digest          string `mapstructure:"digest"` // sha512 or sha256
	SignatureHeader string `mapstructure:"signatureHeader"`
	MaxBodyBytes    int64  `mapstructure:"maxBodyBytes"`
}

// AuthConfig contains bearer token settings
type AuthConfig struct {
	JWTSecret   string `mapstructure:"jwtSecret"`
	Issuer      string `mapstructure:"issuer"`
	TokenExpiry string `mapstructure:"tokenExpiry"` // e.g. 1H, 1D, 1M, 1Y
}

// SecurityConfig contains credential hashing settings
type SecurityConfig struct {
	BcryptCost int `mapstructure:"bcryptCost"`
}

// IdempotencyConfig selects where client idempotency keys live
type IdempotencyConfig struct {
	Backend string        `mapstructure:"backend"` // database or redis
	TTL     time.Duration `mapstructure:"ttl"`
}

// RedisConfig contains redis connection settings
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// KafkaConfig contains transaction event stream settings
type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
}

// MetricsConfig contains prometheus exposition settings
type MetricsConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Path         string        `mapstructure:"path"`
	PoolInterval time.Duration `mapstructure:"poolInterval"`
}

// IsProduction reports whether the production profile is active
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// WebhookSecret returns the HMAC secret for inbound webhooks
func (c *Config) WebhookSecret() string {
	if c.Webhook.Secret != "" {
		return c.Webhook.Secret
	}
	return c.Gateway.SecretKey
}
