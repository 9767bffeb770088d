package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds the application configuration
type Config struct {
	Port        int
	Environment string
	Version     string
	ServiceName string
	InstanceID  string

	// Logging
	LogLevel  string
	LogFormat string
	LogDir    string

	// Storage backend: "postgres" or "memory" (dev only)
	StorageBackend string

	// Database
	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration

	// HTTP surface
	APIKey         string
	TrustedProxies []string

	// Settlement loop
	PollInterval          time.Duration
	SettlementConcurrency int
	SettlementQueueSize   int
	ScanBatchSize         int
	StaleProcessingAfter  time.Duration

	// Security gate
	SessionWindow            int
	IPDiversityThreshold     int
	DeviceDiversityThreshold int
	DailyWithdrawalLimit     decimal.Decimal

	// Payout methods
	CardEnabled      bool
	GameCodeEnabled  bool
	CashRailEnabled  bool
	GameCurrencyRate decimal.Decimal

	// Cash rail gateway
	GatewayURL          string
	GatewayMerchantCode string
	GatewayAPIKey       string
	GatewayTimeout      time.Duration

	// Notifications
	EmailAPIURL     string
	EmailAPIKey     string
	EmailFrom       string
	ContactCacheTTL time.Duration

	// Secret keyring, "id:hexkey,id:hexkey"
	CodeKeys        string
	ActiveCodeKeyID string

	// Event export
	KafkaBrokers   []string
	KafkaTopic     string
	DeadLetterPath string

	// Optional inventory seed file loaded at startup
	SeedPath string
}

// Storage backends
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnvAsInt("PORT", 8080),
		Environment: getEnv("ENVIRONMENT", "dev"),
		Version:     getEnv("VERSION", "dev"),
		ServiceName: getEnv("SERVICE_NAME", "redeem-bot"),
		InstanceID:  getEnv("INSTANCE_ID", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogDir:    getEnv("LOG_DIR", "logs"),

		StorageBackend: getEnv("STORAGE_BACKEND", StoragePostgres),

		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", "redeembot"),
		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", 20),
		DBMaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
		DBMaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),

		APIKey:         getEnv("API_KEY", ""),
		TrustedProxies: getEnvAsList("TRUSTED_PROXIES"),

		PollInterval:          getEnvAsDuration("POLL_INTERVAL", 30*time.Second),
		SettlementConcurrency: getEnvAsInt("SETTLEMENT_CONCURRENCY", 4),
		SettlementQueueSize:   getEnvAsInt("SETTLEMENT_QUEUE_SIZE", 256),
		ScanBatchSize:         getEnvAsInt("SCAN_BATCH_SIZE", 500),
		StaleProcessingAfter:  getEnvAsDuration("STALE_PROCESSING_AFTER", 10*time.Minute),

		SessionWindow:            getEnvAsInt("SESSION_WINDOW", 5),
		IPDiversityThreshold:     getEnvAsInt("IP_DIVERSITY_THRESHOLD", 3),
		DeviceDiversityThreshold: getEnvAsInt("DEVICE_DIVERSITY_THRESHOLD", 2),
		DailyWithdrawalLimit:     getEnvAsDecimal("DAILY_WITHDRAWAL_LIMIT", decimal.NewFromInt(50)),

		CardEnabled:      getEnvAsBool("METHOD_CARD_ENABLED", true),
		GameCodeEnabled:  getEnvAsBool("METHOD_GAME_CODE_ENABLED", true),
		CashRailEnabled:  getEnvAsBool("METHOD_CASH_RAIL_ENABLED", true),
		GameCurrencyRate: getEnvAsDecimal("GAME_CURRENCY_RATE", decimal.NewFromInt(110)),

		GatewayURL:          getEnv("FAWRY_API_URL", "https://atfawry.com"),
		GatewayMerchantCode: getEnv("FAWRY_MERCHANT_CODE", ""),
		GatewayAPIKey:       getEnv("FAWRY_API_KEY", ""),
		GatewayTimeout:      getEnvAsDuration("GATEWAY_TIMEOUT", 15*time.Second),

		EmailAPIURL:     getEnv("RESEND_API_URL", "https://api.resend.com"),
		EmailAPIKey:     getEnv("RESEND_API_KEY", ""),
		EmailFrom:       getEnv("EMAIL_FROM", "payouts@redeembot.local"),
		ContactCacheTTL: getEnvAsDuration("CONTACT_CACHE_TTL", 10*time.Minute),

		CodeKeys:        getEnv("CODE_KEYS", ""),
		ActiveCodeKeyID: getEnv("ACTIVE_CODE_KEY_ID", ""),

		KafkaBrokers:   getEnvAsList("KAFKA_BROKERS"),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "redemptions.settled"),
		DeadLetterPath: getEnv("DEAD_LETTER_PATH", "logs/deadletter.jsonl"),

		SeedPath: getEnv("INVENTORY_SEED_PATH", ""),
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the engine cannot run with
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT value: %d", c.Port)
	}
	if c.StorageBackend != StoragePostgres && c.StorageBackend != StorageMemory {
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", StoragePostgres, StorageMemory, c.StorageBackend)
	}
	if c.StorageBackend == StorageMemory && c.Environment == "prod" {
		return fmt.Errorf("STORAGE_BACKEND=%s is not allowed in prod", StorageMemory)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive, got %s", c.PollInterval)
	}
	if c.SettlementConcurrency < 1 {
		return fmt.Errorf("SETTLEMENT_CONCURRENCY must be at least 1, got %d", c.SettlementConcurrency)
	}
	if c.SettlementQueueSize < 1 {
		return fmt.Errorf("SETTLEMENT_QUEUE_SIZE must be at least 1, got %d", c.SettlementQueueSize)
	}
	if c.ScanBatchSize < 1 {
		return fmt.Errorf("SCAN_BATCH_SIZE must be at least 1, got %d", c.ScanBatchSize)
	}
	if c.GatewayTimeout <= 0 {
		return fmt.Errorf("GATEWAY_TIMEOUT must be positive, got %s", c.GatewayTimeout)
	}
	if c.SessionWindow < 1 {
		return fmt.Errorf("SESSION_WINDOW must be at least 1, got %d", c.SessionWindow)
	}
	if c.IPDiversityThreshold < 1 || c.DeviceDiversityThreshold < 1 {
		return fmt.Errorf("diversity thresholds must be at least 1")
	}
	if !c.DailyWithdrawalLimit.IsPositive() {
		return fmt.Errorf("DAILY_WITHDRAWAL_LIMIT must be positive, got %s", c.DailyWithdrawalLimit)
	}
	if !c.GameCurrencyRate.IsPositive() {
		return fmt.Errorf("GAME_CURRENCY_RATE must be positive, got %s", c.GameCurrencyRate)
	}
	return nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an int or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration retrieves an environment variable as a duration or returns a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool retrieves an environment variable as a bool or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDecimal retrieves an environment variable as a fixed-point decimal or returns a default value
func getEnvAsDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	value, err := decimal.NewFromString(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma-separated environment variable, dropping blanks
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
