package config

import (
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvVars = []string{
	"PORT", "ENVIRONMENT", "LOG_LEVEL", "LOG_FORMAT", "API_KEY",
	"DB_USER", "DB_PASSWORD", "DB_HOST", "DB_PORT", "DB_NAME",
	"POLL_INTERVAL", "SETTLEMENT_CONCURRENCY", "SETTLEMENT_QUEUE_SIZE", "SCAN_BATCH_SIZE",
	"GATEWAY_TIMEOUT", "IP_DIVERSITY_THRESHOLD", "SESSION_WINDOW", "DEVICE_DIVERSITY_THRESHOLD",
	"DAILY_WITHDRAWAL_LIMIT", "GAME_CURRENCY_RATE",
	"METHOD_CARD_ENABLED", "METHOD_GAME_CODE_ENABLED", "METHOD_CASH_RAIL_ENABLED",
	"STALE_PROCESSING_AFTER", "KAFKA_BROKERS", "TRUSTED_PROXIES", "STORAGE_BACKEND", "DEAD_LETTER_PATH",
	"INVENTORY_SEED_PATH",
}

// clearEnvVars unsets every variable Load reads, restoring them after the test
func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range configEnvVars {
		if value, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, value) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads config with defaults when no env vars set", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("API_KEY", "test-key")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, 30*time.Second, cfg.PollInterval)
		assert.Equal(t, 4, cfg.SettlementConcurrency)
		assert.Equal(t, 15*time.Second, cfg.GatewayTimeout)
		assert.Equal(t, 3, cfg.IPDiversityThreshold)
		assert.Equal(t, 5, cfg.SessionWindow)
		assert.True(t, cfg.DailyWithdrawalLimit.Equal(decimal.NewFromInt(50)))
		assert.True(t, cfg.GameCurrencyRate.Equal(decimal.NewFromInt(110)))
		assert.True(t, cfg.CardEnabled)
		assert.True(t, cfg.GameCodeEnabled)
		assert.True(t, cfg.CashRailEnabled)
		assert.Equal(t, 10*time.Minute, cfg.StaleProcessingAfter)
		assert.Empty(t, cfg.KafkaBrokers)
	})

	t.Run("loads config from environment variables", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("PORT", "3000")
		t.Setenv("API_KEY", "custom-api-key")
		t.Setenv("POLL_INTERVAL", "5s")
		t.Setenv("SETTLEMENT_CONCURRENCY", "8")
		t.Setenv("DAILY_WITHDRAWAL_LIMIT", "120.50")
		t.Setenv("GAME_CURRENCY_RATE", "100")
		t.Setenv("METHOD_CASH_RAIL_ENABLED", "false")
		t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 3000, cfg.Port)
		assert.Equal(t, 5*time.Second, cfg.PollInterval)
		assert.Equal(t, 8, cfg.SettlementConcurrency)
		assert.Equal(t, "120.5", cfg.DailyWithdrawalLimit.String())
		assert.True(t, cfg.GameCurrencyRate.Equal(decimal.NewFromInt(100)))
		assert.False(t, cfg.CashRailEnabled)
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	})

	t.Run("fails without API key", func(t *testing.T) {
		clearEnvVars(t)

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "API_KEY")
	})

	t.Run("rejects zero concurrency", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("API_KEY", "k")
		t.Setenv("SETTLEMENT_CONCURRENCY", "0")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SETTLEMENT_CONCURRENCY")
	})

	t.Run("rejects non-positive daily limit", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("API_KEY", "k")
		t.Setenv("DAILY_WITHDRAWAL_LIMIT", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DAILY_WITHDRAWAL_LIMIT")
	})

	t.Run("rejects unknown storage backend", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("API_KEY", "k")
		t.Setenv("STORAGE_BACKEND", "sqlite")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "STORAGE_BACKEND")
	})

	t.Run("rejects memory backend in prod", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("API_KEY", "k")
		t.Setenv("ENVIRONMENT", "prod")
		t.Setenv("STORAGE_BACKEND", StorageMemory)

		_, err := Load()
		require.Error(t, err)
	})
}

func TestGetDBConnString(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d"}
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", cfg.GetDBConnString())
}
