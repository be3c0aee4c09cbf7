package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "test-token")
	t.Setenv("OWNER_ID", "42")
	t.Setenv("CHANNEL", "@directory")
}

func TestFromEnvDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "test-token", cfg.BotToken)
	assert.Equal(t, int64(42), cfg.OwnerID)
	assert.Equal(t, "@directory", cfg.Channel)
	assert.Equal(t, "file", cfg.StoreBackend)
	assert.Equal(t, 10*time.Second, cfg.ResolveTimeout)
	assert.Equal(t, time.Minute, cfg.LookupRatePer)
	assert.Equal(t, "database.json", cfg.DBFile)
	assert.Equal(t, "https://apilayer.net", cfg.NumverifyBaseURL)
	assert.Equal(t, ":8080", cfg.AdminAddr)
	assert.Equal(t, 20, cfg.LookupRateLimit)
	assert.Equal(t, "dialbook.audit", cfg.AuditTopic)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestFromEnvMissingBotToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("OWNER_ID", "42")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOT_TOKEN")
}

func TestFromEnvMissingOwner(t *testing.T) {
	t.Setenv("BOT_TOKEN", "test-token")
	t.Setenv("CHANNEL", "@directory")
	t.Setenv("OWNER_ID", "")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OWNER_ID")
}

func TestFromEnvMissingChannel(t *testing.T) {
	t.Setenv("BOT_TOKEN", "test-token")
	t.Setenv("OWNER_ID", "42")
	t.Setenv("CHANNEL", "")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHANNEL")
}

func TestFromEnvDurationOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("RESOLVE_TIMEOUT", "3s")
	t.Setenv("LOOKUP_RATE_PER", "30s")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.ResolveTimeout)
	assert.Equal(t, 30*time.Second, cfg.LookupRatePer)

	t.Setenv("RESOLVE_TIMEOUT", "not-a-duration")
	_, err = FromEnv()
	assert.Error(t, err)
}

func TestFromEnvInvalidOwner(t *testing.T) {
	t.Setenv("BOT_TOKEN", "test-token")
	t.Setenv("CHANNEL", "@directory")
	t.Setenv("OWNER_ID", "not-a-number")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestFromEnvPostgresBackendNeedsDSN(t *testing.T) {
	setRequired(t)
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("POSTGRES_DSN", "")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_DSN")

	t.Setenv("POSTGRES_DSN", "postgres://localhost/dialbook?sslmode=disable")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.StoreBackend)
}

func TestFromEnvUnknownBackend(t *testing.T) {
	setRequired(t)
	t.Setenv("STORE_BACKEND", "etcd")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestFromEnvKafkaBrokersSplit(t *testing.T) {
	setRequired(t)
	t.Setenv("KAFKA_BROKERS", "broker-1:9092,broker-2:9092")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)
}
