// Package config builds the runtime configuration from environment variables
// so main stays lean. One Config struct is constructed at startup and passed
// by reference; nothing reads the environment afterwards.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures every runtime setting of the bot and its ops surface.
type Config struct {
	// Telegram bot credentials and access policy.
	BotToken string
	OwnerID  int64
	Channel  string

	// Record store. Backend is "file" or "postgres".
	StoreBackend string
	DBFile       string
	PostgresDSN  string

	// Identity validation service (numverify-compatible).
	NumverifyBaseURL string
	NumverifyKey     string
	ResolveTimeout   time.Duration

	// Ops/admin HTTP server.
	AdminAddr  string
	AdminToken string

	// Lookup rate limiting; a zero limit disables it.
	RedisURL        string
	LookupRateLimit int
	LookupRatePer   time.Duration

	// Audit shipping; empty brokers disable Kafka.
	KafkaBrokers []string
	AuditTopic   string
}

// FromEnv builds a Config from environment variables with development
// defaults. BotToken and OwnerID have no safe default and are validated.
func FromEnv() (*Config, error) {
	cfg := &Config{
		BotToken:         os.Getenv("BOT_TOKEN"),
		Channel:          os.Getenv("CHANNEL"),
		StoreBackend:     envOr("STORE_BACKEND", "file"),
		DBFile:           envOr("DB_FILE", "database.json"),
		PostgresDSN:      os.Getenv("POSTGRES_DSN"),
		NumverifyBaseURL: envOr("NUMVERIFY_BASE_URL", "https://apilayer.net"),
		NumverifyKey:     os.Getenv("NUMVERIFY_API_KEY"),
		ResolveTimeout:   10 * time.Second,
		AdminAddr:        envOr("ADMIN_ADDR", ":8080"),
		AdminToken:       os.Getenv("ADMIN_TOKEN"),
		RedisURL:         os.Getenv("REDIS_URL"),
		LookupRateLimit:  20,
		LookupRatePer:    time.Minute,
		AuditTopic:       envOr("AUDIT_TOPIC", "dialbook.audit"),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	// An unset channel would make every membership check fail and the
	// fail-closed gate deny everyone; surface the misconfiguration at startup.
	if cfg.Channel == "" {
		return nil, fmt.Errorf("CHANNEL is required")
	}

	owner := os.Getenv("OWNER_ID")
	if owner == "" {
		return nil, fmt.Errorf("OWNER_ID is required")
	}
	ownerID, err := strconv.ParseInt(owner, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse OWNER_ID: %w", err)
	}
	cfg.OwnerID = ownerID

	if limit := os.Getenv("LOOKUP_RATE_LIMIT"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			return nil, fmt.Errorf("parse LOOKUP_RATE_LIMIT: %w", err)
		}
		cfg.LookupRateLimit = n
	}

	if per := os.Getenv("LOOKUP_RATE_PER"); per != "" {
		d, err := time.ParseDuration(per)
		if err != nil {
			return nil, fmt.Errorf("parse LOOKUP_RATE_PER: %w", err)
		}
		cfg.LookupRatePer = d
	}

	if timeout := os.Getenv("RESOLVE_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("parse RESOLVE_TIMEOUT: %w", err)
		}
		cfg.ResolveTimeout = d
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	switch cfg.StoreBackend {
	case "file", "postgres":
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
	if cfg.StoreBackend == "postgres" && cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is required with STORE_BACKEND=postgres")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
