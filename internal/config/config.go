package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	AppEnv string

	HTTPAddr string

	// StoreDriver is postgres or memory. Memory is for local demos only.
	StoreDriver   string
	DatabaseURL   string
	DBAutoMigrate bool

	JWTSecret string
	JWTIssuer string

	RabbitURL      string
	RabbitExchange string

	OutboxEnabled  bool
	OutboxInterval time.Duration
	OutboxBatch    int

	// Empty RedisURL disables caching.
	RedisURL         string
	CacheTTLDetails  time.Duration
	CacheTTLCalendar time.Duration

	RLEnabled bool
	RLLimit   int
	RLWindow  time.Duration

	LogLevel  string
	LogFormat string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.AppEnv = getEnv("APP_ENV", "dev")
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8082")

	cfg.StoreDriver = strings.ToLower(getEnv("STORE_DRIVER", StorePostgres))
	cfg.DatabaseURL = getEnv("DATABASE_URL", "")
	cfg.DBAutoMigrate = getBool("DB_AUTO_MIGRATE", false)

	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.JWTIssuer = getEnv("JWT_ISSUER", "")

	cfg.RabbitURL = getEnv("RABBIT_URL", "")
	cfg.RabbitExchange = getEnv("RABBIT_EXCHANGE", "travel.trips")

	cfg.OutboxEnabled = getBool("OUTBOX_ENABLED", true)
	cfg.OutboxInterval = getDuration("OUTBOX_INTERVAL", time.Second)
	cfg.OutboxBatch = getIntEnv("OUTBOX_BATCH", 50)

	cfg.RedisURL = getEnv("REDIS_URL", "")
	cfg.CacheTTLDetails = getDuration("CACHE_TTL_DETAILS", 5*time.Minute)
	cfg.CacheTTLCalendar = getDuration("CACHE_TTL_CALENDAR", 30*time.Second)

	cfg.RLEnabled = getBool("RL_ENABLED", true)
	cfg.RLLimit = getIntEnv("RL_IP_LIMIT", 100)
	cfg.RLWindow = getDuration("RL_IP_WINDOW", time.Minute)

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "console")

	cfg.HTTPReadTimeout = getDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	cfg.HTTPWriteTimeout = getDuration("HTTP_WRITE_TIMEOUT", 20*time.Second)
	cfg.HTTPIdleTimeout = getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second)

	switch cfg.StoreDriver {
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("missing DATABASE_URL")
		}
	case StoreMemory:
		if cfg.AppEnv != "dev" {
			return nil, fmt.Errorf("STORE_DRIVER=memory is only allowed when APP_ENV=dev")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q (want postgres or memory)", cfg.StoreDriver)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing JWT_SECRET")
	}
	if cfg.AppEnv != "dev" && cfg.RabbitURL == "" {
		return nil, fmt.Errorf("missing RABBIT_URL (required when APP_ENV != dev)")
	}
	if cfg.OutboxBatch <= 0 {
		return nil, fmt.Errorf("OUTBOX_BATCH must be > 0")
	}

	return cfg, nil
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getIntEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}
