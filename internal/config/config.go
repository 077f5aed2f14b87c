package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort            = "8080"
	defaultUpstreamTimeout = "10s"
	defaultNotificationTTL = "3800ms"
	defaultSnapshotTTL     = "15s"
	defaultDatabaseURL     = "opsdeck.db"
	defaultKafkaTopic      = "opsdeck.events"
	defaultRedisDB         = 0
)

type Config struct {
	AppEnv string
	Port   string

	// Remote inventory backend.
	UpstreamBaseURL string
	UpstreamTimeout time.Duration

	// Notification presenter auto-dismiss window.
	NotificationTTL time.Duration

	// Dashboard snapshot cache lifetime.
	SnapshotTTL time.Duration

	// Audit log store. Postgres DSN or a sqlite file path.
	DatabaseURL string

	// Snapshot cache backend. Empty RedisAddr falls back to in-memory.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Event publishing. Empty broker list falls back to in-memory.
	KafkaBrokers []string
	KafkaTopic   string
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.UpstreamBaseURL = strings.TrimRight(strings.TrimSpace(os.Getenv("UPSTREAM_BASE_URL")), "/")
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))

	var err error
	cfg.UpstreamTimeout, err = parseDurationEnv("UPSTREAM_TIMEOUT", defaultUpstreamTimeout)
	if err != nil {
		return nil, err
	}
	cfg.NotificationTTL, err = parseDurationEnv("NOTIFICATION_TTL", defaultNotificationTTL)
	if err != nil {
		return nil, err
	}
	cfg.SnapshotTTL, err = parseDurationEnv("SNAPSHOT_TTL", defaultSnapshotTTL)
	if err != nil {
		return nil, err
	}

	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisDB = parseIntEnv("REDIS_DB", defaultRedisDB)

	if brokers := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	cfg.KafkaTopic = strings.TrimSpace(getEnv("KAFKA_TOPIC", defaultKafkaTopic))

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.UpstreamBaseURL == "" {
		return fmt.Errorf("UPSTREAM_BASE_URL must be set")
	}
	if cfg.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be > 0")
	}
	if cfg.NotificationTTL <= 0 {
		return fmt.Errorf("NOTIFICATION_TTL must be > 0")
	}
	if cfg.SnapshotTTL <= 0 {
		return fmt.Errorf("SNAPSHOT_TTL must be > 0")
	}
	if isProdLike(cfg.AppEnv) && cfg.DatabaseURL == defaultDatabaseURL {
		return fmt.Errorf("in prod/release DATABASE_URL must be set explicitly")
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
