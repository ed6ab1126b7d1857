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
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	AuditModeAsync = "async"
	AuditModeSync  = "sync"
)

type Config struct {
	DBDriver string
	DBDSN    string

	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnectTimeout  time.Duration
	DBAcquireTimeout  time.Duration
	DBCommandTimeout  time.Duration
	DBConnectAttempts int

	ServerPort      string
	ShutdownTimeout time.Duration

	AppEnv   string
	LogLevel string

	AuditMode      string
	AuditQueueSize int

	KafkaBrokers    []string
	KafkaAuditTopic string
}

// IsProduction reports whether the service runs with production defaults
// (JSON logs, gin release mode).
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBDriver:        envOr("DB_DRIVER", DriverPostgres),
		DBDSN:           os.Getenv("DB_DSN"),
		ServerPort:      envOr("SERVER_PORT", "8080"),
		AppEnv:          envOr("APP_ENV", "development"),
		LogLevel:        envOr("LOG_LEVEL", "info"),
		AuditMode:       envOr("AUDIT_MODE", AuditModeAsync),
		KafkaAuditTopic: envOr("KAFKA_AUDIT_TOPIC", "comment-audit"),
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is not set")
	}
	if cfg.DBDriver != DriverPostgres && cfg.DBDriver != DriverSQLite {
		return nil, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, cfg.DBDriver)
	}
	if cfg.AuditMode != AuditModeAsync && cfg.AuditMode != AuditModeSync {
		return nil, fmt.Errorf("AUDIT_MODE must be %q or %q, got %q", AuditModeAsync, AuditModeSync, cfg.AuditMode)
	}

	var err error
	if cfg.DBMaxOpenConns, err = envInt("DB_MAX_OPEN_CONNS", 20); err != nil {
		return nil, err
	}
	if cfg.DBMaxIdleConns, err = envInt("DB_MAX_IDLE_CONNS", 1); err != nil {
		return nil, err
	}
	if cfg.DBConnectAttempts, err = envInt("DB_CONNECT_ATTEMPTS", 10); err != nil {
		return nil, err
	}
	if cfg.AuditQueueSize, err = envInt("AUDIT_QUEUE_SIZE", 256); err != nil {
		return nil, err
	}
	if cfg.DBConnectTimeout, err = envDuration("DB_CONNECT_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.DBAcquireTimeout, err = envDuration("DB_ACQUIRE_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.DBCommandTimeout, err = envDuration("DB_COMMAND_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = envDuration("SHUTDOWN_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}

	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, raw)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, raw)
	}
	return d, nil
}
