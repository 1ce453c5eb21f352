// Package config reads the service configuration from the environment.
// A .env file in the working directory is loaded first when present.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/emrgen/shazam/internal/queue"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

const (
	DriverSqlite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	DBDriver    string // SHAZAM_DB_DRIVER (default "sqlite")
	DatabaseURL string // SHAZAM_DATABASE_URL (default "shazam.db")
	Compression string // SHAZAM_COMPRESSION (default "nop")

	RedisAddr string        // SHAZAM_REDIS_ADDR (optional, empty = no cache)
	RedisTTL  time.Duration // SHAZAM_REDIS_TTL (default 10m)

	KafkaBrokers string // SHAZAM_KAFKA_BROKERS (optional, empty = events are logged)
	KafkaTopic   string // SHAZAM_KAFKA_TOPIC (default "shazam.config.events")

	BackupCopies   int  // SHAZAM_BACKUP_COPIES (default 10)
	JSEditorGrants bool // SHAZAM_JS_EDITOR_GRANTS (default false)

	AuthToken     string // SHAZAM_AUTH_TOKEN (optional, empty = auth disabled)
	HTTPPort      string // SHAZAM_HTTP_PORT (default "4001")
	DictionaryDir string // SHAZAM_DICTIONARY_DIR (default "dictionaries")

	SweepSchedule string // SHAZAM_SWEEP_SCHEDULE (cron spec, empty = disabled)
	TrimSchedule  string // SHAZAM_TRIM_SCHEDULE (cron spec, empty = disabled)
}

// LoadConfig reads the configuration. Values that fail to parse are logged
// and replaced by their default.
func LoadConfig() *Config {
	return &Config{
		DBDriver:       envOrDefault("SHAZAM_DB_DRIVER", DriverSqlite),
		DatabaseURL:    envOrDefault("SHAZAM_DATABASE_URL", "shazam.db"),
		Compression:    envOrDefault("SHAZAM_COMPRESSION", "nop"),
		RedisAddr:      os.Getenv("SHAZAM_REDIS_ADDR"),
		RedisTTL:       envDuration("SHAZAM_REDIS_TTL", 10*time.Minute),
		KafkaBrokers:   os.Getenv("SHAZAM_KAFKA_BROKERS"),
		KafkaTopic:     envOrDefault("SHAZAM_KAFKA_TOPIC", queue.DefaultConfigEventTopic),
		BackupCopies:   envInt("SHAZAM_BACKUP_COPIES", 10),
		JSEditorGrants: envBool("SHAZAM_JS_EDITOR_GRANTS", false),
		AuthToken:      os.Getenv("SHAZAM_AUTH_TOKEN"),
		HTTPPort:       envOrDefault("SHAZAM_HTTP_PORT", "4001"),
		DictionaryDir:  envOrDefault("SHAZAM_DICTIONARY_DIR", "dictionaries"),
		SweepSchedule:  os.Getenv("SHAZAM_SWEEP_SCHEDULE"),
		TrimSchedule:   os.Getenv("SHAZAM_TRIM_SCHEDULE"),
	}
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		logrus.Warnf("%s: invalid value %q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logrus.Warnf("%s: invalid value %q, using %t", key, v, fallback)
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logrus.Warnf("%s: invalid value %q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
