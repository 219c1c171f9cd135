package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"recruitbot/internal/platform/sqldb"
)

// Config is everything the bot reads from the environment at startup.
type Config struct {
	BotToken     string
	AdminKey     string
	AdminKeyHash string
	BotDebug     bool

	Database DatabaseConfig
	Redis    RedisConfig
	Tracing  TracingConfig

	OpsAddr   string
	ReportDir string

	LogFormat string
	LogLevel  string
}

// DatabaseConfig selects the record store backend.
type DatabaseConfig struct {
	Dialect sqldb.Dialect
	DSN     string
}

// TracingConfig controls span export. Spans are always created so request ids
// follow trace ids; Endpoint enables OTLP/HTTP export.
type TracingConfig struct {
	ServiceName string
	Endpoint    string
	Insecure    bool
	SampleRatio float64
}

// RedisConfig enables shared admission state when URL is set.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ErrMissingToken is returned by Validate when the bot cannot authenticate.
var ErrMissingToken = errors.New("BOT_TOKEN is not set")

// Load reads an optional .env file and then the environment.
// Variables already set in the environment win over the file.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	cfg := Config{
		BotToken:     os.Getenv("BOT_TOKEN"),
		AdminKey:     os.Getenv("ADMIN_KEY"),
		AdminKeyHash: os.Getenv("ADMIN_KEY_HASH"),
		BotDebug:     os.Getenv("BOT_DEBUG") == "true",
		OpsAddr:      getEnv("OPS_ADDR", ":9090"),
		ReportDir:    getEnv("REPORT_DIR", "."),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			DSN: getEnv("DATABASE_DSN", "users.db"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
	}

	cfg.Tracing = TracingConfig{
		ServiceName: getEnv("OTEL_SERVICE_NAME", "recruitbot"),
		Endpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Insecure:    os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true",
		SampleRatio: getEnvRatio("OTEL_SAMPLER_RATIO", 0.1),
	}

	dialect, err := sqldb.ParseDialect(getEnv("DATABASE_DRIVER", string(sqldb.DialectSQLite)))
	if err != nil {
		return Config{}, err
	}
	cfg.Database.Dialect = dialect
	return cfg, nil
}

// Validate checks what the bot needs to start. Offline commands skip it.
func (c Config) Validate() error {
	if c.BotToken == "" {
		return ErrMissingToken
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// getEnvRatio reads a sampling ratio clamped to [0, 1].
func getEnvRatio(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return min(max(v, 0), 1)
}
