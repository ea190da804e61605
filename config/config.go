// Package config loads the service settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Supported database drivers.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Config holds every setting the service reads at startup.
type Config struct {
	Port      string
	JWTSecret string
	TokenTTL  time.Duration

	DBDriver    string
	DatabaseDSN string

	RedisAddr       string
	ProductCacheTTL time.Duration

	PostmarkToken string
	EmailSender   string

	LogLevel  string
	LogFormat string

	StrictOrderTransitions bool

	// EnvFileLoaded is false when no .env file was found.
	EnvFileLoaded bool
}

// Load reads a .env file if one exists and then builds a Config from the
// process environment. A missing .env file is not an error.
func Load(files ...string) (Config, error) {
	cfg := Config{
		EnvFileLoaded: godotenv.Load(files...) == nil,
		Port:          getEnv("PORT", "8000"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		DBDriver:      getEnv("DB_DRIVER", DriverSQLite),
		DatabaseDSN:   getEnv("DATABASE_DSN", "ecommerce.db"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		PostmarkToken: os.Getenv("POSTMARK_API_TOKEN"),
		EmailSender:   os.Getenv("EMAIL_SENDER"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
	}

	var err error
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.ProductCacheTTL, err = getDuration("PRODUCT_CACHE_TTL", 5*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.StrictOrderTransitions, err = getBool("ORDER_STRICT_TRANSITIONS", false); err != nil {
		return Config{}, err
	}

	if cfg.DBDriver != DriverMySQL && cfg.DBDriver != DriverSQLite {
		return Config{}, fmt.Errorf("config: unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	return cfg, nil
}

// Validate checks the settings that are only needed to serve HTTP traffic.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("config: JWT_SECRET is not set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("config: parse %s: %w", key, err)
	}
	return d, nil
}

func getBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("config: parse %s: %w", key, err)
	}
	return b, nil
}
