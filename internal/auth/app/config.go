package app

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Issuer    string // Optional: issuer claim for tokens (default: passport-auth)
	JWTSecret string // Required: symmetric signing secret for all tokens

	Algorithm           string        // Optional: HMAC signing algorithm (HS256, HS384, HS512) (default: HS256)
	AccessTokenTTL      time.Duration // Optional: access token lifetime (default: 15m)
	RefreshTokenTTL     time.Duration // Optional: refresh token lifetime, 0 means no expiry (default: 720h)
	BcryptCost          int           // Optional: bcrypt work factor for password hashing (default: 12)
	DatabaseFile        string        // Optional: path to SQLite database file (default: ./passport.db)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// ErrMissingJWTSecret is returned when AUTH_JWT_SECRET is not set. There is
// no safe default for a signing secret.
var ErrMissingJWTSecret = errors.New("AUTH_JWT_SECRET must be set")

func LoadConfig() (Config, error) {
	// Optional .env file for local development, ignored when absent.
	_ = godotenv.Load()

	cfg := Config{
		Issuer:    getEnvOrDefault("AUTH_ISSUER", "passport-auth"),
		JWTSecret: os.Getenv("AUTH_JWT_SECRET"),

		Algorithm:       getEnvOrDefault("AUTH_JWT_ALGORITHM", "HS256"),
		AccessTokenTTL:  getEnvDurationOrDefault("AUTH_ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL: getEnvDurationOrDefault("AUTH_REFRESH_TOKEN_TTL", 30*24*time.Hour),
		BcryptCost:      getEnvIntOrDefault("AUTH_BCRYPT_COST", 12),
		DatabaseFile: getEnvOrDefault(
			"AUTH_DATABASE_FILE",
			"passport.db",
		), // Default to ./passport.db
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if cfg.JWTSecret == "" {
		return Config{}, ErrMissingJWTSecret
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
