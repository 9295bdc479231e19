package app

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL           string        // Required: Daily Spanish backend base URL
	DataDir              string        // Optional: per-user data directory for the durable store (default: ./data)
	StripePublishableKey string        // Optional: enables embedded card collection; hosted checkout without it
	CallbackPort         int           // Optional: loopback port for provider return redirects (default: 8787)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
}

// DatabaseFile returns the durable store path inside the data directory.
func (c Config) DatabaseFile() string {
	return filepath.Join(c.DataDir, "client.db")
}

func LoadConfig() Config {
	// A .env next to the binary is a dev convenience; real deployments set
	// the environment directly. Missing file is not an error.
	_ = godotenv.Load()

	return Config{
		APIBaseURL:           getEnvOrDefault("DS_API_BASE_URL", "https://api.dailyspanish.example"),
		DataDir:              getEnvOrDefault("DS_DATA_DIR", "data"),
		StripePublishableKey: os.Getenv("DS_STRIPE_PUBLISHABLE_KEY"),
		CallbackPort:         getEnvIntOrDefault("DS_CALLBACK_PORT", 8787),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
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

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
