package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the board client.
type Config struct {
	App    AppConfig
	API    APIConfig
	Redis  RedisConfig
	Logger LoggerConfig
}

// AppConfig identifies the embedding host.
type AppConfig struct {
	Name string
	Env  string
}

// APIConfig locates the authoritative ticket backend.
type APIConfig struct {
	BaseURL               string
	RequestTimeoutSeconds int
}

// RedisConfig holds connection values for the realtime channel.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	baseURL := strings.TrimRight(getEnv("BOARD_API_URL", "http://localhost:5001/api"), "/")

	cfg := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "board-sync"),
			Env:  getEnv("APP_ENV", "development"),
		},
		API: APIConfig{
			BaseURL:               baseURL,
			RequestTimeoutSeconds: getEnvAsInt("BOARD_API_TIMEOUT_SECONDS", 30),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

// RequestTimeout returns the configured remote call timeout duration.
func (a APIConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
