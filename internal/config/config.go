package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage backend identifiers.
const (
	StorageBackendMemory = "memory"
	StorageBackendRedis  = "redis"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Logger       LoggerConfig
	OpenAI       OpenAIConfig
	Redis        RedisConfig
	Storage      StorageConfig
	Notification NotificationConfig
	Demo         DemoConfig
}

// AppConfig controls process level behavior.
type AppConfig struct {
	Name    string
	Env     string
	Version string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// OpenAIConfig holds classifier backend settings. An empty APIKey makes
// the bootstrap fall back to the static classifier.
type OpenAIConfig struct {
	APIKey                string
	BaseURL               string
	Model                 string
	RequestTimeoutSeconds int
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// StorageConfig selects the repository backend.
type StorageConfig struct {
	Backend string
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// DemoConfig drives the sample ticket created at startup.
type DemoConfig struct {
	Enabled     bool
	CustomerID  string
	Description string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "ticket-triage"),
			Env:     getEnv("APP_ENV", "development"),
			Version: getEnv("APP_VERSION", "dev"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		OpenAI: OpenAIConfig{
			APIKey:                os.Getenv("OPENAI_API_KEY"),
			BaseURL:               getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:                 getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			RequestTimeoutSeconds: getEnvAsInt("OPENAI_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Backend: getEnv("STORAGE_BACKEND", StorageBackendMemory),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
		Demo: DemoConfig{
			Enabled:     getEnvAsBool("DEMO_TICKET_ENABLED", true),
			CustomerID:  getEnv("DEMO_CUSTOMER_ID", "cust123"),
			Description: getEnv("DEMO_DESCRIPTION", "My order is late for delivery and nobody answers my emails."),
		},
	}

	return cfg, nil
}

// RequestTimeout returns the configured classifier request timeout.
func (o OpenAIConfig) RequestTimeout() time.Duration {
	if o.RequestTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(o.RequestTimeoutSeconds) * time.Second
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

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
