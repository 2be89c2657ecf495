package config

import (
	"os"
	"strconv"
	"time"

	"brandintel/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig
	AI        AIConfig
	Server    ServerConfig
	Sources   SourcesConfig
	Collector CollectorConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// AIConfig holds settings for the generative-text completion service
type AIConfig struct {
	OpenAIKey   string
	OpenAIModel string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// SourcesConfig holds per-provider credentials. An empty credential means
// the corresponding adapter reports not configured.
type SourcesConfig struct {
	NewsAPIKey   string
	SerperKey    string
	RedditToken  string
	SerpAPIKey   string
	AdzunaAppID  string
	AdzunaAppKey string
}

// CollectorConfig holds fan-out settings for collection runs
type CollectorConfig struct {
	// SourceTimeout bounds one adapter's Collect call; expiry becomes an
	// error status for that source alone.
	SourceTimeout time.Duration
	// PaceInterval is the fixed delay adapters insert between sub-queries
	// against rate-limited providers.
	PaceInterval time.Duration
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL:     os.Getenv("DATABASE_URL"),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		AI: AIConfig{
			OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
			OpenAIModel: getEnvOrDefault("LLM_MODEL", "gpt-4o"),
			MaxTokens:   getEnvIntOrDefault("MAX_TOKENS", 4000),
			Temperature: getEnvFloatOrDefault("TEMPERATURE", 0.2),
			Timeout:     getEnvDurationOrDefault("LLM_TIMEOUT", 180*time.Second),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Sources: SourcesConfig{
			NewsAPIKey:   os.Getenv("NEWSAPI_KEY"),
			SerperKey:    os.Getenv("SERPER_API_KEY"),
			RedditToken:  os.Getenv("REDDIT_ACCESS_TOKEN"),
			SerpAPIKey:   os.Getenv("SERPAPI_KEY"),
			AdzunaAppID:  os.Getenv("ADZUNA_APP_ID"),
			AdzunaAppKey: os.Getenv("ADZUNA_APP_KEY"),
		},
		Collector: CollectorConfig{
			SourceTimeout: getEnvDurationOrDefault("COLLECTOR_SOURCE_TIMEOUT", 60*time.Second),
			PaceInterval:  getEnvDurationOrDefault("COLLECTOR_PACE_INTERVAL", 1200*time.Millisecond),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Database.URL == "" {
		return errors.ConfigInvalid("DATABASE_URL is required")
	}
	if config.AI.OpenAIKey == "" {
		return errors.ConfigInvalid("OPENAI_API_KEY is required")
	}
	if config.Collector.SourceTimeout <= 0 {
		return errors.ConfigInvalid("COLLECTOR_SOURCE_TIMEOUT must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
