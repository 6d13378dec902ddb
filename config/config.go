// ABOUTME: This file implements configuration management with environment variable support
// ABOUTME: Provides validation and defaults for all service collaborators
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig   `json:"server"`
	HTTP     HTTPConfig     `json:"http"`
	Database DatabaseConfig `json:"database"`
	Retry    RetryConfig    `json:"retry"`
	Enricher EnricherConfig `json:"enricher"`
	Line     LineConfig     `json:"line"`
	Frontend FrontendConfig `json:"frontend"`
}

type ServerConfig struct {
	Port            int           `json:"port" env:"SERVER_PORT" default:"8080"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	ReadTimeout     time.Duration `json:"read_timeout" env:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `json:"write_timeout" env:"SERVER_WRITE_TIMEOUT" default:"60s"`
}

type HTTPConfig struct {
	Timeout          time.Duration `json:"timeout" env:"HTTP_TIMEOUT" default:"30s"`
	UserAgent        string        `json:"user_agent" env:"HTTP_USER_AGENT" default:"Mozilla/5.0 (compatible; BriefCardBot/1.0)"`
	MinContentLength int           `json:"min_content_length" env:"HTTP_MIN_CONTENT_LENGTH" default:"0"`
	MaxRedirects     int           `json:"max_redirects" env:"HTTP_MAX_REDIRECTS" default:"5"`
}

type DatabaseConfig struct {
	Host     string `json:"host" env:"DB_HOST" default:"localhost"`
	Port     string `json:"port" env:"DB_PORT" default:"5432"`
	User     string `json:"user" env:"DB_USER" default:"briefcard"`
	Password string `json:"-" env:"DB_PASSWORD"`
	Name     string `json:"name" env:"DB_NAME" default:"briefcard"`
}

// RetryConfig parameterizes the pipeline's extraction retry policy. The
// default of a single attempt means no retry; operators opt in explicitly.
type RetryConfig struct {
	MaxAttempts   int           `json:"max_attempts" env:"RETRY_MAX_ATTEMPTS" default:"1"`
	BaseDelay     time.Duration `json:"base_delay" env:"RETRY_BASE_DELAY" default:"1s"`
	MaxDelay      time.Duration `json:"max_delay" env:"RETRY_MAX_DELAY" default:"30s"`
	BackoffFactor float64       `json:"backoff_factor" env:"RETRY_BACKOFF_FACTOR" default:"2.0"`
	JitterFactor  float64       `json:"jitter_factor" env:"RETRY_JITTER_FACTOR" default:"0.1"`
}

type EnricherConfig struct {
	Host    string        `json:"host" env:"ENRICHER_HOST" default:"http://enricher:11434"`
	APIPath string        `json:"api_path" env:"ENRICHER_API_PATH" default:"/api/generate"`
	Model   string        `json:"model" env:"ENRICHER_MODEL" default:"gemma3:4b"`
	Timeout time.Duration `json:"timeout" env:"ENRICHER_TIMEOUT" default:"120s"`
}

type LineConfig struct {
	ChannelSecret      string        `json:"-" env:"LINE_CHANNEL_SECRET"`
	ChannelAccessToken string        `json:"-" env:"LINE_CHANNEL_ACCESS_TOKEN"`
	APIEndpoint        string        `json:"api_endpoint" env:"LINE_API_ENDPOINT" default:"https://api.line.me"`
	Timeout            time.Duration `json:"timeout" env:"LINE_TIMEOUT" default:"10s"`
}

type FrontendConfig struct {
	Origin           string `json:"origin" env:"FRONTEND_ORIGIN" default:"https://vibe-test-brief-card.vercel.app"`
	PlaceholderImage string `json:"placeholder_image" env:"FRONTEND_PLACEHOLDER_IMAGE" default:"https://via.placeholder.com/640x360/E3F2FD/1976D2?text=📋"`
	AuthSecret       string `json:"-" env:"FRONTEND_AUTH_SECRET"`
}

func LoadConfig() (*Config, error) {
	config := &Config{}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func loadFromEnv(config *Config) error {
	var err error

	// Server config
	if config.Server.Port, err = intFromEnv("SERVER_PORT", 8080); err != nil {
		return err
	}
	if config.Server.ShutdownTimeout, err = durationFromEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second); err != nil {
		return err
	}
	if config.Server.ReadTimeout, err = durationFromEnv("SERVER_READ_TIMEOUT", 10*time.Second); err != nil {
		return err
	}
	if config.Server.WriteTimeout, err = durationFromEnv("SERVER_WRITE_TIMEOUT", 60*time.Second); err != nil {
		return err
	}

	// HTTP client config
	if config.HTTP.Timeout, err = durationFromEnv("HTTP_TIMEOUT", 30*time.Second); err != nil {
		return err
	}
	config.HTTP.UserAgent = stringFromEnv("HTTP_USER_AGENT", "Mozilla/5.0 (compatible; BriefCardBot/1.0)")
	if config.HTTP.MinContentLength, err = intFromEnv("HTTP_MIN_CONTENT_LENGTH", 0); err != nil {
		return err
	}
	if config.HTTP.MaxRedirects, err = intFromEnv("HTTP_MAX_REDIRECTS", 5); err != nil {
		return err
	}

	// Database config
	config.Database.Host = stringFromEnv("DB_HOST", "localhost")
	config.Database.Port = stringFromEnv("DB_PORT", "5432")
	config.Database.User = stringFromEnv("DB_USER", "briefcard")
	config.Database.Password = os.Getenv("DB_PASSWORD")
	config.Database.Name = stringFromEnv("DB_NAME", "briefcard")

	// Retry config
	if config.Retry.MaxAttempts, err = intFromEnv("RETRY_MAX_ATTEMPTS", 1); err != nil {
		return err
	}
	if config.Retry.BaseDelay, err = durationFromEnv("RETRY_BASE_DELAY", time.Second); err != nil {
		return err
	}
	if config.Retry.MaxDelay, err = durationFromEnv("RETRY_MAX_DELAY", 30*time.Second); err != nil {
		return err
	}
	if config.Retry.BackoffFactor, err = floatFromEnv("RETRY_BACKOFF_FACTOR", 2.0); err != nil {
		return err
	}
	if config.Retry.JitterFactor, err = floatFromEnv("RETRY_JITTER_FACTOR", 0.1); err != nil {
		return err
	}

	// Enricher config
	config.Enricher.Host = stringFromEnv("ENRICHER_HOST", "http://enricher:11434")
	config.Enricher.APIPath = stringFromEnv("ENRICHER_API_PATH", "/api/generate")
	config.Enricher.Model = stringFromEnv("ENRICHER_MODEL", "gemma3:4b")
	if config.Enricher.Timeout, err = durationFromEnv("ENRICHER_TIMEOUT", 120*time.Second); err != nil {
		return err
	}

	// LINE transport config
	config.Line.ChannelSecret = os.Getenv("LINE_CHANNEL_SECRET")
	config.Line.ChannelAccessToken = os.Getenv("LINE_CHANNEL_ACCESS_TOKEN")
	config.Line.APIEndpoint = stringFromEnv("LINE_API_ENDPOINT", "https://api.line.me")
	if config.Line.Timeout, err = durationFromEnv("LINE_TIMEOUT", 10*time.Second); err != nil {
		return err
	}

	// Frontend config
	config.Frontend.Origin = stringFromEnv("FRONTEND_ORIGIN", "https://vibe-test-brief-card.vercel.app")
	config.Frontend.PlaceholderImage = stringFromEnv("FRONTEND_PLACEHOLDER_IMAGE", "https://via.placeholder.com/640x360/E3F2FD/1976D2?text=📋")
	config.Frontend.AuthSecret = os.Getenv("FRONTEND_AUTH_SECRET")

	return nil
}

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.HTTP.Timeout <= 0 {
		return fmt.Errorf("http timeout must be positive: %s", config.HTTP.Timeout)
	}

	if config.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry max attempts must be at least 1: %d", config.Retry.MaxAttempts)
	}

	if config.Retry.BackoffFactor < 1.0 {
		return fmt.Errorf("retry backoff factor must be at least 1.0: %f", config.Retry.BackoffFactor)
	}

	if config.Enricher.Host == "" {
		return fmt.Errorf("enricher host cannot be empty")
	}

	if config.Frontend.Origin == "" {
		return fmt.Errorf("frontend origin cannot be empty")
	}

	return nil
}

func stringFromEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

func intFromEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, value)
	}

	return parsed, nil
}

func floatFromEnv(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, value)
	}

	return parsed, nil
}

func durationFromEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, value)
	}

	return parsed, nil
}
