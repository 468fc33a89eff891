// Package config provides configuration management for the webhook consumer
// service. It handles loading configuration from environment variables with
// sensible defaults and validates the configuration to ensure the application
// starts safely.
//
// Environment Variables:
//
// Application Settings:
//   - PORT: Server port (default: 8080)
//   - LOG_LEVEL: Logging level (default: info)
//
// Webhook Settings:
//   - PRODUCER_BASE_URL: Base URL of the producer API (required)
//   - PUBLIC_BASE_URL: Externally reachable base URL of this service,
//     used to build callback URLs (required)
//   - WEBHOOK_STATIC_SECRET: Optional pre-shared signing secret used when no
//     per-endpoint secret is stored (static-secret deployments)
//   - SIGNATURE_TOLERANCE: Maximum delivery age in seconds before a timestamp
//     is rejected; 0 disables the check (default: 0)
//   - RESYNC_SCHEDULE: Cron expression for periodic secret resync
//     (e.g. "@hourly"); empty disables the job
//
// Secret Store:
//   - SECRET_STORE: Store backend - "memory" or "redis" (default: memory)
//   - REDIS_ADDRESS: Redis server address (default: localhost:6379)
//   - REDIS_PASSWORD: Redis password
//   - REDIS_DB: Redis database number 0-15 (default: 0)
//   - REDIS_POOL_SIZE: Redis connection pool size (default: 10)
//
// Security:
//   - JWT_SECRET: Signing secret for management API tokens
//     (required, minimum 32 characters)
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration values for the webhook consumer service.
// All fields correspond to environment variables that can be set to override
// the default values. Load it with Load() and check it with Validate() before use.
type Config struct {
	// Application settings
	Port     string // Server port number
	LogLevel string // Logging level (debug, info, warn, error)

	// Webhook settings
	ProducerBaseURL    string // Base URL of the producer API
	PublicBaseURL      string // Externally reachable base URL of this service
	StaticSecret       string // Optional pre-shared signing secret
	SignatureTolerance int    // Maximum delivery age in seconds (0 disables)
	ResyncSchedule     string // Cron expression for periodic secret resync

	// Secret store configuration
	SecretStore   string // Store backend: "memory" or "redis"
	RedisAddress  string // Redis server address (host:port)
	RedisPassword string // Redis authentication password
	RedisDB       string // Redis database number (0-15)
	RedisPoolSize string // Redis connection pool size

	// Management API authentication
	JWTSecret string // Secret key for JWT token verification
}

// Load creates a new Config instance with values loaded from environment
// variables. It does not validate the configuration - call Validate() on the
// returned Config before use.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		ProducerBaseURL:    strings.TrimRight(getEnv("PRODUCER_BASE_URL", ""), "/"),
		PublicBaseURL:      strings.TrimRight(getEnv("PUBLIC_BASE_URL", ""), "/"),
		StaticSecret:       getEnv("WEBHOOK_STATIC_SECRET", ""),
		SignatureTolerance: getIntEnv("SIGNATURE_TOLERANCE", 0),
		ResyncSchedule:     getEnv("RESYNC_SCHEDULE", ""),

		SecretStore:   getEnv("SECRET_STORE", "memory"),
		RedisAddress:  getEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnv("REDIS_DB", "0"),
		RedisPoolSize: getEnv("REDIS_POOL_SIZE", "10"),

		JWTSecret: getEnv("JWT_SECRET", ""),
	}
}

// getEnv retrieves an environment variable value or returns a default value if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves an integer environment variable value or returns a default value.
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Validate checks required fields, value formats and cross-field dependencies.
// The application should call this after Load() and before starting.
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a valid port number between 1 and 65535")
	}

	if c.ProducerBaseURL == "" {
		return fmt.Errorf("PRODUCER_BASE_URL environment variable is required")
	}
	if _, err := url.ParseRequestURI(c.ProducerBaseURL); err != nil {
		return fmt.Errorf("PRODUCER_BASE_URL must be a valid URL: %v", err)
	}

	if c.PublicBaseURL == "" {
		return fmt.Errorf("PUBLIC_BASE_URL environment variable is required")
	}
	if _, err := url.ParseRequestURI(c.PublicBaseURL); err != nil {
		return fmt.Errorf("PUBLIC_BASE_URL must be a valid URL: %v", err)
	}

	if c.SignatureTolerance < 0 {
		return fmt.Errorf("SIGNATURE_TOLERANCE must not be negative")
	}

	switch c.SecretStore {
	case "memory", "redis":
		// Valid store backends
	default:
		return fmt.Errorf("SECRET_STORE must be 'memory' or 'redis'")
	}

	if c.SecretStore == "redis" {
		if c.RedisAddress == "" {
			return fmt.Errorf("REDIS_ADDRESS is required when using the redis secret store")
		}
		if db, err := strconv.Atoi(c.RedisDB); err != nil || db < 0 || db > 15 {
			return fmt.Errorf("REDIS_DB must be a number between 0 and 15")
		}
		if poolSize, err := strconv.Atoi(c.RedisPoolSize); err != nil || poolSize < 1 {
			return fmt.Errorf("REDIS_POOL_SIZE must be a positive number")
		}
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long for security")
	}

	return nil
}
