package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the API service
type Config struct {
	// Server
	Host        string
	Port        string
	Environment string

	// Generation collaborator
	LLMProvider       string
	LLMModel          string
	LLMBaseURL        string
	GenerationTimeout time.Duration
	CoverageEnabled   bool

	// Optional infrastructure, disabled when empty
	RedisURL     string
	CacheTTL     time.Duration
	NATSURL      string
	OTLPEndpoint string

	// Circuit breaker in front of the generation route; 0 disables it
	BreakerThreshold int
	BreakerTimeout   time.Duration
}

// Load reads configuration from environment variables, after loading a
// .env file from the working directory if one exists
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Host:              getEnv("HOST", "0.0.0.0"),
		Port:              getEnv("PORT", "8000"),
		Environment:       getEnv("GO_ENV", "development"),
		LLMProvider:       getEnv("LLM_PROVIDER", "openai"),
		LLMModel:          getEnv("LLM_MODEL", ""),
		LLMBaseURL:        getEnv("OPENAI_BASE_URL", ""),
		GenerationTimeout: getEnvDuration("GENERATION_TIMEOUT", 30*time.Second),
		CoverageEnabled:   getEnvBool("COVERAGE_ENABLED", true),
		RedisURL:          getEnv("REDIS_URL", ""),
		CacheTTL:          getEnvDuration("CACHE_TTL", 10*time.Minute),
		NATSURL:           getEnv("NATS_URL", ""),
		OTLPEndpoint:      getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		BreakerThreshold:  getEnvInt("CIRCUIT_BREAKER_THRESHOLD", 0),
		BreakerTimeout:    getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
	}
}

// Addr is the listen address
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
