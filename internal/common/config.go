package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Session SessionConfig
	DocAI   DocAIConfig
	LLM     LLMConfig
	Batch   BatchConfig
	History HistoryConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr string
}

// SessionConfig holds session cookie configuration
type SessionConfig struct {
	Secret   string
	TTL      time.Duration
	Secure   bool
	Username string
	Password string
}

// DocAIConfig holds document-OCR collaborator configuration
type DocAIConfig struct {
	CredentialsJSON string
	Location        string
	ProcessorID     string
	Timeout         time.Duration
	TokenTTL        time.Duration
	TokenEarly      time.Duration
}

// LLMConfig holds AI-enhancement collaborator configuration
type LLMConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

// BatchConfig holds batch scheduler configuration
type BatchConfig struct {
	Concurrency int
	ScanTimeout time.Duration
	Dedupe      bool
	AddressMode string // "sample", "ai", or "sentinel"
}

// HistoryConfig holds scan-history store configuration
type HistoryConfig struct {
	DSN string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: getEnv("HTTP_ADDR", ":8080"),
		},
		Session: SessionConfig{
			Secret:   getEnv("SESSION_SECRET", ""),
			TTL:      getEnvAsDuration("SESSION_TTL", 5*24*time.Hour),
			Secure:   getEnvAsBool("SESSION_SECURE", false),
			Username: getEnv("AUTH_USERNAME", "admin"),
			Password: getEnv("AUTH_PASSWORD", ""),
		},
		DocAI: DocAIConfig{
			CredentialsJSON: getEnv("GOOGLE_APPLICATION_CREDENTIALS_JSON", ""),
			Location:        getEnv("DOCAI_LOCATION", "us"),
			ProcessorID:     getEnv("DOCAI_PROCESSOR_ID", ""),
			Timeout:         getEnvAsDuration("DOCAI_TIMEOUT", 60*time.Second),
			TokenTTL:        getEnvAsDuration("DOCAI_TOKEN_TTL", time.Hour),
			TokenEarly:      getEnvAsDuration("DOCAI_TOKEN_EARLY_REFRESH", 5*time.Minute),
		},
		LLM: LLMConfig{
			Model:       getEnv("OPENAI_MODEL", "gpt-4o"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", ""),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.3),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
		},
		Batch: BatchConfig{
			Concurrency: getEnvAsInt("BATCH_CONCURRENCY", 5),
			ScanTimeout: getEnvAsDuration("BATCH_SCAN_TIMEOUT", 90*time.Second),
			Dedupe:      getEnvAsBool("BATCH_DEDUPE", true),
			AddressMode: getEnv("ADDRESS_MODE", "sentinel"),
		},
		History: HistoryConfig{
			DSN: getEnv("HISTORY_DB", "./passport-history.db"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.DocAI.CredentialsJSON == "" {
		return NewAppError(ErrInvalidInput, "GOOGLE_APPLICATION_CREDENTIALS_JSON is required", nil)
	}
	if c.DocAI.ProcessorID == "" {
		return NewAppError(ErrInvalidInput, "DOCAI_PROCESSOR_ID is required", nil)
	}
	if c.Batch.Concurrency < 1 {
		return NewAppError(ErrInvalidInput, "BATCH_CONCURRENCY must be >= 1", nil)
	}
	if c.Batch.ScanTimeout <= 0 {
		return NewAppError(ErrInvalidInput, "BATCH_SCAN_TIMEOUT must be positive", nil)
	}
	return nil
}
