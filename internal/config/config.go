// Package config provides environment configuration for the API server.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration

	// OpenAI settings
	OpenAIAPIKey   string
	ChatModel      string
	EmbeddingModel string
	Temperature    float64
	MaxTokens      int

	// Pinecone settings
	PineconeAPIKey    string
	PineconeHost      string
	PineconeNamespace string
	RetrievalK        int

	// Feedback sink
	NATSURL     string
	NATSSubject string

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		// Server. The write timeout bounds the whole streamed answer, so it
		// stays well above typical model latency.
		ServerPort:         getEnv("PORT", "8080"),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 120*time.Second),

		// OpenAI
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		ChatModel:      getEnv("CHAT_MODEL", "gpt-4.1-mini"),
		EmbeddingModel: getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		Temperature:    getFloatEnv("CHAT_TEMPERATURE", 0.2),
		MaxTokens:      getIntEnv("CHAT_MAX_TOKENS", 1024),

		// Pinecone
		PineconeAPIKey:    getEnv("PINECONE_API_KEY", ""),
		PineconeHost:      getEnv("PINECONE_HOST", ""),
		PineconeNamespace: getEnv("PINECONE_NAMESPACE", ""),
		RetrievalK:        getIntEnv("RETRIEVAL_K", 4),

		// Feedback sink (optional; log-only when unset)
		NATSURL:     getEnv("NATS_URL", ""),
		NATSSubject: getEnv("NATS_SUBJECT", "litbot.feedback"),

		// Rate limiting
		RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
