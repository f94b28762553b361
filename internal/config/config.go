package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port     string
	Env      string
	LogLevel string

	// Gemini AI
	GeminiAPIKey           string
	Model                  string
	MaxOutputTokens        int
	Temperature            float64
	UpstreamTimeoutSeconds int

	// Rate limiting (in-memory, per process)
	RateLimitWindowSeconds int
	RateLimitMaxPerWindow  int

	// Chat
	MaxHistoryTurns int

	// Frontend
	FrontendDir   string
	AllowedOrigin string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:     getEnvOrDefault("PORT", "8080"),
		Env:      getEnvOrDefault("ENV", "development"),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),

		GeminiAPIKey:           mustGetEnv("GEMINI_API_KEY"),
		Model:                  getEnvOrDefault("MODEL", "gemini-2.5-flash"),
		MaxOutputTokens:        getEnvAsIntOrDefault("MAX_OUTPUT_TOKENS", 1024),
		Temperature:            getEnvAsFloatOrDefault("TEMPERATURE", 0.4),
		UpstreamTimeoutSeconds: getEnvAsIntOrDefault("UPSTREAM_TIMEOUT_SECONDS", 30),

		RateLimitWindowSeconds: getEnvAsIntOrDefault("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitMaxPerWindow:  getEnvAsIntOrDefault("RATE_LIMIT_MAX_PER_WINDOW", 30),

		MaxHistoryTurns: getEnvAsIntOrDefault("MAX_HISTORY_TURNS", 20),

		FrontendDir:   getEnvOrDefault("FRONTEND_DIR", "./web"),
		AllowedOrigin: getEnvOrDefault("ALLOWED_ORIGIN", "*"),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsFloatOrDefault(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	return f
}
