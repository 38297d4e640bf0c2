package config

import (
	"os"
	"strconv"
)

// Config holds settings read from the environment. Command-line flags take
// precedence where both exist.
type Config struct {
	ServerPort   string
	StaticDir    string
	OutputDir    string
	CategoryFile string
	LogLevel     string
	Password     string
	TopGroups    int
}

// Load reads the configuration from the environment, falling back to
// defaults for unset or invalid values.
func Load() *Config {
	return &Config{
		ServerPort:   getEnv("PORT", "8080"),
		StaticDir:    getEnv("STATIC_DIR", ""),
		OutputDir:    getEnv("OUTPUT_DIR", ""),
		CategoryFile: getEnv("CATEGORY_FILE", ""),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Password:     getEnv("STATEMENT_PASSWORD", ""),
		TopGroups:    getEnvInt("TOP_GROUPS", 15),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the positive integer in key, or defaultValue.
func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
