package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StorageFile     = "file"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Sessions
	SessionSecret      string
	SessionIdleMinutes int

	// Storage
	StorageType  string
	StoragePath  string
	DeckStoreKey string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Study
	CardsBatchSize   int
	QuizDefaultCount int

	// Import
	MaxUploadMB      int
	ImportRatePerMin int

	// Frontend
	FrontendURL string

	LogLevel string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:               getEnvOrDefault("PORT", "8080"),
		Env:                getEnvOrDefault("ENV", "development"),
		SessionSecret:      mustGetEnv("SESSION_SECRET"),
		SessionIdleMinutes: getEnvAsIntOrDefault("SESSION_IDLE_MINUTES", 30),
		StorageType:        strings.ToLower(getEnvOrDefault("STORAGE_TYPE", StorageFile)),
		StoragePath:        getEnvOrDefault("STORAGE_PATH", "./data"),
		DeckStoreKey:       getEnvOrDefault("DECK_STORE_KEY", "decks"),
		DatabaseURL:        getEnvOrDefault("DATABASE_URL", ""),
		RedisURL:           getEnvOrDefault("REDIS_URL", ""),
		CardsBatchSize:     getEnvAsIntOrDefault("CARDS_BATCH_SIZE", 60),
		QuizDefaultCount:   getEnvAsIntOrDefault("QUIZ_DEFAULT_COUNT", 10),
		MaxUploadMB:        getEnvAsIntOrDefault("MAX_UPLOAD_MB", 50),
		ImportRatePerMin:   getEnvAsIntOrDefault("IMPORT_RATE_PER_MIN", 10),
		FrontendURL:        getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
		LogLevel:           getEnvOrDefault("LOG_LEVEL", "info"),
	}

	switch cfg.StorageType {
	case StoragePostgres:
		cfg.DatabaseURL = mustGetEnv("DATABASE_URL")
	case StorageRedis:
		cfg.RedisURL = mustGetEnv("REDIS_URL")
	case StorageFile:
	default:
		panic(fmt.Sprintf("unsupported STORAGE_TYPE %q", cfg.StorageType))
	}

	return cfg
}

// MaxUploadBytes is the multipart body limit for deck uploads.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
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
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}
