package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database (empty disables shot history)
	DatabaseURL    string
	MigrateOnStart bool

	// Redis (empty disables snapshots and event publishing)
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Table Settings
	MaxTables          int
	TableIdleMinutes   int
	SnapshotTTLMinutes int

	// Security
	JWTSecret            string
	TableTokenTTLMinutes int
	AdminTokenHash       string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", false),

		// Redis
		RedisURL: getEnv("REDIS_URL", ""),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Table Settings
		MaxTables:          getEnvInt("MAX_TABLES", 100),
		TableIdleMinutes:   getEnvInt("TABLE_IDLE_MINUTES", 15),
		SnapshotTTLMinutes: getEnvInt("SNAPSHOT_TTL_MINUTES", 60),

		// Security
		JWTSecret:            getEnv("JWT_SECRET", "change-me-in-production"),
		TableTokenTTLMinutes: getEnvInt("TABLE_TOKEN_TTL_MINUTES", 120),
		AdminTokenHash:       getEnv("ADMIN_TOKEN_HASH", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
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
