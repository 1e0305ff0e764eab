package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the runtime settings of the blog service.
// Every field is read from the environment with a local-development fallback.
type Config struct {
	ServiceName string
	Port        string

	DBDSN         string // SQLite data source
	MigrationsDir string // Optional; extra .sql migrations applied after the embedded schema

	CacheType     string // "memory" or "redis"
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	PostCacheTTL  time.Duration

	CORSOrigin  string
	BcryptCost  int
	SeedOnStart bool
}

// Load builds a Config from the environment
func Load() *Config {
	return &Config{
		ServiceName: getEnv("SERVICE_NAME", "blog-service"),
		Port:        getEnv("PORT", "8080"),

		DBDSN:         getEnv("DB_DSN", "./blog_service.db?_foreign_keys=on&_busy_timeout=5000"),
		MigrationsDir: getEnv("MIGRATIONS_DIR", ""),

		CacheType:     getEnv("CACHE_TYPE", "memory"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		PostCacheTTL:  getEnvDuration("POST_CACHE_TTL", 5*time.Minute),

		CORSOrigin:  getEnv("CORS_ORIGIN", "http://localhost:3000"),
		BcryptCost:  getEnvInt("BCRYPT_COST", 12),
		SeedOnStart: getEnvBool("SEED_ON_START", true),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
