// Package config reads settings from the environment.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	Env          string
	StoreBackend string
	BadgerPath   string
	PostgresURL  string
	CacheBackend string
	RedisAddr    string
	IndexTTL     time.Duration
	SessionTTL   time.Duration
	MediaRoot    string
	StaticRoot   string
	PostsPerPage int
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not read .env: %v", err)
	}

	return &Config{
		Port:         getEnv("PORT", "8080"),
		Env:          getEnv("ENV", "development"),
		StoreBackend: getEnv("STORE_BACKEND", "badger"),
		BadgerPath:   getEnv("BADGER_PATH", "./data/badger"),
		PostgresURL:  getEnv("POSTGRES_URL", ""),
		CacheBackend: getEnv("CACHE_BACKEND", "memory"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		IndexTTL:     getDuration("INDEX_CACHE_TTL", 20*time.Second),
		SessionTTL:   getDuration("SESSION_TTL", 14*24*time.Hour),
		MediaRoot:    getEnv("MEDIA_ROOT", "./media"),
		StaticRoot:   getEnv("STATIC_ROOT", "./static"),
		PostsPerPage: getInt("POSTS_PER_PAGE", 10),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid %s %q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		log.Printf("Warning: invalid %s %q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
