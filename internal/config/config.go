package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything read from the environment. It is loaded once in
// main and stays immutable afterwards; nothing else in the codebase reads
// os.Getenv.
type Config struct {
	Port string
	Env  string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ClickhouseURL      string
	ClickhouseDatabase string
	ClickhouseUsername string
	ClickhousePassword string

	JWTSecret string

	AllowedOrigins []string
}

// Load reads an optional .env file and builds the Config. Only the JWT
// secret and database URL are hard requirements.
func Load() (*Config, error) {
	// Missing .env is fine in production; the platform injects env vars.
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", ":8080"),
		Env:                getEnv("ENV", "development"),
		DatabaseURL:        os.Getenv("DB_URL"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            0,
		ClickhouseURL:      os.Getenv("CLICKHOUSE_URL"),
		ClickhouseDatabase: getEnv("CLICKHOUSE_DATABASE", "default"),
		ClickhouseUsername: getEnv("CLICKHOUSE_USERNAME", "default"),
		ClickhousePassword: os.Getenv("CLICKHOUSE_PASSWORD"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
	}

	for _, origin := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DB_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	if !strings.HasPrefix(cfg.Port, ":") {
		cfg.Port = ":" + cfg.Port
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
