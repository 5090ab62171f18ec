package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration loaded from the environment
type Config struct {
	DatabaseURL string
	Port        int

	JWTSecret string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool

	ExportBucket      string
	LowStockThreshold float64
}

// Load reads configuration from environment variables, applying
// development defaults where a value is optional
func Load() (*Config, error) {
	cfg := &Config{
		Port:              8080,
		RedisAddr:         "localhost:6379",
		MinioEndpoint:     "localhost:9000",
		MinioAccessKey:    "minioadmin",
		MinioSecretKey:    "minioadmin",
		ExportBucket:      "stockbook-exports",
		LowStockThreshold: 10.0,
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		cfg.RedisDB = db
	}

	if v := os.Getenv("MINIO_ENDPOINT"); v != "" {
		cfg.MinioEndpoint = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		cfg.MinioAccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		cfg.MinioSecretKey = v
	}
	cfg.MinioUseSSL = os.Getenv("MINIO_USE_SSL") == "true"

	if v := os.Getenv("EXPORT_BUCKET"); v != "" {
		cfg.ExportBucket = v
	}
	if v := os.Getenv("LOW_STOCK_THRESHOLD"); v != "" {
		threshold, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid LOW_STOCK_THRESHOLD %q: %w", v, err)
		}
		cfg.LowStockThreshold = threshold
	}

	return cfg, nil
}
