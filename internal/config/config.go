package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port             string
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBName           string
	DBSSLMode        string
	AutoMigrate      bool
	GinMode          string
	MetricsNamespace string
	RotationScan     time.Duration
	RotationParallel int
}

func Load() *Config {
	return &Config{
		Port:             getEnv("PORT", "8080"),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBUser:           getEnv("DB_USER", "ppe"),
		DBPassword:       getEnv("DB_PASSWORD", "ppe_secret"),
		DBName:           getEnv("DB_NAME", "ppe"),
		DBSSLMode:        getEnv("DB_SSLMODE", "disable"),
		AutoMigrate:      getEnv("AUTO_MIGRATE", "false") == "true",
		GinMode:          getEnv("GIN_MODE", "debug"),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "ppe"),
		RotationScan:     getDuration("ROTATION_SCAN_INTERVAL", time.Hour),
		RotationParallel: getInt("ROTATION_PARALLELISM", 4),
	}
}

func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
