package config

import (
	"os"
	"strconv"
)

type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Auth (single user)
	AdminUsername string
	AdminPassword string
	JWTSecret     string

	// Postmark (outbound email)
	PostmarkAPIToken string
	AlertFromEmail   string

	// Background jobs
	DetectorIntervalSeconds int
	SenderIntervalSeconds   int
	AlertBatchSize          int
	DispatchTimeoutSeconds  int
}

func Load() *Config {
	return &Config{
		Port:                    getEnv("PORT", "8080"),
		DBHost:                  getEnv("DB_HOST", "localhost"),
		DBPort:                  getEnv("DB_PORT", "5432"),
		DBUser:                  getEnv("DB_USER", "postgres"),
		DBPassword:              getEnv("DB_PASSWORD", ""),
		DBName:                  getEnv("DB_NAME", "upwatch"),
		DBSSLMode:               getEnv("DB_SSLMODE", "disable"),
		AdminUsername:           getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:           getEnv("ADMIN_PASSWORD", ""),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		PostmarkAPIToken:        getEnv("POSTMARK_API_TOKEN", ""),
		AlertFromEmail:          getEnv("ALERT_FROM_EMAIL", "upwatch <no-reply@upwatch.local>"),
		DetectorIntervalSeconds: getEnvInt("DETECTOR_INTERVAL_SECONDS", 5),
		SenderIntervalSeconds:   getEnvInt("SENDER_INTERVAL_SECONDS", 5),
		AlertBatchSize:          getEnvInt("ALERT_BATCH_SIZE", 10),
		DispatchTimeoutSeconds:  getEnvInt("DISPATCH_TIMEOUT_SECONDS", 10),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
