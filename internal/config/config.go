package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGCS = "gcs"
	ProviderS3  = "s3"

	// V4 signed URLs cannot outlive seven days on either provider.
	maxSignedURLTTL = 7 * 24 * time.Hour
)

type Config struct {
	Port               string
	StorageProvider    string        // "gcs" or "s3"
	ContainerName      string        // Bucket holding one prefix per collection
	GCSCredentialsJSON string        // For Vercel: raw service account JSON
	GCSCredentialsPath string        // For local development
	S3Endpoint         string        // e.g. "s3.amazonaws.com" or a MinIO host
	S3Region           string
	S3AccessKey        string
	S3SecretKey        string
	SignedURLTTL       time.Duration // Validity of every issued photo URL
	StorageTimeout     time.Duration // Bound on each list/sign/stat call
	CoverConcurrency   int           // Max concurrent lookups per covers request
	AllowedOrigins     []string
	RateLimitRPS       float64
	RateLimitBurst     int
	IsVercel           bool // Detected via VERCEL env var
}

// Load reads configuration from environment variables and .env file.
// Missing storage credentials are not an error: the API then runs
// with an empty gallery until storage is provisioned.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		StorageProvider:    strings.ToLower(getEnv("STORAGE_PROVIDER", ProviderGCS)),
		ContainerName:      getEnv("STORAGE_CONTAINER_NAME", "photos"),
		GCSCredentialsJSON: getEnv("GCS_CREDENTIALS_JSON", ""),
		GCSCredentialsPath: getEnv("GCS_CREDENTIALS_PATH", ""),
		S3Endpoint:         getEnv("S3_ENDPOINT", ""),
		S3Region:           getEnv("S3_REGION", ""),
		S3AccessKey:        getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:        getEnv("S3_SECRET_KEY", ""),
		SignedURLTTL:       getDurationEnv("SIGNED_URL_TTL", 24*time.Hour),
		StorageTimeout:     getDurationEnv("STORAGE_TIMEOUT", 5*time.Second),
		CoverConcurrency:   getIntEnv("COVER_CONCURRENCY", 8),
		AllowedOrigins:     getList("ALLOWED_ORIGINS", []string{"*"}),
		RateLimitRPS:       getFloatEnv("RATE_LIMIT_RPS", 10),
		RateLimitBurst:     getIntEnv("RATE_LIMIT_BURST", 20),
		IsVercel:           getEnv("VERCEL", "") != "",
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects malformed values. Absent credentials are allowed.
func (c *Config) Validate() error {
	if c.StorageProvider != ProviderGCS && c.StorageProvider != ProviderS3 {
		return fmt.Errorf("STORAGE_PROVIDER must be %q or %q, got %q", ProviderGCS, ProviderS3, c.StorageProvider)
	}
	if c.ContainerName == "" {
		return fmt.Errorf("STORAGE_CONTAINER_NAME is required")
	}
	if c.SignedURLTTL <= 0 {
		return fmt.Errorf("SIGNED_URL_TTL must be positive")
	}
	if c.SignedURLTTL > maxSignedURLTTL {
		return fmt.Errorf("SIGNED_URL_TTL must not exceed %v", maxSignedURLTTL)
	}
	if c.StorageTimeout <= 0 {
		return fmt.Errorf("STORAGE_TIMEOUT must be positive")
	}
	if c.CoverConcurrency <= 0 {
		return fmt.Errorf("COVER_CONCURRENCY must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// StorageConfigured reports whether a connection credential is present
// for the selected provider.
func (c *Config) StorageConfigured() bool {
	switch c.StorageProvider {
	case ProviderGCS:
		return c.GCSCredentialsJSON != "" || c.GCSCredentialsPath != ""
	case ProviderS3:
		return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
	default:
		return false
	}
}

// Retrieves an environment variable or returns a default value if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// Retrieves a duration from environment variable or returns a default value.
// It supports both time.Duration format (e.g., "10m", "12h") and integer minutes.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

// Retrieves a comma-separated list from environment variable or returns a default value.
// Entries are trimmed and empty entries dropped.
func getList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
