// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"tulasisilks/internal/auth"
	"tulasisilks/internal/kvstore"
)

// Upload backends.
const (
	UploadCloudinary = "cloudinary"
	UploadS3         = "s3"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Logging
	LogLevel string
	LogFile  string // empty logs to stderr only

	// Persistent store
	StoreBackend string // memory, bolt, postgres, valkey
	BoltPath     string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ValkeyDB       int

	// Image uploads
	UploadBackend      string
	CloudinaryURL      string
	CloudinaryCloud    string
	CloudinaryKey      string
	CloudinarySecret   string
	CloudinaryPreset   string
	CloudinaryFolder   string
	CloudinaryEndpoint string

	// S3-compatible object storage
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	// Auth stub
	AdminEmail        string
	AdminPassword     string
	AdminPasswordHash string
	AdminPhone        string
	OTPCode           string
	AdminTOTPSecret   string
	SessionTTL        time.Duration

	// Jobs and seeding
	SweepSchedule    string
	SnapshotSchedule string
	SeedFile         string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	defaults := auth.DefaultConfig()
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		LogLevel: envOrDefault("LOG_LEVEL", "info"),
		LogFile:  os.Getenv("LOG_FILE"),

		StoreBackend: envOrDefault("STORE_BACKEND", kvstore.BackendBolt),
		BoltPath:     envOrDefault("BOLT_PATH", "data/tulasisilks.db"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "tulasisilks"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "tulasisilks"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		UploadBackend:      envOrDefault("UPLOAD_BACKEND", UploadCloudinary),
		CloudinaryURL:      os.Getenv("CLOUDINARY_URL"),
		CloudinaryCloud:    os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryKey:      os.Getenv("CLOUDINARY_API_KEY"),
		CloudinarySecret:   os.Getenv("CLOUDINARY_API_SECRET"),
		CloudinaryPreset:   envOrDefault("CLOUDINARY_UPLOAD_PRESET", "saree_shop"),
		CloudinaryFolder:   envOrDefault("CLOUDINARY_FOLDER", "sarees"),
		CloudinaryEndpoint: os.Getenv("CLOUDINARY_UPLOAD_PREFIX"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "tulasisilks-media"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		AdminEmail:        envOrDefault("ADMIN_EMAIL", defaults.AdminEmail),
		AdminPassword:     envOrDefault("ADMIN_PASSWORD", defaults.AdminPassword),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		AdminPhone:        envOrDefault("ADMIN_PHONE", defaults.AdminPhone),
		OTPCode:           envOrDefault("OTP_CODE", defaults.UniversalCode),
		AdminTOTPSecret:   os.Getenv("ADMIN_TOTP_SECRET"),

		SweepSchedule:    envOrDefault("SWEEP_SCHEDULE", "@every 10m"),
		SnapshotSchedule: envOrDefault("SNAPSHOT_SCHEDULE", "@daily"),
		SeedFile:         os.Getenv("SEED_FILE"),
	}

	var err error
	if cfg.ValkeyDB, err = strconv.Atoi(envOrDefault("VALKEY_DB", "0")); err != nil {
		return nil, fmt.Errorf("VALKEY_DB: %w", err)
	}
	if cfg.SessionTTL, err = time.ParseDuration(envOrDefault("SESSION_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("SESSION_TTL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks backend names and, in production, required secrets.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case kvstore.BackendMemory, kvstore.BackendBolt, kvstore.BackendPostgres, kvstore.BackendValkey:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	switch c.UploadBackend {
	case UploadCloudinary, UploadS3:
	default:
		return fmt.Errorf("unknown UPLOAD_BACKEND %q", c.UploadBackend)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	if c.Env == "production" {
		if c.StoreBackend == kvstore.BackendPostgres && c.DBPassword == "changeme" {
			return fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if c.StoreBackend == kvstore.BackendMemory {
			return fmt.Errorf("STORE_BACKEND=memory loses data on restart and is not allowed in production")
		}
		if c.UploadBackend == UploadCloudinary && c.CloudinaryURL == "" && c.CloudinaryCloud == "" {
			return fmt.Errorf("CLOUDINARY_URL or CLOUDINARY_CLOUD_NAME must be set in production")
		}
		if c.UploadBackend == UploadS3 && (c.S3AccessKey == "" || c.S3SecretKey == "") {
			return fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY must be set in production")
		}
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Auth returns the auth stub settings.
func (c *Config) Auth() auth.Config {
	return auth.Config{
		AdminEmail:        c.AdminEmail,
		AdminPassword:     c.AdminPassword,
		AdminPasswordHash: c.AdminPasswordHash,
		AdminPhone:        c.AdminPhone,
		UniversalCode:     c.OTPCode,
		Codes:             map[string]string{c.AdminPhone: c.OTPCode},
		TOTPSecret:        c.AdminTOTPSecret,
	}
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
