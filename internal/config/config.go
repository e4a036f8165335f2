package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// StoreBackend selects the repository implementation.
type StoreBackend string

const (
	StorePostgres StoreBackend = "postgres"
	StoreMemory   StoreBackend = "memory"
)

// DatabaseConfig holds PostgreSQL database connection settings.
// URL, when set, takes precedence over the individual components.
type DatabaseConfig struct {
	URL                string
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
	ConnectAttempts    int
	ConnectIntervalSec int
}

// MinIOConfig holds object storage settings for MinIO.
// Content offload is enabled only when Endpoint is set.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether document content should be offloaded to object storage.
func (c MinIOConfig) Enabled() bool {
	return c.Endpoint != ""
}

// AuthConfig holds admin gate and session settings.
type AuthConfig struct {
	AdminSeedPassword string
	BcryptCost        int
	SessionSecret     string
	SessionTTL        time.Duration
	RequireSession    bool
	SecureCookie      bool
	RateLimitMax      int
	RateLimitWindow   time.Duration
}

// HTTPConfig holds transport-level settings.
type HTTPConfig struct {
	AllowedOrigins []string
	MaxBodyBytes   int
	RedisAddr      string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port     string
	Timezone string
	Store    StoreBackend
	Database DatabaseConfig
	MinIO    MinIOConfig
	Auth     AuthConfig
	HTTP     HTTPConfig
}

// Location resolves Timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Port:     getEnv("PORT", "5000"),
		Timezone: getEnv("APP_TIMEZONE", "UTC"),
		Store:    StoreBackend(strings.ToLower(getEnv("STORE_BACKEND", string(StorePostgres)))),
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 5),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
			ConnectAttempts:    getEnvInt("DB_CONNECT_MAX_ATTEMPTS", 3),
			ConnectIntervalSec: getEnvInt("DB_CONNECT_RETRY_INTERVAL_SEC", 5),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Auth: AuthConfig{
			AdminSeedPassword: getEnv("ADMIN_PASSWORD", ""),
			BcryptCost:        getEnvInt("BCRYPT_COST", 12),
			SessionSecret:     getEnv("SESSION_SECRET", ""),
			SessionTTL:        time.Duration(getEnvInt("SESSION_TTL_MIN", 30)) * time.Minute,
			RequireSession:    getEnvBool("REQUIRE_SESSION", false),
			SecureCookie:      getEnvBool("SESSION_COOKIE_SECURE", false),
			RateLimitMax:      getEnvInt("AUTH_RATE_LIMIT_MAX", 10),
			RateLimitWindow:   time.Duration(getEnvInt("AUTH_RATE_LIMIT_WINDOW_SEC", 60)) * time.Second,
		},
		HTTP: HTTPConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5000", "http://localhost:3000"}),
			MaxBodyBytes:   getEnvInt("MAX_BODY_BYTES", 50*1024*1024),
			RedisAddr:      getEnv("REDIS_ADDR", ""),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvList splits a comma separated value, dropping blanks.
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
