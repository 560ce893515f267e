// Package config provides environment-driven configuration for the server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Config holds all application configuration values.
type Config struct {
	DatabaseURL Secret
	Port        string
	ListenHost  string
	CORSOrigins []string
	LogLevel    string

	JWTAccessSecret      Secret
	JWTRefreshSecret     Secret
	AccessTokenTTLMin    int
	RefreshTokenTTLHours int

	EncryptionProvider string
	EncryptionKey      Secret
	VaultAddr          string
	VaultToken         Secret

	AuditQueueSize int
	PublicBaseURL  string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:        Secret(envOrDefault("DATABASE_URL", "")),
		Port:               envOrDefault("PORT", "3030"),
		ListenHost:         envOrDefault("LISTEN_HOST", "127.0.0.1"),
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
		JWTAccessSecret:    Secret(envOrDefault("JWT_ACCESS_SECRET", "")),
		JWTRefreshSecret:   Secret(envOrDefault("JWT_REFRESH_SECRET", "")),
		EncryptionProvider: envOrDefault("ENCRYPTION_PROVIDER", "static"),
		EncryptionKey:      Secret(envOrDefault("ENCRYPTION_KEY", "")),
		VaultAddr:          envOrDefault("VAULT_ADDR", "http://127.0.0.1:8200"),
		VaultToken:         Secret(envOrDefault("VAULT_TOKEN", "")),
		PublicBaseURL:      envOrDefault("PUBLIC_BASE_URL", "http://localhost:3030"),
	}

	var err error
	if cfg.AccessTokenTTLMin, err = envInt("ACCESS_TOKEN_TTL_MIN", 15, 1, 24*60); err != nil {
		return nil, err
	}
	if cfg.RefreshTokenTTLHours, err = envInt("REFRESH_TOKEN_TTL_HOURS", 168, 1, 90*24); err != nil {
		return nil, err
	}
	if cfg.AuditQueueSize, err = envInt("AUDIT_QUEUE_SIZE", 1000, 1, 1_000_000); err != nil {
		return nil, err
	}

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:3002")
	cfg.CORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func envInt(key string, fallback, min, max int) (int, error) {
	raw := envOrDefault(key, strconv.Itoa(fallback))

	v, err := strconv.Atoi(raw)
	if err != nil || v < min || v > max {
		return 0, fmt.Errorf("%s must be an integer between %d and %d", key, min, max)
	}

	return v, nil
}
