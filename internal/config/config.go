// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
// The signing secret and hashing parameters are loaded once at startup and
// treated as read-only; no runtime mutation path exists.
type Config struct {
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// JWTSecret is the HMAC signing secret (min 32 bytes) or a path to a file holding it.
	JWTSecret string `mapstructure:"JWT_SECRET"`
	// JWTIssuer is the iss claim (e.g. "sdms-auth").
	JWTIssuer string `mapstructure:"JWT_ISSUER"`
	// JWTAudience is the aud claim (e.g. "sdms-api").
	JWTAudience string `mapstructure:"JWT_AUDIENCE"`
	// JWTExpiryMinutes is the session token lifetime in minutes.
	JWTExpiryMinutes int `mapstructure:"JWT_EXPIRY_MINUTES"`
	// ResetTokenTTLHours is the password-reset token lifetime in hours.
	ResetTokenTTLHours int `mapstructure:"RESET_TOKEN_TTL_HOURS"`
	// HashIterations is the PBKDF2 iteration count; 0 uses the package default.
	HashIterations int `mapstructure:"HASH_ITERATIONS"`
	// GoogleClientID enables Google external login when set.
	GoogleClientID string `mapstructure:"GOOGLE_CLIENT_ID"`
	// AppleClientID enables Apple external login when set.
	AppleClientID string `mapstructure:"APPLE_CLIENT_ID"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the
// environment via Viper. Missing .env is ignored (e.g. in CI). Env vars
// override .env. Returns an error if required fields are invalid; a missing
// or malformed auth configuration is fatal here, not a per-request failure.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "sdms-auth")
	v.SetDefault("JWT_AUDIENCE", "sdms-api")
	v.SetDefault("JWT_EXPIRY_MINUTES", 60)
	v.SetDefault("RESET_TOKEN_TTL_HOURS", 24)
	v.SetDefault("HASH_ITERATIONS", 0)
	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("APPLE_CLIENT_ID", "")
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.JWTIssuer == "" || cfg.JWTAudience == "" {
		return nil, errors.New("config: JWT_ISSUER and JWT_AUDIENCE must be set")
	}
	if cfg.JWTExpiryMinutes <= 0 {
		return nil, errors.New("config: JWT_EXPIRY_MINUTES must be positive")
	}
	if cfg.ResetTokenTTLHours <= 0 {
		return nil, errors.New("config: RESET_TOKEN_TTL_HOURS must be positive")
	}
	if cfg.HashIterations < 0 {
		return nil, errors.New("config: HASH_ITERATIONS must not be negative")
	}

	return &cfg, nil
}

// TokenTTL returns the session token lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpiryMinutes) * time.Minute
}

// ResetTTL returns the password-reset token lifetime.
func (c *Config) ResetTTL() time.Duration {
	return time.Duration(c.ResetTokenTTLHours) * time.Hour
}
