// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const minSecretLength = 32

// Config holds runtime settings for the comment board server.
type Config struct {
	Port         string
	DatabasePath string
	// Production enables secure cookies and requires SessionSecret.
	Production bool
	// SessionSecret signs session cookies. When unset outside production a
	// random value is generated and SecretGenerated is true; sessions then
	// do not survive a restart.
	SessionSecret   string
	SecretGenerated bool
	SessionTTL      time.Duration
	PurgeInterval   time.Duration
	CookieSecure    bool
	BcryptCost      int
}

// Load reads the given dotenv files (".env" when none are given) into the
// process environment without overriding variables already set, then
// builds a Config from the environment. Missing dotenv files are ignored.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the variables returned by getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:          envOrDefault(getenv, "PORT", "5000"),
		DatabasePath:  envOrDefault(getenv, "DATABASE_PATH", "board.db"),
		Production:    getenv("APP_ENV") == "production",
		SessionSecret: getenv("SESSION_SECRET"),
		SessionTTL:    24 * time.Hour,
		PurgeInterval: time.Hour,
		BcryptCost:    10,
	}

	if v := getenv("BCRYPT_COST"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
		}
		if parsed < 4 || parsed > 14 {
			return nil, fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", parsed)
		}
		cfg.BcryptCost = parsed
	}

	if v := getenv("SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
		}
		if ttl <= 0 {
			return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", ttl)
		}
		cfg.SessionTTL = ttl
	}

	if v := getenv("SESSION_PURGE_INTERVAL"); v != "" {
		interval, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_PURGE_INTERVAL: %w", err)
		}
		if interval <= 0 {
			return nil, fmt.Errorf("SESSION_PURGE_INTERVAL must be positive, got %s", interval)
		}
		cfg.PurgeInterval = interval
	}

	cfg.CookieSecure = cfg.Production
	if v := getenv("COOKIE_SECURE"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid COOKIE_SECURE: %w", err)
		}
		cfg.CookieSecure = secure
	}

	switch {
	case cfg.SessionSecret == "" && cfg.Production:
		return nil, errors.New("SESSION_SECRET must be set in production")
	case cfg.SessionSecret == "":
		secret, err := randomSecret()
		if err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
		cfg.SessionSecret = secret
		cfg.SecretGenerated = true
	case cfg.Production && len(cfg.SessionSecret) < minSecretLength:
		return nil, fmt.Errorf("SESSION_SECRET must be at least %d characters in production", minSecretLength)
	}

	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func envOrDefault(getenv func(string) string, key, defaultVal string) string {
	if val := getenv(key); val != "" {
		return val
	}
	return defaultVal
}
