// Package config loads the oscd server configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration of the oscd server.
type Config struct {
	// Listening endpoint
	Host string // OSCD_HOST, default 127.0.0.1
	Port int    // OSCD_PORT, default 8000

	// ReadTimeout bounds a single blocking receive. Zero means no timeout.
	ReadTimeout time.Duration // OSCD_READ_TIMEOUT

	// Name is reported by the /info method.
	Name string // OSCD_NAME, default oscd
}

// Load reads the configuration from the environment. A .env file in the
// working directory is honored if present.
func Load() (*Config, error) {
	// Missing .env is fine, real environments set variables directly.
	_ = godotenv.Load()

	cfg := &Config{
		Host: getEnv("OSCD_HOST", "127.0.0.1"),
		Name: getEnv("OSCD_NAME", "oscd"),
	}

	var err error
	if cfg.Port, err = getEnvInt("OSCD_PORT", 8000); err != nil {
		return nil, err
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("config: OSCD_PORT out of range: %d", cfg.Port)
	}
	if cfg.ReadTimeout, err = getEnvDuration("OSCD_READ_TIMEOUT", 0); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Addr returns the host:port endpoint to bind.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
