// Package config provides configuration loading and validation from environment variables.
package config

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	LogLevel          string // debug, info, warn, error
	ListenAddr        string // Server listen address (e.g., ":8080")
	DatabasePath      string // SQLite database path
	EncryptionKeyHex  string // Required: 64 hex chars (32 bytes) for password encryption at rest
	MetricsListenAddr string // Metrics listener address (e.g., "localhost:9090")
	SeedDemoData      bool   // Populate fresh profiles with demo data (dev only)
}

// Load parses configuration from environment variables. A .env file in the
// working directory is loaded first when present; real environment variables
// win over .env entries.
func Load() (*Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load() //nolint:errcheck

	logLevel := os.Getenv("LOG_LEVEL")
	listenAddr := os.Getenv("LISTEN_ADDR")
	databasePath := os.Getenv("DATABASE_PATH")
	encryptionKey := os.Getenv("TAC_ENCRYPTION_KEY")
	metricsListenAddr := os.Getenv("METRICS_LISTEN_ADDR")

	if logLevel == "" {
		logLevel = "info"
	}

	if listenAddr == "" {
		listenAddr = ":8080"
	}

	if databasePath == "" {
		databasePath = "/data/tac.db"
	}

	if metricsListenAddr == "" {
		metricsListenAddr = "localhost:9090"
	}

	cfg := &Config{
		LogLevel:          logLevel,
		ListenAddr:        listenAddr,
		DatabasePath:      databasePath,
		EncryptionKeyHex:  encryptionKey,
		MetricsListenAddr: metricsListenAddr,
		SeedDemoData:      os.Getenv("TAC_SEED_DEMO_DATA") == "true",
	}

	return cfg, nil
}

// Validate checks all configuration constraints.
func (c *Config) Validate() error {
	if c.EncryptionKeyHex == "" {
		return fmt.Errorf("TAC_ENCRYPTION_KEY environment variable is required")
	}
	key, err := hex.DecodeString(c.EncryptionKeyHex)
	if err != nil {
		return fmt.Errorf("TAC_ENCRYPTION_KEY must be hex encoded: %w", err)
	}
	if len(key) != 32 {
		return fmt.Errorf("TAC_ENCRYPTION_KEY must decode to 32 bytes, got %d", len(key))
	}
	return nil
}

// EncryptionKey returns the decoded 32-byte key. Call Validate first.
func (c *Config) EncryptionKey() []byte {
	key, _ := hex.DecodeString(c.EncryptionKeyHex) //nolint:errcheck
	return key
}
