package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nikbrunner/lp/internal/ai"
	"github.com/nikbrunner/lp/internal/model"
)

// Backend names accepted in the config file.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds application configuration.
type Config struct {
	Backend             string   `json:"backend"`
	DatabaseURL         string   `json:"databaseUrl"`
	ShortDomain         string   `json:"shortDomain"`
	Model               string   `json:"model"`
	APIBaseURL          string   `json:"apiBaseUrl"`
	CreateDelayMs       int      `json:"createDelayMs"`
	RequestTimeoutSec   int      `json:"requestTimeoutSec"`
	LogLevel            string   `json:"logLevel"`
	CheckConcurrency    int      `json:"checkConcurrency"`
	CheckExcludeDomains []string `json:"checkExcludeDomains"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Backend:             BackendFile,
		ShortDomain:         model.DefaultShortDomain,
		Model:               ai.DefaultModel,
		APIBaseURL:          ai.DefaultBaseURL,
		CreateDelayMs:       800,
		RequestTimeoutSec:   int(ai.DefaultTimeout / time.Second),
		LogLevel:            "info",
		CheckConcurrency:    10,
		CheckExcludeDomains: []string{"github.com", "gitlab.com"},
	}
}

// CreateDelay returns the artificial creation delay.
func (c Config) CreateDelay() time.Duration {
	return time.Duration(c.CreateDelayMs) * time.Millisecond
}

// RequestTimeout returns the HTTP timeout for outbound calls.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// LoadConfig reads the JSON config at path on top of DefaultConfig, so
// fields missing from the file keep their defaults. A missing file is
// written with the defaults on first run.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		// A read-only config dir is not fatal; defaults still apply.
		_ = SaveConfig(path, &config)
		return &config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	config.normalize()

	return &config, nil
}

// normalize replaces values that cannot work with their defaults.
func (c *Config) normalize() {
	d := DefaultConfig()

	for _, f := range []struct {
		field *string
		def   string
	}{
		{&c.Backend, d.Backend},
		{&c.ShortDomain, d.ShortDomain},
		{&c.Model, d.Model},
		{&c.APIBaseURL, d.APIBaseURL},
		{&c.LogLevel, d.LogLevel},
	} {
		if *f.field == "" {
			*f.field = f.def
		}
	}
	if c.CreateDelayMs < 0 {
		c.CreateDelayMs = d.CreateDelayMs
	}
	if c.RequestTimeoutSec <= 0 {
		c.RequestTimeoutSec = d.RequestTimeoutSec
	}
	if c.CheckConcurrency <= 0 {
		c.CheckConcurrency = d.CheckConcurrency
	}
}

// SaveConfig writes config as indented JSON, creating its directory.
func SaveConfig(path string, config *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// DefaultConfigFilePath returns the default config path: ~/.config/lp/config.json
func DefaultConfigFilePath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}
