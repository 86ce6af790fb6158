// Package config provides configuration loading and management for semrdf.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/c360studio/semrdf/transport"
	"gopkg.in/yaml.v3"
)

// Config represents the complete semrdf CLI configuration
type Config struct {
	Fetch FetchConfig `yaml:"fetch"`
	NATS  NATSConfig  `yaml:"nats"`
	Log   LogConfig   `yaml:"log"`
}

// FetchConfig configures how resource descriptions are retrieved
type FetchConfig struct {
	// Timeout bounds one retrieval including the body (default: 30s)
	Timeout time.Duration `yaml:"timeout"`
	// UserAgent is sent with every request
	UserAgent string `yaml:"user_agent"`
	// MaxIdleConns caps pooled idle connections (default: 10)
	MaxIdleConns int `yaml:"max_idle_conns"`
	// Auth holds optional repository credentials
	Auth AuthConfig `yaml:"auth"`
}

// AuthConfig holds repository credentials. Basic and bearer are exclusive.
type AuthConfig struct {
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	BearerToken string `yaml:"bearer_token"`
}

// NATSConfig configures the NATS connection used in service mode
type NATSConfig struct {
	// URL overrides the servers named by the service config when set
	URL string `yaml:"url"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Fetch: FetchConfig{
			Timeout:      30 * time.Second,
			UserAgent:    transport.DefaultUserAgent,
			MaxIdleConns: 10,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	if err := c.Transport().Validate(); err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	return nil
}

// Transport returns the HTTP client settings.
func (c *Config) Transport() transport.Config {
	return transport.Config{
		Timeout:      c.Fetch.Timeout,
		UserAgent:    c.Fetch.UserAgent,
		MaxIdleConns: c.Fetch.MaxIdleConns,
		Auth: transport.AuthConfig{
			Username:    c.Fetch.Auth.Username,
			Password:    c.Fetch.Auth.Password,
			BearerToken: c.Fetch.Auth.BearerToken,
		},
	}
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Credentials may be present
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Fetch
	if other.Fetch.Timeout != 0 {
		c.Fetch.Timeout = other.Fetch.Timeout
	}
	if other.Fetch.UserAgent != "" {
		c.Fetch.UserAgent = other.Fetch.UserAgent
	}
	if other.Fetch.MaxIdleConns != 0 {
		c.Fetch.MaxIdleConns = other.Fetch.MaxIdleConns
	}
	if other.Fetch.Auth != (AuthConfig{}) {
		c.Fetch.Auth = other.Fetch.Auth
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}

	// Log
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
}
