// Package common provides shared utilities for FinSight
package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for FinSight
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Clients     ClientsConfig `toml:"clients"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Gemini GeminiConfig `toml:"gemini"`
	Search SearchConfig `toml:"search"`
	Yahoo  YahooConfig  `toml:"yahoo"`
	Stooq  StooqConfig  `toml:"stooq"`
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *GeminiConfig) GetTimeout() time.Duration {
	return parseTimeout(c.Timeout, 60*time.Second)
}

// SearchConfig holds search provider configuration
type SearchConfig struct {
	BaseURL    string `toml:"base_url"`
	MaxResults int    `toml:"max_results"`
	RateLimit  int    `toml:"rate_limit"`
	Timeout    string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *SearchConfig) GetTimeout() time.Duration {
	return parseTimeout(c.Timeout, 15*time.Second)
}

// YahooConfig holds Yahoo Finance API configuration
type YahooConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *YahooConfig) GetTimeout() time.Duration {
	return parseTimeout(c.Timeout, 10*time.Second)
}

// StooqConfig holds the fallback quote endpoint configuration
type StooqConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *StooqConfig) GetTimeout() time.Duration {
	return parseTimeout(c.Timeout, 10*time.Second)
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

func parseTimeout(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// DefaultConfig returns a config with sensible defaults applied.
func DefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Clients: ClientsConfig{
			Gemini: GeminiConfig{
				Model:   "gemini-2.0-flash",
				Timeout: "60s",
			},
			Search: SearchConfig{
				BaseURL:    "https://html.duckduckgo.com/html",
				MaxResults: 5,
				RateLimit:  1,
				Timeout:    "15s",
			},
			Yahoo: YahooConfig{
				BaseURL:   "https://query1.finance.yahoo.com",
				RateLimit: 5,
				Timeout:   "10s",
			},
			Stooq: StooqConfig{
				BaseURL: "https://stooq.com",
				Timeout: "10s",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from a TOML file and applies env overrides.
// A missing file is not an error; defaults plus env overrides are used.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies FINSIGHT_* environment variable overrides.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("FINSIGHT_SERVER_HOST"); v != "" {
		config.Server.Host = v
	}
	if v := os.Getenv("FINSIGHT_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Server.Port = port
		}
	}
	if v := os.Getenv("FINSIGHT_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		config.Clients.Gemini.APIKey = v
	}
	if v := os.Getenv("FINSIGHT_GEMINI_MODEL"); v != "" {
		config.Clients.Gemini.Model = v
	}
	if v := os.Getenv("FINSIGHT_ENVIRONMENT"); v != "" {
		config.Environment = v
	}
}

// IsProduction returns true when running in the production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
