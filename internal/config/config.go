// Package config loads runtime settings from environment variables with
// sensible defaults, optionally overridden by a YAML file. CLI flags are
// applied on top by the command layer.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel  string
	LogFormat string

	OllamaURL         string
	OllamaModel       string
	RequestsPerMinute int

	BatchSize int

	RetryMaxAttempts    int
	RetryInitialBackoff int // seconds
	BreakerEnabled      bool
}

func Load() Config {
	return Config{
		LogLevel:  mustEnv("LOG_LEVEL", "info"),
		LogFormat: mustEnv("LOG_FORMAT", "text"),

		OllamaURL:         mustEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:       mustEnv("OLLAMA_MODEL", "llama3.1:8b"),
		RequestsPerMinute: mustEnvInt("OLLAMA_REQUESTS_PER_MINUTE", 0),

		BatchSize: mustEnvInt("BATCH_SIZE", 1),

		RetryMaxAttempts:    mustEnvInt("RETRY_MAX_ATTEMPTS", 3),
		RetryInitialBackoff: mustEnvInt("RETRY_INITIAL_BACKOFF_SECONDS", 1),
		BreakerEnabled:      mustEnvBool("BREAKER_ENABLED", true),
	}
}

// fileConfig mirrors Config with pointer fields so only keys present in the
// YAML file override the environment defaults.
type fileConfig struct {
	LogLevel  *string `yaml:"log_level"`
	LogFormat *string `yaml:"log_format"`

	OllamaURL         *string `yaml:"ollama_url"`
	OllamaModel       *string `yaml:"ollama_model"`
	RequestsPerMinute *int    `yaml:"requests_per_minute"`

	BatchSize *int `yaml:"batch_size"`

	RetryMaxAttempts    *int  `yaml:"retry_max_attempts"`
	RetryInitialBackoff *int  `yaml:"retry_initial_backoff_seconds"`
	BreakerEnabled      *bool `yaml:"breaker_enabled"`
}

// ApplyFile merges the YAML file at path into c. A missing file is an error;
// pass only paths the user explicitly configured.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.LogLevel != nil {
		c.LogLevel = *fc.LogLevel
	}
	if fc.LogFormat != nil {
		c.LogFormat = *fc.LogFormat
	}
	if fc.OllamaURL != nil {
		c.OllamaURL = *fc.OllamaURL
	}
	if fc.OllamaModel != nil {
		c.OllamaModel = *fc.OllamaModel
	}
	if fc.RequestsPerMinute != nil {
		c.RequestsPerMinute = *fc.RequestsPerMinute
	}
	if fc.BatchSize != nil {
		c.BatchSize = *fc.BatchSize
	}
	if fc.RetryMaxAttempts != nil {
		c.RetryMaxAttempts = *fc.RetryMaxAttempts
	}
	if fc.RetryInitialBackoff != nil {
		c.RetryInitialBackoff = *fc.RetryInitialBackoff
	}
	if fc.BreakerEnabled != nil {
		c.BreakerEnabled = *fc.BreakerEnabled
	}
	return nil
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
