// Package config provides hierarchical configuration loading for the
// Research Assistant client. Precedence: defaults < YAML file < environment
// variables.
package config

import "time"

// Config holds all runtime configuration for the client.
type Config struct {
	Backend   Backend   `yaml:"backend"`
	Breaker   Breaker   `yaml:"breaker"`
	Cache     Cache     `yaml:"cache"`
	Jobs      Jobs      `yaml:"jobs"`
	Logging   Logging   `yaml:"logging"`
	Telemetry Telemetry `yaml:"telemetry"`
	Mock      Mock      `yaml:"mock"`
}

// Backend holds the remote analysis service connection settings.
type Backend struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"` // per-request transport timeout; 0 = none
}

// Breaker holds circuit breaker configuration for backend calls.
type Breaker struct {
	MaxFailures int           `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Cache holds the in-process result cache configuration.
type Cache struct {
	MaxSizeMB int64         `yaml:"max_size_mb"`
	JobTTL    time.Duration `yaml:"job_ttl"` // retention for terminal job statuses
}

// Jobs holds job polling configuration.
type Jobs struct {
	PollInterval time.Duration `yaml:"poll_interval"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
}

// Telemetry holds OpenTelemetry export configuration.
type Telemetry struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"` // OTLP gRPC endpoint, host:port
}

// Mock holds the local mock backend configuration.
type Mock struct {
	Port string `yaml:"port"`
}

// Defaults returns a Config with sensible default values for local use.
func Defaults() Config {
	return Config{
		Backend: Backend{
			BaseURL: "http://127.0.0.1:8000",
			Timeout: 0,
		},
		Breaker: Breaker{
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		},
		Cache: Cache{
			MaxSizeMB: 16,
			JobTTL:    10 * time.Minute,
		},
		Jobs: Jobs{
			PollInterval: 2 * time.Second,
		},
		Logging: Logging{
			Level:   "info",
			Service: "research-assistant",
		},
		Telemetry: Telemetry{
			Enabled:  false,
			Endpoint: "localhost:4317",
		},
		Mock: Mock{
			Port: "8000",
		},
	}
}
