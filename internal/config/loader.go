package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "researchctl.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Backend.BaseURL, "RESEARCH_BASE_URL")
	setDuration(&cfg.Backend.Timeout, "RESEARCH_TIMEOUT")
	setInt(&cfg.Breaker.MaxFailures, "RESEARCH_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "RESEARCH_BREAKER_TIMEOUT")
	setInt64(&cfg.Cache.MaxSizeMB, "RESEARCH_CACHE_SIZE_MB")
	setDuration(&cfg.Cache.JobTTL, "RESEARCH_CACHE_JOB_TTL")
	setDuration(&cfg.Jobs.PollInterval, "RESEARCH_JOB_POLL_INTERVAL")
	setString(&cfg.Logging.Level, "RESEARCH_LOG_LEVEL")
	setString(&cfg.Logging.Service, "RESEARCH_LOG_SERVICE")
	setBool(&cfg.Telemetry.Enabled, "RESEARCH_OTEL_ENABLED")
	setString(&cfg.Telemetry.Endpoint, "RESEARCH_OTEL_ENDPOINT")
	setString(&cfg.Mock.Port, "RESEARCH_MOCK_PORT")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Backend.BaseURL == "" {
		return errors.New("backend.base_url is required")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	if cfg.Cache.MaxSizeMB < 1 {
		return errors.New("cache.max_size_mb must be >= 1")
	}
	if cfg.Jobs.PollInterval <= 0 {
		return errors.New("jobs.poll_interval must be > 0")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
