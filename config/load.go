package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads a YAML configuration file, applies defaults and
// validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("configuration file %q: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML configuration, applies defaults and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads the file at path, or the defaults when
// path is empty, then applies COMB_* environment variables, which take
// precedence over the file.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides uses the format COMB_SECTION_FIELD. Malformed numbers,
// booleans and durations are ignored.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("COMB_GRAMMAR_PATH"); val != "" {
		cfg.Grammar.Path = val
	}
	if val := os.Getenv("COMB_GRAMMAR_START"); val != "" {
		cfg.Grammar.Start = val
	}
	if val := os.Getenv("COMB_GRAMMAR_SKIP"); val != "" {
		cfg.Grammar.Skip = val
	}

	if val := os.Getenv("COMB_LOGGING_VERBOSITY"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Logging.Verbosity = i
		}
	}
	if val := os.Getenv("COMB_LOGGING_FILE"); val != "" {
		cfg.Logging.File = val
	}

	if val := os.Getenv("COMB_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("COMB_METRICS_NAMESPACE"); val != "" {
		cfg.Metrics.Namespace = val
	}

	if val := os.Getenv("COMB_WATCH_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Watch.Debounce = d
		}
	}
}
