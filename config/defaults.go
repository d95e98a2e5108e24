package config

import "time"

const (
	DefaultStart     = "start"
	DefaultNamespace = "comb"
	DefaultDebounce  = 200 * time.Millisecond
)

// ApplyDefaults fills in every unset field.
func ApplyDefaults(cfg *Config) {
	if cfg.Grammar.Start == "" {
		cfg.Grammar.Start = DefaultStart
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultNamespace
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultDebounce
	}
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}
