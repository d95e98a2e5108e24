// Package config loads the settings shared by the comb commands: which
// grammar to compile, how to log, whether to collect parse metrics and how
// to watch grammar files.
package config

import "time"

// Config is the root configuration.
type Config struct {
	Grammar GrammarConfig `yaml:"grammar"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Watch   WatchConfig   `yaml:"watch"`
}

// GrammarConfig selects the grammar file and its start production.
type GrammarConfig struct {
	// Path is the EBNF grammar file.
	Path string `yaml:"path"`

	// Start is the start production.
	Start string `yaml:"start"`

	// Skip names a production matched and discarded before every terminal
	// of a syntactic production. Empty disables skipping.
	Skip string `yaml:"skip"`
}

// LoggingConfig controls commonlog.
type LoggingConfig struct {
	// Verbosity: 0 notice, 1 info, 2 debug. Negative silences logging.
	Verbosity int `yaml:"verbosity"`

	// File receives log output instead of stderr when set.
	File string `yaml:"file"`
}

// MetricsConfig controls parse metrics.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// WatchConfig controls grammar file watching.
type WatchConfig struct {
	// Debounce coalesces bursts of file events.
	Debounce time.Duration `yaml:"debounce"`
}
