package config

import (
	"fmt"
	"regexp"
	"strings"
)

// FieldError is a validation error for one configuration field.
type FieldError struct {
	// Field is the dotted path, e.g. "grammar.start".
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every FieldError found.
type ValidationError struct {
	Errors []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

var (
	productionName = regexp.MustCompile(`^[\pL_][\pL\pN_]*$`)
	metricName     = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
)

// Validate checks cfg and returns a ValidationError listing every problem.
func Validate(cfg *Config) error {
	var errs []FieldError

	if !productionName.MatchString(cfg.Grammar.Start) {
		errs = append(errs, FieldError{"grammar.start", fmt.Sprintf("%q is not a production name", cfg.Grammar.Start)})
	}
	if cfg.Grammar.Skip != "" && !productionName.MatchString(cfg.Grammar.Skip) {
		errs = append(errs, FieldError{"grammar.skip", fmt.Sprintf("%q is not a production name", cfg.Grammar.Skip)})
	}
	if cfg.Logging.Verbosity > 2 {
		errs = append(errs, FieldError{"logging.verbosity", fmt.Sprintf("must be at most 2, got %d", cfg.Logging.Verbosity)})
	}
	if cfg.Metrics.Enabled && !metricName.MatchString(cfg.Metrics.Namespace) {
		errs = append(errs, FieldError{"metrics.namespace", fmt.Sprintf("%q is not a valid metric namespace", cfg.Metrics.Namespace)})
	}
	if cfg.Watch.Debounce < 0 {
		errs = append(errs, FieldError{"watch.debounce", "must not be negative"})
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}
