package config

import (
	"fmt"
	"strings"

	"github.com/ToolForge/toolforge/pkg/shell"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

var logLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "fatal": true,
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.CacheSize < 1 {
		errs = append(errs, ValidationError{
			Field:   "cache_size",
			Message: fmt.Sprintf("must be at least 1, got %d", c.CacheSize),
		})
	}
	if c.CacheTTL < 0 {
		errs = append(errs, ValidationError{
			Field:   "cache_ttl",
			Message: "must not be negative",
		})
	}
	if c.DefaultTimeout < 0 {
		errs = append(errs, ValidationError{
			Field:   "default_timeout",
			Message: "must not be negative",
		})
	}
	if c.DefaultDialect != "" {
		if _, err := shell.Lookup(c.DefaultDialect); err != nil {
			errs = append(errs, ValidationError{
				Field:   "default_dialect",
				Message: err.Error(),
			})
		}
	}
	if c.LogLevel != "" && !logLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, ValidationError{
			Field:   "log_level",
			Message: fmt.Sprintf("unknown level %q", c.LogLevel),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
