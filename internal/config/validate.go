package config

import (
	"errors"
	"fmt"

	"golang.org/x/mod/semver"
)

// ValidationError reports one invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks the configuration and returns every problem found, joined.
func (c *Config) Validate() error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.Observer.Name == "" {
		add("observer.name", "must not be empty")
	}
	if c.Observer.UsableCount < 0 {
		add("observer.usable_count", "must not be negative, got %d", c.Observer.UsableCount)
	} else if c.Observer.UsableCount > c.Map.Width {
		add("observer.usable_count", "exceeds map width %d", c.Map.Width)
	}
	if err := c.Map.Layout().Validate(); err != nil {
		add("map", "%v", err)
	}
	if c.Toolchain.RepoURL == "" {
		add("toolchain.repo_url", "must not be empty")
	}
	if c.Toolchain.Revision == "" {
		add("toolchain.revision", "must not be empty")
	}
	if !semver.IsValid(c.Toolchain.MinLLVM) {
		add("toolchain.min_llvm", "%q is not a semantic version", c.Toolchain.MinLLVM)
	}
	if !validLevels[c.Logging.Level] {
		add("logging.level", "unknown level %q", c.Logging.Level)
	}

	return errors.Join(errs...)
}
