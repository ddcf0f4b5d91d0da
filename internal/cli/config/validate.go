package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/sollint/pkg/core"
)

// ErrInvalidConfig is wrapped by every validation error.
var ErrInvalidConfig = errors.New("invalid config value")

var validOutputs = []string{"auto", "text", "markdown", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !contains(validOutputs, c.OutputFormat) {
		return fmt.Errorf("%w: output %q (want one of %s)", ErrInvalidConfig, c.OutputFormat, strings.Join(validOutputs, ", "))
	}
	if c.Jobs < 0 {
		return fmt.Errorf("%w: jobs must not be negative, got %d", ErrInvalidConfig, c.Jobs)
	}
	if _, ok := core.ParseSeverity(c.Severity); !ok {
		return fmt.Errorf("%w: severity %q", ErrInvalidConfig, c.Severity)
	}
	for _, ext := range c.SourceExts {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: source extension %q must start with a dot", ErrInvalidConfig, ext)
		}
	}
	if c.Lint != nil {
		for id, name := range c.Lint.Severity {
			if _, ok := core.ParseSeverity(name); !ok {
				return fmt.Errorf("%w: lint.severity.%s %q", ErrInvalidConfig, id, name)
			}
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
