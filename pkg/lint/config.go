package lint

import (
	"fmt"

	"github.com/leapstack-labs/sollint/pkg/core"
)

// Config controls which rules are enabled, their severity and options.
type Config struct {
	// DisabledRules contains rule IDs to skip
	DisabledRules map[string]bool

	// SeverityOverrides changes the default severity of rules
	SeverityOverrides map[string]Severity

	// RuleOptions holds rule-specific options keyed by rule ID
	RuleOptions map[string]map[string]any
}

// NewConfig creates a default configuration with all rules enabled.
func NewConfig() *Config {
	return &Config{
		DisabledRules:     make(map[string]bool),
		SeverityOverrides: make(map[string]Severity),
		RuleOptions:       make(map[string]map[string]any),
	}
}

// FromLintConfig converts the user-facing lint configuration. Unknown
// severity names are rejected.
func FromLintConfig(lc *core.LintConfig) (*Config, error) {
	return NewConfig().Apply(lc)
}

// Apply layers lc over c in place. Rule options replace the configured
// options of the same rule wholesale.
func (c *Config) Apply(lc *core.LintConfig) (*Config, error) {
	if lc == nil {
		return c, nil
	}
	for _, id := range lc.Disabled {
		c.Disable(id)
	}
	for id, name := range lc.Severity {
		sev, ok := core.ParseSeverity(name)
		if !ok {
			return nil, fmt.Errorf("lint.severity.%s: unknown severity %q", id, name)
		}
		c.SetSeverity(id, sev)
	}
	for id, opts := range lc.Rules {
		c.SetRuleOptions(id, opts)
	}
	return c, nil
}

// Clone returns a deep copy of the maps in c. Option values are shared.
func (c *Config) Clone() *Config {
	out := NewConfig()
	if c == nil {
		return out
	}
	for id, v := range c.DisabledRules {
		out.DisabledRules[id] = v
	}
	for id, sev := range c.SeverityOverrides {
		out.SeverityOverrides[id] = sev
	}
	for id, opts := range c.RuleOptions {
		out.RuleOptions[id] = opts
	}
	return out
}

// IsDisabled returns true if the rule should be skipped.
func (c *Config) IsDisabled(ruleID string) bool {
	if c == nil {
		return false
	}
	return c.DisabledRules[ruleID]
}

// GetSeverity returns the severity for a rule, applying any override.
func (c *Config) GetSeverity(ruleID string, defaultSeverity Severity) Severity {
	if c != nil {
		if sev, ok := c.SeverityOverrides[ruleID]; ok {
			return sev
		}
	}
	return defaultSeverity
}

// GetRuleOptions returns the options configured for a rule, or nil.
func (c *Config) GetRuleOptions(ruleID string) map[string]any {
	if c == nil {
		return nil
	}
	return c.RuleOptions[ruleID]
}

// Disable disables a rule by ID.
func (c *Config) Disable(ruleID string) *Config {
	c.DisabledRules[ruleID] = true
	return c
}

// SetSeverity overrides the severity for a rule.
func (c *Config) SetSeverity(ruleID string, severity Severity) *Config {
	c.SeverityOverrides[ruleID] = severity
	return c
}

// SetRuleOptions replaces the options of a rule.
func (c *Config) SetRuleOptions(ruleID string, opts map[string]any) *Config {
	c.RuleOptions[ruleID] = opts
	return c
}
