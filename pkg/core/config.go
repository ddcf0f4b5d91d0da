package core

// LintConfig holds lint rule configuration.
type LintConfig struct {
	// Disabled contains rule IDs to disable
	Disabled []string `koanf:"disabled" yaml:"disabled"`

	// Severity maps rule ID to severity override (error, warning, info, hint)
	Severity map[string]string `koanf:"severity" yaml:"severity"`

	// Rules contains rule-specific options keyed by rule ID
	Rules map[string]RuleOptions `koanf:"rules" yaml:"rules"`
}

// RuleOptions holds rule-specific configuration options.
type RuleOptions map[string]any

// IsDisabled reports whether ruleID is listed in Disabled.
func (c *LintConfig) IsDisabled(ruleID string) bool {
	if c == nil {
		return false
	}
	for _, id := range c.Disabled {
		if id == ruleID {
			return true
		}
	}
	return false
}
