// Package config provides configuration management for the sollint CLI.
//
// The lint section reuses the shared LintConfig type from pkg/core, re-exported
// here via type aliases so commands do not need to import pkg/core.
package config

import (
	"github.com/leapstack-labs/sollint/internal/loader"
	"github.com/leapstack-labs/sollint/pkg/core"
)

// LintConfig is an alias for the shared lint configuration.
type LintConfig = core.LintConfig

// RuleOptions is an alias for the shared rule options type.
type RuleOptions = core.RuleOptions

// Config holds all CLI configuration options.
type Config struct {
	OutputFormat string      `koanf:"output"`
	Verbose      bool        `koanf:"verbose"`
	Jobs         int         `koanf:"jobs"`
	SourceExts   []string    `koanf:"source_exts"`
	ASTSuffixes  []string    `koanf:"ast_suffixes"`
	Severity     string      `koanf:"severity"` // exit threshold for lint
	DocsBaseURL  string      `koanf:"docs_base_url"`
	Lint         *LintConfig `koanf:"lint"`

	// ProjectRoot is the directory holding the config file, or the working
	// directory when none was found. Not read from config.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultOutput   = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultSeverity = "error"
	DefaultJobs     = 0 // GOMAXPROCS
)

// configNames are the file names searched for, in order.
var configNames = []string{"sollint.yaml", "sollint.yml"}

// Default returns the configuration used when nothing has been loaded.
func Default() *Config {
	return &Config{
		OutputFormat: DefaultOutput,
		Jobs:         DefaultJobs,
		SourceExts:   append([]string(nil), loader.DefaultSourceExts...),
		ASTSuffixes:  append([]string(nil), loader.DefaultASTSuffixes...),
		Severity:     DefaultSeverity,
		Lint:         &LintConfig{},
	}
}

// LoaderConfig returns the file discovery settings for internal/loader.
func (c *Config) LoaderConfig() loader.Config {
	return loader.Config{
		SourceExts:  c.SourceExts,
		ASTSuffixes: c.ASTSuffixes,
		Jobs:        c.Jobs,
	}
}

// Threshold returns the parsed lint exit threshold.
func (c *Config) Threshold() core.Severity {
	sev, ok := core.ParseSeverity(c.Severity)
	if !ok {
		return core.SeverityError
	}
	return sev
}
