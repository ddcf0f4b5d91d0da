package lint

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/leapstack-labs/sollint/pkg/core"
)

// Analyzer runs registered lint rules against analyzed files.
type Analyzer struct {
	config *Config
	logger *slog.Logger
	rules  []FileRule // nil means the global registry
}

// NewAnalyzer creates a new analyzer. A nil config enables every rule with
// its defaults; a nil logger discards output.
func NewAnalyzer(config *Config, logger *slog.Logger) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Analyzer{config: config, logger: logger}
}

// WithRules restricts the analyzer to rules instead of the global registry.
func (a *Analyzer) WithRules(rules ...FileRule) *Analyzer {
	a.rules = rules
	return a
}

// WithOverrides returns a copy of the analyzer whose configuration has lc
// layered on top. The receiver is left unchanged.
func (a *Analyzer) WithOverrides(lc *core.LintConfig) (*Analyzer, error) {
	cfg, err := a.config.Clone().Apply(lc)
	if err != nil {
		return nil, err
	}
	return &Analyzer{config: cfg, logger: a.logger, rules: a.rules}, nil
}

// EnabledRules returns the rules the analyzer will run, ordered by ID.
func (a *Analyzer) EnabledRules() []FileRule {
	rules := a.rules
	if rules == nil {
		rules = GetAll()
	}
	enabled := make([]FileRule, 0, len(rules))
	for _, rule := range rules {
		if !a.config.IsDisabled(rule.ID()) {
			enabled = append(enabled, rule)
		}
	}
	sortRules(enabled)
	return enabled
}

// Analyze runs every enabled rule over file. Diagnostics are stamped with
// the rule's ID, severity override, file path and documentation URL, and
// returned in source order. A rule error aborts the file.
func (a *Analyzer) Analyze(file *File) ([]Diagnostic, error) {
	if file == nil {
		return nil, nil
	}

	var diagnostics []Diagnostic
	for _, rule := range a.EnabledRules() {
		opts := a.config.GetRuleOptions(rule.ID())

		diags, err := rule.CheckFile(file, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: rule %s: %w", file.Path, rule.ID(), err)
		}
		a.logger.Debug("rule checked", "rule", rule.ID(), "file", file.Path, "diagnostics", len(diags))

		for i := range diags {
			d := &diags[i]
			if d.RuleID == "" {
				d.RuleID = rule.ID()
			}
			d.Severity = a.config.GetSeverity(rule.ID(), d.Severity)
			if d.FilePath == "" {
				d.FilePath = file.Path
			}
			if d.DocumentationURL == "" {
				d.DocumentationURL = BuildDocURL(rule.ID())
			}
		}
		diagnostics = append(diagnostics, diags...)
	}

	SortDiagnostics(diagnostics)
	return diagnostics, nil
}

// SortDiagnostics orders diagnostics by file, offset and rule ID.
func SortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		if a.Pos.Offset != b.Pos.Offset {
			return a.Pos.Offset < b.Pos.Offset
		}
		return a.RuleID < b.RuleID
	})
}
