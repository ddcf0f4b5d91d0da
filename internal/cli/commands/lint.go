package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sollint/internal/cli/config"
	"github.com/leapstack-labs/sollint/internal/cli/output"
	"github.com/leapstack-labs/sollint/internal/loader"
	"github.com/leapstack-labs/sollint/pkg/core"
	"github.com/leapstack-labs/sollint/pkg/lint"
	_ "github.com/leapstack-labs/sollint/pkg/lint/rules" // register rules
)

// ErrLintFailed is returned when a file failed or issues at or above the
// severity threshold were found.
var ErrLintFailed = errors.New("lint issues found")

// LintOptions holds options for the lint command.
type LintOptions struct {
	Paths    []string // Files or directories
	Format   string   // Output format: text, markdown, json
	Disable  []string // Rule IDs to disable
	Rules    []string // Run only specific rules
	Severity string   // Minimum severity: error, warning, info, hint
	Watch    bool     // Re-run on changes
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Report identifiers used before their declaration",
		Long: `Analyze contracts for identifiers used before they are declared.

Every source file is read together with the AST dump produced for it by the
parser (<file>.sol.ast.json, .ast.yaml or .ast.yml). Directories are walked
recursively; hidden directories and node_modules are skipped.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Lint the current directory
  sollint lint

  # Lint specific paths
  sollint lint ./contracts Vault.sol

  # Output as JSON
  sollint lint --format json

  # Disable specific rules
  sollint lint --disable SC01

  # Fail on warnings too
  sollint lint --severity warning

  # Re-run whenever a source file or AST dump changes
  sollint lint --watch ./contracts`,
		// findings are not usage errors
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Paths = args
			if opts.Watch {
				return runWatch(cmd, opts)
			}
			return runLint(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Run only specific rules")
	cmd.Flags().StringVar(&opts.Severity, "severity", "", "Minimum severity to report and fail on: error, warning, info, hint (default from config)")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Watch paths and lint again on changes")

	return cmd
}

// lintRun is one configured lint invocation, reusable across watch cycles.
type lintRun struct {
	loader    *loader.Loader
	paths     []string
	threshold core.Severity
}

func newLintRun(cc *CommandContext, opts *LintOptions) (*lintRun, error) {
	lintCfg, err := buildLintConfig(cc.Cfg, opts)
	if err != nil {
		return nil, err
	}

	threshold := cc.Cfg.Threshold()
	if opts.Severity != "" {
		sev, ok := core.ParseSeverity(opts.Severity)
		if !ok {
			return nil, fmt.Errorf("invalid --severity %q: want error, warning, info or hint", opts.Severity)
		}
		threshold = sev
	}

	paths := opts.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}

	lcfg := cc.Cfg.LoaderConfig()
	lcfg.Logger = cc.Logger
	return &lintRun{
		loader:    loader.New(lcfg, lint.NewAnalyzer(lintCfg, cc.Logger)),
		paths:     paths,
		threshold: threshold,
	}, nil
}

// lint analyzes every path and drops diagnostics below the threshold.
func (lr *lintRun) lint(ctx context.Context) ([]loader.Result, error) {
	results, err := lr.loader.Lint(ctx, lr.paths)
	if err != nil {
		return nil, err
	}
	return filterBySeverity(results, lr.threshold), nil
}

func runLint(cmd *cobra.Command, opts *LintOptions) error {
	cc := NewCommandContext(cmd, opts.Format)
	run, err := newLintRun(cc, opts)
	if err != nil {
		return err
	}

	results, err := run.lint(cmd.Context())
	if err != nil {
		return err
	}
	renderLintResults(cc.Renderer, results)

	if loader.Failing(results, run.threshold) {
		return ErrLintFailed
	}
	return nil
}

func buildLintConfig(cfg *config.Config, opts *LintOptions) (*lint.Config, error) {
	var projectLint *config.LintConfig
	if cfg != nil {
		projectLint = cfg.Lint
	}

	// Project config first (lower precedence)
	lintCfg, err := lint.FromLintConfig(projectLint)
	if err != nil {
		return nil, err
	}

	// CLI overrides
	for _, id := range opts.Disable {
		lintCfg.Disable(strings.TrimSpace(id))
	}

	// If --rule specified, disable all others
	if len(opts.Rules) > 0 {
		enabled := make(map[string]bool)
		for _, id := range opts.Rules {
			id = strings.TrimSpace(id)
			if _, ok := lint.GetRuleByID(id); !ok {
				return nil, fmt.Errorf("unknown rule %q", id)
			}
			enabled[id] = true
		}
		for _, rule := range lint.GetAll() {
			if !enabled[rule.ID()] {
				lintCfg.Disable(rule.ID())
			}
		}
	}

	return lintCfg, nil
}

func filterBySeverity(results []loader.Result, threshold core.Severity) []loader.Result {
	filtered := make([]loader.Result, len(results))
	for i, r := range results {
		filtered[i] = loader.Result{Unit: r.Unit, Err: r.Err}
		for _, d := range r.Diagnostics {
			if d.Severity.AtLeast(threshold) {
				filtered[i].Diagnostics = append(filtered[i].Diagnostics, d)
			}
		}
	}
	return filtered
}

func lintSummary(results []loader.Result) output.LintSummary {
	s := loader.Summarize(results)
	return output.LintSummary{
		FilesAnalyzed: s.Files,
		FilesFailed:   s.Failed,
		TotalIssues:   s.Total,
		Errors:        s.Count(core.SeverityError),
		Warnings:      s.Count(core.SeverityWarning),
		Info:          s.Count(core.SeverityInfo),
		Hints:         s.Count(core.SeverityHint),
	}
}

func renderLintResults(r *output.Renderer, results []loader.Result) {
	summary := lintSummary(results)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		_ = r.JSON(lintJSON(results, summary))
		return
	case output.ModeMarkdown:
		renderLintMarkdown(r, results, summary)
		return
	}

	if summary.TotalIssues == 0 && summary.FilesFailed == 0 {
		r.Success(fmt.Sprintf("No lint issues found in %d files", summary.FilesAnalyzed))
		return
	}

	styles := r.Styles()
	for _, res := range results {
		if res.Err == nil && len(res.Diagnostics) == 0 {
			continue
		}
		r.Println(styles.FilePath.Render(res.Unit.SourcePath))
		if res.Err != nil {
			r.Printf("  %s  %s  %s\n", styles.Muted.Render(fmt.Sprintf("%-7s", "-")), severityStyle(r, core.SeverityError), res.Err)
		}
		for _, d := range res.Diagnostics {
			loc := fmt.Sprintf("%d:%d", d.Pos.Line, d.Pos.Column)
			r.Printf("  %s  %s  %s  %s\n",
				styles.Muted.Render(fmt.Sprintf("%-7s", loc)),
				severityStyle(r, d.Severity),
				styles.Bold.Render(d.RuleID),
				d.Message,
			)
		}
		r.Println("")
	}
	r.Printf("Summary: %s\n", summaryLine(summary))
}

func renderLintMarkdown(r *output.Renderer, results []loader.Result, summary output.LintSummary) {
	r.Println("# Lint Results")
	r.Println("")
	for _, res := range results {
		if res.Err == nil && len(res.Diagnostics) == 0 {
			continue
		}
		r.Printf("## %s\n\n", res.Unit.SourcePath)
		if res.Err != nil {
			r.Printf("- **error** could not analyze: %s\n", res.Err)
		}
		for _, d := range res.Diagnostics {
			r.Printf("- `%d:%d` **%s** %s: %s\n", d.Pos.Line, d.Pos.Column, d.Severity, d.RuleID, d.Message)
		}
		r.Println("")
	}
	r.Printf("**Summary:** %s\n", summaryLine(summary))
}

func summaryLine(s output.LintSummary) string {
	parts := []string{fmt.Sprintf("%d issues", s.TotalIssues)}
	if s.Errors > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", s.Errors))
	}
	if s.Warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", s.Warnings))
	}
	if s.Info > 0 {
		parts = append(parts, fmt.Sprintf("%d info", s.Info))
	}
	if s.Hints > 0 {
		parts = append(parts, fmt.Sprintf("%d hints", s.Hints))
	}
	line := fmt.Sprintf("%s in %d files", strings.Join(parts, ", "), s.FilesAnalyzed)
	if s.FilesFailed > 0 {
		line += fmt.Sprintf(" (%d could not be analyzed)", s.FilesFailed)
	}
	return line
}

func lintJSON(results []loader.Result, summary output.LintSummary) output.LintOutput {
	out := output.LintOutput{
		RunID:   uuid.NewString(),
		Summary: summary,
		Files:   make([]output.LintFileResult, 0, len(results)),
	}
	for _, res := range results {
		fr := output.LintFileResult{Path: res.Unit.SourcePath}
		if res.Err != nil {
			fr.Error = res.Err.Error()
		}
		for _, d := range res.Diagnostics {
			ld := output.LintDiagnostic{
				RuleID:           d.RuleID,
				Severity:         d.Severity.String(),
				Message:          d.Message,
				Line:             d.Pos.Line,
				Column:           d.Pos.Column,
				EndLine:          d.EndPos.Line,
				EndColumn:        d.EndPos.Column,
				DocumentationURL: d.DocumentationURL,
				ImpactScore:      d.ImpactScore,
			}
			for _, rel := range d.RelatedInfo {
				ld.Related = append(ld.Related, output.LintRelated{
					Path:    rel.FilePath,
					Line:    rel.Pos.Line,
					Column:  rel.Pos.Column,
					Message: rel.Message,
				})
			}
			fr.Diagnostics = append(fr.Diagnostics, ld)
		}
		out.Files = append(out.Files, fr)
	}
	return out
}

func severityStyle(r *output.Renderer, sev core.Severity) string {
	label := fmt.Sprintf("%-7s", sev.String())
	switch sev {
	case core.SeverityError:
		return r.Styles().Error.Render(label)
	case core.SeverityWarning:
		return r.Styles().Warning.Render(label)
	case core.SeverityInfo:
		return r.Styles().Info.Render(label)
	default:
		return r.Styles().Muted.Render(label)
	}
}
