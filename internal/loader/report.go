package loader

import (
	"github.com/leapstack-labs/sollint/pkg/core"
	"github.com/leapstack-labs/sollint/pkg/lint"
)

// Summary counts the outcome of a run.
type Summary struct {
	Files      int                   `json:"files"`
	Failed     int                   `json:"failed"` // files that could not be analyzed
	BySeverity map[core.Severity]int `json:"-"`
	Total      int                   `json:"total"`
}

// Count returns the number of diagnostics with severity sev.
func (s Summary) Count(sev core.Severity) int {
	return s.BySeverity[sev]
}

// Summarize counts results.
func Summarize(results []Result) Summary {
	s := Summary{Files: len(results), BySeverity: make(map[core.Severity]int)}
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
			continue
		}
		for _, d := range r.Diagnostics {
			s.BySeverity[d.Severity]++
			s.Total++
		}
	}
	return s
}

// Diagnostics flattens the diagnostics of every result, in result order.
func Diagnostics(results []Result) []lint.Diagnostic {
	var out []lint.Diagnostic
	for _, r := range results {
		out = append(out, r.Diagnostics...)
	}
	return out
}

// Failing reports whether a run should exit non-zero: a file failed, or a
// diagnostic is at least as severe as threshold.
func Failing(results []Result, threshold core.Severity) bool {
	for _, r := range results {
		if r.Err != nil {
			return true
		}
		for _, d := range r.Diagnostics {
			if d.Severity.AtLeast(threshold) {
				return true
			}
		}
	}
	return false
}
