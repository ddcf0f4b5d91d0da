package output

// LintOutput is the JSON document produced by `sollint lint --format json`.
type LintOutput struct {
	RunID   string           `json:"run_id"`
	Summary LintSummary      `json:"summary"`
	Files   []LintFileResult `json:"files"`
}

// LintSummary counts a lint run.
type LintSummary struct {
	FilesAnalyzed int `json:"files_analyzed"`
	FilesFailed   int `json:"files_failed"`
	TotalIssues   int `json:"total_issues"`
	Errors        int `json:"errors"`
	Warnings      int `json:"warnings"`
	Info          int `json:"info"`
	Hints         int `json:"hints"`
}

// LintFileResult holds the diagnostics of one file, or the reason it could
// not be analyzed.
type LintFileResult struct {
	Path        string           `json:"path"`
	Error       string           `json:"error,omitempty"`
	Diagnostics []LintDiagnostic `json:"diagnostics,omitempty"`
}

// LintDiagnostic is one reported issue. Lines are 1-based, columns 0-based.
type LintDiagnostic struct {
	RuleID           string        `json:"rule_id"`
	Severity         string        `json:"severity"`
	Message          string        `json:"message"`
	Line             int           `json:"line"`
	Column           int           `json:"column"`
	EndLine          int           `json:"end_line"`
	EndColumn        int           `json:"end_column"`
	DocumentationURL string        `json:"documentation_url,omitempty"`
	ImpactScore      int           `json:"impact_score,omitempty"`
	Related          []LintRelated `json:"related,omitempty"`
}

// LintRelated points at a related location, such as the declaration.
type LintRelated struct {
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}
