package output

// LintDiagnostic is one reported problem in JSON output.
type LintDiagnostic struct {
	RuleID   string `json:"rule_id"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Fixable  bool   `json:"fixable,omitempty"`
}

// LintFileResult groups the diagnostics of one file.
type LintFileResult struct {
	Path        string           `json:"path"`
	Diagnostics []LintDiagnostic `json:"diagnostics"`
	Error       string           `json:"error,omitempty"`
	Cached      bool             `json:"cached,omitempty"`
}

// LintSummary aggregates counts across files.
type LintSummary struct {
	FilesAnalyzed int `json:"files_analyzed"`
	TotalIssues   int `json:"total_issues"`
	Errors        int `json:"errors"`
	Warnings      int `json:"warnings"`
	Info          int `json:"info"`
	Hints         int `json:"hints"`
	ParseErrors   int `json:"parse_errors"`
	FailedFiles   int `json:"failed_files"`
}

// LintOutput is the JSON document written by the lint command.
type LintOutput struct {
	Files   []LintFileResult `json:"files"`
	Summary LintSummary      `json:"summary"`
}

// FixFileResult is the JSON shape of one fixed file.
type FixFileResult struct {
	Path           string           `json:"path"`
	Changed        bool             `json:"changed"`
	Applied        int              `json:"applied"`
	IterationsUsed int              `json:"iterations_used"`
	Converged      bool             `json:"converged"`
	State          string           `json:"state"`
	Remaining      []LintDiagnostic `json:"remaining"`
	Error          string           `json:"error,omitempty"`
}

// FixOutput is the JSON document written by the fix command.
type FixOutput struct {
	Files        []FixFileResult `json:"files"`
	FilesChanged int             `json:"files_changed"`
}
