package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/linter"
	"github.com/leapstack-labs/leaplint/pkg/parser"
)

// LintOptions holds options for the lint command.
type LintOptions struct {
	Format     string   // Output format: text, markdown, json
	Disable    []string // Rule IDs to disable
	Rules      []string // Run only specific rules
	Severity   string   // Minimum severity: error, warning, info, hint
	Workers    int      // Files linted at once
	NoCache    bool     // Bypass the result cache
	ShowSource bool     // Print the offending line under each violation
	Watch      bool     // Re-lint when files change
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [path...]",
		Short: "Lint SQL files",
		Long: `Analyze SQL files for style and correctness issues.

Paths may be files, directories or glob patterns. Directories are searched
recursively for files with a configured extension; .leaplintignore files
and exclude patterns are honoured. Use "-" to read from standard input.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Lint the current directory
  leaplint lint

  # Lint specific files with the postgres dialect
  leaplint lint --dialect postgres models/orders.sql

  # Lint from standard input
  cat query.sql | leaplint lint -

  # Disable specific rules
  leaplint lint --disable LT01,CP01

  # Only report errors
  leaplint lint --severity error

  # Re-lint on every change
  leaplint lint --watch models/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Run only specific rules")
	cmd.Flags().StringVar(&opts.Severity, "severity", "hint", "Minimum severity: error, warning, info, hint")
	_ = cmd.RegisterFlagCompletionFunc("severity", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return core.Severities(), cobra.ShellCompDirectiveNoFileComp
	})
	cmd.Flags().IntVarP(&opts.Workers, "workers", "j", 0, "Files linted in parallel (default: workers setting or CPU count)")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "Do not read or write the result cache")
	cmd.Flags().BoolVar(&opts.ShowSource, "show-source", false, "Show the source line of each violation")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Watch paths and re-lint on change")

	return cmd
}

func runLint(cmd *cobra.Command, args []string, opts *LintOptions) error {
	threshold, ok := core.ParseSeverity(opts.Severity)
	if !ok {
		return fmt.Errorf("unknown severity %q", opts.Severity)
	}

	cc := NewCommandContext(cmd)
	cc.WithFormat(cmd, opts.Format)

	l, cleanup, err := cc.NewLinter(!opts.NoCache)
	if err != nil {
		return err
	}
	defer cleanup()

	pathOpts := linter.PathOptions{
		Dialect: cc.Cfg.Dialect,
		Config:  cc.LintConfig(opts.Disable, opts.Rules),
		Workers: cc.Cfg.Workers,
	}
	if opts.Workers > 0 {
		pathOpts.Workers = opts.Workers
	}

	lintOnce := func() (bool, error) {
		results, err := cc.runInputs(cmd, l, args, pathOpts)
		if err != nil {
			return false, err
		}
		results = filterBySeverity(results, threshold)
		return renderLintResults(cc.Renderer, results, fixableRules(l), opts.ShowSource), nil
	}

	if opts.Watch {
		if len(args) == 1 && args[0] == StdinPath {
			return fmt.Errorf("--watch cannot be used with standard input")
		}
		if _, err := lintOnce(); err != nil {
			return err
		}
		return watch(cmd.Context(), cc, args, func() {
			if _, err := lintOnce(); err != nil {
				cc.Renderer.Error(err.Error())
			}
		})
	}

	hasIssues, err := lintOnce()
	if err != nil {
		return err
	}
	if hasIssues {
		return ErrLintIssues
	}
	return nil
}

// filterBySeverity drops violations less severe than threshold. Parse
// errors and file errors are always kept.
func filterBySeverity(results []linter.FileResult, threshold core.Severity) []linter.FileResult {
	for i, res := range results {
		if res.Lint == nil {
			continue
		}
		kept := make([]lint.Violation, 0, len(res.Lint.Violations))
		for _, v := range res.Lint.Violations {
			if v.Severity.AtLeast(threshold) {
				kept = append(kept, v)
			}
		}
		filtered := *res.Lint
		filtered.Violations = kept
		results[i].Lint = &filtered
	}
	return results
}

func summarize(results []linter.FileResult) output.LintSummary {
	summary := output.LintSummary{FilesAnalyzed: len(results)}
	for _, res := range results {
		if res.Err != nil {
			summary.FailedFiles++
			continue
		}
		if res.Lint == nil {
			continue
		}
		summary.ParseErrors += len(res.Lint.ParseErrors)
		summary.TotalIssues += len(res.Lint.Violations) + len(res.Lint.ParseErrors)
		for _, v := range res.Lint.Violations {
			switch v.Severity {
			case core.SeverityError:
				summary.Errors++
			case core.SeverityWarning:
				summary.Warnings++
			case core.SeverityInfo:
				summary.Info++
			case core.SeverityHint:
				summary.Hints++
			}
		}
	}
	return summary
}

func diagnostics(vs []lint.Violation, fixable map[string]bool) []output.LintDiagnostic {
	out := make([]output.LintDiagnostic, 0, len(vs))
	for _, v := range vs {
		out = append(out, output.LintDiagnostic{
			RuleID:   v.RuleID,
			Severity: v.Severity.String(),
			Message:  v.Message,
			Line:     v.Pos().Line,
			Column:   v.Pos().Column,
			Fixable:  fixable[strings.ToUpper(v.RuleID)],
		})
	}
	return out
}

// renderLintResults writes the results and reports whether any file has
// issues.
func renderLintResults(r *output.Renderer, results []linter.FileResult, fixable map[string]bool, showSource bool) bool {
	summary := summarize(results)
	hasIssues := summary.TotalIssues > 0 || summary.FailedFiles > 0

	if r.EffectiveMode() == output.ModeJSON {
		doc := output.LintOutput{Summary: summary, Files: make([]output.LintFileResult, 0, len(results))}
		for _, res := range results {
			fr := output.LintFileResult{Path: res.Path, Cached: res.Cached, Diagnostics: []output.LintDiagnostic{}}
			if res.Err != nil {
				fr.Error = res.Err.Error()
			}
			if res.Lint != nil {
				for _, pe := range res.Lint.ParseErrors {
					fr.Diagnostics = append(fr.Diagnostics, parseDiagnostic(pe))
				}
				fr.Diagnostics = append(fr.Diagnostics, diagnostics(res.Lint.Violations, fixable)...)
			}
			doc.Files = append(doc.Files, fr)
		}
		_ = r.JSON(doc)
		return hasIssues
	}

	if !hasIssues {
		r.Success(fmt.Sprintf("No lint issues found in %d files", summary.FilesAnalyzed))
		return false
	}

	markdown := r.EffectiveMode() == output.ModeMarkdown
	styles := r.Styles()
	for _, res := range results {
		if res.Err == nil && (res.Lint == nil || !res.Lint.HasIssues()) {
			continue
		}
		if markdown {
			r.Printf("## %s\n\n", res.Path)
		} else {
			r.Println(styles.FilePath.Render(res.Path))
		}
		if res.Err != nil {
			r.Printf("  %s  %s\n", styles.Error.Render("error  "), res.Err.Error())
			r.Println("")
			continue
		}

		var lines []string
		if showSource {
			lines = strings.Split(res.Source, "\n")
		}
		for _, pe := range res.Lint.ParseErrors {
			r.Printf("  %s  %s  %s  %s\n",
				styles.Muted.Render(fmt.Sprintf("%-7s", pe.Pos)),
				styles.Error.Render("error  "),
				styles.Bold.Render("PRS "),
				pe.Message,
			)
			printSource(r, lines, pe.Pos.Line, pe.Pos.Column, markdown)
		}
		for _, v := range res.Lint.Violations {
			pos := v.Pos()
			marker := ""
			if fixable[strings.ToUpper(v.RuleID)] {
				marker = styles.Muted.Render(" [fixable]")
			}
			r.Printf("  %s  %s  %s  %s%s\n",
				styles.Muted.Render(fmt.Sprintf("%-7s", pos)),
				styles.Severity(v.Severity).Render(fmt.Sprintf("%-7s", v.Severity.String())),
				styles.Bold.Render(v.RuleID),
				v.Message,
				marker,
			)
			printSource(r, lines, pos.Line, pos.Column, markdown)
		}
		r.Println("")
	}

	parts := []string{fmt.Sprintf("%d issues", summary.TotalIssues)}
	if summary.Errors > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", summary.Errors))
	}
	if summary.Warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", summary.Warnings))
	}
	if summary.Info > 0 {
		parts = append(parts, fmt.Sprintf("%d info", summary.Info))
	}
	if summary.Hints > 0 {
		parts = append(parts, fmt.Sprintf("%d hints", summary.Hints))
	}
	if summary.ParseErrors > 0 {
		parts = append(parts, fmt.Sprintf("%d parse errors", summary.ParseErrors))
	}
	if summary.FailedFiles > 0 {
		parts = append(parts, fmt.Sprintf("%d unreadable files", summary.FailedFiles))
	}
	r.Printf("Summary: %s in %d files\n", strings.Join(parts, ", "), summary.FilesAnalyzed)
	return true
}

func parseDiagnostic(pe *parser.ParseError) output.LintDiagnostic {
	return output.LintDiagnostic{
		RuleID:   "PRS",
		Severity: core.SeverityError.String(),
		Message:  pe.Message,
		Line:     pe.Pos.Line,
		Column:   pe.Pos.Column,
	}
}

// printSource prints the source line and a caret under column.
func printSource(r *output.Renderer, lines []string, line, column int, markdown bool) {
	if line < 1 || line > len(lines) {
		return
	}
	src, caret, _ := strings.Cut(output.Caret(strings.TrimRight(lines[line-1], "\r"), column), "\n")
	if markdown {
		r.Printf("\n```sql\n%s\n%s\n```\n\n", src, caret)
		return
	}
	r.Println(sourceIndent + r.Styles().Muted.Render(src))
	r.Println(sourceIndent + r.Styles().Error.Render(caret))
}

// sourceIndent lines source excerpts up under the violation message.
const sourceIndent = "           "
