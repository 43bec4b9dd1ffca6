package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/pkg/linter"
)

// FixOptions holds options for the fix command.
type FixOptions struct {
	Format  string
	Disable []string
	Rules   []string
	Workers int
	Diff    bool // Print a unified diff instead of writing files
	Check   bool // Exit non-zero when a file would change; write nothing
}

// NewFixCommand creates the fix command.
func NewFixCommand() *cobra.Command {
	opts := &FixOptions{}
	cmd := &cobra.Command{
		Use:   "fix [path...]",
		Short: "Apply automatic fixes to SQL files",
		Long: `Rewrite SQL files so that fixable violations are resolved.

Fixes are applied in repeated passes until the text stops changing or the
iteration limit is reached. Files are rewritten in place unless --diff or
--check is given. With "-" the fixed text is written to standard output.`,
		Example: `  # Fix every SQL file below models/
  leaplint fix models/

  # Show what would change
  leaplint fix --diff models/orders.sql

  # Fail in CI when a file is not fixed
  leaplint fix --check

  # Fix from standard input
  cat query.sql | leaplint fix -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Fix only specific rules")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "j", 0, "Files fixed in parallel")
	cmd.Flags().BoolVar(&opts.Diff, "diff", false, "Print a diff instead of writing files")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "Exit non-zero if any file would change")

	return cmd
}

func runFix(cmd *cobra.Command, args []string, opts *FixOptions) error {
	cc := NewCommandContext(cmd)
	cc.WithFormat(cmd, opts.Format)

	l, cleanup, err := cc.NewLinter(false)
	if err != nil {
		return err
	}
	defer cleanup()

	pathOpts := linter.PathOptions{
		Dialect: cc.Cfg.Dialect,
		Config:  cc.LintConfig(opts.Disable, opts.Rules),
		Fix:     true,
		Workers: cc.Cfg.Workers,
	}
	if opts.Workers > 0 {
		pathOpts.Workers = opts.Workers
	}

	results, err := cc.runInputs(cmd, l, args, pathOpts)
	if err != nil {
		return err
	}

	stdin := len(args) == 1 && args[0] == StdinPath
	write := !opts.Diff && !opts.Check && !stdin
	r := cc.Renderer
	fixable := fixableRules(l)

	var changed, remaining int
	doc := output.FixOutput{Files: make([]output.FixFileResult, 0, len(results))}
	for i := range results {
		res := &results[i]
		fr := output.FixFileResult{Path: res.Path, Remaining: []output.LintDiagnostic{}}
		if res.Err != nil {
			fr.Error = res.Err.Error()
			remaining++
			doc.Files = append(doc.Files, fr)
			continue
		}
		rep := res.Fix
		fr.Changed = rep.Changed()
		fr.Applied = len(rep.Applied)
		fr.IterationsUsed = rep.IterationsUsed
		fr.Converged = rep.Converged
		fr.State = string(rep.State)
		for _, pe := range rep.ParseErrors {
			fr.Remaining = append(fr.Remaining, parseDiagnostic(pe))
		}
		fr.Remaining = append(fr.Remaining, diagnostics(rep.Violations, fixable)...)
		remaining += len(fr.Remaining)

		if fr.Changed {
			changed++
			if write {
				if err := writeFixed(res.Path, rep.FixedText); err != nil {
					fr.Error = err.Error()
					res.Err = err
				}
			}
		}
		doc.Files = append(doc.Files, fr)
	}
	doc.FilesChanged = changed

	switch {
	case r.EffectiveMode() == output.ModeJSON:
		if err := r.JSON(doc); err != nil {
			return err
		}
	case stdin && !opts.Diff && !opts.Check:
		if len(results) == 1 && results[0].Fix != nil {
			_, _ = fmt.Fprint(r.Writer(), results[0].Fix.FixedText)
		}
	default:
		if err := renderFixText(r, results, opts, write); err != nil {
			return err
		}
	}

	for _, res := range results {
		if res.Err != nil {
			return fmt.Errorf("failed to fix %s: %w", res.Path, res.Err)
		}
	}
	if opts.Check && changed > 0 {
		return ErrNeedsFix
	}
	if remaining > 0 {
		return ErrLintIssues
	}
	return nil
}

func renderFixText(r *output.Renderer, results []linter.FileResult, opts *FixOptions, written bool) error {
	styles := r.Styles()
	changed := 0
	for _, res := range results {
		if res.Err != nil {
			r.Printf("%s  %s\n", styles.FilePath.Render(res.Path), styles.Error.Render(res.Err.Error()))
			continue
		}
		rep := res.Fix
		if opts.Diff {
			if _, err := r.Diff(res.Path, res.Source, rep.FixedText); err != nil {
				return err
			}
		}
		if rep.Changed() {
			changed++
			verb := "would fix"
			if written {
				verb = "fixed"
			}
			r.Printf("%s  %s %d issues in %d passes\n",
				styles.FilePath.Render(res.Path), verb, len(rep.Applied), rep.IterationsUsed)
		}
		if !rep.Converged {
			r.Warning(fmt.Sprintf("%s: fixes did not converge (%s)", res.Path, rep.State))
		}
		for _, v := range rep.Violations {
			pos := v.Pos()
			r.Printf("  %s  %s  %s  %s\n",
				styles.Muted.Render(fmt.Sprintf("%-7s", pos)),
				styles.Severity(v.Severity).Render(fmt.Sprintf("%-7s", v.Severity.String())),
				styles.Bold.Render(v.RuleID),
				v.Message,
			)
		}
		for _, pe := range rep.ParseErrors {
			r.Printf("  %s  %s  %s\n",
				styles.Muted.Render(fmt.Sprintf("%-7s", pe.Pos)),
				styles.Error.Render("error  "),
				pe.Message,
			)
		}
	}

	switch {
	case changed == 0:
		r.Success(fmt.Sprintf("Nothing to fix in %d files", len(results)))
	case written:
		r.Success(fmt.Sprintf("Fixed %d of %d files", changed, len(results)))
	default:
		r.Printf("%d of %d files would be fixed\n", changed, len(results))
	}
	return nil
}

// writeFixed replaces path's contents, keeping its permissions.
func writeFixed(path, text string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(text), info.Mode().Perm())
}
