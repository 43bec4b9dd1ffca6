package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaplint/pkg/format"
	"github.com/leapstack-labs/leaplint/pkg/linter"
)

// errParseFailed signals that the tree was printed but contains errors.
var errParseFailed = errors.New("parse errors found")

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	var (
		outFormat string
		codeOnly  bool
	)

	cmd := &cobra.Command{
		Use:   "parse [path|-]",
		Short: "Print the parse tree of a SQL file",
		Long: `Parse a SQL file and print its segment tree.

Unparsable regions appear as "unparsable" segments and are also reported
on standard error. Without an argument, standard input is read.`,
		Example: `  # Print the tree of a file
  leaplint parse models/orders.sql

  # Only code segments, as YAML
  leaplint parse --code-only --format yaml models/orders.sql

  # Parse from standard input
  echo "select 1" | leaplint parse -`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return []string{"sql"}, cobra.ShellCompDirectiveFilterFileExt
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)

			name, source, err := readSource(cmd, args)
			if err != nil {
				return err
			}

			l := linter.New(linter.WithLogger(cc.Logger))
			tree, parseErrs, err := l.Parse(source, cc.Cfg.Dialect)
			if err != nil {
				return err
			}

			if err := format.Write(cmd.OutOrStdout(), tree, strings.ToLower(outFormat), format.Options{CodeOnly: codeOnly}); err != nil {
				return err
			}

			for _, pe := range parseErrs {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s:%d:%d: %s\n", name, pe.Pos.Line, pe.Pos.Column, pe.Message)
			}
			if len(parseErrs) > 0 {
				return errParseFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFormat, "format", "f", format.FormatText, "Tree format: "+strings.Join(format.Formats, ", "))
	cmd.Flags().BoolVar(&codeOnly, "code-only", false, "Omit whitespace, newline and comment segments")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return format.Formats, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// readSource returns the name and contents of the single input named by
// args. No argument or "-" reads standard input.
func readSource(cmd *cobra.Command, args []string) (string, string, error) {
	if len(args) == 0 || args[0] == StdinPath {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return stdinName, string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return args[0], string(data), nil
}
