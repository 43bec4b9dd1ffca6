package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/linter"
)

const (
	replPrompt         = "leaplint> "
	replContinuePrompt = "     ...> "
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Lint SQL interactively",
		Long: `Start an interactive session that lints each statement as it is
entered. Statements end with a semicolon and may span several lines.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			l, cleanup, err := cc.NewLinter(false)
			if err != nil {
				return err
			}
			defer cleanup()

			s := newREPLSession(cc, l)

			historyFile := ""
			if !noHistory {
				if home, err := os.UserHomeDir(); err == nil {
					historyFile = filepath.Join(home, ".leaplint_history")
				}
			}

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          replPrompt,
				HistoryFile:     historyFile,
				AutoComplete:    s.completer(),
				InterruptPrompt: "^C",
				EOFPrompt:       ".quit",
				Stdin:           io.NopCloser(cmd.InOrStdin()),
				Stdout:          cmd.OutOrStdout(),
				Stderr:          cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("failed to initialize REPL: %w", err)
			}
			defer func() { _ = rl.Close() }()

			cc.Renderer.Printf("leaplint REPL (dialect: %s)\n", s.dialect)
			cc.Renderer.Println("Type .help for commands, .quit to exit")
			cc.Renderer.Println("")

			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) {
					s.reset()
					rl.SetPrompt(replPrompt)
					continue
				}
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return err
				}

				prompt, quit := s.handleLine(line)
				if quit {
					return nil
				}
				rl.SetPrompt(prompt)
			}
		},
	}

	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not read or write the history file")
	return cmd
}

// replSession holds the state of one interactive session.
type replSession struct {
	cc      *CommandContext
	l       *linter.Linter
	cfg     *lint.Config
	dialect string
	fix     bool
	buf     strings.Builder
}

func newREPLSession(cc *CommandContext, l *linter.Linter) *replSession {
	return &replSession{
		cc:      cc,
		l:       l,
		cfg:     cc.LintConfig(nil, nil),
		dialect: cc.Cfg.Dialect,
	}
}

func (s *replSession) reset() {
	s.buf.Reset()
}

// handleLine consumes one input line and returns the next prompt. quit
// reports that the session should end.
func (s *replSession) handleLine(line string) (prompt string, quit bool) {
	trimmed := strings.TrimSpace(line)
	if s.buf.Len() == 0 {
		if trimmed == "" {
			return replPrompt, false
		}
		if strings.HasPrefix(trimmed, ".") {
			return replPrompt, s.dotCommand(trimmed)
		}
	}

	s.buf.WriteString(line)
	s.buf.WriteString("\n")
	if !strings.HasSuffix(trimmed, ";") {
		return replContinuePrompt, false
	}

	statement := s.buf.String()
	s.buf.Reset()
	s.run(statement)
	return replPrompt, false
}

// run lints statement, or fixes it in fix mode, and prints the outcome.
func (s *replSession) run(statement string) {
	r := s.cc.Renderer
	res := linter.FileResult{Path: stdinName, Source: statement}

	if s.fix {
		rep, err := s.l.Fix(statement, s.dialect, s.cfg)
		if err != nil {
			r.Error(err.Error())
			return
		}
		if rep.Changed() {
			r.Println(strings.TrimRight(rep.FixedText, "\n"))
		}
		res.Lint = &linter.LintReport{
			Dialect:     rep.Dialect,
			Violations:  rep.Violations,
			ParseErrors: rep.ParseErrors,
			RuleErrors:  rep.RuleErrors,
		}
	} else {
		rep, err := s.l.Lint(statement, s.dialect, s.cfg)
		if err != nil {
			r.Error(err.Error())
			return
		}
		res.Lint = rep
	}

	if !res.Lint.HasIssues() {
		r.Success("No issues")
		r.Println("")
		return
	}
	renderLintResults(r, []linter.FileResult{res}, fixableRules(s.l), true)
	r.Println("")
}

// dotCommand runs a dot-command and reports whether the session ends.
func (s *replSession) dotCommand(line string) bool {
	r := s.cc.Renderer
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(r.Writer())

	case ".dialect":
		if len(parts) < 2 {
			r.Printf("Current dialect: %s\n", s.dialect)
			return false
		}
		name := strings.ToLower(parts[1])
		for _, info := range s.l.ListDialects() {
			if info.Name == name {
				s.dialect = name
				r.Success("Dialect set to " + name)
				return false
			}
		}
		r.Error(fmt.Sprintf("unknown dialect %q (type .dialects to list them)", parts[1]))

	case ".dialects":
		for _, info := range s.l.ListDialects() {
			marker := "  "
			if info.Name == s.dialect {
				marker = "* "
			}
			if info.Parent != "" {
				r.Printf("%s%s (extends %s)\n", marker, info.Name, info.Parent)
			} else {
				r.Printf("%s%s\n", marker, info.Name)
			}
		}

	case ".fix":
		s.fix = !s.fix
		if s.fix {
			r.Println("Fix mode on: statements are printed fixed")
		} else {
			r.Println("Fix mode off")
		}

	case ".disable":
		for _, id := range parts[1:] {
			s.cfg.Disable(id)
		}
		if len(parts) > 1 {
			r.Println("Disabled " + strings.Join(parts[1:], ", "))
		}

	default:
		r.Error(fmt.Sprintf("Unknown command: %s (type .help for commands)", command))
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help             Show this help message
  .dialect [name]   Show or change the dialect
  .dialects         List the available dialects
  .fix              Toggle fix mode
  .disable <id...>  Disable rules for this session
  .quit / .exit     Exit the REPL

Tips:
  - SQL statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completion works for dot-commands and dialect names
`
	_, _ = fmt.Fprintln(w, help)
}

// completer completes dot-commands and dialect names.
func (s *replSession) completer() *readline.PrefixCompleter {
	var dialects []readline.PrefixCompleterInterface
	for _, info := range s.l.ListDialects() {
		dialects = append(dialects, readline.PcItem(info.Name))
	}
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".dialect", dialects...),
		readline.PcItem(".dialects"),
		readline.PcItem(".fix"),
		readline.PcItem(".disable"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
