// Package commands implements the leaplint subcommands.
package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaplint/internal/cache"
	"github.com/leapstack-labs/leaplint/internal/cli/config"
	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/internal/discovery"
	starctx "github.com/leapstack-labs/leaplint/internal/starlark"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/linter"
)

// Errors returned to signal a non-zero exit status without a failure.
var (
	// ErrLintIssues is returned when violations or parse errors were found.
	ErrLintIssues = errors.New("lint issues found")
	// ErrNeedsFix is returned by fix --check when a file would change.
	ErrNeedsFix = errors.New("files would be reformatted")
)

// StdinPath is the path argument that reads SQL from standard input.
const StdinPath = "-"

// stdinName labels results read from standard input.
const stdinName = "stdin"

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)).
		WithNoColor(cfg.NoColor)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// WithFormat replaces the renderer when a command-level --format is set.
func (c *CommandContext) WithFormat(cmd *cobra.Command, format string) {
	if format == "" {
		return
	}
	c.Renderer = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(format)).
		WithNoColor(c.Cfg.NoColor)
}

// NewLinter builds a linter with the built-in rules plus the configured
// custom rules. With useCache, lint reports are cached in the configured
// database. The returned cleanup must be called (typically via defer).
func (c *CommandContext) NewLinter(useCache bool) (*linter.Linter, func(), error) {
	opts := []linter.Option{
		linter.WithLogger(c.Logger),
		linter.WithMaxIterations(c.Cfg.MaxIterations),
	}

	if len(c.Cfg.CustomRules) > 0 {
		reg, err := c.ruleRegistry()
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, linter.WithRegistry(reg))
	}

	cleanup := func() {}
	if useCache && c.Cfg.Cache.Enabled {
		store, err := cache.Open(c.Cfg.Cache.Path)
		if err != nil {
			// Linting works without the cache.
			c.Logger.Warn("cache disabled", "path", c.Cfg.Cache.Path, "error", err)
		} else {
			opts = append(opts, linter.WithCache(store))
			cleanup = func() { _ = store.Close() }
		}
	}

	return linter.New(opts...), cleanup, nil
}

// ruleRegistry combines the built-in rules with the custom rule files.
func (c *CommandContext) ruleRegistry() (*lint.Registry, error) {
	custom, err := starctx.NewLoader(c.Logger, 0).Load(c.Cfg.CustomRules...)
	if err != nil {
		return nil, err
	}
	reg := lint.NewRegistry()
	for _, r := range lint.All() {
		if err := reg.Add(r); err != nil {
			return nil, err
		}
	}
	for _, r := range custom {
		if err := reg.Add(r); err != nil {
			return nil, fmt.Errorf("custom rules: %w", err)
		}
	}
	c.Logger.Debug("custom rules loaded", "count", len(custom))
	return reg, nil
}

// LintConfig merges the configured rule settings with --disable and
// --rule flags. Flags take precedence.
func (c *CommandContext) LintConfig(disable, only []string) *lint.Config {
	lc := c.Cfg.LintConfig()
	for _, id := range disable {
		if id = strings.TrimSpace(id); id != "" {
			lc.Disable(id)
		}
	}
	for _, id := range only {
		if id = strings.TrimSpace(id); id != "" {
			lc.Only(id)
		}
	}
	return lc
}

// DiscoverFiles expands path arguments into the files to process. No
// arguments means the working directory.
func (c *CommandContext) DiscoverFiles(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}
	files, stats, err := discovery.Discover(args, discovery.Options{
		Root:       c.Cfg.ProjectRoot,
		Extensions: c.Cfg.Extensions,
		Exclude:    c.Cfg.Exclude,
		IgnoreFile: config.IgnoreFile,
	})
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("discovered files", "files", len(files), "skipped", stats.Skipped)
	return files, nil
}

// runInputs lints or fixes the inputs named by args. A single "-" reads
// standard input.
func (c *CommandContext) runInputs(cmd *cobra.Command, l *linter.Linter, args []string, opts linter.PathOptions) ([]linter.FileResult, error) {
	if len(args) == 1 && args[0] == StdinPath {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		res := linter.FileResult{Path: stdinName, Source: string(data)}
		if opts.Fix {
			res.Fix, err = l.Fix(res.Source, opts.Dialect, opts.Config)
		} else {
			res.Lint, err = l.Lint(res.Source, opts.Dialect, opts.Config)
		}
		if err != nil {
			return nil, err
		}
		return []linter.FileResult{res}, nil
	}

	files, err := c.DiscoverFiles(args)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		c.Renderer.Warning("no SQL files found")
		return nil, nil
	}
	return l.LintPaths(cmd.Context(), files, opts)
}

// fixableRules reports which rules of l propose fixes.
func fixableRules(l *linter.Linter) map[string]bool {
	out := make(map[string]bool)
	for _, r := range l.Rules() {
		if r.FixCompatible() {
			out[strings.ToUpper(r.ID())] = true
		}
	}
	return out
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise the defaults.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}
