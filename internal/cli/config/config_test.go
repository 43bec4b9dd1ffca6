package config

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/pkg/core"
)

// chdirTemp runs the test inside a fresh directory holding the given files.
func chdirTemp(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	t.Chdir(dir)
	t.Cleanup(ResetConfig)
	return dir
}

func rootFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("leaplint", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.String("dialect", "", "")
	fs.StringP("output", "o", "", "")
	fs.BoolP("verbose", "v", false, "")
	fs.Bool("no-color", false, "")
	return fs
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := chdirTemp(t, nil)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultDialect, cfg.Dialect)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultMaxIterations, cfg.MaxIterations)
	assert.Equal(t, []string{".sql"}, cfg.Extensions)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, filepath.Join(dir, DefaultCachePath), cfg.Cache.Path)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := chdirTemp(t, map[string]string{
		"leaplint.yaml": `
dialect: postgres
workers: 3
exclude:
  - "build/**"
cache:
  path: tmp/cache.db
custom_rules:
  - rules/no_star.star
rules:
  LT05:
    severity: error
    params:
      max_line_length: 120
  cp01:
    enabled: false
`,
	})

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Dialect)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, []string{"build/**"}, cfg.Exclude)
	assert.Equal(t, filepath.Join(dir, "tmp/cache.db"), cfg.Cache.Path)
	assert.True(t, cfg.Cache.Enabled, "unset keys keep their defaults")
	assert.Equal(t, []string{filepath.Join(dir, "rules/no_star.star")}, cfg.CustomRules)
	assert.Equal(t, dir, cfg.ProjectRoot)

	lc := cfg.LintConfig()
	assert.True(t, lc.IsDisabled("CP01"))
	assert.Equal(t, core.SeverityError, lc.GetSeverity("LT05", core.SeverityWarning))
	assert.EqualValues(t, 120, lc.GetRuleOptions("LT05")["max_line_length"])
}

func TestLoadConfig_TOML(t *testing.T) {
	chdirTemp(t, map[string]string{
		"leaplint.toml": `
dialect = "mysql"
max_iterations = 4

[cache]
enabled = false

[rules.AL01.params]
aliasing = "implicit"
`,
	})

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Dialect)
	assert.Equal(t, 4, cfg.MaxIterations)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "implicit", cfg.LintConfig().GetRuleOptions("AL01")["aliasing"])
}

func TestLoadConfig_SearchesUpward(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leaplint.yml"), []byte("dialect: duckdb\n"), 0o600))
	nested := filepath.Join(dir, "models", "staging")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	t.Chdir(nested)
	t.Cleanup(ResetConfig)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "duckdb", cfg.Dialect)
	assert.Equal(t, dir, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(dir, "leaplint.yml"), GetConfigFileUsed())
}

func TestLoadConfig_Precedence(t *testing.T) {
	chdirTemp(t, map[string]string{
		"leaplint.yaml": "dialect: postgres\noutput: markdown\n",
	})
	t.Setenv("LEAPLINT_DIALECT", "snowflake")
	t.Setenv("LEAPLINT_OUTPUT", "json")
	t.Setenv("LEAPLINT_CACHE__ENABLED", "false")

	fs := rootFlags()
	require.NoError(t, fs.Parse([]string{"--dialect", "bigquery"}))

	cfg, err := LoadConfig("", fs)
	require.NoError(t, err)

	assert.Equal(t, "bigquery", cfg.Dialect, "flags beat env")
	assert.Equal(t, "json", cfg.OutputFormat, "env beats file")
	assert.False(t, cfg.Cache.Enabled, "nested keys use a double underscore")
}

func TestLoadConfig_UnsetFlagsDoNotOverride(t *testing.T) {
	chdirTemp(t, map[string]string{"leaplint.yaml": "dialect: tsql\nno_color: true\n"})

	fs := rootFlags()
	require.NoError(t, fs.Parse([]string{"--verbose"}))

	cfg, err := LoadConfig("", fs)
	require.NoError(t, err)
	assert.Equal(t, "tsql", cfg.Dialect)
	assert.True(t, cfg.NoColor)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	dir := chdirTemp(t, map[string]string{
		"leaplint.yaml":    "dialect: postgres\n",
		"conf/custom.yaml": "dialect: sqlite\n",
	})

	cfg, err := LoadConfig(filepath.Join("conf", "custom.yaml"), nil)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Dialect)
	assert.Equal(t, filepath.Join(dir, "conf"), cfg.ProjectRoot)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		key    string
		substr string
	}{
		{"unknown dialect", "dialect: oracle\n", "dialect", "oracle"},
		{"unknown output", "output: html\n", "output", "unknown output format"},
		{"negative workers", "workers: -1\n", "workers", "negative"},
		{"bad severity", "rules:\n  LT01:\n    severity: fatal\n", "rules.LT01.severity", "fatal"},
		{"bad extension", "extensions: [sql]\n", "extensions", "dot"},
		{"malformed yaml", "dialect: [\n", "", "leaplint.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t, map[string]string{"leaplint.yaml": tt.file})

			_, err := LoadConfig("", nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.substr)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr), "got %T", err)
			assert.Equal(t, tt.key, cfgErr.Key)
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	chdirTemp(t, nil)
	_, err := LoadConfig("nope.yaml", nil)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "nope.yaml", cfgErr.File)
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()), "falls back to a discard logger")

	logger := slog.New(slog.DiscardHandler)
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, GetLogger(ctx))
	assert.Equal(t, loggerKey{}, LoggerKey())
}
