// Package config loads leaplint configuration for the CLI.
//
// Settings are layered: built-in defaults, then the project config file
// (leaplint.yaml, leaplint.yml or leaplint.toml), then LEAPLINT_ environment
// variables, then command-line flags.
package config

import (
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

// Config holds all CLI configuration options.
type Config struct {
	Dialect       string          `koanf:"dialect" yaml:"dialect" toml:"dialect"`
	OutputFormat  string          `koanf:"output" yaml:"output" toml:"output"`
	Verbose       bool            `koanf:"verbose" yaml:"verbose,omitempty" toml:"verbose,omitempty"`
	NoColor       bool            `koanf:"no_color" yaml:"no_color,omitempty" toml:"no_color,omitempty"`
	Workers       int             `koanf:"workers" yaml:"workers,omitempty" toml:"workers,omitempty"`
	MaxIterations int             `koanf:"max_iterations" yaml:"max_iterations" toml:"max_iterations"`
	Extensions    []string        `koanf:"extensions" yaml:"extensions" toml:"extensions"`
	Exclude       []string        `koanf:"exclude" yaml:"exclude,omitempty" toml:"exclude,omitempty"`
	Rules         lint.RuleConfig `koanf:"rules" yaml:"rules,omitempty" toml:"rules,omitempty"`
	Cache         CacheConfig     `koanf:"cache" yaml:"cache" toml:"cache"`
	CustomRules   []string        `koanf:"custom_rules" yaml:"custom_rules,omitempty" toml:"custom_rules,omitempty"`

	// ProjectRoot is the directory holding the config file, or the working
	// directory when there is none. Relative paths resolve against it.
	ProjectRoot string `koanf:"-" yaml:"-" toml:"-"`
}

// CacheConfig controls the on-disk lint result cache.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" yaml:"enabled" toml:"enabled"`
	Path    string `koanf:"path" yaml:"path" toml:"path"`
}

// Default configuration values.
const (
	DefaultDialect       = "ansi"
	DefaultOutput        = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultMaxIterations = 10
	DefaultCachePath     = ".leaplint/cache.db"
	IgnoreFile           = ".leaplintignore"
)

// ConfigFileNames lists the file names searched for, in priority order.
var ConfigFileNames = []string{"leaplint.yaml", "leaplint.yml", "leaplint.toml"}

// DefaultExtensions are the file extensions linted when a directory is given.
var DefaultExtensions = []string{".sql"}

// Default returns the configuration used when no file, variable or flag
// overrides anything.
func Default() *Config {
	return &Config{
		Dialect:       DefaultDialect,
		OutputFormat:  DefaultOutput,
		MaxIterations: DefaultMaxIterations,
		Extensions:    append([]string(nil), DefaultExtensions...),
		Cache:         CacheConfig{Enabled: true, Path: DefaultCachePath},
	}
}

// LintConfig converts the rule settings into an engine configuration.
func (c *Config) LintConfig() *lint.Config {
	return c.Rules.Config()
}
