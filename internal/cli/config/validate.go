package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/dialect"

	// Dialect names are checked against the built-in dialects.
	_ "github.com/leapstack-labs/leaplint/pkg/dialects/all"
)

// ConfigError reports a configuration file that cannot be read or a
// setting with an invalid value.
type ConfigError struct {
	File string
	Key  string
	Err  error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("config error")
	if e.File != "" {
		fmt.Fprintf(&b, " in %s", e.File)
	}
	if e.Key != "" {
		fmt.Fprintf(&b, " at %q", e.Key)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Validate checks if the configuration is valid. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(key string, format string, args ...any) {
		errs = append(errs, &ConfigError{File: configFileUsed, Key: key, Err: fmt.Errorf(format, args...)})
	}

	if c.Dialect == "" {
		invalid("dialect", "dialect is required")
	} else if _, err := dialect.Resolve(c.Dialect); err != nil {
		invalid("dialect", "%w", err)
	}
	if c.OutputFormat != "" && output.Mode(c.OutputFormat) == output.ModeAuto && !strings.EqualFold(c.OutputFormat, string(output.ModeAuto)) {
		invalid("output", "unknown output format %q (expected one of %s)", c.OutputFormat, strings.Join(output.Modes, ", "))
	}
	if c.Workers < 0 {
		invalid("workers", "must not be negative, got %d", c.Workers)
	}
	if c.MaxIterations < 0 {
		invalid("max_iterations", "must not be negative, got %d", c.MaxIterations)
	}
	if c.Cache.Enabled && c.Cache.Path == "" {
		invalid("cache.path", "path is required when the cache is enabled")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			invalid("extensions", "extension %q must start with a dot", ext)
		}
	}
	for id, s := range c.Rules {
		if s.Severity == "" {
			continue
		}
		if _, ok := core.ParseSeverity(s.Severity); !ok {
			invalid("rules."+id+".severity", "unknown severity %q", s.Severity)
		}
	}
	return errors.Join(errs...)
}
