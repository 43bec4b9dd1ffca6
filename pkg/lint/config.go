package lint

import (
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/core"
)

// Config controls which rules are enabled, their severity and their options.
type Config struct {
	// DisabledRules contains rule IDs to skip
	DisabledRules map[string]bool

	// OnlyRules, when non-empty, restricts linting to these rule IDs
	OnlyRules map[string]bool

	// SeverityOverrides changes the default severity of rules
	SeverityOverrides map[string]core.Severity

	// RuleOptions holds rule-specific options keyed by rule ID
	RuleOptions map[string]map[string]any
}

// NewConfig creates a default configuration with all rules enabled.
func NewConfig() *Config {
	return &Config{
		DisabledRules:     make(map[string]bool),
		OnlyRules:         make(map[string]bool),
		SeverityOverrides: make(map[string]core.Severity),
		RuleOptions:       make(map[string]map[string]any),
	}
}

// IsDisabled returns true if the rule should be skipped.
func (c *Config) IsDisabled(ruleID string) bool {
	if c == nil {
		return false
	}
	id := normalizeID(ruleID)
	if len(c.OnlyRules) > 0 && !c.OnlyRules[id] {
		return true
	}
	return c.DisabledRules[id]
}

// GetSeverity returns the severity for a rule, applying any override.
func (c *Config) GetSeverity(ruleID string, defaultSeverity core.Severity) core.Severity {
	if c != nil {
		if sev, ok := c.SeverityOverrides[normalizeID(ruleID)]; ok {
			return sev
		}
	}
	return defaultSeverity
}

// GetRuleOptions returns the options configured for a rule (nil if none).
func (c *Config) GetRuleOptions(ruleID string) map[string]any {
	if c == nil {
		return nil
	}
	return c.RuleOptions[normalizeID(ruleID)]
}

// Disable disables a rule by ID.
func (c *Config) Disable(ruleID string) *Config {
	c.DisabledRules[normalizeID(ruleID)] = true
	return c
}

// Enable re-enables a previously disabled rule.
func (c *Config) Enable(ruleID string) *Config {
	delete(c.DisabledRules, normalizeID(ruleID))
	return c
}

// Only restricts linting to the given rules.
func (c *Config) Only(ruleIDs ...string) *Config {
	for _, id := range ruleIDs {
		c.OnlyRules[normalizeID(id)] = true
	}
	return c
}

// SetSeverity overrides the severity for a rule.
func (c *Config) SetSeverity(ruleID string, severity core.Severity) *Config {
	c.SeverityOverrides[normalizeID(ruleID)] = severity
	return c
}

// SetRuleOptions sets the options for a rule.
func (c *Config) SetRuleOptions(ruleID string, opts map[string]any) *Config {
	c.RuleOptions[normalizeID(ruleID)] = opts
	return c
}

// RuleSetting is the per-rule configuration accepted by the public API and
// the configuration file.
type RuleSetting struct {
	Enabled  *bool          `json:"enabled,omitempty" yaml:"enabled,omitempty" koanf:"enabled"`
	Severity string         `json:"severity,omitempty" yaml:"severity,omitempty" koanf:"severity"`
	Params   map[string]any `json:"params,omitempty" yaml:"params,omitempty" koanf:"params"`
}

// RuleConfig maps rule IDs to their settings.
type RuleConfig map[string]RuleSetting

// Config converts the settings into an engine configuration. Unknown
// severity names are ignored.
func (rc RuleConfig) Config() *Config {
	cfg := NewConfig()
	for id, s := range rc {
		if s.Enabled != nil && !*s.Enabled {
			cfg.Disable(id)
		}
		if s.Severity != "" {
			if sev, ok := core.ParseSeverity(s.Severity); ok {
				cfg.SetSeverity(id, sev)
			}
		}
		if len(s.Params) > 0 {
			cfg.SetRuleOptions(id, s.Params)
		}
	}
	return cfg
}

func normalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
