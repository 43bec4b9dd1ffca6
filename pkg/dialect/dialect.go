package dialect

import (
	"sort"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/grammar"
	"github.com/leapstack-labs/leaplint/pkg/lexer"
)

// Rule is a compiled grammar rule of a resolved dialect.
type Rule struct {
	Index int
	Name  string
	Expr  grammar.Expr
	// Transparent rules (leading underscore) do not produce their own segment.
	Transparent bool
}

// Dialect is a fully composed, read-only grammar.
type Dialect struct {
	name   string
	parent string
	chain  []string

	rules    []Rule
	index    map[string]int
	reserved map[string]bool
	keywords map[string]bool
	lexCfg   lexer.Config
}

// Name returns the dialect name.
func (d *Dialect) Name() string {
	return d.name
}

// Parent returns the parent dialect name, empty for a root dialect.
func (d *Dialect) Parent() string {
	return d.parent
}

// Chain returns the inheritance chain, root first, ending with this dialect.
func (d *Dialect) Chain() []string {
	return append([]string(nil), d.chain...)
}

// Rule returns the grammar rule with the given name.
func (d *Dialect) Rule(name string) (Rule, bool) {
	i, ok := d.index[name]
	if !ok {
		return Rule{}, false
	}
	return d.rules[i], true
}

// RuleIndex returns the compiled index of a rule. The parser keys its memo on it.
func (d *Dialect) RuleIndex(name string) (int, bool) {
	i, ok := d.index[name]
	return i, ok
}

// RuleAt returns the rule at a compiled index.
func (d *Dialect) RuleAt(i int) Rule {
	return d.rules[i]
}

// RuleCount returns the number of grammar rules.
func (d *Dialect) RuleCount() int {
	return len(d.rules)
}

// RuleNames returns all rule names, sorted.
func (d *Dialect) RuleNames() []string {
	names := make([]string, len(d.rules))
	for i, r := range d.rules {
		names[i] = r.Name
	}
	return names
}

// IsReserved reports whether word is a reserved keyword.
func (d *Dialect) IsReserved(word string) bool {
	return d.reserved[strings.ToUpper(word)]
}

// IsKeyword reports whether word is any keyword of the dialect.
func (d *Dialect) IsKeyword(word string) bool {
	return d.keywords[strings.ToUpper(word)]
}

// Keywords returns all keywords, sorted.
func (d *Dialect) Keywords() []string {
	out := make([]string, 0, len(d.keywords))
	for k := range d.keywords {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// LexerConfig returns the lexing rules of the dialect.
func (d *Dialect) LexerConfig() lexer.Config {
	return d.lexCfg
}
