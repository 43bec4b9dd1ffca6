// Package dialect composes SQL dialects from a root grammar and layered
// per-dialect deltas, and serves the resolved dialects by name.
//
// A dialect is declared as a Definition: a parent name plus rule
// replacements, rule insertions, keyword patches and lexer patches.
// Definitions are registered from pkg/dialects/*/ packages and composed
// once into an immutable Registry.
package dialect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/grammar"
	"github.com/leapstack-labs/leaplint/pkg/lexer"
)

// ruleDelta is one grammar rule added or replaced by a definition.
type ruleDelta struct {
	name string
	expr grammar.Expr
}

// Definition is the unresolved delta a dialect applies on top of its parent.
type Definition struct {
	Name   string
	Parent string

	replace    []ruleDelta
	insert     []ruleDelta
	reserved   []string
	unreserved []string
	removed    []string
	lexer      []func(*lexer.Config)
}

// Builder provides a fluent API for declaring dialect definitions.
type Builder struct {
	def  *Definition
	errs []error
}

// New starts a definition for the named dialect.
// Without Extends the dialect is a root and starts from the default lexer rules.
func New(name string) *Builder {
	return &Builder{def: &Definition{Name: strings.ToLower(name)}}
}

// Extends sets the parent dialect.
func (b *Builder) Extends(parent string) *Builder {
	b.def.Parent = strings.ToLower(parent)
	return b
}

// Insert adds a grammar rule the parent chain does not define.
func (b *Builder) Insert(name, src string) *Builder {
	if e := b.parse(name, src); e != nil {
		b.def.insert = append(b.def.insert, ruleDelta{name: name, expr: e})
	}
	return b
}

// Replace overrides a grammar rule inherited from the parent chain.
func (b *Builder) Replace(name, src string) *Builder {
	if e := b.parse(name, src); e != nil {
		b.def.replace = append(b.def.replace, ruleDelta{name: name, expr: e})
	}
	return b
}

func (b *Builder) parse(name, src string) grammar.Expr {
	e, err := grammar.Parse(src)
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("dialect %q rule %q: %w", b.def.Name, name, err))
		return nil
	}
	return e
}

// Reserved adds reserved keywords. Reserved words never match <identifier>.
func (b *Builder) Reserved(words ...string) *Builder {
	b.def.reserved = append(b.def.reserved, upper(words)...)
	return b
}

// Unreserved adds keywords that may still be used as identifiers.
func (b *Builder) Unreserved(words ...string) *Builder {
	b.def.unreserved = append(b.def.unreserved, upper(words)...)
	return b
}

// RemoveKeywords drops inherited keywords from both sets.
func (b *Builder) RemoveKeywords(words ...string) *Builder {
	b.def.removed = append(b.def.removed, upper(words)...)
	return b
}

// Lexer registers a patch applied to the inherited lexer configuration.
func (b *Builder) Lexer(patch func(*lexer.Config)) *Builder {
	b.def.lexer = append(b.def.lexer, patch)
	return b
}

// IdentifierQuotes replaces the quoted identifier delimiters.
func (b *Builder) IdentifierQuotes(pairs ...lexer.QuotePair) *Builder {
	return b.Lexer(func(c *lexer.Config) {
		c.IdentifierQuotes = append([]lexer.QuotePair(nil), pairs...)
	})
}

// Operators adds multi-character symbols.
func (b *Builder) Operators(ops ...string) *Builder {
	return b.Lexer(func(c *lexer.Config) {
		c.Operators = append(c.Operators, ops...)
	})
}

// Build returns the definition or the first grammar error encountered.
func (b *Builder) Build() (*Definition, error) {
	if b.def.Name == "" {
		return nil, errors.New("dialect name is required")
	}
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	return b.def, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Definition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

func upper(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToUpper(w)
	}
	return out
}
