// Package grammar defines the grammar expressions that dialects are built from
// and a compact text notation for writing them.
package grammar

import (
	"sort"
	"strings"
)

// Expr is a grammar expression. The parser interprets the concrete variants.
type Expr interface {
	String() string
	isExpr()
}

// Seq matches every item in order.
type Seq struct {
	Items []Expr
}

// OneOf tries each alternative in declaration order; the first match wins.
type OneOf struct {
	Alts []Expr
}

// Optional matches Item or nothing.
type Optional struct {
	Item Expr
}

// Repeat matches Item at least Min times, as many times as possible.
type Repeat struct {
	Item Expr
	Min  int
}

// Ref matches the named grammar rule of the active dialect.
type Ref struct {
	Name string
}

// Keyword matches a word case-insensitively.
type Keyword struct {
	Word string
}

// Symbol matches a symbol token with exactly this text.
type Symbol struct {
	Text string
}

// Match matches one token of a lexical class.
type Match struct {
	Class Class
}

// Class names a lexical token class usable in Match.
type Class string

// Token classes.
const (
	ClassIdentifier Class = "identifier"
	ClassLiteral    Class = "literal"
	ClassNumber     Class = "number"
	ClassString     Class = "string"
	ClassKeyword    Class = "keyword"
)

func (Seq) isExpr()      {}
func (OneOf) isExpr()    {}
func (Optional) isExpr() {}
func (Repeat) isExpr()   {}
func (Ref) isExpr()      {}
func (Keyword) isExpr()  {}
func (Symbol) isExpr()   {}
func (Match) isExpr()    {}

func (s Seq) String() string {
	parts := make([]string, len(s.Items))
	for i, it := range s.Items {
		if _, ok := it.(OneOf); ok {
			parts[i] = "(" + it.String() + ")"
			continue
		}
		parts[i] = it.String()
	}
	return strings.Join(parts, " ")
}

func (o OneOf) String() string {
	parts := make([]string, len(o.Alts))
	for i, a := range o.Alts {
		parts[i] = a.String()
	}
	return strings.Join(parts, " | ")
}

func (o Optional) String() string { return "[ " + o.Item.String() + " ]" }

func (r Repeat) String() string {
	if r.Min > 0 {
		return "( " + r.Item.String() + " )+"
	}
	return "{ " + r.Item.String() + " }"
}

func (r Ref) String() string     { return r.Name }
func (k Keyword) String() string { return strings.ToUpper(k.Word) }
func (s Symbol) String() string  { return `"` + strings.ReplaceAll(s.Text, `"`, `\"`) + `"` }
func (m Match) String() string   { return "<" + string(m.Class) + ">" }

// Refs returns the sorted, de-duplicated rule names referenced by e.
func Refs(e Expr) []string {
	seen := map[string]bool{}
	walk(e, func(x Expr) {
		if r, ok := x.(Ref); ok {
			seen[r.Name] = true
		}
	})
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Keywords returns every keyword word used by e, uppercased.
func Keywords(e Expr) []string {
	var out []string
	walk(e, func(x Expr) {
		if k, ok := x.(Keyword); ok {
			out = append(out, strings.ToUpper(k.Word))
		}
	})
	return out
}

func walk(e Expr, fn func(Expr)) {
	fn(e)
	switch x := e.(type) {
	case Seq:
		for _, it := range x.Items {
			walk(it, fn)
		}
	case OneOf:
		for _, a := range x.Alts {
			walk(a, fn)
		}
	case Optional:
		walk(x.Item, fn)
	case Repeat:
		walk(x.Item, fn)
	}
}
