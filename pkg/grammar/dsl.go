package grammar

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// The notation:
//
//	SELECT            keyword (all caps)
//	select_list       reference to another rule
//	","               symbol
//	<identifier>      token class
//	[ x ]             optional
//	{ x }             zero or more
//	( x )+            one or more
//	( x )             grouping
//	a | b             ordered alternation

//nolint:govet // Participle struct tags are DSL, not reflect tags
type dslAlt struct {
	Seqs []*dslSeq `@@ ( "|":Punct @@ )*`
}

//nolint:govet // Participle struct tags are DSL, not reflect tags
type dslSeq struct {
	Terms []*dslTerm `@@+`
}

//nolint:govet // Participle struct tags are DSL, not reflect tags
type dslTerm struct {
	Word     *string `(   @Word`
	Symbol   *string `  | @String`
	Class    *string `  | "<":Punct @Word ">":Punct`
	Optional *dslAlt `  | "[":Punct @@ "]":Punct`
	Repeat   *dslAlt `  | "{":Punct @@ "}":Punct`
	Group    *dslAlt `  | "(":Punct @@ ")":Punct )`
	Plus     bool    `( @"+":Punct )?`
}

//nolint:govet // Participle DSL uses unkeyed fields
var dslLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "Word", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[\[\]{}()|<>+]`},
})

var dslParser = participle.MustBuild[dslAlt](
	participle.Lexer(dslLexer),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
)

// Parse compiles grammar notation into an expression.
func Parse(src string) (Expr, error) {
	ast, err := dslParser.ParseString("", src)
	if err != nil {
		return nil, fmt.Errorf("invalid grammar %q: %w", src, err)
	}
	return ast.expr()
}

// MustParse is like Parse but panics on error. Intended for dialect
// definitions declared at init time.
func MustParse(src string) Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

func (a *dslAlt) expr() (Expr, error) {
	alts := make([]Expr, 0, len(a.Seqs))
	for _, s := range a.Seqs {
		e, err := s.expr()
		if err != nil {
			return nil, err
		}
		alts = append(alts, e)
	}
	if len(alts) == 1 {
		return alts[0], nil
	}
	return OneOf{Alts: alts}, nil
}

func (s *dslSeq) expr() (Expr, error) {
	items := make([]Expr, 0, len(s.Terms))
	for _, t := range s.Terms {
		e, err := t.expr()
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if len(items) == 1 {
		return items[0], nil
	}
	return Seq{Items: items}, nil
}

func (t *dslTerm) expr() (Expr, error) {
	var (
		e   Expr
		err error
	)
	switch {
	case t.Word != nil:
		e = word(*t.Word)
	case t.Symbol != nil:
		if *t.Symbol == "" {
			return nil, fmt.Errorf("empty symbol")
		}
		e = Symbol{Text: *t.Symbol}
	case t.Class != nil:
		e, err = class(*t.Class)
	case t.Optional != nil:
		var inner Expr
		inner, err = t.Optional.expr()
		e = Optional{Item: inner}
	case t.Repeat != nil:
		var inner Expr
		inner, err = t.Repeat.expr()
		e = Repeat{Item: inner}
	case t.Group != nil:
		e, err = t.Group.expr()
	}
	if err != nil {
		return nil, err
	}
	if t.Plus {
		e = Repeat{Item: e, Min: 1}
	}
	return e, nil
}

// word classifies a bare word: all caps is a keyword, anything else a rule.
func word(w string) Expr {
	if w == strings.ToUpper(w) && strings.ContainsAny(w, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		return Keyword{Word: w}
	}
	return Ref{Name: w}
}

func class(name string) (Expr, error) {
	switch c := Class(name); c {
	case ClassIdentifier, ClassLiteral, ClassNumber, ClassString, ClassKeyword:
		return Match{Class: c}, nil
	default:
		return nil, fmt.Errorf("unknown token class <%s>", name)
	}
}
