// Package parser builds lossless segment trees from token streams.
//
// The parser interprets a dialect's grammar expressions directly: ordered
// alternation with backtracking, memoized per (rule, token position) so that
// shared prefixes are evaluated once. Every token, including whitespace,
// comments and newlines, ends up as exactly one leaf of the tree.
package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/grammar"
	"github.com/leapstack-labs/leaplint/pkg/segment"
	"github.com/leapstack-labs/leaplint/pkg/token"
)

// Leaf segment types assigned by the parser.
const (
	TypeKeyword          = "keyword"
	TypeIdentifier       = "identifier"
	TypeQuotedIdentifier = "quoted_identifier"
	TypeNumericLiteral   = "numeric_literal"
	TypeStringLiteral    = "string_literal"
	TypeComma            = "comma"
	TypeDot              = "dot"
	TypeStartBracket     = "start_bracket"
	TypeEndBracket       = "end_bracket"
	TypeEndOfFile        = "end_of_file"
)

// Result is the outcome of parsing a whole file.
type Result struct {
	Tree   *segment.Tree
	Errors []*ParseError
	// Statements counts top-level statements that parsed successfully.
	Statements int
}

// Parse parses tokens as a file using a fresh arena.
func Parse(tokens []token.Token, d *dialect.Dialect) *Result {
	return New(d, tokens, segment.NewArena()).ParseFile()
}

type memoKey struct {
	rule int
	pos  int
}

type memoEntry struct {
	nodes   []segment.ID
	end     int
	ok      bool
	pending bool
}

// Parser holds the state of one parse. It is not safe for concurrent use.
type Parser struct {
	d     *dialect.Dialect
	toks  []token.Token
	arena *segment.Arena
	memo  map[memoKey]*memoEntry

	furthest int
	expected map[string]bool
}

// New creates a parser over tokens that allocates segments in arena.
// tokens must end with an EOF token.
func New(d *dialect.Dialect, tokens []token.Token, arena *segment.Arena) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		tokens = append(append([]token.Token(nil), tokens...), token.Token{Kind: token.EOF})
	}
	return &Parser{
		d:        d,
		toks:     tokens,
		arena:    arena,
		memo:     make(map[memoKey]*memoEntry),
		expected: make(map[string]bool),
	}
}

// ParseFile parses the whole token stream as a sequence of statements
// separated by semicolons. Regions no statement matches become unparsable
// segments; parsing resumes after them.
func (p *Parser) ParseFile() *Result {
	res := &Result{}
	stmt, ok := p.d.RuleIndex(dialect.StatementRule)
	if !ok {
		// Registry validation guarantees the rule; fall back to one region.
		stmt = -1
	}

	var children []segment.ID
	pos := 0
	firstCode := -1
	for {
		q := p.skip(pos)
		children = append(children, p.trivia(pos, q)...)
		tok := p.toks[q]
		if tok.Kind == token.EOF {
			children = append(children, p.arena.Leaf(tok, TypeEndOfFile))
			break
		}
		if isSymbol(tok, ";") {
			children = append(children, p.arena.Leaf(tok, segment.TypeTerminator))
			pos = q + 1
			continue
		}
		if firstCode < 0 {
			firstCode = q
		}

		p.resetFurthest(q)
		if stmt >= 0 {
			if nodes, end, ok := p.matchRule(stmt, q); ok && end > q {
				children = append(children, nodes...)
				res.Statements++
				pos = end
				next := p.skip(pos)
				if p.toks[next].Kind == token.EOF || isSymbol(p.toks[next], ";") {
					continue
				}
				children = append(children, p.trivia(pos, next)...)
				q = next
			}
		}

		id, end, perr := p.unparsable(q)
		children = append(children, id)
		res.Errors = append(res.Errors, perr)
		pos = end
	}

	if res.Statements == 0 && firstCode >= 0 {
		res.Errors = append(res.Errors, &ParseError{Pos: p.toks[firstCode].Pos, Message: ErrNoStatements})
	}
	res.Tree = segment.NewTree(p.arena, p.arena.Branch(segment.TypeFile, children))
	return res
}

// ParseRule parses the entire token stream as one instance of the named
// rule and returns the resulting top-level segments, including leading and
// trailing trivia. It fails unless every code token is consumed.
func (p *Parser) ParseRule(name string) ([]segment.ID, error) {
	idx, ok := p.d.RuleIndex(name)
	if !ok {
		return nil, fmt.Errorf(ErrUnknownRule, p.d.Name(), name)
	}
	q := p.skip(0)
	p.resetFurthest(q)
	nodes, end, ok := p.matchRule(idx, q)
	if !ok {
		return nil, p.errorAt(q)
	}
	r := p.skip(end)
	if p.toks[r].Kind != token.EOF {
		return nil, &ParseError{
			Pos:     p.toks[r].Pos,
			Message: fmt.Sprintf(ErrTrailingInput, describe(p.toks[r]), name),
		}
	}
	out := p.trivia(0, q)
	out = append(out, nodes...)
	return append(out, p.trivia(end, r)...), nil
}

// skip returns the index of the first code token (or EOF) at or after pos.
func (p *Parser) skip(pos int) int {
	for pos < len(p.toks)-1 && !p.toks[pos].Kind.IsCode() {
		pos++
	}
	return pos
}

// trivia allocates leaves for the tokens in [from, to).
func (p *Parser) trivia(from, to int) []segment.ID {
	if from >= to {
		return nil
	}
	out := make([]segment.ID, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, p.arena.Leaf(p.toks[i], ""))
	}
	return out
}

// matchRule evaluates a rule at a code position with memoization.
// Left-recursive references fail instead of looping.
func (p *Parser) matchRule(idx, pos int) ([]segment.ID, int, bool) {
	key := memoKey{rule: idx, pos: pos}
	if e, ok := p.memo[key]; ok {
		if e.pending {
			return nil, pos, false
		}
		return e.nodes, e.end, e.ok
	}
	entry := &memoEntry{pending: true}
	p.memo[key] = entry

	rule := p.d.RuleAt(idx)
	nodes, end, ok := p.match(rule.Expr, pos)
	if ok && !rule.Transparent && len(nodes) > 0 {
		nodes = []segment.ID{p.arena.Branch(rule.Name, nodes)}
	}
	*entry = memoEntry{nodes: nodes, end: end, ok: ok}
	return nodes, end, ok
}

// match evaluates e starting at token index pos. On failure the returned
// position is meaningless and no input is consumed.
func (p *Parser) match(e grammar.Expr, pos int) ([]segment.ID, int, bool) {
	switch x := e.(type) {
	case grammar.Seq:
		var nodes []segment.ID
		cur := pos
		for _, item := range x.Items {
			n, end, ok := p.match(item, cur)
			if !ok {
				return nil, pos, false
			}
			nodes = append(nodes, n...)
			cur = end
		}
		return nodes, cur, true

	case grammar.OneOf:
		for _, alt := range x.Alts {
			if n, end, ok := p.match(alt, pos); ok {
				return n, end, true
			}
		}
		return nil, pos, false

	case grammar.Optional:
		if n, end, ok := p.match(x.Item, pos); ok {
			return n, end, true
		}
		return nil, pos, true

	case grammar.Repeat:
		var nodes []segment.ID
		cur, count := pos, 0
		for {
			n, end, ok := p.match(x.Item, cur)
			if !ok || end == cur {
				break
			}
			nodes = append(nodes, n...)
			cur = end
			count++
		}
		if count < x.Min {
			return nil, pos, false
		}
		return nodes, cur, true

	case grammar.Ref:
		idx, ok := p.d.RuleIndex(x.Name)
		if !ok {
			return nil, pos, false
		}
		q := p.skip(pos)
		n, end, ok := p.matchRule(idx, q)
		if !ok {
			return nil, pos, false
		}
		if len(n) == 0 {
			// Empty match: leave trivia for the caller.
			return nil, pos, true
		}
		return append(p.trivia(pos, q), n...), end, true

	default:
		return p.terminal(e, pos)
	}
}

// terminal matches a single code token.
func (p *Parser) terminal(e grammar.Expr, pos int) ([]segment.ID, int, bool) {
	q := p.skip(pos)
	tok := p.toks[q]
	typ, ok := p.accepts(e, tok)
	if !ok {
		p.fail(q, e)
		return nil, pos, false
	}
	nodes := p.trivia(pos, q)
	return append(nodes, p.arena.Leaf(tok, typ)), q + 1, true
}

// accepts reports whether tok satisfies the terminal e and the leaf type to use.
func (p *Parser) accepts(e grammar.Expr, tok token.Token) (string, bool) {
	switch x := e.(type) {
	case grammar.Keyword:
		if (tok.Kind == token.Keyword || tok.Kind == token.Identifier) && strings.EqualFold(tok.Raw, x.Word) {
			return TypeKeyword, true
		}
	case grammar.Symbol:
		if tok.Kind == token.Symbol && tok.Raw == x.Text {
			return symbolType(tok.Raw), true
		}
	case grammar.Match:
		return p.acceptsClass(x.Class, tok)
	}
	return "", false
}

func (p *Parser) acceptsClass(c grammar.Class, tok token.Token) (string, bool) {
	switch c {
	case grammar.ClassIdentifier:
		switch {
		case tok.Kind == token.Identifier && isQuoted(tok.Raw):
			return TypeQuotedIdentifier, true
		case tok.Kind == token.Identifier:
			return TypeIdentifier, true
		case tok.Kind == token.Keyword && !p.d.IsReserved(tok.Raw):
			return TypeIdentifier, true
		}
	case grammar.ClassKeyword:
		if tok.Kind == token.Keyword {
			return TypeKeyword, true
		}
	case grammar.ClassLiteral:
		if tok.Kind == token.Literal {
			return literalType(tok.Raw), true
		}
	case grammar.ClassNumber:
		if tok.Kind == token.Literal && literalType(tok.Raw) == TypeNumericLiteral {
			return TypeNumericLiteral, true
		}
	case grammar.ClassString:
		if tok.Kind == token.Literal && literalType(tok.Raw) == TypeStringLiteral {
			return TypeStringLiteral, true
		}
	}
	return "", false
}

// =============================================================================
// Error recovery
// =============================================================================

func (p *Parser) resetFurthest(pos int) {
	p.furthest = pos
	clear(p.expected)
}

func (p *Parser) fail(pos int, e grammar.Expr) {
	switch {
	case pos > p.furthest:
		p.furthest = pos
		clear(p.expected)
		p.expected[e.String()] = true
	case pos == p.furthest:
		p.expected[e.String()] = true
	}
}

func (p *Parser) errorAt(start int) *ParseError {
	at := p.furthest
	if at < start {
		at = start
	}
	return &ParseError{
		Pos:     p.toks[at].Pos,
		Message: fmt.Sprintf(ErrUnexpectedToken, describe(p.toks[at]), p.expectation()),
	}
}

func (p *Parser) expectation() string {
	if len(p.expected) == 0 {
		return "a statement"
	}
	list := make([]string, 0, len(p.expected))
	for k := range p.expected {
		list = append(list, k)
	}
	sort.Strings(list)
	if len(list) > 6 {
		list = append(list[:6], "...")
	}
	if len(list) == 1 {
		return list[0]
	}
	return "one of " + strings.Join(list, ", ")
}

// unparsable wraps the tokens from start up to the next semicolon at bracket
// depth zero (or the end of input) in an unparsable segment. Trailing trivia
// stays outside the region.
func (p *Parser) unparsable(start int) (segment.ID, int, *ParseError) {
	depth := 0
	end := start
	lastCode := start
scan:
	for ; p.toks[end].Kind != token.EOF; end++ {
		tok := p.toks[end]
		if tok.Kind == token.Symbol {
			switch tok.Raw {
			case "(", "[":
				depth++
			case ")", "]":
				if depth > 0 {
					depth--
				}
			case ";":
				if depth == 0 {
					break scan
				}
			}
		}
		if tok.Kind.IsCode() {
			lastCode = end
		}
	}
	end = lastCode + 1

	var raw strings.Builder
	leaves := make([]segment.ID, 0, end-start)
	for i := start; i < end; i++ {
		leaves = append(leaves, p.arena.Leaf(p.toks[i], ""))
		raw.WriteString(p.toks[i].Raw)
	}

	msg := fmt.Sprintf(ErrUnparsable, truncate(raw.String(), 40))
	if p.furthest >= start && len(p.expected) > 0 {
		msg += fmt.Sprintf(": "+ErrUnexpectedToken, describe(p.toks[p.furthest]), p.expectation())
	}
	perr := &ParseError{Pos: p.toks[start].Pos, Message: msg}
	return p.arena.Branch(segment.TypeUnparsable, leaves), end, perr
}

// =============================================================================
// Helpers
// =============================================================================

func isSymbol(tok token.Token, s string) bool {
	return tok.Kind == token.Symbol && tok.Raw == s
}

func isQuoted(raw string) bool {
	if raw == "" {
		return false
	}
	switch raw[0] {
	case '"', '`', '[':
		return true
	}
	return false
}

func literalType(raw string) string {
	if raw != "" && (raw[0] >= '0' && raw[0] <= '9' || raw[0] == '.') {
		return TypeNumericLiteral
	}
	return TypeStringLiteral
}

// LeafType returns the segment type the parser gives a token outside any
// grammar context. The fix applier uses it for leaves built from
// replacement text.
func LeafType(tok token.Token) string {
	switch tok.Kind {
	case token.Keyword:
		return TypeKeyword
	case token.Identifier:
		if isQuoted(tok.Raw) {
			return TypeQuotedIdentifier
		}
		return TypeIdentifier
	case token.Literal:
		return literalType(tok.Raw)
	case token.Symbol:
		if tok.Raw == ";" {
			return segment.TypeTerminator
		}
		return symbolType(tok.Raw)
	case token.EOF:
		return TypeEndOfFile
	}
	return tok.Kind.String()
}

func symbolType(raw string) string {
	switch raw {
	case ",":
		return TypeComma
	case ".":
		return TypeDot
	case "(":
		return TypeStartBracket
	case ")":
		return TypeEndBracket
	}
	return token.Symbol.String()
}

func describe(tok token.Token) string {
	if tok.Kind == token.EOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", truncate(tok.Raw, 20))
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
