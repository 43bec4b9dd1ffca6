// Package lexer converts SQL text into a lossless token sequence.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/leaplint/pkg/token"
)

// symbolChars are the single characters that lex as symbols.
const symbolChars = "(),;.*+-/%=<>!|&^~:[]{}?@#$"

// Lex tokenizes source using cfg. The concatenated raw text of the result
// always equals source, and the last token is EOF.
func Lex(source string, cfg Config) ([]token.Token, error) {
	if !utf8.ValidString(source) {
		return nil, &LexError{Pos: invalidPos(source), Message: "invalid UTF-8 byte sequence"}
	}

	l := &lexer{
		src:       source,
		cfg:       cfg,
		operators: cfg.sortedOperators(),
		pos:       token.Position{Line: 1, Column: 1},
	}
	for l.off < len(l.src) {
		l.next()
	}
	l.tokens = append(l.tokens, token.Token{Kind: token.EOF, Pos: l.pos})
	return l.tokens, nil
}

type lexer struct {
	src       string
	off       int
	pos       token.Position
	cfg       Config
	operators []string
	tokens    []token.Token
}

// emit records the token spanning src[l.off:end] and advances past it.
func (l *lexer) emit(kind token.Kind, end int) {
	raw := l.src[l.off:end]
	l.tokens = append(l.tokens, token.Token{Kind: kind, Raw: raw, Pos: l.pos})
	l.pos = token.Advance(l.pos, raw)
	l.off = end
}

func (l *lexer) peek(i int) byte {
	if l.off+i >= len(l.src) {
		return 0
	}
	return l.src[l.off+i]
}

func (l *lexer) next() {
	ch := l.src[l.off]
	rest := l.src[l.off:]

	switch {
	case ch == '\n':
		l.emit(token.Newline, l.off+1)
	case ch == '\r':
		if l.peek(1) == '\n' {
			l.emit(token.Newline, l.off+2)
		} else {
			l.emit(token.Newline, l.off+1)
		}
	case ch == ' ' || ch == '\t' || ch == '\f' || ch == '\v':
		end := l.off
		for end < len(l.src) && isBlank(l.src[end]) {
			end++
		}
		l.emit(token.Whitespace, end)
	case l.lineComment(rest):
		end := strings.IndexAny(rest, "\r\n")
		if end < 0 {
			end = len(rest)
		}
		l.emit(token.Comment, l.off+end)
	case l.cfg.BlockCommentOpen != "" && strings.HasPrefix(rest, l.cfg.BlockCommentOpen):
		l.blockComment()
	case l.isStringQuote(ch):
		l.quoted(ch, token.Literal, l.cfg.BackslashEscapes)
	case l.cfg.DollarQuotedStrings && ch == '$' && l.dollarQuoted():
	case l.identifierQuote(ch) != 0:
		l.quoted(l.identifierQuote(ch), token.Identifier, false)
	case isDigit(ch) || (ch == '.' && isDigit(l.peek(1))):
		l.number()
	case isWordStart(rest):
		l.word()
	default:
		if op := l.operator(rest); op != "" {
			l.emit(token.Symbol, l.off+len(op))
			return
		}
		if strings.IndexByte(symbolChars, ch) >= 0 {
			l.emit(token.Symbol, l.off+1)
			return
		}
		l.unlexable()
	}
}

func (l *lexer) lineComment(rest string) bool {
	for _, marker := range l.cfg.LineComments {
		if strings.HasPrefix(rest, marker) {
			return true
		}
	}
	return false
}

func (l *lexer) blockComment() {
	open, closeTok := l.cfg.BlockCommentOpen, l.cfg.BlockCommentClose
	depth := 0
	i := l.off
	for i < len(l.src) {
		switch {
		case strings.HasPrefix(l.src[i:], open) && (depth == 0 || l.cfg.NestedBlockComments):
			depth++
			i += len(open)
		case strings.HasPrefix(l.src[i:], closeTok):
			depth--
			i += len(closeTok)
			if depth == 0 {
				l.emit(token.Comment, i)
				return
			}
		default:
			i++
		}
	}
	// Unterminated comment swallows the rest of the input.
	l.emit(token.Unlexable, len(l.src))
}

func (l *lexer) isStringQuote(ch byte) bool {
	for _, q := range l.cfg.StringQuotes {
		if q == ch {
			return true
		}
	}
	return false
}

func (l *lexer) identifierQuote(ch byte) byte {
	for _, q := range l.cfg.IdentifierQuotes {
		if q.Open == ch {
			return q.Close
		}
	}
	return 0
}

// quoted lexes a delimited literal. A doubled closing quote is an escape.
func (l *lexer) quoted(closeCh byte, kind token.Kind, backslash bool) {
	i := l.off + 1
	for i < len(l.src) {
		c := l.src[i]
		switch {
		case backslash && c == '\\':
			i += 2
			continue
		case c == closeCh:
			if i+1 < len(l.src) && l.src[i+1] == closeCh {
				i += 2
				continue
			}
			l.emit(kind, i+1)
			return
		}
		i++
	}
	l.emit(token.Unlexable, len(l.src))
}

// dollarQuoted lexes $tag$...$tag$. It reports false when the text at the
// cursor is not a dollar quote opener so other rules can try.
func (l *lexer) dollarQuoted() bool {
	rest := l.src[l.off:]
	end := strings.IndexByte(rest[1:], '$')
	if end < 0 {
		return false
	}
	tag := rest[:end+2]
	for _, r := range tag[1 : len(tag)-1] {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	closeAt := strings.Index(rest[len(tag):], tag)
	if closeAt < 0 {
		l.emit(token.Unlexable, len(l.src))
		return true
	}
	l.emit(token.Literal, l.off+len(tag)+closeAt+len(tag))
	return true
}

func (l *lexer) number() {
	i := l.off
	for i < len(l.src) && isDigit(l.src[i]) {
		i++
	}
	if i < len(l.src) && l.src[i] == '.' {
		i++
		for i < len(l.src) && isDigit(l.src[i]) {
			i++
		}
	}
	if i < len(l.src) && (l.src[i] == 'e' || l.src[i] == 'E') {
		j := i + 1
		if j < len(l.src) && (l.src[j] == '+' || l.src[j] == '-') {
			j++
		}
		if j < len(l.src) && isDigit(l.src[j]) {
			for j < len(l.src) && isDigit(l.src[j]) {
				j++
			}
			i = j
		}
	}
	l.emit(token.Literal, i)
}

func (l *lexer) word() {
	i := l.off
	for i < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[i:])
		if !isWordRune(r) {
			break
		}
		i += size
	}
	kind := token.Identifier
	if l.cfg.IsKeyword(l.src[l.off:i]) {
		kind = token.Keyword
	}
	l.emit(kind, i)
}

func (l *lexer) operator(rest string) string {
	for _, op := range l.operators {
		if strings.HasPrefix(rest, op) {
			return op
		}
	}
	return ""
}

// unlexable consumes characters up to the next point where a known token
// could start.
func (l *lexer) unlexable() {
	i := l.off
	for i < len(l.src) {
		if i > l.off && l.boundary(i) {
			break
		}
		_, size := utf8.DecodeRuneInString(l.src[i:])
		i += size
	}
	l.emit(token.Unlexable, i)
}

func (l *lexer) boundary(i int) bool {
	c := l.src[i]
	if isBlank(c) || c == '\n' || c == '\r' {
		return true
	}
	if strings.IndexByte(symbolChars, c) >= 0 || l.isStringQuote(c) || l.identifierQuote(c) != 0 {
		return true
	}
	return isWordStart(l.src[i:]) || isDigit(c)
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\f' || c == '\v'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isWordStart(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r == '_' || unicode.IsLetter(r)
}

func isWordRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func invalidPos(source string) token.Position {
	for i := 0; i < len(source); {
		r, size := utf8.DecodeRuneInString(source[i:])
		if r == utf8.RuneError && size <= 1 {
			return token.Advance(token.Position{Line: 1, Column: 1}, source[:i])
		}
		i += size
	}
	return token.Position{Line: 1, Column: 1}
}
