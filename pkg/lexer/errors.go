package lexer

import (
	"fmt"

	"github.com/leapstack-labs/leaplint/pkg/token"
)

// LexError is returned only for input that cannot be tokenized at all,
// such as invalid UTF-8. Malformed SQL never produces a LexError.
type LexError struct {
	Pos     token.Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}
