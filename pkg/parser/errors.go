package parser

import (
	"fmt"

	"github.com/leapstack-labs/leaplint/pkg/token"
)

// ParseError reports a region the grammar could not match. It is non-fatal:
// it accompanies a tree in which the region is an unparsable segment.
type ParseError struct {
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Common error messages
const (
	ErrUnexpectedToken = "unexpected %s, expected %s"
	ErrUnparsable      = "unable to parse %q"
	ErrNoStatements    = "file contains no parsable statements"
	ErrTrailingInput   = "unexpected %s after %s"
	ErrUnknownRule     = "dialect %q has no grammar rule %q"
)
