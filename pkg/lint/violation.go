package lint

import (
	"fmt"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/segment"
	"github.com/leapstack-labs/leaplint/pkg/token"
)

// Violation is a lint finding against one segment.
type Violation struct {
	RuleID   string        `json:"rule_id"`
	Severity core.Severity `json:"severity"`
	Message  string        `json:"message"`
	Segment  segment.ID    `json:"-"`
	Span     token.Span    `json:"span"`
	Fix      *Fix          `json:"fix,omitempty"`
}

// Pos returns the start position of the violation.
func (v Violation) Pos() token.Position {
	return v.Span.Start
}

func (v Violation) String() string {
	return fmt.Sprintf("%s %s %s", v.Span.Start, v.RuleID, v.Message)
}

// EditOp is the kind of an elementary tree edit.
type EditOp int

// Edit operations.
const (
	// OpReplace replaces the target segment with segments built from Text.
	OpReplace EditOp = iota
	// OpInsertBefore inserts segments built from Text before the target.
	OpInsertBefore
	// OpInsertAfter inserts segments built from Text after the target.
	OpInsertAfter
	// OpDelete removes the target segment.
	OpDelete
)

func (op EditOp) String() string {
	switch op {
	case OpReplace:
		return "replace"
	case OpInsertBefore:
		return "insert_before"
	case OpInsertAfter:
		return "insert_after"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// MarshalText renders the operation by name.
func (op EditOp) MarshalText() ([]byte, error) {
	return []byte(op.String()), nil
}

// Edit is one elementary change to the tree. Text is literal SQL that is
// lexed (and reparsed when Target is a grammar branch) when applied.
type Edit struct {
	Op     EditOp     `json:"op"`
	Target segment.ID `json:"-"`
	Text   string     `json:"text,omitempty"`
}

// Fix is a set of edits proposed by one violation. The edits of a fix are
// applied together or not at all.
type Fix struct {
	ID     string `json:"id"`
	RuleID string `json:"rule_id"`
	Edits  []Edit `json:"edits"`
}

// ReplaceWith replaces target with text.
func ReplaceWith(target segment.ID, text string) Edit {
	return Edit{Op: OpReplace, Target: target, Text: text}
}

// InsertBefore inserts text before target.
func InsertBefore(target segment.ID, text string) Edit {
	return Edit{Op: OpInsertBefore, Target: target, Text: text}
}

// InsertAfter inserts text after target.
func InsertAfter(target segment.ID, text string) Edit {
	return Edit{Op: OpInsertAfter, Target: target, Text: text}
}

// Delete removes target.
func Delete(target segment.ID) Edit {
	return Edit{Op: OpDelete, Target: target}
}

// NewFix bundles edits into a fix. The engine fills in ID and RuleID.
func NewFix(edits ...Edit) *Fix {
	return &Fix{Edits: edits}
}

// RuleError reports a rule that failed or panicked while being evaluated.
// Other rules are unaffected.
type RuleError struct {
	RuleID string
	Err    error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %s: %v", e.RuleID, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}
