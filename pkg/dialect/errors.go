package dialect

import (
	"fmt"
	"strings"
)

// UnknownDialectError is returned when a dialect name is not registered.
type UnknownDialectError struct {
	Name string
}

func (e *UnknownDialectError) Error() string {
	return fmt.Sprintf("unknown dialect %q", e.Name)
}

// CycleError is returned when dialect inheritance forms a cycle.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "dialect inheritance cycle: " + strings.Join(e.Path, " -> ")
}

// DanglingRefError is returned when a grammar rule references a rule that
// the composed dialect does not define.
type DanglingRefError struct {
	Dialect string
	Rule    string
	Ref     string
}

func (e *DanglingRefError) Error() string {
	return fmt.Sprintf("dialect %q: rule %q references undefined rule %q", e.Dialect, e.Rule, e.Ref)
}
