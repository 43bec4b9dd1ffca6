// Package layout provides lint rules for whitespace and line layout.
// These rules follow SQLFluff's LT (Layout) rule category.
//
// Rules in this package:
//   - LT01: Inappropriate spacing
//   - LT05: Line too long
//   - LT12: Files must end with a single trailing newline
//   - LT13: Files must not begin with newlines or whitespace
package layout
