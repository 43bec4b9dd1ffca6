// Package aliasing provides lint rules for table and column aliases.
// These rules follow SQLFluff's AL (Aliasing) rule category.
//
// Rules in this package:
//   - AL01: Implicit aliasing of tables
//   - AL02: Implicit aliasing of columns
package aliasing
