// Package structure provides lint rules for redundant or constant query
// structure. These rules follow SQLFluff's ST (Structure) rule category.
//
// Rules in this package:
//   - ST01: Do not specify ELSE NULL in a CASE expression
//   - ST10: Redundant constant expression
package structure
