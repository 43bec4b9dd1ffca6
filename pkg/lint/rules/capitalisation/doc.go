// Package capitalisation provides lint rules for the letter case of
// keywords and function names. These rules follow SQLFluff's CP
// (Capitalisation) rule category.
//
// Rules in this package:
//   - CP01: Inconsistent capitalisation of keywords
//   - CP03: Inconsistent capitalisation of function names
package capitalisation
