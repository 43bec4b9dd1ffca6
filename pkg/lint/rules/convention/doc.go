// Package convention provides lint rules that pick one of several
// equivalent ways of writing the same thing. These rules follow SQLFluff's
// CV (Convention) rule category.
//
// Rules in this package:
//   - CV01: Consistent not-equal operator
//   - CV02: Use COALESCE instead of IFNULL or NVL
//   - CV04: Consistent row counting syntax
//   - CV05: Comparisons with NULL should use IS or IS NOT
package convention
