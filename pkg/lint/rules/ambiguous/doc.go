// Package ambiguous provides lint rules for constructs whose meaning is
// unclear or redundant. These rules follow SQLFluff's AM (Ambiguous) rule
// category.
//
// Rules in this package:
//   - AM01: DISTINCT used together with GROUP BY
//   - AM02: UNION without DISTINCT or ALL
package ambiguous
