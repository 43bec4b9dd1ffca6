// Package rules registers the built-in lint rules with the lint package's
// default registry. Import it for its side effects:
//
//	import _ "github.com/leapstack-labs/leaplint/pkg/lint/rules"
//
// Registration follows package import order, which fixes the order rules
// are evaluated in and the order their fixes are applied.
package rules

import (
	// Rule groups, one package per category.
	_ "github.com/leapstack-labs/leaplint/pkg/lint/rules/aliasing"
	_ "github.com/leapstack-labs/leaplint/pkg/lint/rules/ambiguous"
	_ "github.com/leapstack-labs/leaplint/pkg/lint/rules/capitalisation"
	_ "github.com/leapstack-labs/leaplint/pkg/lint/rules/convention"
	_ "github.com/leapstack-labs/leaplint/pkg/lint/rules/layout"
	_ "github.com/leapstack-labs/leaplint/pkg/lint/rules/structure"
)
