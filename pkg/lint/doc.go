// Package lint provides the rule engine that runs lint rules over a parsed
// segment tree.
//
// # Architecture
//
// The package has three parts:
//
//  1. Rules: the Rule interface and RuleDef, a data-driven implementation
//  2. Registry: an ordered, process-wide table of rules populated from init()
//  3. Engine: a single tree traversal that dispatches every segment to the
//     rules that crawl its type, isolates rule failures and applies inline
//     noqa suppressions
//
// # Rule Registration
//
// Rules register themselves when their packages are imported:
//
//	import _ "github.com/leapstack-labs/leaplint/pkg/lint/rules"
//
// Registration order is the evaluation order. The fix applier resolves
// conflicting fixes in favour of the rule evaluated first, so the order is
// part of the observable behaviour and must stay stable.
//
// # Rule Categories
//
//   - AL (Aliasing): alias usage
//   - AM (Ambiguous): ambiguous constructs
//   - CP (Capitalisation): keyword and function name casing
//   - CV (Convention): coding conventions
//   - LT (Layout): whitespace and line layout
//   - ST (Structure): query structure
//
// # Configuration
//
// Use Config to control which rules run and their severity:
//
//	config := lint.NewConfig()
//	config.Disable("AM01")
//	config.SetSeverity("CV05", core.SeverityError)
//	config.SetRuleOptions("LT05", map[string]any{"max_line_length": 120})
//
// # Creating Custom Rules
//
// Implement the Rule interface or use RuleDef:
//
//	var MyRule = lint.RuleDef{
//		ID:          "MY01",
//		Name:        "my.custom_rule",
//		Group:       "custom",
//		Description: "My custom rule description",
//		Severity:    core.SeverityWarning,
//		Crawls:      []string{"select_clause"},
//		Check:       checkMyRule,
//	}
//
//	func init() {
//		lint.Register(MyRule)
//	}
package lint
