// Package lint provides the rule framework sollint runs over analyzed files.
//
// # Architecture
//
// The lint package is the shared contract between rules and their callers:
//
//  1. Root package (pkg/lint/): Diagnostic, Rule/FileRule interfaces, the global registry,
//     Config and the Analyzer that runs enabled rules over a File
//  2. Scope engine (pkg/lint/scope/): declaration registry and reference resolution
//  3. Rules (pkg/lint/rules/): concrete rules built on the scope engine
//
// # Rule Registration
//
// Rules are automatically registered via init() functions when their packages are imported:
//
//	import _ "github.com/leapstack-labs/sollint/pkg/lint/rules"
//
// # Rule Categories
//
//   - SC (Scope): Rules about declaration visibility and ordering
//
// # Using the Registry
//
//	infos := lint.AllRules()
//	rule, ok := lint.GetRuleByID("SC01")
//	scopeRules := lint.GetRulesByGroup("scope")
//
// # Configuration
//
// Use Config to control which rules are enabled and their severity:
//
//	config := lint.NewConfig()
//	config.Disable("SC01")
//	config.SetSeverity("SC01", core.SeverityError)
//	config.SetRuleOptions("SC01", map[string]any{"ignore": []string{"msg"}})
//
// # Creating Custom Rules
//
// Implement FileRule, or describe the rule with a RuleDef:
//
//	var MyRule = lint.RuleDef{
//		ID:          "MY01",
//		Name:        "my.custom_rule",
//		Group:       "custom",
//		Description: "My custom rule description",
//		Severity:    core.SeverityWarning,
//		Check:       checkMyRule,
//	}
//
//	func init() {
//		lint.Register(MyRule)
//	}
package lint
