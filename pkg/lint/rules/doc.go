// Package rules provides the lint rule implementations for sollint.
//
// Rules are organized by category:
//   - scoping: Rules about declaration visibility and ordering (SC01)
//
// To register all rules with the global lint registry, import this package
// with a blank identifier:
//
//	import _ "github.com/leapstack-labs/sollint/pkg/lint/rules"
//
// Individual rule categories can also be imported:
//
//	import _ "github.com/leapstack-labs/sollint/pkg/lint/rules/scoping"
package rules
