// Package core defines the shared language of sollint.
//
// This package contains:
//   - Severity levels and rule metadata (RuleInfo)
//   - Lint configuration types shared by the CLI and the lint framework
//
// The Golden Rule: pkg/core imports ONLY pkg/token and stdlib.
// All other packages depend on core, not the reverse.
package core
