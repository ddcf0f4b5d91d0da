package scoping

import (
	"fmt"

	"github.com/leapstack-labs/sollint/pkg/core"
	"github.com/leapstack-labs/sollint/pkg/lint"
	"github.com/leapstack-labs/sollint/pkg/lint/scope"
)

func init() {
	lint.Register(NoUseBeforeDefine)
}

// RuleID identifies SC01 in configuration and diagnostics.
const RuleID = "SC01"

const defaultSeverity = core.SeverityError

// Option keys accepted by SC01.
const (
	OptionVariables = "variables"
	OptionIgnore    = "ignore"
)

// NoUseBeforeDefine reports identifiers referenced before the declaration
// they bind to.
var NoUseBeforeDefine = lint.RuleDef{
	ID:          RuleID,
	Name:        "scope.no-use-before-define",
	Group:       "scope",
	Description: "Variables and state variables must be declared before they are used.",
	Severity:    defaultSeverity,
	ConfigKeys:  []string{OptionVariables, OptionIgnore},
	Check:       checkNoUseBeforeDefine,

	Rationale: `Functions, modifiers, events, structs, enums, contracts and libraries are
visible throughout their enclosing scope. Variables and state variables are not:
reading one before its declaration, or inside its own initializer, relies on a
default value and usually hides an ordering mistake.`,

	BadExample: `contract Vault {
    uint limit = cap * 2;
    uint cap = 100;
}`,

	GoodExample: `contract Vault {
    uint cap = 100;
    uint limit = cap * 2;
}`,

	Fix: `Move the declaration above its first use. Set "variables: false" to allow functions
to read state variables declared later in the contract.`,
}

func checkNoUseBeforeDefine(file *lint.File, opts map[string]any) ([]lint.Diagnostic, error) {
	checkVariables := lint.GetBoolOption(opts, OptionVariables, true)
	ignored := make(map[string]bool)
	for _, name := range lint.GetStringSliceOption(opts, OptionIgnore, nil) {
		ignored[name] = true
	}

	analysis := scope.NewAnalysis(nil)
	if _, err := analysis.Run(file.Root); err != nil {
		return nil, err
	}
	violations, err := analysis.Violations()
	if err != nil {
		return nil, err
	}

	var diagnostics []lint.Diagnostic
	for _, v := range violations {
		if ignored[v.Reference.Name] {
			continue
		}
		if !checkVariables && v.CrossesFunction() {
			continue
		}
		diagnostics = append(diagnostics, violationDiagnostic(file, v))
	}
	return diagnostics, nil
}

func violationDiagnostic(file *lint.File, v scope.Result) lint.Diagnostic {
	ref := v.Reference
	decl := v.Declaration
	refPos := file.Source.Position(ref.Offset)
	declPos := file.Source.Position(decl.Start)

	var msg string
	switch v.Reason {
	case scope.ReasonOwnInitializer:
		msg = fmt.Sprintf("%s '%s' is used at %s inside its own declaration at %s", decl.Kind, ref.Name, refPos, declPos)
	default:
		msg = fmt.Sprintf("%s '%s' is used at %s before it is declared at %s", decl.Kind, ref.Name, refPos, declPos)
	}

	return lint.Diagnostic{
		RuleID:           RuleID,
		Severity:         defaultSeverity,
		Message:          msg,
		FilePath:         file.Path,
		Pos:              refPos,
		EndPos:           file.Source.EndPosition(ref.Node.End),
		DocumentationURL: lint.BuildDocURL(RuleID),
		ImpactScore:      lint.ImpactHigh.Int(),
		RelatedInfo: []lint.RelatedInfo{{
			FilePath: file.Path,
			Pos:      declPos,
			Message:  fmt.Sprintf("'%s' is declared here", ref.Name),
		}},
	}
}
