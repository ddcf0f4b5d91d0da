package scope

import (
	"github.com/leapstack-labs/sollint/pkg/ast"
)

// Reference is one identifier usage awaiting resolution, together with the
// frames that were open when it was visited.
type Reference struct {
	Node   *ast.Node
	Name   string
	Offset int
	Chain  []*Frame // innermost first
}

// Outcome classifies a resolution.
type Outcome uint8

// Resolution outcomes.
const (
	Unresolved Outcome = iota // no visible declaration: builtin, import, typo
	Resolved
	Violation
)

func (o Outcome) String() string {
	switch o {
	case Resolved:
		return "resolved"
	case Violation:
		return "violation"
	default:
		return "unresolved"
	}
}

// Reason explains a Violation.
type Reason uint8

// Violation reasons.
const (
	ReasonNone Reason = iota
	// ReasonBeforeDefinition: the reference precedes the declaration.
	ReasonBeforeDefinition
	// ReasonOwnInitializer: the reference sits inside the declaration it binds to.
	ReasonOwnInitializer
)

// Result is the answer for one reference.
type Result struct {
	Reference   Reference
	Outcome     Outcome
	Declaration *Declaration // binding found, nil when unresolved
	Reason      Reason
	depth       int // index of the declaring frame in Reference.Chain
}

// CrossesFunction reports whether a function frame lies between the
// reference and the frame that declares its binding.
func (r Result) CrossesFunction() bool {
	if r.Declaration == nil {
		return false
	}
	for _, f := range r.Reference.Chain[:r.depth] {
		if f.Kind == FrameFunction {
			return true
		}
	}
	return false
}

// Resolver binds references to declarations.
type Resolver struct {
	policy Policy
}

// NewResolver creates a resolver applying policy.
func NewResolver(policy Policy) *Resolver {
	return &Resolver{policy: policy}
}

// Resolve walks ref's chain from the innermost frame outwards. The first
// frame declaring the name wins, which is what makes inner declarations
// shadow outer ones. Among same-name declarations of that frame the
// earliest one is used.
func (r *Resolver) Resolve(ref Reference) (Result, error) {
	for depth, frame := range ref.Chain {
		decls := frame.Lookup(ref.Name)
		if len(decls) == 0 {
			continue
		}
		d := earliest(decls)
		res := Result{Reference: ref, Declaration: d, Outcome: Resolved, depth: depth}

		hoisted, err := r.policy.IsHoisted(d.Kind)
		if err != nil {
			return Result{}, err
		}
		if hoisted {
			return res, nil
		}

		switch {
		case ref.Offset < d.Start:
			res.Outcome = Violation
			res.Reason = ReasonBeforeDefinition
		case d.Contains(ref.Offset):
			res.Outcome = Violation
			res.Reason = ReasonOwnInitializer
		}
		return res, nil
	}
	return Result{Reference: ref, Outcome: Unresolved}, nil
}

func earliest(decls []*Declaration) *Declaration {
	best := decls[0]
	for _, d := range decls[1:] {
		if d.Start < best.Start {
			best = d
		}
	}
	return best
}
