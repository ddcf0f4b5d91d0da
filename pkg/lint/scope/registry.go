package scope

import (
	"fmt"

	"github.com/leapstack-labs/sollint/pkg/ast"
)

// Span is a half-open byte range [Start, End) in the source text.
type Span struct {
	Start int
	End   int
}

// SpanOf returns the range covered by n.
func SpanOf(n *ast.Node) Span {
	return Span{Start: n.Start, End: n.End}
}

// Declaration is a named binding registered into a frame. It is immutable
// once created.
type Declaration struct {
	Name  string
	Kind  DeclarationKind
	Frame *Frame // owning frame, not owned by the declaration
	Start int
	End   int
	Node  *ast.Node // declaring node, may be nil
}

// Contains reports whether offset lies inside the declaration's own range.
func (d *Declaration) Contains(offset int) bool {
	return offset >= d.Start && offset < d.End
}

func (d *Declaration) String() string {
	return fmt.Sprintf("%s %q@%d", d.Kind, d.Name, d.Start)
}

// Registry writes declarations into the current frame of a stack. It does
// not reject redeclarations: overloads share a name within one frame.
type Registry struct {
	stack  *Stack
	policy Policy
}

// NewRegistry creates a registry bound to stack. Kinds missing from policy
// are refused at declaration time.
func NewRegistry(stack *Stack, policy Policy) *Registry {
	return &Registry{stack: stack, policy: policy}
}

// Declare records name in the current frame.
func (r *Registry) Declare(name string, kind DeclarationKind, span Span, node *ast.Node) (*Declaration, error) {
	if name == "" {
		return nil, fmt.Errorf("declare(): %s at %d: %w", kind, span.Start, ErrEmptyName)
	}
	if _, err := r.policy.IsHoisted(kind); err != nil {
		return nil, fmt.Errorf("declare(%q): %w", name, err)
	}
	frame, err := r.stack.Current()
	if err != nil {
		return nil, fmt.Errorf("declare(%q): %w", name, err)
	}

	d := &Declaration{
		Name:  name,
		Kind:  kind,
		Frame: frame,
		Start: span.Start,
		End:   span.End,
		Node:  node,
	}
	frame.add(d)
	return d, nil
}

// Declarations returns the declarations registered in frame, in order.
func (r *Registry) Declarations(frame *Frame) []*Declaration {
	if frame == nil {
		return nil
	}
	return frame.Declarations()
}
