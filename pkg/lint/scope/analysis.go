package scope

import (
	"fmt"

	"github.com/leapstack-labs/sollint/pkg/ast"
)

// declKinds maps declarative node types to the kind they register.
var declKinds = map[ast.NodeType]DeclarationKind{
	ast.ContractStatement:        KindContract,
	ast.InterfaceStatement:       KindInterface,
	ast.LibraryStatement:         KindLibrary,
	ast.FunctionDeclaration:      KindFunction,
	ast.ModifierDeclaration:      KindModifier,
	ast.EventDeclaration:         KindEvent,
	ast.StructDeclaration:        KindStruct,
	ast.EnumDeclaration:          KindEnum,
	ast.StateVariableDeclaration: KindStateVariable,
	ast.VariableDeclarator:       KindVariable,
	ast.DeclarativeExpression:    KindVariable,
	ast.InformalParameter:        KindVariable,
}

// frameKinds maps scope-introducing node types to the frame they open.
var frameKinds = map[ast.NodeType]FrameKind{
	ast.Program:             FrameModule,
	ast.ContractStatement:   FrameContract,
	ast.InterfaceStatement:  FrameContract,
	ast.LibraryStatement:    FrameLibrary,
	ast.FunctionDeclaration: FrameFunction,
	ast.ModifierDeclaration: FrameFunction,
	ast.BlockStatement:      FrameBlock,
}

// memberHolders own DeclarativeExpressions and parameters that are
// members, not bindings.
var memberHolders = map[ast.NodeType]bool{
	ast.StructDeclaration:  true,
	ast.EventDeclaration:   true,
	ast.VariableDeclarator: true,
}

// IsUsage reports whether an Identifier node reads a binding. The name
// token of a declaration and the non-computed property of a member access
// are not usages.
func IsUsage(n *ast.Node) bool {
	if n == nil || n.Type != ast.Identifier {
		return false
	}
	p := n.Parent
	if p == nil {
		return true
	}
	if n.Field == ast.FieldID || n.Field == ast.FieldName {
		return false
	}
	switch p.Type {
	case ast.MemberExpression:
		return n.Field != "property" || p.Bool("computed")
	case ast.EnumDeclaration:
		return false
	}
	return true
}

// Analysis is the per-file resolution state. It must not be reused for
// another file.
type Analysis struct {
	stack    *Stack
	registry *Registry
	resolver *Resolver
	pending  []Reference
	results  []Result
}

// NewAnalysis creates a fresh analysis using policy, or DefaultPolicy when
// policy is nil.
func NewAnalysis(policy Policy) *Analysis {
	if policy == nil {
		policy = DefaultPolicy()
	}
	stack := NewStack()
	return &Analysis{
		stack:    stack,
		registry: NewRegistry(stack, policy),
		resolver: NewResolver(policy),
	}
}

// Stack returns the scope stack driven by the analysis.
func (a *Analysis) Stack() *Stack {
	return a.stack
}

// Registry returns the declaration registry of the analysis.
func (a *Analysis) Registry() *Registry {
	return a.registry
}

// Subscribe registers the analysis handlers on d.
func (a *Analysis) Subscribe(d *ast.Dispatcher) {
	for t := range frameKinds {
		d.On(t, a.onScope)
	}
	for t := range declKinds {
		if _, opens := frameKinds[t]; opens {
			continue // declared by onScope before the frame is pushed
		}
		d.OnEnter(t, a.declare)
	}
	d.OnEnter(ast.Identifier, a.Capture)
}

// Run walks root with a dedicated dispatcher and returns every resolution.
// The root is the module scope whatever its type; a root that would open a
// narrower frame, or none, gets a module frame around it.
func (a *Analysis) Run(root *ast.Node) ([]Result, error) {
	if err := ast.Validate(root, "analyze"); err != nil {
		return nil, err
	}
	d := ast.NewDispatcher()
	a.Subscribe(d)

	kind, opens := frameKinds[root.Type]
	implicit := !opens || kind != FrameModule
	if implicit {
		a.stack.Enter(FrameModule, root)
	}
	if err := d.Run(root); err != nil {
		return nil, err
	}
	if implicit {
		if _, err := a.stack.Exit(); err != nil {
			return nil, fmt.Errorf("%s: %w", root, err)
		}
	}
	return a.Finish()
}

// Capture queues an identifier usage with a snapshot of the open frames.
// Name tokens of declarations are ignored.
func (a *Analysis) Capture(n *ast.Node) error {
	if err := ast.Validate(n, "capture"); err != nil {
		return err
	}
	if !IsUsage(n) {
		return nil
	}
	a.pending = append(a.pending, Reference{
		Node:   n,
		Name:   n.Name,
		Offset: n.Start,
		Chain:  a.stack.Chain(),
	})
	return nil
}

// Finish resolves references still queued and returns all results in
// visiting order.
func (a *Analysis) Finish() ([]Result, error) {
	if err := a.flush(); err != nil {
		return nil, err
	}
	return a.results, nil
}

// Violations filters Finish's results down to violations.
func (a *Analysis) Violations() ([]Result, error) {
	results, err := a.Finish()
	if err != nil {
		return nil, err
	}
	var out []Result
	for _, r := range results {
		if r.Outcome == Violation {
			out = append(out, r)
		}
	}
	return out, nil
}

func (a *Analysis) onScope(ev ast.Event) error {
	n := ev.Node
	if ev.Exit() {
		if _, err := a.stack.Exit(); err != nil {
			return fmt.Errorf("%s: %w", n, err)
		}
		if a.stack.Depth() == 0 {
			return a.flush()
		}
		return nil
	}

	// Named scopes bind their name in the enclosing frame.
	if _, named := declKinds[n.Type]; named && n.DeclaredName() != "" {
		if err := a.declare(n); err != nil {
			return err
		}
	}
	a.stack.Enter(frameKinds[n.Type], n)
	return nil
}

func (a *Analysis) declare(n *ast.Node) error {
	kind, ok := declKinds[n.Type]
	if !ok {
		return nil
	}
	member := n.Type == ast.DeclarativeExpression || n.Type == ast.InformalParameter
	if member && n.Parent != nil && memberHolders[n.Parent.Type] {
		return nil
	}
	name := n.DeclaredName()
	if name == "" {
		// Unnamed parameters, constructors and fallbacks bind nothing.
		return nil
	}
	_, err := a.registry.Declare(name, kind, SpanOf(n), n)
	return err
}

// flush resolves every pending reference. Frames are complete by the time
// the root frame closes, so forward references see later declarations.
func (a *Analysis) flush() error {
	for _, ref := range a.pending {
		res, err := a.resolver.Resolve(ref)
		if err != nil {
			return err
		}
		a.results = append(a.results, res)
	}
	a.pending = a.pending[:0]
	return nil
}
