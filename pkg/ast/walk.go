package ast

// Phase tells a visitor whether a node is being entered or left.
type Phase uint8

// Traversal phases.
const (
	PhaseEnter Phase = iota
	PhaseExit
)

func (p Phase) String() string {
	if p == PhaseExit {
		return "exit"
	}
	return "enter"
}

// VisitFunc is called twice per node: on enter before its children and on
// exit after them. A non-nil error stops the walk and is returned by Walk.
type VisitFunc func(n *Node, phase Phase) error

// Walk traverses the tree rooted at n depth-first, children in order.
// Every node is validated before it is visited.
func Walk(n *Node, fn VisitFunc) error {
	if err := Validate(n, "walk"); err != nil {
		return err
	}
	if err := fn(n, PhaseEnter); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := Walk(c, fn); err != nil {
			return err
		}
	}
	return fn(n, PhaseExit)
}

// Inspect calls fn for every node in pre-order. If fn returns false the
// node's children are skipped.
func Inspect(n *Node, fn func(n *Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Inspect(c, fn)
	}
}

// Count returns the number of nodes in the tree rooted at n.
func Count(n *Node) int {
	total := 0
	Inspect(n, func(*Node) bool {
		total++
		return true
	})
	return total
}
