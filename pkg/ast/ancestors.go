package ast

import "fmt"

// Criteria describes the ancestor FindParent looks for.
// Only the node type is supported.
type Criteria struct {
	Type NodeType
}

// GetParent returns the parent of n.
func GetParent(n *Node) (*Node, error) {
	if err := Validate(n, "getParent"); err != nil {
		return nil, err
	}
	return n.Parent, nil
}

// FindParent returns the closest ancestor of n matching criteria, or nil if
// the walk reaches the root without a match.
func FindParent(n *Node, criteria *Criteria) (*Node, error) {
	if err := Validate(n, "findParent"); err != nil {
		return nil, err
	}
	if criteria == nil {
		return nil, fmt.Errorf("findParent(): nil criteria: %w", ErrInvalidCriteria)
	}
	if criteria.Type == "" {
		return nil, fmt.Errorf("findParent(): only the node type is supported as search criteria: %w", ErrInvalidCriteria)
	}

	for cur := n.Parent; cur != nil; cur = cur.Parent {
		if err := Validate(cur, "findParent"); err != nil {
			return nil, err
		}
		if cur.Type == criteria.Type {
			return cur, nil
		}
	}
	return nil, nil
}

// FindParentByType is shorthand for FindParent(n, &Criteria{Type: t}).
func FindParentByType(n *Node, t NodeType) (*Node, error) {
	return FindParent(n, &Criteria{Type: t})
}

// Ancestors returns the parents of n from the closest to the root.
func Ancestors(n *Node) []*Node {
	var out []*Node
	if n == nil {
		return out
	}
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		out = append(out, cur)
	}
	return out
}
