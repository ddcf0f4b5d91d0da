// Package ast defines the tree sollint analyzes.
//
// The tree is produced by an external parser and loaded from its JSON or
// YAML dump (see Decode). Every node carries a type discriminator, the
// half-open byte range [Start, End) it covers in the original source text,
// and a back-reference to its parent (nil only at the root).
package ast

import (
	"errors"
	"fmt"
)

// NodeType discriminates AST nodes. Types not listed below are still valid;
// they are walked but no rule subscribes to them.
type NodeType string

// Node types with scope or declaration semantics.
const (
	Program                  NodeType = "Program"
	ContractStatement        NodeType = "ContractStatement"
	LibraryStatement         NodeType = "LibraryStatement"
	InterfaceStatement       NodeType = "InterfaceStatement"
	FunctionDeclaration      NodeType = "FunctionDeclaration"
	ModifierDeclaration      NodeType = "ModifierDeclaration"
	EventDeclaration         NodeType = "EventDeclaration"
	BlockStatement           NodeType = "BlockStatement"
	VariableDeclaration      NodeType = "VariableDeclaration"
	VariableDeclarator       NodeType = "VariableDeclarator"
	StateVariableDeclaration NodeType = "StateVariableDeclaration"
	DeclarativeExpression    NodeType = "DeclarativeExpression"
	InformalParameter        NodeType = "InformalParameter"
	StructDeclaration        NodeType = "StructDeclaration"
	EnumDeclaration          NodeType = "EnumDeclaration"
	EnumValue                NodeType = "EnumValue"
	Identifier               NodeType = "Identifier"
	MemberExpression         NodeType = "MemberExpression"
	CallExpression           NodeType = "CallExpression"
	NameValueAssignment      NodeType = "NameValueAssignment"
	ExpressionStatement      NodeType = "ExpressionStatement"
	AssignmentExpression     NodeType = "AssignmentExpression"
	ReturnStatement          NodeType = "ReturnStatement"
	Literal                  NodeType = "Literal"
	Type                     NodeType = "Type"
)

// Field names that mark an Identifier as the name token of its parent.
const (
	FieldID   = "id"
	FieldName = "name"
)

var (
	// ErrMalformedNode is returned when a value does not satisfy the node contract.
	ErrMalformedNode = errors.New("malformed AST node")
	// ErrInvalidCriteria is returned when an ancestor search is given empty criteria.
	ErrInvalidCriteria = errors.New("invalid search criteria")
)

// Node is one vertex of the tree.
type Node struct {
	Type     NodeType
	Start    int    // 0-based byte offset of the first character
	End      int    // exclusive end offset
	Parent   *Node  // nil only at the root
	Field    string // key under which this node hangs in its parent
	Name     string // identifier text or declared name, if any
	Attrs    map[string]any
	Children []*Node // ordered by Start
}

// IsRoot reports whether n has no parent.
func (n *Node) IsRoot() bool {
	return n.Parent == nil
}

// Len returns the number of bytes the node spans.
func (n *Node) Len() int {
	return n.End - n.Start
}

// Contains reports whether offset falls inside the node's range.
func (n *Node) Contains(offset int) bool {
	return offset >= n.Start && offset < n.End
}

// Bool returns a boolean attribute, false if absent.
func (n *Node) Bool(key string) bool {
	b, _ := n.Attrs[key].(bool)
	return b
}

// ChildByField returns the first child stored under field.
func (n *Node) ChildByField(field string) *Node {
	for _, c := range n.Children {
		if c.Field == field {
			return c
		}
	}
	return nil
}

// ChildrenByField returns all children stored under field, in source order.
func (n *Node) ChildrenByField(field string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Field == field {
			out = append(out, c)
		}
	}
	return out
}

// DeclaredName returns the name a declarative node introduces: its own
// Name, the Name of an Identifier or DeclarativeExpression child stored
// under "id" or "name", or a scalar "id" attribute.
func (n *Node) DeclaredName() string {
	if n.Name != "" {
		return n.Name
	}
	for _, field := range []string{FieldID, FieldName} {
		c := n.ChildByField(field)
		if c != nil && (c.Type == Identifier || c.Type == DeclarativeExpression) {
			return c.Name
		}
	}
	if id, ok := n.Attrs[FieldID].(string); ok {
		return id
	}
	return ""
}

// NameNode returns the Identifier child that spells the declared name, if
// the parser emitted one.
func (n *Node) NameNode() *Node {
	for _, field := range []string{FieldID, FieldName} {
		if c := n.ChildByField(field); c != nil && c.Type == Identifier {
			return c
		}
	}
	return nil
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.Name != "" {
		return fmt.Sprintf("%s(%q)[%d:%d]", n.Type, n.Name, n.Start, n.End)
	}
	return fmt.Sprintf("%s[%d:%d]", n.Type, n.Start, n.End)
}

// Validate checks the node contract for op and returns an ErrMalformedNode
// naming op when it is violated.
func Validate(n *Node, op string) error {
	switch {
	case n == nil:
		return fmt.Errorf("%s(): nil is not a valid AST node: %w", op, ErrMalformedNode)
	case n.Type == "":
		return fmt.Errorf("%s(): node [%d:%d] has no type: %w", op, n.Start, n.End, ErrMalformedNode)
	case n.Start < 0 || n.End < n.Start:
		return fmt.Errorf("%s(): %s has invalid range: %w", op, n, ErrMalformedNode)
	}
	return nil
}

// Link sets Parent on every descendant of root and clears it on root.
// Builders that assemble trees by hand call it once before analysis.
func Link(root *Node) *Node {
	if root == nil {
		return nil
	}
	root.Parent = nil
	var link func(n *Node)
	link = func(n *Node) {
		for _, c := range n.Children {
			c.Parent = n
			link(c)
		}
	}
	link(root)
	return root
}
