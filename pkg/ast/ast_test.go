package ast_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sollint/pkg/ast"
)

// contract C { function f() { g; } }
func sampleTree() (root, fn, ref *ast.Node) {
	ref = &ast.Node{Type: ast.Identifier, Start: 28, End: 29, Name: "g"}
	body := &ast.Node{Type: ast.BlockStatement, Start: 26, End: 33, Field: "body", Children: []*ast.Node{
		{Type: ast.ExpressionStatement, Start: 28, End: 30, Field: "body", Children: []*ast.Node{ref}},
	}}
	fn = &ast.Node{Type: ast.FunctionDeclaration, Start: 13, End: 33, Name: "f", Field: "body", Children: []*ast.Node{body}}
	contract := &ast.Node{Type: ast.ContractStatement, Start: 0, End: 35, Name: "C", Field: "body", Children: []*ast.Node{fn}}
	root = ast.Link(&ast.Node{Type: ast.Program, Start: 0, End: 35, Children: []*ast.Node{contract}})
	return root, fn, ref
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		node    *ast.Node
		wantErr bool
	}{
		{name: "nil", node: nil, wantErr: true},
		{name: "no type", node: &ast.Node{Start: 0, End: 1}, wantErr: true},
		{name: "negative start", node: &ast.Node{Type: ast.Identifier, Start: -1, End: 1}, wantErr: true},
		{name: "end before start", node: &ast.Node{Type: ast.Identifier, Start: 3, End: 1}, wantErr: true},
		{name: "empty range", node: &ast.Node{Type: ast.Program, Start: 0, End: 0}},
		{name: "valid", node: &ast.Node{Type: ast.Identifier, Start: 1, End: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ast.Validate(tt.node, "getLine")
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ast.ErrMalformedNode)
				assert.Contains(t, err.Error(), "getLine()")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestGetParent(t *testing.T) {
	root, fn, _ := sampleTree()

	parent, err := ast.GetParent(fn)
	require.NoError(t, err)
	assert.Equal(t, ast.ContractStatement, parent.Type)

	parent, err = ast.GetParent(root)
	require.NoError(t, err)
	assert.Nil(t, parent)

	_, err = ast.GetParent(nil)
	assert.ErrorIs(t, err, ast.ErrMalformedNode)
}

func TestFindParent(t *testing.T) {
	_, fn, ref := sampleTree()

	got, err := ast.FindParentByType(ref, ast.FunctionDeclaration)
	require.NoError(t, err)
	assert.Same(t, fn, got)

	got, err = ast.FindParent(ref, &ast.Criteria{Type: ast.Program})
	require.NoError(t, err)
	assert.True(t, got.IsRoot())

	got, err = ast.FindParentByType(ref, ast.LibraryStatement)
	require.NoError(t, err)
	assert.Nil(t, got, "search stops at the root")

	got, err = ast.FindParentByType(ref, ast.Identifier)
	require.NoError(t, err)
	assert.Nil(t, got, "the node itself is not its own ancestor")
}

func TestFindParent_InvalidCriteria(t *testing.T) {
	_, _, ref := sampleTree()

	_, err := ast.FindParent(ref, nil)
	assert.ErrorIs(t, err, ast.ErrInvalidCriteria)

	_, err = ast.FindParent(ref, &ast.Criteria{})
	assert.ErrorIs(t, err, ast.ErrInvalidCriteria)

	_, err = ast.FindParent(nil, &ast.Criteria{Type: ast.Program})
	assert.ErrorIs(t, err, ast.ErrMalformedNode)
}

func TestFindParent_MalformedAncestor(t *testing.T) {
	_, fn, ref := sampleTree()
	fn.End = -1

	_, err := ast.FindParentByType(ref, ast.Program)
	assert.ErrorIs(t, err, ast.ErrMalformedNode)
}

func TestAncestors(t *testing.T) {
	_, _, ref := sampleTree()

	var types []ast.NodeType
	for _, a := range ast.Ancestors(ref) {
		types = append(types, a.Type)
	}
	assert.Equal(t, []ast.NodeType{
		ast.ExpressionStatement,
		ast.BlockStatement,
		ast.FunctionDeclaration,
		ast.ContractStatement,
		ast.Program,
	}, types)
}

func TestWalk_Order(t *testing.T) {
	root, _, _ := sampleTree()

	var events []string
	err := ast.Walk(root, func(n *ast.Node, phase ast.Phase) error {
		events = append(events, phase.String()+":"+string(n.Type))
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"enter:Program",
		"enter:ContractStatement",
		"enter:FunctionDeclaration",
		"enter:BlockStatement",
		"enter:ExpressionStatement",
		"enter:Identifier",
		"exit:Identifier",
		"exit:ExpressionStatement",
		"exit:BlockStatement",
		"exit:FunctionDeclaration",
		"exit:ContractStatement",
		"exit:Program",
	}, events)
}

func TestWalk_StopsOnError(t *testing.T) {
	root, _, _ := sampleTree()
	stop := errors.New("stop")

	visited := 0
	err := ast.Walk(root, func(n *ast.Node, _ ast.Phase) error {
		visited++
		if n.Type == ast.FunctionDeclaration {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 3, visited)
}

func TestDispatcher(t *testing.T) {
	root, _, _ := sampleTree()
	d := ast.NewDispatcher()

	var log []string
	d.On(ast.FunctionDeclaration, func(ev ast.Event) error {
		if ev.Exit() {
			log = append(log, "fn-exit")
		} else {
			log = append(log, "fn-enter")
		}
		return nil
	})
	d.OnEnter(ast.Identifier, func(n *ast.Node) error {
		log = append(log, "ident:"+n.Name)
		return nil
	})
	d.OnExit(ast.ContractStatement, func(n *ast.Node) error {
		log = append(log, "contract-exit:"+n.Name)
		return nil
	})

	require.NoError(t, d.Run(root))
	assert.Equal(t, []string{"fn-enter", "ident:g", "fn-exit", "contract-exit:C"}, log)
	assert.ElementsMatch(t, []ast.NodeType{ast.FunctionDeclaration, ast.Identifier, ast.ContractStatement}, d.Subscribed())
}

func TestDispatcher_RejectsMalformedNode(t *testing.T) {
	root, _, ref := sampleTree()
	ref.Type = ""

	d := ast.NewDispatcher()
	err := d.Run(root)
	assert.ErrorIs(t, err, ast.ErrMalformedNode)
}

func TestNode_DeclaredName(t *testing.T) {
	id := &ast.Node{Type: ast.Identifier, Start: 5, End: 6, Name: "a", Field: ast.FieldID}
	decl := ast.Link(&ast.Node{Type: ast.VariableDeclarator, Start: 5, End: 10, Children: []*ast.Node{id}})

	assert.Equal(t, "a", decl.DeclaredName())
	assert.Same(t, id, decl.NameNode())

	named := &ast.Node{Type: ast.FunctionDeclaration, Name: "f"}
	assert.Equal(t, "f", named.DeclaredName())
	assert.Nil(t, named.NameNode())

	param := &ast.Node{Type: ast.InformalParameter, Attrs: map[string]any{ast.FieldID: "x"}}
	assert.Equal(t, "x", param.DeclaredName(), "scalar id attribute names the declaration")
	assert.Nil(t, param.NameNode())

	assert.True(t, decl.Contains(9))
	assert.False(t, decl.Contains(10))
}
