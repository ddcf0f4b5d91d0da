package lint

import (
	"fmt"

	"github.com/leapstack-labs/sollint/pkg/ast"
	"github.com/leapstack-labs/sollint/pkg/source"
	"github.com/leapstack-labs/sollint/pkg/token"
)

// File is the per-file analysis input: the source text, its position
// index and the decoded tree. Rules must not retain it after CheckFile.
type File struct {
	Path   string
	Source *source.Index
	Root   *ast.Node
}

// NewFile validates root and indexes text.
func NewFile(path, text string, root *ast.Node) (*File, error) {
	if err := ast.Validate(root, "newFile"); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if !root.IsRoot() {
		return nil, fmt.Errorf("%s: newFile(): %s is not a root: %w", path, root, ast.ErrMalformedNode)
	}
	return &File{
		Path:   path,
		Source: source.NewIndex(text),
		Root:   root,
	}, nil
}

// Pos returns the position of the first character of n.
func (f *File) Pos(n *ast.Node) token.Position {
	return f.Source.Position(n.Start)
}

// EndPos returns the position of the last character of n.
func (f *File) EndPos(n *ast.Node) token.Position {
	return f.Source.EndPosition(n.End)
}
