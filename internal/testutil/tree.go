package testutil

import (
	"sort"
	"strings"
	"testing"

	"github.com/leapstack-labs/sollint/pkg/ast"
)

// Tree assembles AST fixtures whose ranges are taken from a source string,
// so tests can describe nodes by the text they cover instead of offsets.
type Tree struct {
	t   testing.TB
	Src string
}

// NewTree returns a builder over src.
func NewTree(t testing.TB, src string) *Tree {
	t.Helper()
	return &Tree{t: t, Src: src}
}

// At returns the offset of the nth (0-based) occurrence of text.
func (b *Tree) At(text string, nth int) int {
	b.t.Helper()
	from := 0
	for i := 0; ; i++ {
		idx := strings.Index(b.Src[from:], text)
		if idx < 0 {
			b.t.Fatalf("occurrence %d of %q not found in %q", nth, text, b.Src)
		}
		if i == nth {
			return from + idx
		}
		from += idx + 1
	}
}

// Word returns the offset of the nth occurrence of name as a whole word.
func (b *Tree) Word(name string, nth int) int {
	b.t.Helper()
	seen := 0
	for off := 0; off <= len(b.Src)-len(name); off++ {
		if b.Src[off:off+len(name)] != name {
			continue
		}
		if off > 0 && isWordByte(b.Src[off-1]) {
			continue
		}
		if end := off + len(name); end < len(b.Src) && isWordByte(b.Src[end]) {
			continue
		}
		if seen == nth {
			return off
		}
		seen++
	}
	b.t.Fatalf("word %q occurrence %d not found in %q", name, nth, b.Src)
	return -1
}

// Node builds a node of type typ covering the nth occurrence of text.
func (b *Tree) Node(typ ast.NodeType, field, text string, nth int, children ...*ast.Node) *ast.Node {
	b.t.Helper()
	start := b.At(text, nth)
	return newNode(typ, field, "", start, start+len(text), children)
}

// Named is Node with a declared name.
func (b *Tree) Named(typ ast.NodeType, field, name, text string, nth int, children ...*ast.Node) *ast.Node {
	b.t.Helper()
	n := b.Node(typ, field, text, nth, children...)
	n.Name = name
	return n
}

// Ident builds an Identifier over the nth whole-word occurrence of name.
func (b *Tree) Ident(field, name string, nth int) *ast.Node {
	b.t.Helper()
	start := b.Word(name, nth)
	return newNode(ast.Identifier, field, name, start, start+len(name), nil)
}

// Root wraps children in a Program spanning the whole source and links
// parent pointers.
func (b *Tree) Root(children ...*ast.Node) *ast.Node {
	return ast.Link(newNode(ast.Program, "", "", 0, len(b.Src), children))
}

func newNode(typ ast.NodeType, field, name string, start, end int, children []*ast.Node) *ast.Node {
	sort.SliceStable(children, func(i, j int) bool {
		return children[i].Start < children[j].Start
	})
	return &ast.Node{
		Type:     typ,
		Start:    start,
		End:      end,
		Field:    field,
		Name:     name,
		Children: children,
	}
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
