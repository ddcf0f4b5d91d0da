package scope

import (
	"fmt"

	"github.com/leapstack-labs/sollint/pkg/ast"
)

// Frame is one lexical scope level. Its declarations only grow while it is
// open and it is never reopened once popped.
type Frame struct {
	Index int        // creation order within the stack, starting at 0
	Kind  FrameKind  // construct that opened the frame
	Node  *ast.Node  // node that opened the frame, may be nil
	names map[string][]*Declaration
	order []*Declaration
	open  bool
}

func newFrame(index int, kind FrameKind, node *ast.Node) *Frame {
	return &Frame{
		Index: index,
		Kind:  kind,
		Node:  node,
		names: make(map[string][]*Declaration),
		open:  true,
	}
}

// Lookup returns the declarations of name in this frame, in registration order.
func (f *Frame) Lookup(name string) []*Declaration {
	return f.names[name]
}

// Declarations returns every declaration of the frame in registration order.
func (f *Frame) Declarations() []*Declaration {
	return f.order
}

// Open reports whether the frame is still on the stack.
func (f *Frame) Open() bool {
	return f.open
}

func (f *Frame) String() string {
	return fmt.Sprintf("%s#%d", f.Kind, f.Index)
}

func (f *Frame) add(d *Declaration) {
	f.names[d.Name] = append(f.names[d.Name], d)
	f.order = append(f.order, d)
}

// Stack mirrors the traversal's current nesting.
type Stack struct {
	frames []*Frame
	next   int
}

// NewStack creates an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

// Enter pushes a new empty frame and returns it.
func (s *Stack) Enter(kind FrameKind, node *ast.Node) *Frame {
	f := newFrame(s.next, kind, node)
	s.next++
	s.frames = append(s.frames, f)
	return f
}

// Exit pops the innermost frame. Popping an empty stack means enter and
// exit events were not paired and is reported as ErrScopeUnderflow.
func (s *Stack) Exit() (*Frame, error) {
	if len(s.frames) == 0 {
		return nil, fmt.Errorf("exitScope(): %w", ErrScopeUnderflow)
	}
	top := s.frames[len(s.frames)-1]
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
	top.open = false
	return top, nil
}

// Current returns the innermost frame.
func (s *Stack) Current() (*Frame, error) {
	if len(s.frames) == 0 {
		return nil, fmt.Errorf("currentFrame(): %w", ErrEmptyStack)
	}
	return s.frames[len(s.frames)-1], nil
}

// Chain returns the open frames from innermost to outermost. The slice is
// fresh but the frames are shared with the stack.
func (s *Stack) Chain() []*Frame {
	chain := make([]*Frame, len(s.frames))
	for i, f := range s.frames {
		chain[len(s.frames)-1-i] = f
	}
	return chain
}

// Depth returns the number of open frames.
func (s *Stack) Depth() int {
	return len(s.frames)
}

// Reset discards every frame and restarts creation indexes.
func (s *Stack) Reset() {
	for _, f := range s.frames {
		f.open = false
	}
	s.frames = nil
	s.next = 0
}
