// Package scope resolves identifier references against lexically scoped
// declarations and reports references that precede the declaration they
// bind to.
//
// One Analysis is built per file. It mirrors the traversal with a Stack of
// frames (module, contract/library, function, block), records declarations
// into the innermost frame, captures every identifier usage together with
// the frames visible at that point, and resolves the captured references
// once the root frame closes and every frame is complete.
package scope

import "errors"

var (
	// ErrScopeUnderflow is returned when a frame is popped from an empty stack.
	ErrScopeUnderflow = errors.New("scope stack underflow")
	// ErrEmptyStack is returned when the current frame is requested with no frame open.
	ErrEmptyStack = errors.New("no open scope")
	// ErrUnmappedKind is returned for a declaration kind missing from the hoisting policy.
	ErrUnmappedKind = errors.New("declaration kind has no hoisting policy")
	// ErrEmptyName is returned when a declaration has no name.
	ErrEmptyName = errors.New("declaration has no name")
)

// DeclarationKind classifies what a declaration introduces.
type DeclarationKind uint8

// Declaration kinds.
const (
	KindInvalid DeclarationKind = iota
	KindVariable
	KindStateVariable
	KindFunction
	KindModifier
	KindEvent
	KindStruct
	KindEnum
	KindContract
	KindInterface
	KindLibrary
)

func (k DeclarationKind) String() string {
	switch k {
	case KindVariable:
		return "variable"
	case KindStateVariable:
		return "state variable"
	case KindFunction:
		return "function"
	case KindModifier:
		return "modifier"
	case KindEvent:
		return "event"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindContract:
		return "contract"
	case KindInterface:
		return "interface"
	case KindLibrary:
		return "library"
	default:
		return "invalid"
	}
}

// FrameKind classifies the construct that opened a frame.
type FrameKind uint8

// Frame kinds.
const (
	FrameModule FrameKind = iota
	FrameContract
	FrameLibrary
	FrameFunction
	FrameBlock
)

func (k FrameKind) String() string {
	switch k {
	case FrameModule:
		return "module"
	case FrameContract:
		return "contract"
	case FrameLibrary:
		return "library"
	case FrameFunction:
		return "function"
	case FrameBlock:
		return "block"
	default:
		return "unknown"
	}
}
