package scope

import "fmt"

// Policy maps every declaration kind to whether it is hoisted, i.e. visible
// throughout its enclosing frame regardless of textual order.
type Policy map[DeclarationKind]bool

// DefaultPolicy hoists named entities (functions, types, contracts) and
// orders variables: a variable or state variable must precede its uses.
func DefaultPolicy() Policy {
	return Policy{
		KindVariable:      false,
		KindStateVariable: false,
		KindFunction:      true,
		KindModifier:      true,
		KindEvent:         true,
		KindStruct:        true,
		KindEnum:          true,
		KindContract:      true,
		KindInterface:     true,
		KindLibrary:       true,
	}
}

// IsHoisted reports whether kind is hoisted. A kind missing from the
// policy is a configuration error.
func (p Policy) IsHoisted(kind DeclarationKind) (bool, error) {
	hoisted, ok := p[kind]
	if !ok {
		return false, fmt.Errorf("%s: %w", kind, ErrUnmappedKind)
	}
	return hoisted, nil
}
