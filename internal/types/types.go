package types

import (
	"fmt"

	"tsluau/internal/symbols"
)

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

func (id TypeID) IsValid() bool { return id != NoTypeID }

// Kind is the closed shape variant of a type. Every switch over Kind handles
// all three values.
type Kind uint8

const (
	// KindPlain is a leaf: anything that is not a union or an intersection.
	KindPlain Kind = iota
	KindUnion
	KindIntersection
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindUnion:
		return "union"
	case KindIntersection:
		return "intersection"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Flags carry primitive facts the lowering passes query.
type Flags uint16

const (
	// FlagVoid marks the void type. On a receiver parameter it is the
	// no-receiver sentinel.
	FlagVoid Flags = 1 << iota
	FlagAny
	FlagUnknown
	FlagObject
)

// Type is a compact descriptor produced by the type checker.
type Type struct {
	Kind       Kind             `msgpack:"k"`
	Flags      Flags            `msgpack:"f,omitempty"`
	Name       string           `msgpack:"n,omitempty"`
	Symbol     symbols.SymbolID `msgpack:"y,omitempty"`
	Signatures []SigID          `msgpack:"g,omitempty"`
	Members    []TypeID         `msgpack:"m,omitempty"`
}

// IsComposite reports whether t is a union or an intersection.
func (t *Type) IsComposite() bool {
	return t.Kind == KindUnion || t.Kind == KindIntersection
}
