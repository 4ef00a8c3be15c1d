package types

import (
	"fmt"

	"fortio.org/safecast"

	"tsluau/internal/ast"
	"tsluau/internal/symbols"
)

// Builtins stores TypeIDs for the primitive types the classifier needs.
type Builtins struct {
	Void    TypeID
	Any     TypeID
	Unknown TypeID
}

// Interner owns every type and signature of one program.
type Interner struct {
	types    []Type
	sigs     []Signature
	builtins Builtins
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		types: make([]Type, 1, 64), // 0 is NoTypeID
		sigs:  make([]Signature, 1, 32),
	}
	in.builtins = Builtins{
		Void:    in.New(Type{Kind: KindPlain, Flags: FlagVoid, Name: "void"}),
		Any:     in.New(Type{Kind: KindPlain, Flags: FlagAny, Name: "any"}),
		Unknown: in.New(Type{Kind: KindPlain, Flags: FlagUnknown, Name: "unknown"}),
	}
	return in
}

func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// New stores t and returns its ID. Types are nominal: equal descriptors get
// distinct IDs.
func (in *Interner) New(t Type) TypeID {
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	t.Signatures = cloneSlice(t.Signatures)
	t.Members = cloneSlice(t.Members)
	in.types = append(in.types, t)
	return TypeID(n)
}

// Object describes a named (symbol-carrying) plain type with call signatures.
func (in *Interner) Object(name string, sym symbols.SymbolID, sigs ...SigID) TypeID {
	return in.New(Type{Kind: KindPlain, Flags: FlagObject, Name: name, Symbol: sym, Signatures: sigs})
}

// Union describes A | B | ...
func (in *Interner) Union(members ...TypeID) TypeID {
	return in.New(Type{Kind: KindUnion, Members: members})
}

// Intersection describes A & B & ...
func (in *Interner) Intersection(members ...TypeID) TypeID {
	return in.New(Type{Kind: KindIntersection, Members: members})
}

// NewSignature stores a call signature.
func (in *Interner) NewSignature(decl, receiver ast.NodeID) SigID {
	n, err := safecast.Conv[uint32](len(in.sigs))
	if err != nil {
		panic(fmt.Errorf("len(sigs) overflow: %w", err))
	}
	in.sigs = append(in.sigs, Signature{Decl: decl, Receiver: receiver})
	return SigID(n)
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (*Type, bool) {
	if in == nil || id == NoTypeID || int(id) >= len(in.types) {
		return nil, false
	}
	return &in.types[id], true
}

// Signature returns the signature for a SigID.
func (in *Interner) Signature(id SigID) (*Signature, bool) {
	if in == nil || id == NoSigID || int(id) >= len(in.sigs) {
		return nil, false
	}
	return &in.sigs[id], true
}

// CallSignatures returns the call signatures of id. Composite types have none
// of their own.
func (in *Interner) CallSignatures(id TypeID) []Signature {
	t, ok := in.Lookup(id)
	if !ok || len(t.Signatures) == 0 {
		return nil
	}
	out := make([]Signature, 0, len(t.Signatures))
	for _, sid := range t.Signatures {
		if sig, ok := in.Signature(sid); ok {
			out = append(out, *sig)
		}
	}
	return out
}

// IsVoid reports whether id is the void type.
func (in *Interner) IsVoid(id TypeID) bool {
	t, ok := in.Lookup(id)
	return ok && t.Flags&FlagVoid != 0
}

// Len reports the number of types excluding the sentinel.
func (in *Interner) Len() int { return len(in.types) - 1 }

// Data returns the type and signature tables without their sentinels.
func (in *Interner) Data() ([]Type, []Signature) {
	return in.types[1:], in.sigs[1:]
}

// Restore rebuilds an interner from Data output. The first entries must be
// the builtins, in the order NewInterner creates them.
func Restore(types []Type, sigs []Signature) (*Interner, error) {
	in := &Interner{
		types: make([]Type, 1, len(types)+1),
		sigs:  make([]Signature, 1, len(sigs)+1),
	}
	in.types = append(in.types, types...)
	in.sigs = append(in.sigs, sigs...)
	if len(in.types) < 4 || in.types[1].Flags&FlagVoid == 0 || in.types[2].Flags&FlagAny == 0 || in.types[3].Flags&FlagUnknown == 0 {
		return nil, fmt.Errorf("types: builtin prefix missing")
	}
	in.builtins = Builtins{Void: 1, Any: 2, Unknown: 3}
	return in, nil
}

func cloneSlice[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
