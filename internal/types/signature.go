package types

import "tsluau/internal/ast"

// SigID identifies a call signature inside the interner.
type SigID uint32

const NoSigID SigID = 0

func (id SigID) IsValid() bool { return id != NoSigID }

// Signature is one callable shape of a type. Decl is the declaring node when
// the checker knows it; Receiver is the explicit `this` parameter
// declaration, if any.
type Signature struct {
	Decl     ast.NodeID `msgpack:"d,omitempty"`
	Receiver ast.NodeID `msgpack:"r,omitempty"`
}
