// Package checker is the boundary to the type checker. The lowering passes
// only see the Oracle interface; Program is the table-backed implementation
// filled by the front-end snapshot or by tests.
package checker

import (
	"tsluau/internal/ast"
	"tsluau/internal/symbols"
	"tsluau/internal/types"
)

// Oracle answers the type questions the lowering passes ask. Implementations
// must be safe for concurrent readers once built.
type Oracle interface {
	// TypeOf returns the checked type of node, NoTypeID when unknown.
	TypeOf(node ast.NodeID) types.TypeID
	// IsNoReceiver reports whether t is the type that, on a receiver
	// parameter, declares the function has no receiver at all.
	IsNoReceiver(t types.TypeID) bool

	Nodes() *ast.Builder
	Types() *types.Interner
	Symbols() *symbols.Table
}
