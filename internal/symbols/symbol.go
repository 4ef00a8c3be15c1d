package symbols

import (
	"tsluau/internal/ast"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolFunction
	SymbolMethod
	SymbolProperty
	SymbolVariable
	SymbolClass
	SymbolInterface
	SymbolTypeLiteral
	SymbolTypeAlias
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolFunction:
		return "function"
	case SymbolMethod:
		return "method"
	case SymbolProperty:
		return "property"
	case SymbolVariable:
		return "variable"
	case SymbolClass:
		return "class"
	case SymbolInterface:
		return "interface"
	case SymbolTypeLiteral:
		return "type-literal"
	case SymbolTypeAlias:
		return "type-alias"
	default:
		return "invalid"
	}
}

// Symbol groups every declaration of one named entity. Merged declarations
// (overloads, interface merging) appear in Decls in source order.
type Symbol struct {
	Name  string       `msgpack:"n"`
	Kind  SymbolKind   `msgpack:"k"`
	Decls []ast.NodeID `msgpack:"d,omitempty"`
}
