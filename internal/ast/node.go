package ast

import (
	"fmt"

	"tsluau/internal/source"
)

type NodeKind uint8

const (
	NodeInvalid NodeKind = iota
	NodeSourceFile
	NodeIdentifier
	NodeParameter

	// function-like
	NodeFunctionDecl
	NodeMethodDecl
	NodeMethodSignature
	NodeFunctionExpr
	NodeArrowFunction
	NodeConstructor
	NodeGetAccessor
	NodeSetAccessor
	NodeCallSignature
	NodeConstructSignature
	NodeFunctionType

	// declarations and type-level nodes
	NodeClassDecl
	NodeInterfaceDecl
	NodeTypeAlias
	NodeTypeLiteral
	NodePropertySignature
	NodePropertyDecl
	NodeVariableDecl

	// expressions
	NodeObjectLiteral
	NodePropertyAssignment
	NodeShorthandProperty
	NodeParenExpr
	NodeAsExpr
	NodeNonNullExpr
	NodeTypeAssertion
	NodeSatisfiesExpr
	NodePropertyAccess
	NodeElementAccess
	NodeCallExpr
	NodeAssignExpr
	NodeExprStmt
)

var nodeKindNames = [...]string{
	NodeInvalid:            "invalid",
	NodeSourceFile:         "source-file",
	NodeIdentifier:         "identifier",
	NodeParameter:          "parameter",
	NodeFunctionDecl:       "function-decl",
	NodeMethodDecl:         "method-decl",
	NodeMethodSignature:    "method-signature",
	NodeFunctionExpr:       "function-expr",
	NodeArrowFunction:      "arrow-function",
	NodeConstructor:        "constructor",
	NodeGetAccessor:        "get-accessor",
	NodeSetAccessor:        "set-accessor",
	NodeCallSignature:      "call-signature",
	NodeConstructSignature: "construct-signature",
	NodeFunctionType:       "function-type",
	NodeClassDecl:          "class-decl",
	NodeInterfaceDecl:      "interface-decl",
	NodeTypeAlias:          "type-alias",
	NodeTypeLiteral:        "type-literal",
	NodePropertySignature:  "property-signature",
	NodePropertyDecl:       "property-decl",
	NodeVariableDecl:       "variable-decl",
	NodeObjectLiteral:      "object-literal",
	NodePropertyAssignment: "property-assignment",
	NodeShorthandProperty:  "shorthand-property",
	NodeParenExpr:          "paren-expr",
	NodeAsExpr:             "as-expr",
	NodeNonNullExpr:        "non-null-expr",
	NodeTypeAssertion:      "type-assertion",
	NodeSatisfiesExpr:      "satisfies-expr",
	NodePropertyAccess:     "property-access",
	NodeElementAccess:      "element-access",
	NodeCallExpr:           "call-expr",
	NodeAssignExpr:         "assign-expr",
	NodeExprStmt:           "expr-stmt",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) && nodeKindNames[k] != "" {
		return nodeKindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", k)
}

// IsFunctionLike reports whether nodes of this kind declare parameters and a
// callable signature.
func (k NodeKind) IsFunctionLike() bool {
	return k >= NodeFunctionDecl && k <= NodeFunctionType
}

// IsSkippable reports whether the kind is a transparent expression wrapper
// that does not change the value it wraps.
func (k NodeKind) IsSkippable() bool {
	switch k {
	case NodeParenExpr, NodeAsExpr, NodeNonNullExpr, NodeTypeAssertion, NodeSatisfiesExpr:
		return true
	}
	return false
}

// ReceiverName is the parameter name reserved for receiver type annotations.
const ReceiverName = "this"

// Node is a single syntax node. Which fields are meaningful depends on Kind:
//
//   - function-like: Name (if any), Params;
//   - parameter, identifier, property access: Name;
//   - wrappers, property assignment, variable decl: Expr is the wrapped value
//     or initializer;
//   - call: Expr is the callee, Children the arguments;
//   - property/element access: Expr is the accessed object;
//   - containers (source file, class, interface, type literal, object literal): Children.
type Node struct {
	Kind     NodeKind    `msgpack:"k"`
	Span     source.Span `msgpack:"s"`
	Parent   NodeID      `msgpack:"p"`
	Name     string      `msgpack:"n,omitempty"`
	Params   []NodeID    `msgpack:"a,omitempty"`
	Children []NodeID    `msgpack:"c,omitempty"`
	Expr     NodeID      `msgpack:"e,omitempty"`
}
