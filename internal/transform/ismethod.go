package transform

import (
	"tsluau/internal/ast"
	"tsluau/internal/diag"
	"tsluau/internal/symbols"
	"tsluau/internal/types"
)

const mixedCallShapeMsg = "function type mixes method and callback definitions; all definitions must either be methods or callbacks"

// verdict aggregates the shapes seen across the definitions of one callee.
type verdict struct {
	method   bool
	callback bool
}

func (v *verdict) add(isMethod bool) {
	if isMethod {
		v.method = true
	} else {
		v.callback = true
	}
}

func (v verdict) mixed() bool { return v.method && v.callback }

// IsMethodDeclaration reports whether decl is declared method-shaped. Rules,
// first match wins:
//  1. a leading `this` parameter decides, unless its type is the no-receiver type;
//  2. free function declarations are callbacks;
//  3. class/interface methods are methods;
//  4. function expressions assigned to an object-literal property are methods;
//  5. everything else, arrow functions included, is a callback.
func IsMethodDeclaration(st *State, decl ast.NodeID) bool {
	n := st.nodes.Get(decl)
	if n == nil || !n.Kind.IsFunctionLike() {
		return false
	}
	if recv := st.nodes.ReceiverParam(decl); recv.IsValid() {
		return !st.isNoReceiver(st.TypeOf(recv))
	}
	switch n.Kind {
	case ast.NodeFunctionDecl:
		return false
	case ast.NodeMethodDecl, ast.NodeMethodSignature:
		return true
	case ast.NodeFunctionExpr:
		return st.isObjectLiteralMember(decl)
	default:
		return false
	}
}

// isObjectLiteralMember matches `{ key: function () {} }` with any number of
// transparent wrappers around the function and around the property.
func (st *State) isObjectLiteralMember(fn ast.NodeID) bool {
	prop := st.nodes.Parent(st.nodes.SkipUpwards(fn))
	if st.nodes.Kind(prop) != ast.NodePropertyAssignment {
		return false
	}
	obj := st.nodes.Parent(st.nodes.SkipUpwards(prop))
	return st.nodes.Kind(obj) == ast.NodeObjectLiteral
}

// ClassifySignatures classifies every call signature of id and reports one
// mixed-shape diagnostic at node when they disagree.
func ClassifySignatures(st *State, node ast.NodeID, id types.TypeID) bool {
	v := st.classifySignatures(id, verdict{})
	st.reportMixed(node, v)
	return v.method
}

func (st *State) classifySignatures(id types.TypeID, v verdict) verdict {
	for _, sig := range st.types.CallSignatures(id) {
		switch {
		case sig.Receiver.IsValid():
			v.add(!st.isNoReceiver(st.TypeOf(sig.Receiver)))
		case sig.Decl.IsValid():
			v.add(IsMethodDeclaration(st, sig.Decl))
		}
	}
	return v
}

// classifySymbol decides the convention of one leaf type through the
// declarations of its symbol.
func (st *State) classifySymbol(node ast.NodeID, leaf types.TypeID, id symbols.SymbolID, sym *symbols.Symbol) bool {
	var v verdict
	for _, decl := range sym.Decls {
		if st.nodes.Kind(decl) == ast.NodeTypeLiteral {
			v = st.classifySignatures(leaf, v)
			continue
		}
		v.add(IsMethodDeclaration(st, decl))
	}
	if st.session.deferMixed {
		if v.mixed() {
			st.session.holdMixed(id, st.span(node))
		}
		return v.method
	}
	st.reportMixed(node, v)
	return v.method
}

func (st *State) reportMixed(node ast.NodeID, v verdict) {
	if !v.mixed() {
		return
	}
	diag.ReportWarning(st.session.reporter, diag.SemaMixedCallShape, st.span(node), mixedCallShapeMsg).Emit()
}

// IsMethod reports whether calling through node passes the calling object
// as an implicit first argument. node is a property or element access used
// as a callee, or a function-like declaration.
//
// Every leaf of the node's type that has a symbol is classified once per
// session; the answer is true as soon as one leaf is method-shaped and the
// remaining leaves are not consulted. Missing type information yields false.
func IsMethod(st *State, node ast.NodeID) bool {
	if st == nil || st.session == nil || st.types == nil {
		return false
	}
	result := false
	types.Walk(st.types, st.TypeOf(node), func(leaf types.TypeID, t *types.Type) {
		if result || !t.Symbol.IsValid() {
			return
		}
		sym := st.symbols.Get(t.Symbol)
		if sym == nil {
			return
		}
		result = st.session.methods.GetOrCompute(t.Symbol, func() bool {
			return st.classifySymbol(node, leaf, t.Symbol, sym)
		})
		if st.session.deferMixed {
			st.session.moveMixed(t.Symbol, st.span(node))
		}
	})
	return result
}
