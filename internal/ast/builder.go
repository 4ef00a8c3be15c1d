package ast

import (
	"tsluau/internal/source"
)

type Hints struct{ Nodes uint }

// Builder owns the node arena of one program.
type Builder struct {
	Nodes *Arena[Node]
}

func NewBuilder(hints Hints) *Builder {
	if hints.Nodes == 0 {
		hints.Nodes = 1 << 8
	}
	return &Builder{Nodes: NewArena[Node](hints.Nodes)}
}

// New allocates a bare node.
func (b *Builder) New(kind NodeKind, sp source.Span, name string) NodeID {
	return NodeID(b.Nodes.Allocate(Node{Kind: kind, Span: sp, Name: name}))
}

// Get returns the node or nil for an invalid id.
func (b *Builder) Get(id NodeID) *Node {
	if b == nil {
		return nil
	}
	return b.Nodes.Get(uint32(id))
}

// Kind returns the kind of id, NodeInvalid when id is unknown.
func (b *Builder) Kind(id NodeID) NodeKind {
	if n := b.Get(id); n != nil {
		return n.Kind
	}
	return NodeInvalid
}

// Parent returns the syntactic parent of id.
func (b *Builder) Parent(id NodeID) NodeID {
	if n := b.Get(id); n != nil {
		return n.Parent
	}
	return NoNodeID
}

func (b *Builder) setParent(parent NodeID, children ...NodeID) {
	for _, c := range children {
		if n := b.Get(c); n != nil {
			n.Parent = parent
		}
	}
}

// AddChildren appends children to the container id and links them back.
func (b *Builder) AddChildren(id NodeID, children ...NodeID) {
	n := b.Get(id)
	if n == nil {
		return
	}
	n.Children = append(n.Children, children...)
	b.setParent(id, children...)
}

// SetExpr sets the wrapped expression, initializer or callee of id.
func (b *Builder) SetExpr(id, expr NodeID) {
	n := b.Get(id)
	if n == nil {
		return
	}
	n.Expr = expr
	b.setParent(id, expr)
}

// Param allocates a parameter named name.
func (b *Builder) Param(name string, sp source.Span) NodeID {
	return b.New(NodeParameter, sp, name)
}

// Function allocates a function-like node of kind with the given parameters.
func (b *Builder) Function(kind NodeKind, name string, sp source.Span, params ...NodeID) NodeID {
	id := b.New(kind, sp, name)
	n := b.Get(id)
	n.Params = append(n.Params, params...)
	b.setParent(id, params...)
	return id
}

// Container allocates a node that owns children (source files, classes,
// interfaces, type literals, object literals).
func (b *Builder) Container(kind NodeKind, name string, sp source.Span, children ...NodeID) NodeID {
	id := b.New(kind, sp, name)
	b.AddChildren(id, children...)
	return id
}

// Wrap allocates a node of kind whose Expr is inner.
func (b *Builder) Wrap(kind NodeKind, name string, sp source.Span, inner NodeID) NodeID {
	id := b.New(kind, sp, name)
	b.SetExpr(id, inner)
	return id
}

// Call allocates a call expression.
func (b *Builder) Call(callee NodeID, sp source.Span, args ...NodeID) NodeID {
	id := b.Wrap(NodeCallExpr, "", sp, callee)
	b.AddChildren(id, args...)
	return id
}
