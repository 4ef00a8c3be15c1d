package ast

// SkipUpwards climbs from id through transparent wrappers (parentheses,
// `as`, `!`, `<T>` and `satisfies`) and returns the outermost wrapper, or id
// itself when its parent is not a wrapper.
func (b *Builder) SkipUpwards(id NodeID) NodeID {
	for {
		parent := b.Parent(id)
		if !b.Kind(parent).IsSkippable() {
			return id
		}
		id = parent
	}
}

// SkipDownwards unwraps transparent wrappers starting at id.
func (b *Builder) SkipDownwards(id NodeID) NodeID {
	for {
		n := b.Get(id)
		if n == nil || !n.Kind.IsSkippable() {
			return id
		}
		id = n.Expr
	}
}

// ReceiverParam returns the first parameter of a function-like node when it
// is the receiver annotation (`this: T`).
func (b *Builder) ReceiverParam(id NodeID) NodeID {
	n := b.Get(id)
	if n == nil || !n.Kind.IsFunctionLike() || len(n.Params) == 0 {
		return NoNodeID
	}
	first := b.Get(n.Params[0])
	if first == nil || first.Kind != NodeParameter || first.Name != ReceiverName {
		return NoNodeID
	}
	return n.Params[0]
}

// Inspect walks the subtree rooted at id in pre-order: parameters, then the
// wrapped expression, then children. Returning false from fn prunes the
// subtree below the current node.
func (b *Builder) Inspect(id NodeID, fn func(NodeID, *Node) bool) {
	n := b.Get(id)
	if n == nil || !fn(id, n) {
		return
	}
	for _, p := range n.Params {
		b.Inspect(p, fn)
	}
	if n.Expr.IsValid() {
		b.Inspect(n.Expr, fn)
	}
	for _, c := range n.Children {
		b.Inspect(c, fn)
	}
}
