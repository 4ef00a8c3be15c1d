package types

// Walk calls visit once for every leaf (KindPlain) type reachable from id,
// descending into union and intersection members in order. Nested composites
// are flattened; a leaf reachable through several members is visited each
// time. Unknown IDs produce no visits.
func Walk(in *Interner, id TypeID, visit func(TypeID, *Type)) {
	t, ok := in.Lookup(id)
	if !ok {
		return
	}
	switch t.Kind {
	case KindPlain:
		visit(id, t)
	case KindUnion, KindIntersection:
		for _, member := range t.Members {
			Walk(in, member, visit)
		}
	}
}

// Leaves collects the IDs Walk visits.
func Leaves(in *Interner, id TypeID) []TypeID {
	var out []TypeID
	Walk(in, id, func(leaf TypeID, _ *Type) {
		out = append(out, leaf)
	})
	return out
}
