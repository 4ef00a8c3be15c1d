package driver

import (
	"tsluau/internal/ast"
	"tsluau/internal/source"
	"tsluau/internal/trace"
	"tsluau/internal/transform"
)

// classifyFile asks IsMethod about every query node below the file root of
// st, in source order.
func classifyFile(st *transform.State, nodes *ast.Builder, fs *source.FileSet, path string, tracer trace.Tracer, span *trace.Span) []Decision {
	var out []Decision
	for _, id := range queryNodes(nodes, st.File()) {
		n := nodes.Get(id)
		method := transform.IsMethod(st, id)
		d := Decision{
			File:   path,
			Node:   id,
			Kind:   n.Kind.String(),
			Name:   n.Name,
			Span:   n.Span,
			Start:  n.Span.Start,
			End:    n.Span.End,
			Method: method,
		}
		if fs.Get(n.Span.File) != nil {
			start, _ := fs.Resolve(n.Span)
			d.Line, d.Col = start.Line, start.Col
		}
		if tracer.Level().ShouldEmit(trace.ScopeNode) {
			trace.Point(tracer, trace.ScopeNode, "is-method", verdictDetail(n, method), span.ID())
		}
		out = append(out, d)
	}
	return out
}

func verdictDetail(n *ast.Node, method bool) string {
	label := n.Kind.String()
	if n.Name != "" {
		label += " " + n.Name
	}
	if method {
		return label + ": method"
	}
	return label + ": callback"
}

// queryNodes collects the nodes IsMethod is asked about: callees reached
// through a property or element access, and every function-like node.
func queryNodes(nodes *ast.Builder, root ast.NodeID) []ast.NodeID {
	var out []ast.NodeID
	seen := make(map[ast.NodeID]struct{})
	add := func(id ast.NodeID) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	nodes.Inspect(root, func(id ast.NodeID, n *ast.Node) bool {
		switch {
		case n.Kind == ast.NodeCallExpr:
			callee := nodes.SkipDownwards(n.Expr)
			switch nodes.Kind(callee) {
			case ast.NodePropertyAccess, ast.NodeElementAccess:
				add(callee)
			}
		case n.Kind.IsFunctionLike():
			add(id)
		}
		return true
	})
	return out
}
