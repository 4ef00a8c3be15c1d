// Package testkit holds structural checks shared by package tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"tsluau/internal/ast"
	"tsluau/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on one file tree:
//  1. the root is a source file whose span is non-empty and within the content;
//  2. every node lies in the same file and inside its parent's span;
//  3. every node's recorded parent is the node it hangs under.
func CheckSpanInvariants(b *ast.Builder, root ast.NodeID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Get(root)
	if f == nil {
		return fmt.Errorf("file node not found")
	}
	if f.Kind != ast.NodeSourceFile {
		return fmt.Errorf("root is %s, not a source file", f.Kind)
	}
	if f.Span.End <= f.Span.Start {
		return fmt.Errorf("file span is empty: %v", f.Span)
	}
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.End > lenContent {
		return fmt.Errorf("file span end beyond content: %d > %d", f.Span.End, lenContent)
	}
	return checkChildren(b, root, f)
}

func checkChildren(b *ast.Builder, id ast.NodeID, n *ast.Node) error {
	kids := make([]ast.NodeID, 0, len(n.Params)+len(n.Children)+1)
	kids = append(kids, n.Params...)
	if n.Expr.IsValid() {
		kids = append(kids, n.Expr)
	}
	kids = append(kids, n.Children...)

	for _, kid := range kids {
		c := b.Get(kid)
		if c == nil {
			return fmt.Errorf("node %d: missing child %d", id, kid)
		}
		if c.Parent != id {
			return fmt.Errorf("node %d: parent is %d, want %d", kid, c.Parent, id)
		}
		if !n.Span.Contains(c.Span) {
			return fmt.Errorf("%s span %v is outside %s span %v", c.Kind, c.Span, n.Kind, n.Span)
		}
		if err := checkChildren(b, kid, c); err != nil {
			return err
		}
	}
	return nil
}
