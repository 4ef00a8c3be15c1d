package snapshot

import (
	"cmp"
	"fmt"
	"slices"

	"tsluau/internal/ast"
	"tsluau/internal/types"
)

// validate checks every cross-table reference so that lookups after Build
// never index out of range and the node and type walkers always terminate.
func (p *Payload) validate() error {
	nodeOK := func(id ast.NodeID) bool { return int(id) <= len(p.Nodes) }
	typeOK := func(id types.TypeID) bool { return int(id) <= len(p.Types) }

	for i, f := range p.Files {
		if !f.Root.IsValid() || !nodeOK(f.Root) || p.Nodes[f.Root-1].Kind != ast.NodeSourceFile {
			return fmt.Errorf("snapshot: file %d (%s) has no source-file root", i, f.Path)
		}
	}
	for i, n := range p.Nodes {
		id := i + 1
		if int(n.Span.File) >= len(p.Files) && len(p.Files) > 0 {
			return fmt.Errorf("snapshot: node %d points into unknown file %d", id, n.Span.File)
		}
		refs := append([]ast.NodeID{n.Parent, n.Expr}, n.Params...)
		refs = append(refs, n.Children...)
		for _, ref := range refs {
			if !nodeOK(ref) {
				return fmt.Errorf("snapshot: node %d references unknown node %d", id, ref)
			}
		}
	}
	for i, sig := range p.Signatures {
		if !nodeOK(sig.Decl) || !nodeOK(sig.Receiver) {
			return fmt.Errorf("snapshot: signature %d references unknown node", i+1)
		}
	}
	for i, t := range p.Types {
		if int(t.Symbol) > len(p.Symbols) {
			return fmt.Errorf("snapshot: type %d references unknown symbol %d", i+1, t.Symbol)
		}
		for _, sid := range t.Signatures {
			if !sid.IsValid() || int(sid) > len(p.Signatures) {
				return fmt.Errorf("snapshot: type %d references unknown signature %d", i+1, sid)
			}
		}
		for _, m := range t.Members {
			if !m.IsValid() || !typeOK(m) {
				return fmt.Errorf("snapshot: type %d references unknown member %d", i+1, m)
			}
		}
	}
	for i, s := range p.Symbols {
		for _, d := range s.Decls {
			if !d.IsValid() || !nodeOK(d) {
				return fmt.Errorf("snapshot: symbol %d (%s) references unknown declaration %d", i+1, s.Name, d)
			}
		}
	}
	for _, nt := range p.NodeTypes {
		if !nt.Node.IsValid() || !nodeOK(nt.Node) || !typeOK(nt.Type) {
			return fmt.Errorf("snapshot: bad node type entry %d -> %d", nt.Node, nt.Type)
		}
	}
	if err := p.checkParentChains(); err != nil {
		return err
	}
	if err := p.checkNodeTree(); err != nil {
		return err
	}
	return p.checkAcyclic()
}

const (
	white = iota
	grey
	black
)

// checkParentChains requires every parent chain to end at a node without a
// parent.
func (p *Payload) checkParentChains() error {
	state := make([]uint8, len(p.Nodes)+1)
	var path []ast.NodeID
	for i := range p.Nodes {
		path = path[:0]
		id := ast.NodeID(i + 1)
		for id.IsValid() && state[id] != black {
			if state[id] == grey {
				return fmt.Errorf("snapshot: node %d is its own ancestor", id)
			}
			state[id] = grey
			path = append(path, id)
			id = p.Nodes[id-1].Parent
		}
		for _, seen := range path {
			state[seen] = black
		}
	}
	return nil
}

// checkNodeTree rejects nodes reachable from themselves through parameters,
// wrapped expressions or children.
func (p *Payload) checkNodeTree() error {
	state := make([]uint8, len(p.Nodes)+1)
	var visit func(id ast.NodeID) error
	visit = func(id ast.NodeID) error {
		switch state[id] {
		case grey:
			return fmt.Errorf("snapshot: node %d contains itself", id)
		case black:
			return nil
		}
		state[id] = grey
		n := &p.Nodes[id-1]
		edges := append([]ast.NodeID{n.Expr}, n.Params...)
		edges = append(edges, n.Children...)
		for _, next := range edges {
			if !next.IsValid() {
				continue
			}
			if err := visit(next); err != nil {
				return err
			}
		}
		state[id] = black
		return nil
	}
	for i := range p.Nodes {
		if err := visit(ast.NodeID(i + 1)); err != nil {
			return err
		}
	}
	return nil
}

// checkAcyclic rejects composite types that contain themselves.
func (p *Payload) checkAcyclic() error {
	state := make([]uint8, len(p.Types)+1)
	var visit func(id types.TypeID) error
	visit = func(id types.TypeID) error {
		switch state[id] {
		case grey:
			return fmt.Errorf("snapshot: type %d is its own member", id)
		case black:
			return nil
		}
		state[id] = grey
		for _, m := range p.Types[id-1].Members {
			if err := visit(m); err != nil {
				return err
			}
		}
		state[id] = black
		return nil
	}
	for i := range p.Types {
		if err := visit(types.TypeID(i + 1)); err != nil {
			return err
		}
	}
	return nil
}

func sortNodeTypes(nts []NodeType) {
	slices.SortFunc(nts, func(a, b NodeType) int {
		return cmp.Compare(a.Node, b.Node)
	})
}
