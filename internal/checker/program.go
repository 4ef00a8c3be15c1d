package checker

import (
	"tsluau/internal/ast"
	"tsluau/internal/symbols"
	"tsluau/internal/types"
)

// Program is a checked program: syntax, types, symbols and the node→type
// table linking them.
type Program struct {
	nodes     *ast.Builder
	types     *types.Interner
	symbols   *symbols.Table
	nodeTypes map[ast.NodeID]types.TypeID
	files     []ast.NodeID
}

var _ Oracle = (*Program)(nil)

// NewProgram wraps the given tables. Nil tables are replaced by empty ones.
func NewProgram(nodes *ast.Builder, in *types.Interner, syms *symbols.Table) *Program {
	if nodes == nil {
		nodes = ast.NewBuilder(ast.Hints{})
	}
	if in == nil {
		in = types.NewInterner()
	}
	if syms == nil {
		syms = symbols.NewTable(0)
	}
	return &Program{
		nodes:     nodes,
		types:     in,
		symbols:   syms,
		nodeTypes: make(map[ast.NodeID]types.TypeID),
	}
}

// SetType records the checked type of node.
func (p *Program) SetType(node ast.NodeID, t types.TypeID) {
	if !node.IsValid() {
		return
	}
	p.nodeTypes[node] = t
}

// AddFile registers a source-file root node.
func (p *Program) AddFile(root ast.NodeID) {
	p.files = append(p.files, root)
}

// Files returns the source-file roots in registration order.
func (p *Program) Files() []ast.NodeID {
	return p.files
}

// NodeTypes returns the node→type table; callers must not modify it.
func (p *Program) NodeTypes() map[ast.NodeID]types.TypeID {
	return p.nodeTypes
}

func (p *Program) TypeOf(node ast.NodeID) types.TypeID {
	return p.nodeTypes[node]
}

func (p *Program) IsNoReceiver(t types.TypeID) bool {
	return p.types.IsVoid(t)
}

func (p *Program) Nodes() *ast.Builder     { return p.nodes }
func (p *Program) Types() *types.Interner  { return p.types }
func (p *Program) Symbols() *symbols.Table { return p.symbols }
