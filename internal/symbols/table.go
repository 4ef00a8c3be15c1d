package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"tsluau/internal/ast"
)

// Table stores declared symbols in a compact arena.
type Table struct {
	data []Symbol
}

// NewTable creates a table with an optional capacity hint.
func NewTable(capacity uint) *Table {
	if capacity == 0 {
		capacity = 64
	}
	return &Table{
		data: make([]Symbol, 1, capacity+1), // index 0 reserved for NoSymbolID
	}
}

// New allocates a symbol and returns its ID.
func (t *Table) New(name string, kind SymbolKind, decls ...ast.NodeID) SymbolID {
	value, err := safecast.Conv[uint32](len(t.data))
	if err != nil {
		panic(fmt.Errorf("symbols arena overflow: %w", err))
	}
	t.data = append(t.data, Symbol{Name: name, Kind: kind, Decls: decls})
	return SymbolID(value)
}

// AddDecl records one more declaration for id.
func (t *Table) AddDecl(id SymbolID, decl ast.NodeID) {
	if sym := t.Get(id); sym != nil {
		sym.Decls = append(sym.Decls, decl)
	}
}

// Get returns a symbol pointer or nil for an invalid ID.
func (t *Table) Get(id SymbolID) *Symbol {
	if t == nil || !id.IsValid() || int(id) >= len(t.data) {
		return nil
	}
	return &t.data[id]
}

// Len reports number of stored symbols excluding the sentinel.
func (t *Table) Len() int { return len(t.data) - 1 }

// Data exposes the arena storage without the sentinel.
func (t *Table) Data() []Symbol {
	if len(t.data) <= 1 {
		return nil
	}
	return t.data[1:]
}

// Restore rebuilds a table from Data output.
func Restore(data []Symbol) *Table {
	t := NewTable(uint(len(data)))
	t.data = append(t.data, data...)
	return t
}
