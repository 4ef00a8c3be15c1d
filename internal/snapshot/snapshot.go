// Package snapshot stores a checked program on disk. The front-end writes one
// snapshot per compilation; the classifier reads it back into a
// checker.Program without re-running the type checker.
package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"tsluau/internal/ast"
	"tsluau/internal/checker"
	"tsluau/internal/project"
	"tsluau/internal/source"
	"tsluau/internal/symbols"
	"tsluau/internal/types"
)

// SchemaVersion is bumped whenever Payload changes shape.
const SchemaVersion uint16 = 1

// ErrSchema reports a snapshot written by an incompatible version.
var ErrSchema = errors.New("snapshot: schema version mismatch")

// Payload is the on-disk form of a program.
type Payload struct {
	Schema     uint16            `msgpack:"schema"`
	Package    string            `msgpack:"package"`
	Files      []FileRecord      `msgpack:"files"`
	Nodes      []ast.Node        `msgpack:"nodes"`
	Types      []types.Type      `msgpack:"types"`
	Signatures []types.Signature `msgpack:"sigs"`
	Symbols    []symbols.Symbol  `msgpack:"symbols"`
	NodeTypes  []NodeType        `msgpack:"nodeTypes"`
}

// FileRecord is one source file; its position in Payload.Files is its FileID.
type FileRecord struct {
	Path    string           `msgpack:"path"`
	Content []byte           `msgpack:"content"`
	Flags   source.FileFlags `msgpack:"flags,omitempty"`
	Root    ast.NodeID       `msgpack:"root"`
}

type NodeType struct {
	Node ast.NodeID   `msgpack:"n"`
	Type types.TypeID `msgpack:"t"`
}

// Snapshot is a decoded, validated program.
type Snapshot struct {
	Package string
	Program *checker.Program
	Files   *source.FileSet
	// Digest fingerprints the encoded bytes.
	Digest project.Digest
}

// FromProgram captures prog and the files its spans point into. roots[i]
// is the source-file node of the file with FileID i.
func FromProgram(pkg string, prog *checker.Program, fs *source.FileSet) (*Payload, error) {
	if prog == nil || fs == nil {
		return nil, fmt.Errorf("snapshot: missing program or file set")
	}
	roots := prog.Files()
	if len(roots) != fs.Len() {
		return nil, fmt.Errorf("snapshot: %d file roots for %d files", len(roots), fs.Len())
	}
	p := &Payload{Schema: SchemaVersion, Package: pkg}
	for i, root := range roots {
		f := fs.Get(source.FileID(i))
		p.Files = append(p.Files, FileRecord{Path: f.Path, Content: f.Content, Flags: f.Flags, Root: root})
	}
	p.Nodes = prog.Nodes().Nodes.Slice()
	p.Types, p.Signatures = prog.Types().Data()
	p.Symbols = prog.Symbols().Data()
	for node, typ := range prog.NodeTypes() {
		p.NodeTypes = append(p.NodeTypes, NodeType{Node: node, Type: typ})
	}
	sortNodeTypes(p.NodeTypes)
	return p, nil
}

// Encode writes p to w.
func Encode(w io.Writer, p *Payload) error {
	enc := msgpack.NewEncoder(w)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	return nil
}

// Decode reads, validates and rebuilds a snapshot from r.
func Decode(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read: %w", err)
	}
	var p Payload
	if err := msgpack.NewDecoder(bytes.NewReader(data)).Decode(&p); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	if p.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchema, p.Schema, SchemaVersion)
	}
	snap, err := p.Build()
	if err != nil {
		return nil, err
	}
	snap.Digest = project.DigestOf(data)
	return snap, nil
}

// Build validates p and rebuilds the program tables.
func (p *Payload) Build() (*Snapshot, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	in, err := types.Restore(p.Types, p.Signatures)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	nodes := ast.NewBuilder(ast.Hints{Nodes: uint(len(p.Nodes))})
	for _, n := range p.Nodes {
		nodes.Nodes.Allocate(n)
	}
	prog := checker.NewProgram(nodes, in, symbols.Restore(p.Symbols))
	fs := source.NewFileSet()
	for _, f := range p.Files {
		fs.Add(f.Path, f.Content, f.Flags)
		prog.AddFile(f.Root)
	}
	for _, nt := range p.NodeTypes {
		prog.SetType(nt.Node, nt.Type)
	}
	return &Snapshot{Package: p.Package, Program: prog, Files: fs}, nil
}

// Write stores p at path atomically.
func Write(path string, p *Payload) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "snap-*")
	if err != nil {
		return err
	}
	defer func() {
		// already renamed on success
		_ = os.Remove(f.Name())
	}()
	if err := Encode(f, p); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// Read loads the snapshot stored at path.
func Read(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()
	snap, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}
