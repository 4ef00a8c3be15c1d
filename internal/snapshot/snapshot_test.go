package snapshot

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"tsluau/internal/ast"
	"tsluau/internal/checker"
	"tsluau/internal/source"
	"tsluau/internal/symbols"
	"tsluau/internal/testkit"
	"tsluau/internal/transform"
	"tsluau/internal/types"
)

const demoSource = "interface Foo { bar(): void }\nfoo.bar();\n"

// buildDemo builds `interface Foo { bar(): void }; foo.bar()`.
func buildDemo(t *testing.T) (*checker.Program, *source.FileSet, ast.NodeID) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.AddVirtual("demo.ts", []byte(demoSource))
	prog := checker.NewProgram(nil, nil, nil)
	b, in, syms := prog.Nodes(), prog.Types(), prog.Symbols()

	bar := b.Function(ast.NodeMethodSignature, "bar", source.Span{File: file, Start: 16, End: 27})
	iface := b.Container(ast.NodeInterfaceDecl, "Foo", source.Span{File: file, Start: 0, End: 29}, bar)
	obj := b.New(ast.NodeIdentifier, source.Span{File: file, Start: 30, End: 33}, "foo")
	acc := b.Wrap(ast.NodePropertyAccess, "bar", source.Span{File: file, Start: 30, End: 37}, obj)
	call := b.Call(acc, source.Span{File: file, Start: 30, End: 39})
	stmt := b.Wrap(ast.NodeExprStmt, "", source.Span{File: file, Start: 30, End: 40}, call)
	root := b.Container(ast.NodeSourceFile, "demo.ts", source.Span{File: file, Start: 0, End: 41}, iface, stmt)
	prog.AddFile(root)

	sym := syms.New("bar", symbols.SymbolMethod, bar)
	fn := in.Object("bar", sym, in.NewSignature(bar, ast.NoNodeID))
	prog.SetType(bar, fn)
	prog.SetType(acc, fn)
	prog.SetType(obj, in.Object("Foo", symbols.NoSymbolID))
	if err := testkit.CheckSpanInvariants(b, root, fs.Get(file)); err != nil {
		t.Fatalf("fixture: %v", err)
	}
	return prog, fs, acc
}

func TestRoundTripPreservesClassification(t *testing.T) {
	prog, fs, acc := buildDemo(t)
	p, err := FromProgram("demo", prog, fs)
	if err != nil {
		t.Fatalf("FromProgram: %v", err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	snap, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if snap.Package != "demo" || snap.Digest.IsZero() {
		t.Fatalf("unexpected header %q %s", snap.Package, snap.Digest)
	}
	if snap.Files.Len() != 1 || string(snap.Files.Get(0).Content) != demoSource {
		t.Fatalf("file contents not preserved")
	}
	if len(snap.Program.Files()) != 1 || snap.Program.Nodes().Kind(snap.Program.Files()[0]) != ast.NodeSourceFile {
		t.Fatalf("file roots not preserved")
	}
	if snap.Program.TypeOf(acc) != prog.TypeOf(acc) {
		t.Fatalf("node types not preserved")
	}
	sess := transform.NewSession(snap.Program, transform.Options{})
	if !transform.IsMethod(sess.State(snap.Program.Files()[0]), acc) {
		t.Fatalf("interface method should classify as method after round trip")
	}
}

func TestWriteRead(t *testing.T) {
	prog, fs, _ := buildDemo(t)
	p, err := FromProgram("demo", prog, fs)
	if err != nil {
		t.Fatalf("FromProgram: %v", err)
	}
	path := filepath.Join(t.TempDir(), "build", "program.snap")
	if err := Write(path, p); err != nil {
		t.Fatalf("Write: %v", err)
	}
	snap, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if snap.Program.Nodes().Nodes.Len() != prog.Nodes().Nodes.Len() {
		t.Fatalf("node count mismatch")
	}
}

func TestDecodeRejectsSchemaMismatch(t *testing.T) {
	prog, fs, _ := buildDemo(t)
	p, _ := FromProgram("demo", prog, fs)
	p.Schema = SchemaVersion + 1
	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := Decode(&buf); !errors.Is(err, ErrSchema) {
		t.Fatalf("expected ErrSchema, got %v", err)
	}
}

func TestBuildRejectsCyclicComposite(t *testing.T) {
	prog, fs, _ := buildDemo(t)
	p, _ := FromProgram("demo", prog, fs)
	id := types.TypeID(len(p.Types) + 1)
	p.Types = append(p.Types, types.Type{Kind: types.KindUnion, Members: []types.TypeID{id}})
	if _, err := p.Build(); err == nil {
		t.Fatalf("expected cycle error")
	}
}

func TestBuildRejectsCyclicParent(t *testing.T) {
	prog, fs, _ := buildDemo(t)
	p, _ := FromProgram("demo", prog, fs)
	paren := ast.NodeID(len(p.Nodes) + 1)
	p.Nodes = append(p.Nodes,
		ast.Node{Kind: ast.NodeParenExpr, Parent: paren, Expr: paren + 1},
		ast.Node{Kind: ast.NodeFunctionExpr, Parent: paren},
	)
	if _, err := p.Build(); err == nil {
		t.Fatalf("expected parent cycle error")
	}

	// two nodes naming each other as parent
	p, _ = FromProgram("demo", prog, fs)
	first := ast.NodeID(len(p.Nodes) + 1)
	p.Nodes = append(p.Nodes,
		ast.Node{Kind: ast.NodeParenExpr, Parent: first + 1},
		ast.Node{Kind: ast.NodeParenExpr, Parent: first},
	)
	if _, err := p.Build(); err == nil {
		t.Fatalf("expected two-node parent cycle error")
	}
}

func TestBuildRejectsCyclicChildren(t *testing.T) {
	prog, fs, _ := buildDemo(t)
	p, _ := FromProgram("demo", prog, fs)
	p.Nodes[0].Children = append(p.Nodes[0].Children, 1)
	if _, err := p.Build(); err == nil {
		t.Fatalf("expected child cycle error")
	}

	p, _ = FromProgram("demo", prog, fs)
	wrap := ast.NodeID(len(p.Nodes) + 1)
	p.Nodes = append(p.Nodes, ast.Node{Kind: ast.NodeParenExpr, Expr: wrap})
	if _, err := p.Build(); err == nil {
		t.Fatalf("expected self-wrapping expression error")
	}
}

func TestBuildRejectsDanglingReferences(t *testing.T) {
	prog, fs, _ := buildDemo(t)
	p, _ := FromProgram("demo", prog, fs)
	p.NodeTypes = append(p.NodeTypes, NodeType{Node: ast.NodeID(len(p.Nodes) + 5), Type: 1})
	if _, err := p.Build(); err == nil {
		t.Fatalf("expected dangling node error")
	}

	p, _ = FromProgram("demo", prog, fs)
	p.Symbols = append(p.Symbols, symbols.Symbol{Name: "ghost", Decls: []ast.NodeID{999}})
	if _, err := p.Build(); err == nil {
		t.Fatalf("expected dangling declaration error")
	}
}

func TestFromProgramRequiresRootPerFile(t *testing.T) {
	prog, fs, _ := buildDemo(t)
	fs.AddVirtual("extra.ts", nil)
	if _, err := FromProgram("demo", prog, fs); err == nil {
		t.Fatalf("expected root count error")
	}
}
