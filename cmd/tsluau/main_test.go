package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tsluau/internal/ast"
	"tsluau/internal/checker"
	"tsluau/internal/project"
	"tsluau/internal/snapshot"
	"tsluau/internal/source"
	"tsluau/internal/symbols"
)

const manifest = `[package]
name = "demo"

[compilerOptions]
target = "ESNext"
module = "commonjs"
moduleDetection = "force"
moduleResolution = "Node"
noLib = true
strict = true
allowSyntheticDefaultImports = true
typeRoots = ["node_modules/@tsluau"]
rootDir = "src"
outDir = "out"

[classify]
snapshot = "build/program.snap"
`

// writeProject lays out a manifest and a snapshot of
// `interface Foo { bar(): void }; foo.bar()`.
func writeProject(t *testing.T, manifestText string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, project.ManifestName), []byte(manifestText), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	fs := source.NewFileSet()
	file := fs.AddVirtual("src/demo.ts", []byte("interface Foo { bar(): void }\nfoo.bar();\n"))
	prog := checker.NewProgram(nil, nil, nil)
	b, in, syms := prog.Nodes(), prog.Types(), prog.Symbols()
	bar := b.Function(ast.NodeMethodSignature, "bar", source.Span{File: file, Start: 16, End: 27})
	iface := b.Container(ast.NodeInterfaceDecl, "Foo", source.Span{File: file, Start: 0, End: 29}, bar)
	obj := b.New(ast.NodeIdentifier, source.Span{File: file, Start: 30, End: 33}, "foo")
	acc := b.Wrap(ast.NodePropertyAccess, "bar", source.Span{File: file, Start: 30, End: 37}, obj)
	stmt := b.Wrap(ast.NodeExprStmt, "", source.Span{File: file, Start: 30, End: 40}, b.Call(acc, source.Span{File: file, Start: 30, End: 39}))
	prog.AddFile(b.Container(ast.NodeSourceFile, "src/demo.ts", source.Span{File: file, Start: 0, End: 41}, iface, stmt))
	fn := in.Object("bar", syms.New("bar", symbols.SymbolMethod, bar), in.NewSignature(bar, ast.NoNodeID))
	prog.SetType(bar, fn)
	prog.SetType(acc, fn)

	writeSnapshot(t, root, prog, fs)
	return root
}

func writeSnapshot(t *testing.T, root string, prog *checker.Program, fs *source.FileSet) {
	t.Helper()
	p, err := snapshot.FromProgram("demo", prog, fs)
	if err != nil {
		t.Fatalf("FromProgram: %v", err)
	}
	if err := snapshot.Write(filepath.Join(root, "build", "program.snap"), p); err != nil {
		t.Fatalf("Write: %v", err)
	}
}

// writeMixedSnapshot replaces the project snapshot with one where mix is
// declared both as a method and as a free function.
func writeMixedSnapshot(t *testing.T, root string) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.AddVirtual("src/mixed.ts", []byte("interface I { m(): void }\nfunction cb() {}\nx.mix();\n"))
	span := func(start, end uint32) source.Span { return source.Span{File: file, Start: start, End: end} }
	prog := checker.NewProgram(nil, nil, nil)
	b, in, syms := prog.Nodes(), prog.Types(), prog.Symbols()
	m := b.Function(ast.NodeMethodSignature, "m", span(14, 23))
	iface := b.Container(ast.NodeInterfaceDecl, "I", span(0, 25), m)
	cb := b.Function(ast.NodeFunctionDecl, "cb", span(26, 42))
	x := b.New(ast.NodeIdentifier, span(43, 44), "x")
	acc := b.Wrap(ast.NodePropertyAccess, "mix", span(43, 48), x)
	stmt := b.Wrap(ast.NodeExprStmt, "", span(43, 51), b.Call(acc, span(43, 50)))
	prog.AddFile(b.Container(ast.NodeSourceFile, "src/mixed.ts", span(0, 52), iface, cb, stmt))
	prog.SetType(acc, in.Object("mix", syms.New("mix", symbols.SymbolMethod, m, cb)))
	writeSnapshot(t, root, prog, fs)
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append(args, "--color", "off"))
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCheckCommand(t *testing.T) {
	root := writeProject(t, manifest)
	out, _, err := execute(t, "check", root)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, "ok: demo") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestCheckCommandReportsViolations(t *testing.T) {
	root := writeProject(t, strings.Replace(manifest, `target = "ESNext"`, `target = "ES2019"`, 1))
	_, stderr, err := execute(t, "check", root)
	if err == nil {
		t.Fatalf("expected check to fail")
	}
	if !strings.Contains(stderr, `Invalid "tsluau.toml" configuration!`) || !strings.Contains(stderr, `"target" must be "ESNext"`) {
		t.Fatalf("unexpected stderr %q", stderr)
	}
}

func TestClassifyCommandJSON(t *testing.T) {
	root := writeProject(t, manifest)
	out, _, err := execute(t, "classify", "--project", root, "--format", "json", "--ui", "off")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	var payload struct {
		Count  int `json:"count"`
		Result struct {
			Package   string `json:"package"`
			Methods   int    `json:"methods"`
			Callbacks int    `json:"callbacks"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if payload.Count != 0 || payload.Result.Package != "demo" || payload.Result.Methods != 2 || payload.Result.Callbacks != 0 {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestClassifyCommandGolden(t *testing.T) {
	root := writeProject(t, manifest)
	writeMixedSnapshot(t, root)
	out, _, err := execute(t, "classify", "--project", root, "--format", "golden", "--ui", "off")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	line := strings.TrimSpace(out)
	if strings.Contains(line, "\n") {
		t.Fatalf("expected a single diagnostic line, got %q", out)
	}
	if !strings.HasPrefix(line, "warning SEM3101 ") || !strings.Contains(line, "mixed.ts:3:1 function type mixes") {
		t.Fatalf("unexpected golden output %q", out)
	}
}

func TestReadUIMode(t *testing.T) {
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatalf("expected invalid mode error")
	}
	mode, err := readUIMode(" ON ")
	if err != nil || mode != uiModeOn {
		t.Fatalf("readUIMode = %q, %v", mode, err)
	}
	if shouldUseTUI(uiModeOn, "json") {
		t.Fatalf("json output must not start the progress view")
	}
}
