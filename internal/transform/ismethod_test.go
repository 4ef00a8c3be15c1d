package transform

import (
	"sync"
	"testing"

	"tsluau/internal/ast"
	"tsluau/internal/checker"
	"tsluau/internal/diag"
	"tsluau/internal/source"
	"tsluau/internal/symbols"
	"tsluau/internal/types"
)

type fixture struct {
	prog *checker.Program
	b    *ast.Builder
	in   *types.Interner
	syms *symbols.Table
	bag  *diag.Bag
	sess *Session
	file ast.NodeID
	off  uint32
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{bag: diag.NewBag(100)}
	f.prog = checker.NewProgram(nil, nil, nil)
	f.b, f.in, f.syms = f.prog.Nodes(), f.prog.Types(), f.prog.Symbols()
	f.file = f.b.Container(ast.NodeSourceFile, "main.ts", f.span())
	f.prog.AddFile(f.file)
	f.sess = NewSession(f.prog, Options{Reporter: diag.NewSyncReporter(diag.BagReporter{Bag: f.bag})})
	return f
}

func (f *fixture) span() source.Span {
	f.off += 10
	return source.Span{File: 1, Start: f.off, End: f.off + 5}
}

func (f *fixture) state() *State { return f.sess.State(f.file) }

// thisParam builds a `this` parameter; void selects the no-receiver type.
func (f *fixture) thisParam(void bool) ast.NodeID {
	p := f.b.Param(ast.ReceiverName, f.span())
	if void {
		f.prog.SetType(p, f.in.Builtins().Void)
	} else {
		f.prog.SetType(p, f.in.Object("Foo", symbols.NoSymbolID))
	}
	return p
}

// fnType gives decl a function type whose symbol is declared by decls.
func (f *fixture) fnType(name string, kind symbols.SymbolKind, decls ...ast.NodeID) types.TypeID {
	sym := f.syms.New(name, kind, decls...)
	sigs := make([]types.SigID, 0, len(decls))
	for _, d := range decls {
		sigs = append(sigs, f.in.NewSignature(d, f.b.ReceiverParam(d)))
	}
	id := f.in.Object(name, sym, sigs...)
	for _, d := range decls {
		f.prog.SetType(d, id)
	}
	return id
}

// access builds `obj.name` typed as typ and used as a callee.
func (f *fixture) access(name string, typ types.TypeID) ast.NodeID {
	obj := f.b.New(ast.NodeIdentifier, f.span(), "obj")
	acc := f.b.Wrap(ast.NodePropertyAccess, name, f.span(), obj)
	call := f.b.Call(acc, f.span())
	f.b.AddChildren(f.file, f.b.Wrap(ast.NodeExprStmt, "", f.span(), call))
	f.prog.SetType(acc, typ)
	return acc
}

func TestInterfaceMethodIsMethod(t *testing.T) {
	f := newFixture(t)
	bar := f.b.Function(ast.NodeMethodSignature, "bar", f.span())
	iface := f.b.Container(ast.NodeInterfaceDecl, "Foo", f.span(), bar)
	f.b.AddChildren(f.file, iface)
	typ := f.fnType("bar", symbols.SymbolMethod, bar)

	st := f.state()
	if !IsMethod(st, f.access("bar", typ)) {
		t.Fatalf("interface method should be method-shaped")
	}
	if !IsMethod(st, bar) {
		t.Fatalf("declaration itself should be method-shaped")
	}
	if f.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", f.bag.Items())
	}
	if f.sess.Methods().Len() != 1 {
		t.Fatalf("expected 1 cache entry, got %d", f.sess.Methods().Len())
	}
}

func TestClassMethodAndFreeFunction(t *testing.T) {
	f := newFixture(t)
	m := f.b.Function(ast.NodeMethodDecl, "m", f.span())
	f.b.AddChildren(f.file, f.b.Container(ast.NodeClassDecl, "C", f.span(), m))
	fn := f.b.Function(ast.NodeFunctionDecl, "g", f.span())
	f.b.AddChildren(f.file, fn)
	arrow := f.b.Function(ast.NodeArrowFunction, "", f.span())

	st := f.state()
	if !IsMethodDeclaration(st, m) {
		t.Fatalf("class method should be method-shaped")
	}
	if IsMethodDeclaration(st, fn) {
		t.Fatalf("free function should be callback-shaped")
	}
	if IsMethodDeclaration(st, arrow) {
		t.Fatalf("arrow function should be callback-shaped")
	}
	if IsMethodDeclaration(st, f.file) || IsMethodDeclaration(st, ast.NoNodeID) {
		t.Fatalf("non-function nodes are never methods")
	}
}

func TestReceiverParamOverridesSyntax(t *testing.T) {
	f := newFixture(t)
	st := f.state()

	free := f.b.Function(ast.NodeFunctionDecl, "f", f.span(), f.thisParam(false))
	if !IsMethodDeclaration(st, free) {
		t.Fatalf("typed receiver should make a free function method-shaped")
	}
	arrowish := f.b.Function(ast.NodeFunctionType, "", f.span(), f.thisParam(false), f.b.Param("x", f.span()))
	if !IsMethodDeclaration(st, arrowish) {
		t.Fatalf("typed receiver should make a function type method-shaped")
	}
	untyped := f.b.Function(ast.NodeFunctionDecl, "u", f.span(), f.b.Param(ast.ReceiverName, f.span()))
	if !IsMethodDeclaration(st, untyped) {
		t.Fatalf("receiver without type info should be method-shaped")
	}
	method := f.b.Function(ast.NodeMethodDecl, "m", f.span(), f.thisParam(true))
	f.b.AddChildren(f.file, f.b.Container(ast.NodeClassDecl, "C", f.span(), method))
	if IsMethodDeclaration(st, method) {
		t.Fatalf("no-receiver type should make a class method callback-shaped")
	}
	notFirst := f.b.Function(ast.NodeFunctionDecl, "n", f.span(), f.b.Param("x", f.span()), f.thisParam(false))
	if IsMethodDeclaration(st, notFirst) {
		t.Fatalf("only a leading receiver parameter counts")
	}
}

func TestFunctionExpressionContext(t *testing.T) {
	f := newFixture(t)
	st := f.state()

	// { key: (function () {}) as Fn }
	inObject := f.b.Function(ast.NodeFunctionExpr, "", f.span())
	paren := f.b.Wrap(ast.NodeParenExpr, "", f.span(), inObject)
	as := f.b.Wrap(ast.NodeAsExpr, "", f.span(), paren)
	prop := f.b.Wrap(ast.NodePropertyAssignment, "key", f.span(), as)
	f.b.Container(ast.NodeObjectLiteral, "", f.span(), prop)
	if !IsMethodDeclaration(st, inObject) {
		t.Fatalf("function expression in object literal should be method-shaped")
	}

	// const v = function () {}
	inVar := f.b.Function(ast.NodeFunctionExpr, "", f.span())
	f.b.AddChildren(f.file, f.b.Wrap(ast.NodeVariableDecl, "v", f.span(), inVar))
	if IsMethodDeclaration(st, inVar) {
		t.Fatalf("function expression in variable initializer should be callback-shaped")
	}

	// { key: () => {} }
	arrow := f.b.Function(ast.NodeArrowFunction, "", f.span())
	f.b.Container(ast.NodeObjectLiteral, "", f.span(), f.b.Wrap(ast.NodePropertyAssignment, "key", f.span(), arrow))
	if IsMethodDeclaration(st, arrow) {
		t.Fatalf("arrow function in object literal should be callback-shaped")
	}

	// { key: function (this: void) {} }
	voidRecv := f.b.Function(ast.NodeFunctionExpr, "", f.span(), f.thisParam(true))
	f.b.Container(ast.NodeObjectLiteral, "", f.span(), f.b.Wrap(ast.NodePropertyAssignment, "key", f.span(), voidRecv))
	if IsMethodDeclaration(st, voidRecv) {
		t.Fatalf("no-receiver type should override the object literal rule")
	}
}

func TestNoReceiverFunctionAttachedToObject(t *testing.T) {
	f := newFixture(t)
	// function helper(this: void) {}; obj.helper = helper; obj.helper()
	helper := f.b.Function(ast.NodeFunctionDecl, "helper", f.span(), f.thisParam(true))
	f.b.AddChildren(f.file, helper)
	typ := f.fnType("helper", symbols.SymbolFunction, helper)

	if IsMethod(f.state(), f.access("helper", typ)) {
		t.Fatalf("no-receiver function called through an object should be callback-shaped")
	}
	if f.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", f.bag.Items())
	}
}

func TestMixedDeclarationsReportOnce(t *testing.T) {
	f := newFixture(t)
	method := f.b.Function(ast.NodeMethodDecl, "run", f.span())
	f.b.AddChildren(f.file, f.b.Container(ast.NodeClassDecl, "C", f.span(), method))
	fn := f.b.Function(ast.NodeFunctionDecl, "run", f.span())
	f.b.AddChildren(f.file, fn)
	typ := f.fnType("run", symbols.SymbolFunction, method, fn)

	st := f.state()
	first := f.access("run", typ)
	if !IsMethod(st, first) {
		t.Fatalf("mixed declarations should answer method")
	}
	if got := f.bag.Count(diag.SemaMixedCallShape); got != 1 {
		t.Fatalf("expected 1 conflict diagnostic, got %d", got)
	}
	d := f.bag.Items()[0]
	if d.Severity != diag.SevWarning || d.Primary != f.b.Get(first).Span {
		t.Fatalf("unexpected diagnostic %+v", d)
	}

	// same symbol through another node: cached, silent
	if !IsMethod(st, f.access("run", typ)) {
		t.Fatalf("second query should return the cached answer")
	}
	if got := f.bag.Count(diag.SemaMixedCallShape); got != 1 {
		t.Fatalf("second query must not report again, got %d", got)
	}
}

func TestTypeLiteralUsesCallSignatures(t *testing.T) {
	f := newFixture(t)
	// type Fn = { (): void; (this: void): void }
	asMethod := f.b.Function(ast.NodeMethodSignature, "", f.span())
	asCallback := f.b.Function(ast.NodeCallSignature, "", f.span(), f.thisParam(true))
	lit := f.b.Container(ast.NodeTypeLiteral, "", f.span(), asMethod, asCallback)
	sym := f.syms.New("__type", symbols.SymbolTypeLiteral, lit)
	typ := f.in.Object("Fn", sym,
		f.in.NewSignature(asMethod, ast.NoNodeID),
		f.in.NewSignature(asCallback, f.b.ReceiverParam(asCallback)),
		f.in.NewSignature(ast.NoNodeID, ast.NoNodeID),
	)

	if !IsMethod(f.state(), f.access("call", typ)) {
		t.Fatalf("type literal with a method signature should answer method")
	}
	if got := f.bag.Count(diag.SemaMixedCallShape); got != 1 {
		t.Fatalf("expected 1 conflict diagnostic, got %d", got)
	}
}

func TestClassifySignatures(t *testing.T) {
	f := newFixture(t)
	cb := f.b.Function(ast.NodeArrowFunction, "", f.span())
	typ := f.in.Object("cb", symbols.NoSymbolID, f.in.NewSignature(cb, ast.NoNodeID), f.in.NewSignature(ast.NoNodeID, ast.NoNodeID))
	node := f.access("cb", typ)
	st := f.state()
	if ClassifySignatures(st, node, typ) {
		t.Fatalf("arrow signature should be callback-shaped")
	}
	recv := f.b.Function(ast.NodeFunctionType, "", f.span(), f.thisParam(false))
	mixed := f.in.Object("m", symbols.NoSymbolID, f.in.NewSignature(cb, ast.NoNodeID), f.in.NewSignature(recv, f.b.ReceiverParam(recv)))
	if !ClassifySignatures(st, node, mixed) {
		t.Fatalf("receiver signature should be method-shaped")
	}
	if got := f.bag.Count(diag.SemaMixedCallShape); got != 1 {
		t.Fatalf("expected 1 conflict diagnostic, got %d", got)
	}
}

func TestUnionIsOrWithoutConflict(t *testing.T) {
	f := newFixture(t)
	cb := f.b.Function(ast.NodeFunctionDecl, "cb", f.span())
	m := f.b.Function(ast.NodeMethodSignature, "m", f.span())
	f.b.AddChildren(f.file, cb, f.b.Container(ast.NodeInterfaceDecl, "I", f.span(), m))
	cbType := f.fnType("cb", symbols.SymbolFunction, cb)
	mType := f.fnType("m", symbols.SymbolMethod, m)

	st := f.state()
	if !IsMethod(st, f.access("either", f.in.Union(cbType, mType))) {
		t.Fatalf("union with a method member should answer method")
	}
	if f.bag.Len() != 0 {
		t.Fatalf("union disagreement must not report: %v", f.bag.Items())
	}
	if f.sess.Methods().Len() != 2 {
		t.Fatalf("both members should be cached, got %d", f.sess.Methods().Len())
	}
}

func TestCompositeShortCircuits(t *testing.T) {
	f := newFixture(t)
	m := f.b.Function(ast.NodeMethodDecl, "m", f.span())
	cb := f.b.Function(ast.NodeFunctionDecl, "cb", f.span())
	f.b.AddChildren(f.file, f.b.Container(ast.NodeClassDecl, "C", f.span(), m), cb)
	mType := f.fnType("m", symbols.SymbolMethod, m)
	cbType := f.fnType("cb", symbols.SymbolFunction, cb)

	st := f.state()
	if !IsMethod(st, f.access("either", f.in.Intersection(mType, cbType))) {
		t.Fatalf("expected method")
	}
	if f.sess.Methods().Len() != 1 {
		t.Fatalf("leaves after a method leaf should not be classified, cache has %d", f.sess.Methods().Len())
	}
}

func TestMissingTypeInformation(t *testing.T) {
	f := newFixture(t)
	st := f.state()
	bare := f.b.New(ast.NodeIdentifier, f.span(), "x")
	if IsMethod(st, bare) {
		t.Fatalf("untyped node should be callback-shaped")
	}
	anon := f.in.Object("anon", symbols.NoSymbolID)
	if IsMethod(st, f.access("anon", anon)) {
		t.Fatalf("symbol-less type should be callback-shaped")
	}
	empty := f.syms.New("empty", symbols.SymbolVariable)
	if IsMethod(st, f.access("empty", f.in.Object("empty", empty))) {
		t.Fatalf("symbol without declarations should be callback-shaped")
	}
	if IsMethod(nil, bare) {
		t.Fatalf("nil state should be callback-shaped")
	}
	if f.bag.Len() != 0 {
		t.Fatalf("missing information must not report")
	}
}

func TestMethodCacheAtMostOnce(t *testing.T) {
	c := NewMethodCache()
	var (
		mu    sync.Mutex
		calls int
		wg    sync.WaitGroup
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := c.GetOrCompute(7, func() bool {
				mu.Lock()
				calls++
				mu.Unlock()
				return true
			})
			if !got {
				t.Errorf("expected cached true")
			}
		}()
	}
	wg.Wait()
	if calls != 1 {
		t.Fatalf("compute ran %d times", calls)
	}
	if v, ok := c.Lookup(7); !ok || !v {
		t.Fatalf("entry missing after compute")
	}
	if c.GetOrCompute(7, func() bool { return false }) != true {
		t.Fatalf("entry must not be overwritten")
	}
}

func TestConcurrentQueriesReportOnce(t *testing.T) {
	f := newFixture(t)
	method := f.b.Function(ast.NodeMethodDecl, "run", f.span())
	fn := f.b.Function(ast.NodeFunctionDecl, "run", f.span())
	f.b.AddChildren(f.file, f.b.Container(ast.NodeClassDecl, "C", f.span(), method), fn)
	typ := f.fnType("run", symbols.SymbolFunction, method, fn)

	nodes := make([]ast.NodeID, 16)
	for i := range nodes {
		nodes[i] = f.access("run", typ)
	}
	var wg sync.WaitGroup
	for _, n := range nodes {
		wg.Add(1)
		go func(n ast.NodeID) {
			defer wg.Done()
			if !IsMethod(f.sess.State(f.file), n) {
				t.Errorf("expected method")
			}
		}(n)
	}
	wg.Wait()
	if got := f.bag.Count(diag.SemaMixedCallShape); got != 1 {
		t.Fatalf("expected exactly 1 conflict diagnostic, got %d", got)
	}
}

func TestDeferredMixedReportsAtEarliestQuery(t *testing.T) {
	f := newFixture(t)
	f.sess = NewSession(f.prog, Options{Reporter: diag.NewSyncReporter(diag.BagReporter{Bag: f.bag}), DeferMixed: true})
	method := f.b.Function(ast.NodeMethodDecl, "run", f.span())
	fn := f.b.Function(ast.NodeFunctionDecl, "run", f.span())
	f.b.AddChildren(f.file, f.b.Container(ast.NodeClassDecl, "C", f.span(), method), fn)
	typ := f.fnType("run", symbols.SymbolFunction, method, fn)

	nodes := make([]ast.NodeID, 8)
	for i := range nodes {
		nodes[i] = f.access("run", typ)
	}
	// the last node computes the symbol, an earlier one asks later
	var wg sync.WaitGroup
	if !IsMethod(f.state(), nodes[len(nodes)-1]) {
		t.Fatalf("expected method")
	}
	for _, n := range nodes {
		wg.Add(1)
		go func(n ast.NodeID) {
			defer wg.Done()
			IsMethod(f.sess.State(f.file), n)
		}(n)
	}
	wg.Wait()
	if got := f.bag.Count(diag.SemaMixedCallShape); got != 0 {
		t.Fatalf("deferred warning reported before flush: %d", got)
	}

	f.sess.FlushMixed()
	if got := f.bag.Count(diag.SemaMixedCallShape); got != 1 {
		t.Fatalf("expected 1 conflict diagnostic, got %d", got)
	}
	if d := f.bag.Items()[0]; d.Primary != f.b.Get(nodes[0]).Span {
		t.Fatalf("warning at %+v, want earliest query %+v", d.Primary, f.b.Get(nodes[0]).Span)
	}

	f.sess.FlushMixed()
	if got := f.bag.Count(diag.SemaMixedCallShape); got != 1 {
		t.Fatalf("second flush must not report again, got %d", got)
	}
}
