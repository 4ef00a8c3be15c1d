package transform

import (
	"cmp"
	"slices"
	"sync"

	"tsluau/internal/ast"
	"tsluau/internal/checker"
	"tsluau/internal/diag"
	"tsluau/internal/source"
	"tsluau/internal/symbols"
	"tsluau/internal/types"
)

// Options configure a Session.
type Options struct {
	Reporter diag.Reporter
	// DeferMixed holds symbol-level mixed-shape warnings until FlushMixed
	// and places each one at the earliest query span that reached the
	// symbol, so the location does not depend on query order.
	DeferMixed bool
}

// Session is the state shared by every file of one compilation: the type
// oracle, the classification cache and the diagnostic sink. It is created
// once per compilation and discarded with it.
type Session struct {
	oracle   checker.Oracle
	reporter diag.Reporter
	methods  *MethodCache

	deferMixed bool
	mixedMu    sync.Mutex
	mixed      map[symbols.SymbolID]source.Span
}

// NewSession binds a session to oracle. A nil reporter discards diagnostics.
func NewSession(oracle checker.Oracle, opts Options) *Session {
	reporter := opts.Reporter
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Session{
		oracle:   oracle,
		reporter: reporter,
		methods:  NewMethodCache(),

		deferMixed: opts.DeferMixed,
		mixed:      make(map[symbols.SymbolID]source.Span),
	}
}

func compareSpans(a, b source.Span) int {
	return cmp.Or(
		cmp.Compare(a.File, b.File),
		cmp.Compare(a.Start, b.Start),
		cmp.Compare(a.End, b.End),
	)
}

func spanBefore(a, b source.Span) bool { return compareSpans(a, b) < 0 }

func (s *Session) holdMixed(id symbols.SymbolID, at source.Span) {
	s.mixedMu.Lock()
	defer s.mixedMu.Unlock()
	if prev, ok := s.mixed[id]; !ok || spanBefore(at, prev) {
		s.mixed[id] = at
	}
}

// moveMixed pulls a held warning for id back to at when at comes first.
func (s *Session) moveMixed(id symbols.SymbolID, at source.Span) {
	s.mixedMu.Lock()
	defer s.mixedMu.Unlock()
	if prev, ok := s.mixed[id]; ok && spanBefore(at, prev) {
		s.mixed[id] = at
	}
}

// FlushMixed reports the held mixed-shape warnings in span order and
// forgets them. It is a no-op unless the session was built with DeferMixed.
func (s *Session) FlushMixed() {
	s.mixedMu.Lock()
	spans := make([]source.Span, 0, len(s.mixed))
	for _, sp := range s.mixed {
		spans = append(spans, sp)
	}
	clear(s.mixed)
	s.mixedMu.Unlock()

	slices.SortFunc(spans, compareSpans)
	for _, sp := range spans {
		diag.ReportWarning(s.reporter, diag.SemaMixedCallShape, sp, mixedCallShapeMsg).Emit()
	}
}

func (s *Session) Oracle() checker.Oracle  { return s.oracle }
func (s *Session) Reporter() diag.Reporter { return s.reporter }
func (s *Session) Methods() *MethodCache   { return s.methods }

// State returns the per-file view used by the classifiers.
func (s *Session) State(file ast.NodeID) *State {
	st := &State{session: s, file: file}
	if s.oracle != nil {
		st.nodes = s.oracle.Nodes()
		st.types = s.oracle.Types()
		st.symbols = s.oracle.Symbols()
	}
	return st
}

// State is the view of a Session while lowering one source file.
type State struct {
	session *Session
	file    ast.NodeID
	nodes   *ast.Builder
	types   *types.Interner
	symbols *symbols.Table
}

// File returns the source-file node this state lowers.
func (st *State) File() ast.NodeID { return st.file }

func (st *State) Session() *Session { return st.session }

// TypeOf asks the oracle for the checked type of node.
func (st *State) TypeOf(node ast.NodeID) types.TypeID {
	if st.session.oracle == nil {
		return types.NoTypeID
	}
	return st.session.oracle.TypeOf(node)
}

func (st *State) isNoReceiver(t types.TypeID) bool {
	return st.session.oracle != nil && st.session.oracle.IsNoReceiver(t)
}

func (st *State) span(node ast.NodeID) source.Span {
	if n := st.nodes.Get(node); n != nil {
		return n.Span
	}
	return source.Span{}
}
