// Package diag defines the diagnostic model shared by every compiler pass.
//
// Diagnostic is the central record: a Severity, a numeric Code with a stable
// string ID (SEM3101, PRJ5001, ...), a short message, a primary source.Span and
// optional notes.
//
// Passes never store diagnostics themselves. They emit through a Reporter:
//
//   - BagReporter appends into a Bag (limit, sort, dedup);
//   - DedupReporter drops repeated code+span+message triples;
//   - SyncReporter serialises Report calls so parallel workers can share one sink.
//
// Emitting a diagnostic never aborts the pass that produced it; callers decide
// overall success later by inspecting the Bag (HasErrors, HasWarnings).
//
// Rendering lives in internal/diagfmt; this package does no formatting besides
// the stable one-line form used by golden tests and --format=short.
package diag
