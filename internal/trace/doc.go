// Package trace records what the classifier pipeline is doing and how long
// each step takes.
//
// Enable it from the command line:
//
//	tsluau classify --trace=- --trace-level=detail build/program.snap
//
// Tracers:
//
//   - Nop: no-op tracer used when tracing is off
//   - StreamTracer: writes every event as it happens (text or NDJSON)
//   - RingTracer: keeps the last N events in memory, dumped on failure
//   - MultiTracer: fans out to several tracers
//
// Levels select scopes: phase shows driver and pass spans, detail adds one
// span per source file, debug adds a point event per classification query.
//
// Tracers travel through the pipeline in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "classify", 0)
//	defer span.End("")
package trace
