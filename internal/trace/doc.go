// Package trace is numtype's logging layer: structured span and point events
// for the check driver, written as text or NDJSON.
//
// Enable it from the CLI:
//
//	numtype check --trace=- --trace-level=detail queries/
//
// Tracers:
//
//   - Nop: zero overhead when disabled
//   - StreamTracer: writes each event as it happens (file or stderr)
//   - RingTracer: keeps the last N events for a dump after a failure
//   - MultiTracer: fan-out, used for --trace-mode=both
//
// Scopes nest driver > pass (one query file) > query. LevelPhase emits driver
// and pass events, LevelDetail adds per-query events, LevelDebug everything.
//
// Tracers and the active span travel in context.Context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopePass, "file:"+path)
//	defer span.End("")
package trace
