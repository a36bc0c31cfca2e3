// Package trace records compiler phase boundaries for diagnosing slow or
// stuck builds.
//
// Enable tracing via command-line flags:
//
//	sysyc --trace=- --trace-level=phase -riscv main.c -o main.S
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelError: Only failed spans
//   - LevelPhase: Driver and pass boundaries (lex, parse, lower, codegen)
//   - LevelDetail: Per-file events of a parallel build
//   - LevelDebug: Everything including per-function events
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "parse", parentID)
//	defer span.End("")
package trace
