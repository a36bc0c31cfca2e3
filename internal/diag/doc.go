// Package diag defines the diagnostic model shared by all compiler phases.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing to the issue.
//   - Notes – optional secondary spans/messages for additional context.
//
// # Emitting diagnostics
//
// Phases use a diag.Reporter to decouple emission from storage. The lexer and
// parser construct a ReportBuilder via ReportError and chain
// WithNote before calling Emit. diag.BagReporter aggregates diagnostics into a
// Bag, which is bounded by the CLI --max-diagnostics flag and supports sorting
// and deduplication.
//
// Rendering lives in internal/diagfmt; package diag performs no IO.
package diag
