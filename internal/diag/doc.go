// Package diag defines the diagnostic model shared by the lexer, the parser
// and the driver.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture findings
//     produced by the lexer and the parser.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//
// Package diag does not perform any IO. Rendering lives in internal/diagfmt;
// FormatShortDiagnostics is the only formatter here: tests in
// several packages compare against it.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form:
//     LEX1xxx for the lexer, SYN2xxx for the parser, IO4xxx, PRJ5xxx, OBS6xxx.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing to the issue.
//   - Expected – for syntax errors, the spellings that would have been accepted.
//   - Notes / Fixes – optional secondary spans and suggested edits.
//
// # Emitting diagnostics
//
// Phases use a diag.Reporter. The parser builds diagnostics with ReportBuilder
// (ReportError/ReportWarning, WithNote, WithExpected, Emit). Reporters that also
// implement DiagnosticReporter receive the whole record, Expected included.
// BagReporter aggregates into a Bag, which supports limits, sorting and
// deduplication.
package diag
