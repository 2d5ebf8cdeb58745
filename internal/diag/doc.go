// Package diag defines the diagnostic model produced while evaluating query
// files.
//
// Diagnostic is the central record: a Severity, a stable Code, a short
// message, the primary source.Span of the offending query and optional notes.
// Producers emit through the Reporter interface (BagReporter collects into a
// Bag, DedupReporter filters repeats) and never format or print anything
// themselves. Rendering lives in the driver and the CLI.
//
// Codes are grouped by thousands:
//
//   - 1xxx: query syntax and type-expression errors.
//   - 2xxx: failed expectations.
//   - 3xxx: informational findings about operands and verdicts.
//
// Bag.Sort orders diagnostics by file, offset, severity (desc) and code so
// that output is deterministic regardless of evaluation order.
package diag
