// Package diag defines the diagnostic model shared by the validators, the CLI
// and the language server.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced by
//     the dialect validators (duplicate identifiers, duplicate section headers,
//     dangling vector references).
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//
// # Scope
//
// Package diag does not perform any formatting beyond the stable golden form,
// IO, CLI integration, or editor protocol work. Rendering lives in
// internal/diagfmt and publication to editors lives in internal/lsp.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the source.Span (line/column range) pointing to the issue.
//   - Notes – optional secondary spans/messages, e.g. the other occurrences of
//     a duplicated identifier.
//
// # Emitting diagnostics
//
// Validators report through a diag.Reporter. ReportError/ReportWarning
// construct a ReportBuilder; chain WithNote before calling Emit. A Collector
// keeps everything in order, a *Bag is itself a Reporter and adds sorting,
// filtering and a size limit.
//
// Keep the data model deterministic: the same document must always produce
// the same ordered diagnostic list.
package diag
