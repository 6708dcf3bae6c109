// Package diag defines the diagnostic model shared by the lexer, parser and
// the check pipeline.
//
// A Diagnostic carries a Severity, a stable numeric Code (rendered as
// LEXnnnn / SYNnnnn / SEMnnnn), a short message, a primary source.Span and
// optional notes and fixes. Phases never return user-facing problems as Go
// errors: they emit through a Reporter, usually a BagReporter feeding a Bag
// owned by the pipeline run. The bag is append-only while the run lasts and
// drained once it finishes.
//
// Rendering lives in internal/diagfmt; this package does no IO.
package diag
