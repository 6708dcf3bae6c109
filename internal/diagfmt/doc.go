// Package diagfmt renders diagnostics for terminals (pretty, short and
// terse forms) and for tools (JSON).
package diagfmt
