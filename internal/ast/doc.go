// Package ast holds the syntax tree produced by the parser.
//
// Nodes are plain pointers; each carries the span it was parsed from. Names
// are kept as strings here and interned only when the checker collects
// declarations, so a parsed file can be handed to any Engines instance.
package ast
