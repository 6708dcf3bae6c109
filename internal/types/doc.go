// Package types interns vela type expressions and unifies them.
//
// Every type is identified by a TypeID; structurally equal descriptors always
// intern to the same id, so equality of resolved types is id equality.
// Placeholders are inference variables whose bindings live in a union-find
// table owned by the Interner. Named types refer to their declaration by
// index only; the interner knows nothing about fields or variants.
package types
