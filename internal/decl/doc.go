// Package decl owns every declaration of a compilation unit.
//
// Declarations are stored in per-kind arenas and refer to each other only
// through handles, so a struct and the impls attached to it can point at
// each other without owning one another. Generic declarations are
// specialized with the Monomorphize methods, which clone into new handles
// and never touch the original.
package decl
