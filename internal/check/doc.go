// Package check runs the semantic pipeline over parsed files:
// collect declarations, resolve signatures, infer bodies, finish.
//
// A run populates the Engines it is given. Engines of a cancelled or
// aborted run are in an unspecified state and must be discarded.
package check
