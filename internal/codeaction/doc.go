// Package codeaction derives editor suggestions from a finished check
// result. Every function here only reads the engines; none of them mutates a
// declaration or interns a new type, so they can be called for every cursor
// move.
package codeaction
