// Package fuzztests houses Go fuzz harnesses for the front end and the
// checker: arbitrary bytes go through the lexer, the parser and check.Run,
// which must neither panic, hang, nor return an error.
package fuzztests
