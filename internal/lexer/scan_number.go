package lexer

import (
	"vela/internal/diag"
	"vela/internal/token"
)

// scanNumber accepts decimal (with '_' separators), 0x and 0b literals.
// A trailing identifier glued to the digits is a LexBadNumber error.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	digits := isDec
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' {
		switch b1 {
		case 'x', 'X':
			digits = isHex
			lx.cursor.Bump()
			lx.cursor.Bump()
		case 'b', 'B':
			digits = func(b byte) bool { return b == '0' || b == '1' }
			lx.cursor.Bump()
			lx.cursor.Bump()
		}
	}
	n := 0
	for digits(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		if lx.cursor.Peek() != '_' {
			n++
		}
		lx.cursor.Bump()
	}
	bad := n == 0
	for {
		r, sz := lx.peekRune()
		if sz == 0 || !isIdentContinueRune(r) {
			break
		}
		bad = true
		lx.bumpRune()
	}
	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])
	if bad {
		lx.errLex(diag.LexBadNumber, sp, "malformed integer literal "+text)
		return token.Token{Kind: token.Invalid, Span: sp, Text: text}
	}
	return token.Token{Kind: token.IntLit, Span: sp, Text: text}
}
