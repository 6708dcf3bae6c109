package lexer

import (
	"strings"

	"vela/internal/diag"
)

// skipTrivia consumes whitespace and comments. Doc lines (///) are kept in
// lx.doc; any other comment or a blank line between them keeps them.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); {
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			lx.cursor.Bump()
		case b == '/':
			if !lx.skipComment() {
				return
			}
		default:
			return
		}
	}
}

func (lx *Lexer) skipComment() bool {
	start := lx.cursor.Mark()
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != '/' {
		return false
	}
	switch b1 {
	case '/':
		lx.cursor.Bump()
		lx.cursor.Bump()
		isDoc := lx.cursor.Peek() == '/'
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		if isDoc {
			sp := lx.cursor.SpanFrom(start)
			line := string(lx.file.Content[sp.Start+3 : sp.End])
			lx.doc = append(lx.doc, strings.TrimPrefix(line, " "))
		}
		return true
	case '*':
		lx.cursor.Bump()
		lx.cursor.Bump()
		depth := 1
		for !lx.cursor.EOF() && depth > 0 {
			if c0, c1, ok := lx.cursor.Peek2(); ok {
				if c0 == '/' && c1 == '*' {
					lx.cursor.Bump()
					lx.cursor.Bump()
					depth++
					continue
				}
				if c0 == '*' && c1 == '/' {
					lx.cursor.Bump()
					lx.cursor.Bump()
					depth--
					continue
				}
			}
			lx.cursor.Bump()
		}
		if depth > 0 {
			lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
		}
		return true
	default:
		return false
	}
}
