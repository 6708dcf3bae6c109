package lexer

import (
	"vela/internal/diag"
	"vela/internal/token"
)

var singleOps = map[byte]token.Kind{
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'%': token.Percent,
	'=': token.Assign,
	'!': token.Bang,
	'<': token.Lt,
	'>': token.Gt,
	'&': token.Amp,
	':': token.Colon,
	';': token.Semicolon,
	',': token.Comma,
	'.': token.Dot,
	'#': token.Hash,
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	'[': token.LBracket,
	']': token.RBracket,
}

// pairOps lists the two-byte operators; they win over their one-byte prefixes.
var pairOps = [...]struct {
	first, second byte
	kind          token.Kind
}{
	{':', ':', token.ColonColon},
	{'-', '>', token.Arrow},
	{'&', '&', token.AndAnd},
	{'|', '|', token.OrOr},
	{'=', '=', token.EqEq},
	{'!', '=', token.BangEq},
	{'<', '=', token.LtEq},
	{'>', '=', token.GtEq},
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: k, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}

	if b0, b1, ok := lx.cursor.Peek2(); ok {
		for _, op := range pairOps {
			if op.first == b0 && op.second == b1 {
				lx.cursor.Bump()
				lx.cursor.Bump()
				return emit(op.kind)
			}
		}
	}

	ch := lx.cursor.Bump()
	if k, ok := singleOps[ch]; ok {
		return emit(k)
	}
	// swallow the rest of a multi-byte rune so the span stays on a boundary
	for !lx.cursor.EOF() && lx.cursor.Peek()&0xC0 == 0x80 {
		lx.cursor.Bump()
	}
	tok := emit(token.Invalid)
	lx.errLex(diag.LexUnknownChar, tok.Span, "unexpected character "+quoteText(tok.Text))
	return tok
}

func quoteText(s string) string {
	return "'" + s + "'"
}
