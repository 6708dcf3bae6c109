package parser

import (
	"vela/internal/ast"
	"vela/internal/diag"
	"vela/internal/token"
)

// parseType parses u64, Name<Args>, Self, (A, B), (), [T; N], &T, &mut T.
func (p *Parser) parseType() (ast.TypeExpr, bool) {
	start := p.peek().Span
	switch p.peek().Kind {
	case token.Ident:
		name, _ := p.parseIdent()
		t := &ast.PathType{Name: name, Span: name.Span}
		if p.eat(token.Lt) {
			for !p.at(token.Gt) && !p.at(token.EOF) {
				arg, ok := p.parseType()
				if !ok {
					return nil, false
				}
				t.Args = append(t.Args, arg)
				if !p.eat(token.Comma) {
					break
				}
			}
			if _, ok := p.expect(token.Gt, diag.SynUnclosedDelimiter, "expected '>' to close type arguments"); !ok {
				return nil, false
			}
			t.Span = start.Cover(p.lastSpan)
		}
		return t, true

	case token.KwSelfType:
		p.advance()
		return &ast.SelfType{Span: start}, true

	case token.LParen:
		p.advance()
		var elems []ast.TypeExpr
		trailingComma := false
		for !p.at(token.RParen) && !p.at(token.EOF) {
			el, ok := p.parseType()
			if !ok {
				return nil, false
			}
			elems = append(elems, el)
			trailingComma = p.eat(token.Comma)
			if !trailingComma {
				break
			}
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close tuple type"); !ok {
			return nil, false
		}
		if len(elems) == 1 && !trailingComma {
			return elems[0], true
		}
		return &ast.TupleType{Elems: elems, Span: start.Cover(p.lastSpan)}, true

	case token.LBracket:
		p.advance()
		elem, ok := p.parseType()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' in array type"); !ok {
			return nil, false
		}
		lenTok, ok := p.expect(token.IntLit, diag.SynUnexpectedToken, "expected array length")
		if !ok {
			return nil, false
		}
		n, err := ast.ParseUint(lenTok.Text)
		if err != nil {
			p.report(diag.SynUnexpectedToken, lenTok.Span, "invalid array length "+lenTok.Text)
			return nil, false
		}
		if _, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' to close array type"); !ok {
			return nil, false
		}
		return &ast.ArrayType{Elem: elem, Len: n, Span: start.Cover(p.lastSpan)}, true

	case token.Amp:
		p.advance()
		mut := p.eat(token.KwMut)
		elem, ok := p.parseType()
		if !ok {
			return nil, false
		}
		return &ast.RefType{Mut: mut, Elem: elem, Span: start.Cover(elem.TypeSpan())}, true
	}
	p.err(diag.SynExpectType, "expected type, found "+describe(p.peek()))
	return nil, false
}
