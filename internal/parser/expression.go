package parser

import (
	"unicode"
	"unicode/utf8"

	"vela/internal/ast"
	"vela/internal/diag"
	"vela/internal/token"
)

func (p *Parser) parseExpr() (ast.Expr, bool) {
	return p.parseBinary(precLogicalOr)
}

// parseBinary is precedence climbing over the table in op_table.go.
func (p *Parser) parseBinary(minPrec int) (ast.Expr, bool) {
	left, ok := p.parseUnary()
	if !ok {
		return nil, false
	}
	for {
		op, prec := binaryOp(p.peek().Kind)
		if prec < minPrec {
			return left, true
		}
		p.advance()
		right, ok := p.parseBinary(prec + 1)
		if !ok {
			return nil, false
		}
		left = &ast.BinaryExpr{Op: op, X: left, Y: right, Span: left.ExprSpan().Cover(right.ExprSpan())}
	}
}

func (p *Parser) parseUnary() (ast.Expr, bool) {
	start := p.peek().Span
	var op ast.UnaryOp
	switch p.peek().Kind {
	case token.Minus:
		op = ast.UnaryNeg
	case token.Bang:
		op = ast.UnaryNot
	case token.Star:
		op = ast.UnaryDeref
	case token.Amp:
		op = ast.UnaryRef
	case token.AndAnd:
		p.err(diag.SynUnexpectedToken, "'&&' is not a reference; write '& &'")
		return nil, false
	default:
		return p.parsePostfix()
	}
	p.advance()
	if op == ast.UnaryRef && p.eat(token.KwMut) {
		op = ast.UnaryRefMut
	}
	x, ok := p.parseUnary()
	if !ok {
		return nil, false
	}
	return &ast.UnaryExpr{Op: op, X: x, Span: start.Cover(x.ExprSpan())}, true
}

func (p *Parser) parsePostfix() (ast.Expr, bool) {
	x, ok := p.parsePrimary()
	if !ok {
		return nil, false
	}
	for {
		switch p.peek().Kind {
		case token.LParen:
			args, ok := p.parseArgs()
			if !ok {
				return nil, false
			}
			x = &ast.CallExpr{Callee: x, Args: args, Span: x.ExprSpan().Cover(p.lastSpan)}
		case token.Dot:
			p.advance()
			var field ast.Ident
			switch p.peek().Kind {
			case token.Ident, token.IntLit:
				tok := p.advance()
				field = ast.Ident{Name: tok.Text, Span: tok.Span}
			default:
				p.err(diag.SynExpectIdentifier, "expected field name after '.', found "+describe(p.peek()))
				return nil, false
			}
			if p.at(token.LParen) {
				args, ok := p.parseArgs()
				if !ok {
					return nil, false
				}
				x = &ast.MethodCallExpr{Recv: x, Method: field, Args: args, Span: x.ExprSpan().Cover(p.lastSpan)}
				continue
			}
			x = &ast.FieldExpr{Recv: x, Field: field, Span: x.ExprSpan().Cover(field.Span)}
		case token.LBracket:
			p.advance()
			idx, ok := p.parseExpr()
			if !ok {
				return nil, false
			}
			if _, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' after index"); !ok {
				return nil, false
			}
			x = &ast.IndexExpr{X: x, Index: idx, Span: x.ExprSpan().Cover(p.lastSpan)}
		default:
			return x, true
		}
	}
}

func (p *Parser) parseArgs() ([]ast.Expr, bool) {
	p.advance() // (
	var args []ast.Expr
	saved := p.noStruct
	p.noStruct = 0
	defer func() { p.noStruct = saved }()
	for !p.at(token.RParen) && !p.at(token.EOF) {
		arg, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		args = append(args, arg)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close argument list"); !ok {
		return nil, false
	}
	return args, true
}

func (p *Parser) parsePrimary() (ast.Expr, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		return &ast.IntLit{Text: tok.Text, Span: tok.Span}, true
	case token.KwTrue, token.KwFalse:
		p.advance()
		return &ast.BoolLit{Value: tok.Kind == token.KwTrue, Span: tok.Span}, true
	case token.StringLit:
		p.advance()
		return &ast.StrLit{Raw: tok.Text, Span: tok.Span}, true
	case token.KwSelf:
		p.advance()
		return &ast.SelfExpr{Span: tok.Span}, true
	case token.KwStorage:
		p.advance()
		return &ast.StorageExpr{Span: tok.Span}, true
	case token.Ident, token.KwSelfType:
		return p.parsePathOrStructLit()
	case token.LParen:
		return p.parseParenOrTuple()
	case token.LBracket:
		return p.parseArray()
	case token.KwIf:
		return p.parseIf()
	case token.LBrace:
		b, ok := p.parseBlock()
		if !ok {
			return nil, false
		}
		return &ast.BlockExpr{Block: b}, true
	}
	p.err(diag.SynExpectExpression, "expected expression, found "+describe(tok))
	return nil, false
}

func (p *Parser) parsePathOrStructLit() (ast.Expr, bool) {
	first := p.advance()
	path := &ast.PathExpr{Segments: []ast.Ident{{Name: first.Text, Span: first.Span}}, Span: first.Span}
	for p.at(token.ColonColon) {
		p.advance()
		seg, ok := p.parseIdent()
		if !ok {
			return nil, false
		}
		path.Segments = append(path.Segments, seg)
		path.Span = path.Span.Cover(seg.Span)
	}
	if len(path.Segments) == 1 && p.at(token.LBrace) && p.noStruct == 0 && looksLikeTypeName(first) {
		return p.parseStructLit(path.Segments[0])
	}
	return path, true
}

// looksLikeTypeName keeps `if x { }` from being read as a struct literal.
func looksLikeTypeName(tok token.Token) bool {
	if tok.Kind == token.KwSelfType {
		return true
	}
	r, _ := utf8.DecodeRuneInString(tok.Text)
	return unicode.IsUpper(r)
}

// Name { a: x, b } ; a field without ':' is shorthand for `b: b`.
func (p *Parser) parseStructLit(name ast.Ident) (ast.Expr, bool) {
	p.advance() // {
	lit := &ast.StructLit{Name: name}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		fname, ok := p.parseIdent()
		if !ok {
			return nil, false
		}
		init := ast.FieldInit{Name: fname, Span: fname.Span}
		if p.eat(token.Colon) {
			if init.Value, ok = p.parseExpr(); !ok {
				return nil, false
			}
			init.Span = fname.Span.Cover(init.Value.ExprSpan())
		} else {
			init.Value = &ast.PathExpr{Segments: []ast.Ident{fname}, Span: fname.Span}
		}
		lit.Fields = append(lit.Fields, init)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close struct literal"); !ok {
		return nil, false
	}
	lit.Span = name.Span.Cover(p.lastSpan)
	return lit, true
}

func (p *Parser) parseParenOrTuple() (ast.Expr, bool) {
	start := p.advance().Span // (
	saved := p.noStruct
	p.noStruct = 0
	defer func() { p.noStruct = saved }()
	var elems []ast.Expr
	trailingComma := false
	for !p.at(token.RParen) && !p.at(token.EOF) {
		el, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		elems = append(elems, el)
		trailingComma = p.eat(token.Comma)
		if !trailingComma {
			break
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'"); !ok {
		return nil, false
	}
	sp := start.Cover(p.lastSpan)
	if len(elems) == 1 && !trailingComma {
		return &ast.ParenExpr{X: elems[0], Span: sp}, true
	}
	return &ast.TupleExpr{Elems: elems, Span: sp}, true
}

func (p *Parser) parseArray() (ast.Expr, bool) {
	start := p.advance().Span // [
	var elems []ast.Expr
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		el, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		elems = append(elems, el)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' to close array"); !ok {
		return nil, false
	}
	return &ast.ArrayExpr{Elems: elems, Span: start.Cover(p.lastSpan)}, true
}

func (p *Parser) parseIf() (ast.Expr, bool) {
	start := p.advance().Span // if
	p.noStruct++
	cond, ok := p.parseExpr()
	p.noStruct--
	if !ok {
		return nil, false
	}
	then, ok := p.parseBlock()
	if !ok {
		return nil, false
	}
	e := &ast.IfExpr{Cond: cond, Then: then, Span: start.Cover(then.Span)}
	if p.eat(token.KwElse) {
		if p.at(token.KwIf) {
			e.Else, ok = p.parseIf()
		} else {
			var b *ast.Block
			b, ok = p.parseBlock()
			if ok {
				e.Else = &ast.BlockExpr{Block: b}
			}
		}
		if !ok {
			return nil, false
		}
		e.Span = start.Cover(e.Else.ExprSpan())
	}
	return e, true
}
