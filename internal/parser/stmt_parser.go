package parser

import (
	"vela/internal/ast"
	"vela/internal/diag"
	"vela/internal/token"
)

// parseBlock parses `{ stmt* tail? }`. Statement-level errors resync
// inside the block so one bad statement does not discard the function.
func (p *Parser) parseBlock() (*ast.Block, bool) {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'")
	if !ok {
		return nil, false
	}
	saved := p.noStruct
	p.noStruct = 0
	defer func() { p.noStruct = saved }()

	b := &ast.Block{}
loop:
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.Semicolon:
			p.advance()
		case token.KwLet:
			if s, ok := p.parseLet(); ok {
				b.Stmts = append(b.Stmts, s)
			} else {
				p.resyncStmt()
			}
		case token.KwReturn:
			if s, ok := p.parseReturn(); ok {
				b.Stmts = append(b.Stmts, s)
			} else {
				p.resyncStmt()
			}
		default:
			x, ok := p.parseExpr()
			if !ok {
				p.resyncStmt()
				continue
			}
			if p.eat(token.Assign) {
				value, ok := p.parseExpr()
				if !ok {
					p.resyncStmt()
					continue
				}
				p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after assignment")
				b.Stmts = append(b.Stmts, &ast.AssignStmt{Target: x, Value: value, Span: x.ExprSpan().Cover(p.lastSpan)})
				continue
			}
			if p.eat(token.Semicolon) {
				b.Stmts = append(b.Stmts, &ast.ExprStmt{X: x, Span: x.ExprSpan().Cover(p.lastSpan)})
				continue
			}
			if p.at(token.RBrace) {
				b.Tail = x
				break loop
			}
			if !isBlockLike(x) {
				p.err(diag.SynExpectSemicolon, "expected ';' after expression, found "+describe(p.peek()))
			}
			b.Stmts = append(b.Stmts, &ast.ExprStmt{X: x, Span: x.ExprSpan()})
		}
	}
	closeTok, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close block")
	if !ok {
		return nil, false
	}
	b.Span = open.Span.Cover(closeTok.Span)
	return b, true
}

func isBlockLike(x ast.Expr) bool {
	switch x.(type) {
	case *ast.IfExpr, *ast.BlockExpr:
		return true
	}
	return false
}

// let [mut] name [: T] = expr;
func (p *Parser) parseLet() (*ast.LetStmt, bool) {
	start := p.advance().Span // let
	s := &ast.LetStmt{Mut: p.eat(token.KwMut)}
	var ok bool
	if s.Name, ok = p.parseIdent(); !ok {
		return nil, false
	}
	if p.eat(token.Colon) {
		if s.Type, ok = p.parseType(); !ok {
			return nil, false
		}
	}
	if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' in let binding"); !ok {
		return nil, false
	}
	if s.Value, ok = p.parseExpr(); !ok {
		return nil, false
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after let binding"); !ok {
		return nil, false
	}
	s.Span = start.Cover(p.lastSpan)
	return s, true
}

func (p *Parser) parseReturn() (*ast.ReturnStmt, bool) {
	start := p.advance().Span // return
	s := &ast.ReturnStmt{}
	if !p.at(token.Semicolon) && !p.at(token.RBrace) {
		var ok bool
		if s.Value, ok = p.parseExpr(); !ok {
			return nil, false
		}
	}
	p.eat(token.Semicolon)
	s.Span = start.Cover(p.lastSpan)
	return s, true
}

// resyncStmt skips to the end of the current statement: past a ';' at the
// current nesting level, or up to the '}' that closes the block.
func (p *Parser) resyncStmt() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			if depth == 0 {
				return
			}
			depth--
		case token.Semicolon:
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}
