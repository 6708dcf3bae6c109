package parser

import (
	"vela/internal/ast"
	"vela/internal/diag"
	"vela/internal/source"
	"vela/internal/token"
)

func (p *Parser) peek() token.Token {
	return p.toks[p.pos]
}

// peekN looks n tokens ahead; past the end it yields EOF.
func (p *Parser) peekN(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

// advance consumes the current token. EOF is never consumed.
func (p *Parser) advance() token.Token {
	tok := p.toks[p.pos]
	if tok.Kind != token.EOF {
		p.pos++
		p.lastSpan = tok.Span
	}
	return tok
}

func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// expect consumes a token of kind k or reports code at the best span.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.report(code, p.diagSpan(), msg+", found "+describe(p.peek()))
	return token.Token{Kind: token.Invalid, Span: p.diagSpan()}, false
}

// diagSpan points at the current token; at EOF it points just past the
// last consumed token.
func (p *Parser) diagSpan() source.Span {
	tok := p.peek()
	if tok.Kind == token.EOF {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return tok.Span
}

func (p *Parser) err(code diag.Code, msg string) {
	p.report(code, p.diagSpan(), msg)
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string) {
	p.errors++
	if p.opts.Reporter == nil {
		return
	}
	if p.opts.MaxErrors != 0 && p.errors > p.opts.MaxErrors {
		return
	}
	p.opts.Reporter.Report(code, diag.SevError, sp, msg, nil, nil)
}

func (p *Parser) parseIdent() (ast.Ident, bool) {
	if p.at(token.Ident) {
		tok := p.advance()
		return ast.Ident{Name: tok.Text, Span: tok.Span}, true
	}
	p.err(diag.SynExpectIdentifier, "expected identifier, found "+describe(p.peek()))
	return ast.Ident{}, false
}

// parseGenerics parses an optional `<A, B>` parameter list.
func (p *Parser) parseGenerics() ([]ast.Ident, bool) {
	if !p.eat(token.Lt) {
		return nil, true
	}
	var out []ast.Ident
	for !p.at(token.Gt) && !p.at(token.EOF) {
		id, ok := p.parseIdent()
		if !ok {
			return nil, false
		}
		out = append(out, id)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.Gt, diag.SynUnclosedDelimiter, "expected '>' to close generic parameters"); !ok {
		return nil, false
	}
	return out, true
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident, token.IntLit, token.StringLit, token.Invalid:
		return "'" + tok.Text + "'"
	default:
		return "'" + tok.Kind.String() + "'"
	}
}
