package parser

import (
	"vela/internal/ast"
	"vela/internal/diag"
	"vela/internal/source"
	"vela/internal/token"
)

func (p *Parser) parseFnItem(hdr ast.ItemHeader) (*ast.FnItem, bool) {
	sig, ok := p.parseFnSig()
	if !ok {
		return nil, false
	}
	body, ok := p.parseBlock()
	if !ok {
		return nil, false
	}
	return &ast.FnItem{ItemHeader: withSpan(hdr, hdr.Span.Cover(body.Span)), Sig: sig, Body: body}, true
}

// parseFnSig parses `fn name<G>(params) -> Ret` without the body.
func (p *Parser) parseFnSig() (ast.FnSig, bool) {
	start, ok := p.expect(token.KwFn, diag.SynUnexpectedToken, "expected 'fn'")
	if !ok {
		return ast.FnSig{}, false
	}
	name, ok := p.parseIdent()
	if !ok {
		return ast.FnSig{}, false
	}
	sig := ast.FnSig{Name: name}
	if sig.Generics, ok = p.parseGenerics(); !ok {
		return ast.FnSig{}, false
	}
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after function name"); !ok {
		return ast.FnSig{}, false
	}
	for !p.at(token.RParen) && !p.at(token.EOF) {
		param, ok := p.parseParam(len(sig.Params) == 0)
		if !ok {
			return ast.FnSig{}, false
		}
		sig.Params = append(sig.Params, param)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close parameters"); !ok {
		return ast.FnSig{}, false
	}
	if p.eat(token.Arrow) {
		if sig.Ret, ok = p.parseType(); !ok {
			return ast.FnSig{}, false
		}
	}
	sig.Span = start.Span.Cover(p.lastSpan)
	return sig, true
}

// parseParam accepts a receiver only in the first position.
func (p *Parser) parseParam(first bool) (ast.Param, bool) {
	start := p.peek().Span
	var param ast.Param
	switch {
	case p.at(token.Amp) && (p.peekN(1).Kind == token.KwSelf || p.peekN(1).Kind == token.KwMut && p.peekN(2).Kind == token.KwSelf):
		p.advance()
		param.Ref = true
		param.Mut = p.eat(token.KwMut)
	case p.at(token.KwMut) && p.peekN(1).Kind == token.KwSelf:
		p.advance()
		param.Mut = true
	}
	if p.at(token.KwSelf) {
		tok := p.advance()
		if !first {
			p.report(diag.SynUnexpectedToken, tok.Span, "'self' must be the first parameter")
			return ast.Param{}, false
		}
		param.IsSelf = true
		param.Name = ast.Ident{Name: "self", Span: tok.Span}
		param.Span = start.Cover(tok.Span)
		return param, true
	}
	param.Mut = p.eat(token.KwMut)
	name, ok := p.parseIdent()
	if !ok {
		return ast.Param{}, false
	}
	if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after parameter name"); !ok {
		return ast.Param{}, false
	}
	ty, ok := p.parseType()
	if !ok {
		return ast.Param{}, false
	}
	param.Name = name
	param.Type = ty
	param.Span = start.Cover(ty.TypeSpan())
	return param, true
}

// trait Name { fn required(self) -> T; fn provided(self) { ... } }
func (p *Parser) parseTrait(hdr ast.ItemHeader) (*ast.TraitItem, bool) {
	p.advance() // trait
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	item := &ast.TraitItem{ItemHeader: hdr, Name: name}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after trait name"); !ok {
		return nil, false
	}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		mhdr, ok := p.parseMemberHeader()
		if !ok {
			return nil, false
		}
		sig, ok := p.parseFnSig()
		if !ok {
			return nil, false
		}
		if p.eat(token.Semicolon) {
			item.Required = append(item.Required, sig)
			continue
		}
		body, ok := p.parseBlock()
		if !ok {
			return nil, false
		}
		item.Provided = append(item.Provided, &ast.FnItem{
			ItemHeader: withSpan(mhdr, mhdr.Span.Cover(body.Span)), Sig: sig, Body: body,
		})
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close trait"); !ok {
		return nil, false
	}
	item.Span = hdr.Span.Cover(p.lastSpan)
	return item, true
}

// abi Name { #[storage(read)] fn method(a: u64) -> u64; }
func (p *Parser) parseAbi(hdr ast.ItemHeader) (*ast.AbiItem, bool) {
	p.advance() // abi
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	item := &ast.AbiItem{ItemHeader: hdr, Name: name}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after abi name"); !ok {
		return nil, false
	}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if _, ok := p.parseMemberHeader(); !ok {
			return nil, false
		}
		sig, ok := p.parseFnSig()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "abi methods have no body; expected ';'"); !ok {
			return nil, false
		}
		item.Methods = append(item.Methods, sig)
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close abi"); !ok {
		return nil, false
	}
	item.Span = hdr.Span.Cover(p.lastSpan)
	return item, true
}

// impl<G> Target { ... } or impl<G> Trait for Target { ... }
func (p *Parser) parseImpl(hdr ast.ItemHeader) (*ast.ImplItem, bool) {
	p.advance() // impl
	item := &ast.ImplItem{ItemHeader: hdr}
	var ok bool
	if item.Generics, ok = p.parseGenerics(); !ok {
		return nil, false
	}
	first, ok := p.parseType()
	if !ok {
		return nil, false
	}
	if p.eat(token.KwFor) {
		path, isPath := first.(*ast.PathType)
		if !isPath {
			p.report(diag.SynExpectType, first.TypeSpan(), "expected a trait or abi name before 'for'")
			return nil, false
		}
		item.Trait = path
		if item.Target, ok = p.parseType(); !ok {
			return nil, false
		}
	} else {
		item.Target = first
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to open impl body"); !ok {
		return nil, false
	}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		mhdr, ok := p.parseMemberHeader()
		if !ok {
			return nil, false
		}
		fn, ok := p.parseFnItem(mhdr)
		if !ok {
			return nil, false
		}
		item.Fns = append(item.Fns, fn)
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close impl"); !ok {
		return nil, false
	}
	item.Span = hdr.Span.Cover(p.lastSpan)
	return item, true
}

// parseMemberHeader reads doc, attributes and `pub` in front of a member fn.
func (p *Parser) parseMemberHeader() (ast.ItemHeader, bool) {
	first := p.peek()
	hdr := ast.ItemHeader{Doc: first.Doc, Span: first.Span}
	attrs, ok := p.parseAttrs()
	if !ok {
		return hdr, false
	}
	hdr.Attrs = attrs
	hdr.Pub = p.eat(token.KwPub)
	return hdr, true
}

func withSpan(hdr ast.ItemHeader, sp source.Span) ast.ItemHeader {
	hdr.Span = sp
	return hdr
}
