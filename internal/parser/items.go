package parser

import (
	"vela/internal/ast"
	"vela/internal/diag"
	"vela/internal/token"
)

// struct Name<T> { a: A, b: B }
func (p *Parser) parseStruct(hdr ast.ItemHeader) (*ast.StructItem, bool) {
	p.advance() // struct
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	generics, ok := p.parseGenerics()
	if !ok {
		return nil, false
	}
	item := &ast.StructItem{ItemHeader: hdr, Name: name, Generics: generics}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after struct name"); !ok {
		return nil, false
	}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		fname, ok := p.parseIdent()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after field name"); !ok {
			return nil, false
		}
		ty, ok := p.parseType()
		if !ok {
			return nil, false
		}
		item.Fields = append(item.Fields, ast.Field{Name: fname, Type: ty, Span: fname.Span.Cover(ty.TypeSpan())})
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close struct"); !ok {
		return nil, false
	}
	item.Span = hdr.Span.Cover(p.lastSpan)
	return item, true
}

// enum Name<T> { A, B: u64 }
func (p *Parser) parseEnum(hdr ast.ItemHeader) (*ast.EnumItem, bool) {
	p.advance() // enum
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	generics, ok := p.parseGenerics()
	if !ok {
		return nil, false
	}
	item := &ast.EnumItem{ItemHeader: hdr, Name: name, Generics: generics}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after enum name"); !ok {
		return nil, false
	}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		vname, ok := p.parseIdent()
		if !ok {
			return nil, false
		}
		v := ast.Variant{Name: vname, Span: vname.Span}
		if p.eat(token.Colon) {
			ty, ok := p.parseType()
			if !ok {
				return nil, false
			}
			v.Type = ty
			v.Span = vname.Span.Cover(ty.TypeSpan())
		}
		item.Variants = append(item.Variants, v)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close enum"); !ok {
		return nil, false
	}
	item.Span = hdr.Span.Cover(p.lastSpan)
	return item, true
}

// const NAME: T = expr;
func (p *Parser) parseConst(hdr ast.ItemHeader) (*ast.ConstItem, bool) {
	p.advance() // const
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	item := &ast.ConstItem{ItemHeader: hdr, Name: name}
	if p.eat(token.Colon) {
		if item.Type, ok = p.parseType(); !ok {
			return nil, false
		}
	}
	if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' in constant declaration"); !ok {
		return nil, false
	}
	if item.Value, ok = p.parseExpr(); !ok {
		return nil, false
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after constant"); !ok {
		return nil, false
	}
	item.Span = hdr.Span.Cover(p.lastSpan)
	return item, true
}

// storage { name: T = init, ... }
func (p *Parser) parseStorage(hdr ast.ItemHeader) (*ast.StorageItem, bool) {
	p.advance() // storage
	item := &ast.StorageItem{ItemHeader: hdr}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after 'storage'"); !ok {
		return nil, false
	}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		name, ok := p.parseIdent()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after storage field name"); !ok {
			return nil, false
		}
		ty, ok := p.parseType()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "storage fields need an initializer"); !ok {
			return nil, false
		}
		init, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		item.Fields = append(item.Fields, ast.StorageField{
			Name: name, Type: ty, Init: init, Span: name.Span.Cover(init.ExprSpan()),
		})
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close storage"); !ok {
		return nil, false
	}
	item.Span = hdr.Span.Cover(p.lastSpan)
	return item, true
}
