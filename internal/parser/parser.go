package parser

import (
	"vela/internal/ast"
	"vela/internal/diag"
	"vela/internal/lexer"
	"vela/internal/source"
	"vela/internal/token"
)

type Options struct {
	// MaxErrors stops reporting after that many syntax errors; 0 means no limit.
	MaxErrors uint
	Reporter  diag.Reporter
}

// Parser holds the state for a single file.
type Parser struct {
	toks     []token.Token
	pos      int
	file     *source.File
	opts     Options
	errors   uint
	lastSpan source.Span // span of the last consumed token
	noStruct int         // >0 while parsing an if condition
}

// ParseFile lexes and parses f. It always returns a file; syntax errors are
// reported and the parser resynchronizes at the next item keyword.
func ParseFile(f *source.File, opts Options) *ast.File {
	p := &Parser{
		toks: lexer.Tokenize(f, lexer.Options{Reporter: opts.Reporter}),
		file: f,
		opts: opts,
	}
	p.lastSpan = source.Span{File: f.ID}
	out := &ast.File{ID: f.ID, Path: f.Path}
	p.parseItems(out)
	return out
}

// ErrorCount returns how many syntax errors were seen, reported or not.
func (p *Parser) ErrorCount() uint { return p.errors }

func (p *Parser) parseItems(f *ast.File) {
	start := p.peek().Span
	for !p.at(token.EOF) {
		item, ok := p.parseItem()
		if ok {
			f.Items = append(f.Items, item)
			continue
		}
		p.resyncTop()
	}
	f.Span = start.Cover(p.peek().Span)
}

// parseItem dispatches on the first token after attributes and `pub`.
func (p *Parser) parseItem() (ast.Item, bool) {
	first := p.peek()
	hdr := ast.ItemHeader{Doc: first.Doc, Span: first.Span}
	attrs, ok := p.parseAttrs()
	if !ok {
		return nil, false
	}
	hdr.Attrs = attrs
	if p.eat(token.KwPub) {
		hdr.Pub = true
	}

	var item ast.Item
	switch p.peek().Kind {
	case token.KwStruct:
		item, ok = p.parseStruct(hdr)
	case token.KwEnum:
		item, ok = p.parseEnum(hdr)
	case token.KwFn:
		item, ok = p.parseFnItem(hdr)
	case token.KwTrait:
		item, ok = p.parseTrait(hdr)
	case token.KwImpl:
		item, ok = p.parseImpl(hdr)
	case token.KwConst:
		item, ok = p.parseConst(hdr)
	case token.KwStorage:
		item, ok = p.parseStorage(hdr)
	case token.KwAbi:
		item, ok = p.parseAbi(hdr)
	default:
		p.err(diag.SynUnexpectedTopLevel, "expected an item, found "+describe(p.peek()))
		return nil, false
	}
	return item, ok
}

// resyncTop skips to the next token that can start an item. It always makes
// progress.
func (p *Parser) resyncTop() {
	if !p.at(token.EOF) {
		p.advance()
	}
	for !p.at(token.EOF) && !p.peek().IsItemStart() {
		p.advance()
	}
}

// parseAttrWord accepts an identifier or a keyword, as in #[storage(read)].
func (p *Parser) parseAttrWord() (ast.Ident, bool) {
	if tok := p.peek(); tok.IsKeyword() {
		p.advance()
		return ast.Ident{Name: tok.Text, Span: tok.Span}, true
	}
	return p.parseIdent()
}

func (p *Parser) parseAttrs() ([]ast.Attr, bool) {
	var attrs []ast.Attr
	for p.at(token.Hash) {
		start := p.advance().Span
		if _, ok := p.expect(token.LBracket, diag.SynUnexpectedToken, "expected '[' after '#'"); !ok {
			return nil, false
		}
		name, ok := p.parseAttrWord()
		if !ok {
			return nil, false
		}
		attr := ast.Attr{Name: name}
		if p.eat(token.LParen) {
			for !p.at(token.RParen) && !p.at(token.EOF) {
				arg, ok := p.parseAttrWord()
				if !ok {
					return nil, false
				}
				attr.Args = append(attr.Args, arg)
				if !p.eat(token.Comma) {
					break
				}
			}
			if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close attribute arguments"); !ok {
				return nil, false
			}
		}
		end, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' to close attribute")
		if !ok {
			return nil, false
		}
		attr.Span = start.Cover(end.Span)
		attrs = append(attrs, attr)
	}
	return attrs, true
}
