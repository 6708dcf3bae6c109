package lexer_test

import (
	"testing"

	"vela/internal/diag"
	"vela/internal/lexer"
	"vela/internal/source"
	"vela/internal/token"
)

func lex(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.vl", []byte(src))
	bag := diag.NewBag(0)
	toks := lexer.Tokenize(fs.Get(id), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return toks, bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestStructDeclTokens(t *testing.T) {
	toks, bag := lex(t, "struct Point { x: u64, y: u64 }")
	want := []token.Kind{
		token.KwStruct, token.Ident, token.LBrace,
		token.Ident, token.Colon, token.Ident, token.Comma,
		token.Ident, token.Colon, token.Ident, token.RBrace, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	if toks[1].Text != "Point" || toks[1].Span.Start != 7 || toks[1].Span.End != 12 {
		t.Fatalf("bad ident token %+v", toks[1])
	}
}

func TestOperatorsAreGreedy(t *testing.T) {
	toks, _ := lex(t, "a::b -> == != <= >= && || = <")
	want := []token.Kind{
		token.Ident, token.ColonColon, token.Ident, token.Arrow, token.EqEq, token.BangEq,
		token.LtEq, token.GtEq, token.AndAnd, token.OrOr, token.Assign, token.Lt, token.EOF,
	}
	got := kinds(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestDocCommentsAttach(t *testing.T) {
	toks, _ := lex(t, "// plain\n/// Adds one.\n/// Second line.\nfn inc() {}")
	if toks[0].Kind != token.KwFn {
		t.Fatalf("comments must be skipped, got %s", toks[0].Kind)
	}
	if len(toks[0].Doc) != 2 || toks[0].Doc[0] != "Adds one." || toks[0].Doc[1] != "Second line." {
		t.Fatalf("doc = %q", toks[0].Doc)
	}
	if len(toks[1].Doc) != 0 {
		t.Fatalf("doc must attach only once")
	}
}

func TestLexErrors(t *testing.T) {
	cases := []struct {
		src  string
		code diag.Code
	}{
		{`"open`, diag.LexUnterminatedString},
		{"/* never closed", diag.LexUnterminatedBlockComment},
		{"12abc", diag.LexBadNumber},
		{"$", diag.LexUnknownChar},
	}
	for _, tc := range cases {
		_, bag := lex(t, tc.src)
		items := bag.Items()
		if len(items) != 1 || items[0].Code != tc.code {
			t.Fatalf("%q: got %+v, want one %s", tc.src, items, tc.code)
		}
	}
}

func TestNumbers(t *testing.T) {
	toks, bag := lex(t, "0 1_000 0xff 0b101")
	for i := 0; i < 4; i++ {
		if toks[i].Kind != token.IntLit {
			t.Fatalf("token %d = %s", i, toks[i].Kind)
		}
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics")
	}
}

func TestIdentifiersAreNFC(t *testing.T) {
	toks, _ := lex(t, "cafe\u0301")
	if toks[0].Kind != token.Ident || toks[0].Text != "caf\u00e9" {
		t.Fatalf("got %q (%s)", toks[0].Text, toks[0].Kind)
	}
	if toks[0].Span.Len() != 6 {
		t.Fatalf("span must cover the raw bytes, got %d", toks[0].Span.Len())
	}
}
