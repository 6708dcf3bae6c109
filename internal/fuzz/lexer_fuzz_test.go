package fuzztests

import (
	"testing"

	"vela/internal/diag"
	"vela/internal/lexer"
	"vela/internal/source"
	"vela/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.vl", clamp(input)))
		bag := diag.NewBag(64)
		toks := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
			t.Fatalf("token stream does not end with EOF")
		}
		end := uint32(len(file.Content)) // #nosec G115 -- clamped input
		for _, tok := range toks {
			if tok.Span.Start > tok.Span.End || tok.Span.End > end {
				t.Fatalf("token span %v out of bounds (content %d bytes)", tok.Span, end)
			}
		}
	})
}
