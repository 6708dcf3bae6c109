package fuzztests

import (
	"context"
	"testing"

	"vela/internal/ast"
	"vela/internal/check"
	"vela/internal/diag"
	"vela/internal/engines"
	"vela/internal/parser"
)

func FuzzCheckNeverFails(f *testing.F) {
	addSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		eng := engines.New(nil)
		id := eng.Files.AddVirtual("fuzz.vl", clamp(input))
		bag := diag.NewBag(0)
		file := parser.ParseFile(eng.Files.Get(id), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
		res, err := check.Run(context.Background(), eng, []*ast.File{file}, bag.Items(), check.Options{})
		if err != nil {
			t.Fatalf("check returned an error for %q: %v", truncateForLog(input, 200), err)
		}
		if res.OK != (res.Errors() == 0) {
			t.Fatalf("verdict %v disagrees with %d errors", res.OK, res.Errors())
		}
	})
}
