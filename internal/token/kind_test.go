package token

import "testing"

func TestKeywordsRoundTrip(t *testing.T) {
	for text, kind := range keywords {
		if kind.String() != text {
			t.Fatalf("kind %d renders as %q, want %q", kind, kind.String(), text)
		}
		if !(Token{Kind: kind}).IsKeyword() {
			t.Fatalf("%q must be a keyword", text)
		}
	}
	if _, ok := LookupKeyword("u64"); ok {
		t.Fatalf("primitive names are identifiers")
	}
	if (Token{Kind: Ident}).IsKeyword() {
		t.Fatalf("identifier is not a keyword")
	}
}
