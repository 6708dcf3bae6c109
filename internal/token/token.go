package token

import (
	"vela/internal/source"
)

// Token is a significant token plus the doc comment lines directly above it.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
	Doc  []string
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwFn && t.Kind <= KwSelfType
}

// IsItemStart reports whether the token can begin a top-level item. The parser
// uses it as a synchronization point after syntax errors.
func (t Token) IsItemStart() bool {
	switch t.Kind {
	case KwFn, KwConst, KwStruct, KwEnum, KwImpl, KwTrait, KwStorage, KwAbi, KwPub, Hash:
		return true
	default:
		return false
	}
}
