package token

// Kind represents the category of a source token.
type Kind uint8

const (
	Invalid Kind = iota
	EOF

	Ident
	IntLit
	StringLit

	// keywords
	KwFn
	KwLet
	KwMut
	KwConst
	KwStruct
	KwEnum
	KwImpl
	KwTrait
	KwFor
	KwStorage
	KwAbi
	KwIf
	KwElse
	KwReturn
	KwTrue
	KwFalse
	KwPub
	KwSelf     // self
	KwSelfType // Self

	// punctuation and operators
	Plus
	Minus
	Star
	Slash
	Percent
	Assign
	EqEq
	Bang
	BangEq
	Lt
	LtEq
	Gt
	GtEq
	Amp
	AndAnd
	OrOr
	Colon
	ColonColon
	Semicolon
	Comma
	Dot
	Arrow
	Hash
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
)

var kindNames = [...]string{
	Invalid:    "invalid",
	EOF:        "end of file",
	Ident:      "identifier",
	IntLit:     "integer literal",
	StringLit:  "string literal",
	KwFn:       "fn",
	KwLet:      "let",
	KwMut:      "mut",
	KwConst:    "const",
	KwStruct:   "struct",
	KwEnum:     "enum",
	KwImpl:     "impl",
	KwTrait:    "trait",
	KwFor:      "for",
	KwStorage:  "storage",
	KwAbi:      "abi",
	KwIf:       "if",
	KwElse:     "else",
	KwReturn:   "return",
	KwTrue:     "true",
	KwFalse:    "false",
	KwPub:      "pub",
	KwSelf:     "self",
	KwSelfType: "Self",
	Plus:       "+",
	Minus:      "-",
	Star:       "*",
	Slash:      "/",
	Percent:    "%",
	Assign:     "=",
	EqEq:       "==",
	Bang:       "!",
	BangEq:     "!=",
	Lt:         "<",
	LtEq:       "<=",
	Gt:         ">",
	GtEq:       ">=",
	Amp:        "&",
	AndAnd:     "&&",
	OrOr:       "||",
	Colon:      ":",
	ColonColon: "::",
	Semicolon:  ";",
	Comma:      ",",
	Dot:        ".",
	Arrow:      "->",
	Hash:       "#",
	LParen:     "(",
	RParen:     ")",
	LBrace:     "{",
	RBrace:     "}",
	LBracket:   "[",
	RBracket:   "]",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}
