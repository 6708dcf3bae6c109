package token

var keywords = map[string]Kind{
	"fn":      KwFn,
	"let":     KwLet,
	"mut":     KwMut,
	"const":   KwConst,
	"struct":  KwStruct,
	"enum":    KwEnum,
	"impl":    KwImpl,
	"trait":   KwTrait,
	"for":     KwFor,
	"storage": KwStorage,
	"abi":     KwAbi,
	"if":      KwIf,
	"else":    KwElse,
	"return":  KwReturn,
	"true":    KwTrue,
	"false":   KwFalse,
	"pub":     KwPub,
	"self":    KwSelf,
	"Self":    KwSelfType,
}

// LookupKeyword reports whether ident is a keyword. Keywords are case-sensitive.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
