package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// lexical
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004

	// syntax
	SynInfo                Code = 2000
	SynUnexpectedToken     Code = 2001
	SynUnclosedDelimiter   Code = 2002
	SynExpectSemicolon     Code = 2012
	SynAttributeNotAllowed Code = 2016
	SynUnexpectedTopLevel  Code = 2101
	SynExpectIdentifier    Code = 2102
	SynExpectType          Code = 2202
	SynExpectExpression    Code = 2203
	SynExpectColon         Code = 2204

	// semantic
	SemaInfo                     Code = 3000
	SemaError                    Code = 3001
	SemaDuplicateDeclaration     Code = 3002
	SemaUnresolvedName           Code = 3005
	SemaTypeMismatch             Code = 3015
	SemaMissingField             Code = 3038
	SemaIncompleteImplementation Code = 3040
	SemaSignatureMismatch        Code = 3041
	SemaArgumentCount            Code = 3046
	SemaCannotInferType          Code = 3090
	SemaUnusedVariable           Code = 3100
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed number literal",

	SynInfo:                "Syntax information",
	SynUnexpectedToken:     "Unexpected token",
	SynUnclosedDelimiter:   "Unclosed delimiter",
	SynExpectSemicolon:     "Missing semicolon",
	SynAttributeNotAllowed: "Attribute not allowed here",
	SynUnexpectedTopLevel:  "Unexpected top-level construct",
	SynExpectIdentifier:    "Expected identifier",
	SynExpectType:          "Expected type",
	SynExpectExpression:    "Expected expression",
	SynExpectColon:         "Expected ':'",

	SemaInfo:                     "Semantic information",
	SemaError:                    "Semantic error",
	SemaDuplicateDeclaration:     "DuplicateDeclaration",
	SemaUnresolvedName:           "UnresolvedName",
	SemaTypeMismatch:             "TypeMismatch",
	SemaMissingField:             "MissingField",
	SemaIncompleteImplementation: "IncompleteImplementation",
	SemaSignatureMismatch:        "SignatureMismatch",
	SemaArgumentCount:            "ArgumentCount",
	SemaCannotInferType:          "CannotInferType",
	SemaUnusedVariable:           "UnusedVariable",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
