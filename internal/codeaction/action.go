package codeaction

import (
	"vela/internal/decl"
	"vela/internal/source"
)

// Kind names what an action produces.
type Kind uint8

const (
	KindImplSkeleton Kind = iota + 1
	KindConstructor
	KindDocComment
)

func (k Kind) String() string {
	switch k {
	case KindImplSkeleton:
		return "impl-skeleton"
	case KindConstructor:
		return "constructor-skeleton"
	case KindDocComment:
		return "doc-skeleton"
	}
	return "unknown"
}

// Position says on which side of the anchor the text goes.
type Position uint8

const (
	Before Position = iota
	After
)

func (p Position) String() string {
	if p == After {
		return "after"
	}
	return "before"
}

// Edit inserts Text next to Anchor, which is the declaration's span.
type Edit struct {
	Anchor   source.Span
	Position Position
	Text     string
}

// Offset is the byte offset where Text is inserted.
func (e Edit) Offset() uint32 {
	if e.Position == After {
		return e.Anchor.End
	}
	return e.Anchor.Start
}

// Action is one suggestion for a declaration.
type Action struct {
	Kind  Kind
	Title string
	Decl  decl.Ref
	Edit  Edit
}
