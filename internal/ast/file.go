package ast

import "vela/internal/source"

// File is one parsed source file.
type File struct {
	ID    source.FileID
	Path  string
	Items []Item
	Span  source.Span
}

// Ident is a name together with its location.
type Ident struct {
	Name string
	Span source.Span
}

func (id Ident) IsZero() bool { return id.Name == "" }

// Attr is an outer attribute such as #[test] or #[storage(read, write)].
type Attr struct {
	Name Ident
	Args []Ident
	Span source.Span
}
