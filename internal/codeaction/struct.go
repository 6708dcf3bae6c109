package codeaction

import (
	"strings"

	"vela/internal/decl"
	"vela/internal/engines"
	"vela/internal/types"
)

// StructImpl suggests an inherent impl with one accessor per field. A
// struct without fields gets an empty impl block.
func StructImpl(eng *engines.Engines, h decl.StructHandle) Action {
	s := eng.Decls.GetStruct(h)
	name := eng.Name(s.Name)
	indent := lineIndent(eng, s.Span)
	gen := genericList(eng, s.Generics)

	var sb strings.Builder
	sb.WriteString("\n\n" + indent + "impl" + gen + " " + name + gen + " {\n")
	for i, f := range s.Fields {
		if i > 0 {
			sb.WriteString("\n")
		}
		field := eng.Name(f.Name)
		sb.WriteString(indent + "    fn " + field + "(self) -> " + eng.FormatType(f.Type) + " {\n")
		sb.WriteString(indent + "        self." + field + "\n")
		sb.WriteString(indent + "    }\n")
	}
	sb.WriteString(indent + "}")

	return Action{
		Kind:  KindImplSkeleton,
		Title: "Generate impl for `" + name + "`",
		Decl:  decl.RefStruct(h),
		Edit:  Edit{Anchor: s.Span, Position: After, Text: sb.String()},
	}
}

// StructNew suggests a `new` constructor taking the fields in declaration
// order.
func StructNew(eng *engines.Engines, h decl.StructHandle) Action {
	s := eng.Decls.GetStruct(h)
	name := eng.Name(s.Name)
	indent := lineIndent(eng, s.Span)
	gen := genericList(eng, s.Generics)

	params := make([]string, len(s.Fields))
	inits := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		field := eng.Name(f.Name)
		params[i] = field + ": " + eng.FormatType(f.Type)
		inits[i] = field
	}
	lit := "Self {}"
	if len(inits) > 0 {
		lit = "Self { " + strings.Join(inits, ", ") + " }"
	}

	var sb strings.Builder
	sb.WriteString("\n\n" + indent + "impl" + gen + " " + name + gen + " {\n")
	sb.WriteString(indent + "    pub fn new(" + strings.Join(params, ", ") + ") -> Self {\n")
	sb.WriteString(indent + "        " + lit + "\n")
	sb.WriteString(indent + "    }\n")
	sb.WriteString(indent + "}")

	return Action{
		Kind:  KindConstructor,
		Title: "Generate `new` for `" + name + "`",
		Decl:  decl.RefStruct(h),
		Edit:  Edit{Anchor: s.Span, Position: After, Text: sb.String()},
	}
}

// ForStruct returns the impl, constructor and doc suggestions in that
// order.
func ForStruct(eng *engines.Engines, h decl.StructHandle) []Action {
	doc, _ := DocComment(eng, decl.RefStruct(h))
	return []Action{StructImpl(eng, h), StructNew(eng, h), doc}
}

func genericList(eng *engines.Engines, generics []types.TypeID) string {
	if len(generics) == 0 {
		return ""
	}
	names := make([]string, len(generics))
	for i, g := range generics {
		names[i] = eng.Types.GenericName(g)
	}
	return "<" + strings.Join(names, ", ") + ">"
}
