package codeaction

import (
	"strings"

	"vela/internal/decl"
	"vela/internal/engines"
	"vela/internal/source"
	"vela/internal/types"
)

const briefLine = "Add a brief description."

// DocComment suggests a documentation template for r. Impls and storage
// have no name to document and yield false.
func DocComment(eng *engines.Engines, r decl.Ref) (Action, bool) {
	var sections [][]string
	var span source.Span
	switch r.Kind {
	case decl.KindStruct:
		h, _ := r.Struct()
		s := eng.Decls.GetStruct(h)
		span = s.Span
		var items []string
		for _, f := range s.Fields {
			items = append(items, "* `"+eng.Name(f.Name)+"`: `"+eng.FormatType(f.Type)+"`")
		}
		sections = append(sections, section("Fields", items))
	case decl.KindEnum:
		h, _ := r.Enum()
		v := eng.Decls.GetEnum(h)
		span = v.Span
		var items []string
		for _, vr := range v.Variants {
			item := "* `" + eng.Name(vr.Name) + "`"
			if vr.Type != eng.Types.Builtins().Unit {
				item += ": `" + eng.FormatType(vr.Type) + "`"
			}
			items = append(items, item)
		}
		sections = append(sections, section("Variants", items))
	case decl.KindFunction:
		h, _ := r.Function()
		fn := eng.Decls.GetFunction(h)
		span = fn.Span
		var args []string
		for _, p := range fn.Params {
			if p.IsSelf {
				continue
			}
			args = append(args, "* `"+eng.Name(p.Name)+"`: `"+eng.FormatType(p.Type)+"`")
		}
		sections = append(sections, section("Arguments", args))
		if fn.Ret != types.NoTypeID && fn.Ret != eng.Types.Builtins().Unit {
			sections = append(sections, section("Returns", []string{"* `" + eng.FormatType(fn.Ret) + "`"}))
		}
	case decl.KindTrait, decl.KindAbi, decl.KindConstant:
		span = eng.Decls.Describe(r).Span
	default:
		return Action{}, false
	}

	indent := lineIndent(eng, span)
	lines := []string{"/// " + briefLine}
	for _, sec := range sections {
		for _, l := range sec {
			if l == "" {
				lines = append(lines, "///")
			} else {
				lines = append(lines, "/// "+l)
			}
		}
	}
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteString("\n")
		sb.WriteString(indent)
	}
	return Action{
		Kind:  KindDocComment,
		Title: "Generate a documentation template",
		Decl:  r,
		Edit:  Edit{Anchor: span, Position: Before, Text: sb.String()},
	}, true
}

// section renders a "# Title" block preceded by a blank doc line. Empty
// sections render nothing.
func section(title string, items []string) []string {
	if len(items) == 0 {
		return nil
	}
	out := []string{"", "# " + title, ""}
	return append(out, items...)
}

// lineIndent returns the whitespace before the first token on the line of
// sp.Start.
func lineIndent(eng *engines.Engines, sp source.Span) string {
	if eng.Files == nil || !eng.Files.HasFile(sp.File) {
		return ""
	}
	content := eng.Files.Get(sp.File).Content
	start := int(sp.Start)
	if start > len(content) {
		return ""
	}
	lineStart := start
	for lineStart > 0 && content[lineStart-1] != '\n' {
		lineStart--
	}
	end := lineStart
	for end < start && (content[end] == ' ' || content[end] == '\t') {
		end++
	}
	return string(content[lineStart:end])
}
