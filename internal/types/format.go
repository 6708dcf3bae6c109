package types

import (
	"fmt"
	"strings"
)

// Namer renders named types; the declaration engine implements it.
type Namer interface {
	DeclName(kind Kind, decl uint32) string
}

// Format renders id for diagnostics. A nil namer prints declaration indexes.
func (in *Interner) Format(id TypeID, namer Namer) string {
	var sb strings.Builder
	in.format(&sb, id, namer)
	return sb.String()
}

func (in *Interner) format(sb *strings.Builder, id TypeID, namer Namer) {
	if id == NoTypeID {
		sb.WriteString("<none>")
		return
	}
	root := in.find(id)
	t := in.types[root]
	switch t.Kind {
	case KindError:
		sb.WriteString("{unknown}")
	case KindNever:
		sb.WriteString("!")
	case KindUnit:
		sb.WriteString("()")
	case KindBool:
		sb.WriteString("bool")
	case KindUint:
		fmt.Fprintf(sb, "u%d", t.Width)
	case KindStr:
		sb.WriteString("str")
	case KindB256:
		sb.WriteString("b256")
	case KindContract:
		sb.WriteString("Contract")
	case KindGeneric:
		sb.WriteString(in.generics[t.Index])
	case KindPlaceholder:
		if in.class[t.Index] == ClassInt {
			sb.WriteString("{integer}")
		} else {
			sb.WriteString("_")
		}
	case KindStruct, KindEnum:
		if namer != nil {
			sb.WriteString(namer.DeclName(t.Kind, t.Decl))
		} else {
			fmt.Fprintf(sb, "%s#%d", t.Kind, t.Decl)
		}
		if args := in.lists[t.Args]; len(args) > 0 {
			sb.WriteByte('<')
			in.formatList(sb, args, namer)
			sb.WriteByte('>')
		}
	case KindTuple:
		elems := in.lists[t.Args]
		sb.WriteByte('(')
		in.formatList(sb, elems, namer)
		if len(elems) == 1 {
			sb.WriteByte(',')
		}
		sb.WriteByte(')')
	case KindArray:
		sb.WriteByte('[')
		in.format(sb, t.Elem, namer)
		fmt.Fprintf(sb, "; %d]", t.Count)
	case KindRef:
		sb.WriteByte('&')
		if t.Mutable {
			sb.WriteString("mut ")
		}
		in.format(sb, t.Elem, namer)
	default:
		sb.WriteString(t.Kind.String())
	}
}

func (in *Interner) formatList(sb *strings.Builder, ids []TypeID, namer Namer) {
	for i, el := range ids {
		if i > 0 {
			sb.WriteString(", ")
		}
		in.format(sb, el, namer)
	}
}
