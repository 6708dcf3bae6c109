package lsp

import (
	"sort"
	"unicode/utf8"

	"fortio.org/safecast"

	"vela/internal/source"
)

func safeUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return ^uint32(0)
	}
	return v
}

// offsetForPositionInFile converts a UTF-16 position to a byte offset,
// clamping to the line end and the file end.
func offsetForPositionInFile(file *source.File, pos Position) uint32 {
	if file == nil || pos.Line < 0 || pos.Character < 0 || len(file.Content) == 0 {
		return 0
	}
	content := file.Content
	contentLen := safeUint32(len(content))
	if pos.Line > len(file.LineIdx) {
		return contentLen
	}
	var lineStart uint32
	if pos.Line > 0 {
		lineStart = file.LineIdx[pos.Line-1] + 1
	}
	lineEnd := contentLen
	if pos.Line < len(file.LineIdx) {
		lineEnd = file.LineIdx[pos.Line]
	}
	if lineStart > lineEnd {
		return lineEnd
	}
	units := 0
	off := lineStart
	for off < lineEnd && units < pos.Character {
		r, size := utf8.DecodeRune(content[off:lineEnd])
		need := 1
		if r > 0xFFFF {
			need = 2
		}
		if units+need > pos.Character {
			break
		}
		units += need
		off += safeUint32(size)
	}
	return off
}

func positionForOffsetInFile(file *source.File, offset uint32) Position {
	if file == nil {
		return Position{}
	}
	if n := safeUint32(len(file.Content)); offset > n {
		offset = n
	}
	lineIdx := file.LineIdx
	line := sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= offset })
	var lineStart uint32
	if line > 0 {
		lineStart = lineIdx[line-1] + 1
	}
	units := 0
	for off := lineStart; off < offset; {
		r, size := utf8.DecodeRune(file.Content[off:offset])
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
		off += safeUint32(size)
	}
	return Position{Line: line, Character: units}
}

func rangeForSpan(file *source.File, span source.Span) Range {
	if file == nil {
		return Range{}
	}
	return Range{
		Start: positionForOffsetInFile(file, span.Start),
		End:   positionForOffsetInFile(file, span.End),
	}
}
