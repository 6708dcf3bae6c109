package lsp

import "unicode/utf8"

// applyChanges applies incremental edits in order. A change without a
// range replaces the whole text.
func applyChanges(text string, changes []textDocumentContentChangeEvent) string {
	for _, change := range changes {
		if change.Range == nil {
			text = change.Text
			continue
		}
		start := offsetInText(text, change.Range.Start)
		end := offsetInText(text, change.Range.End)
		if end < start {
			end = start
		}
		text = text[:start] + change.Text + text[end:]
	}
	return text
}

// offsetInText is offsetForPositionInFile over a plain string.
func offsetInText(text string, pos Position) int {
	if pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	i, line := 0, 0
	for i < len(text) && line < pos.Line {
		if text[i] == '\n' {
			line++
		}
		i++
	}
	if line < pos.Line {
		return len(text)
	}
	units := 0
	for i < len(text) && text[i] != '\n' && units < pos.Character {
		r, size := utf8.DecodeRuneInString(text[i:])
		need := 1
		if r > 0xFFFF {
			need = 2
		}
		if units+need > pos.Character {
			break
		}
		units += need
		i += size
	}
	return i
}
