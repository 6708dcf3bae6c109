package ast

import (
	"strconv"
	"strings"
)

// ParseUint decodes decimal, 0x and 0b literals with '_' separators.
func ParseUint(text string) (uint64, error) {
	text = strings.ReplaceAll(text, "_", "")
	if len(text) > 2 && text[0] == '0' {
		switch text[1] {
		case 'x', 'X':
			return strconv.ParseUint(text[2:], 16, 64)
		case 'b', 'B':
			return strconv.ParseUint(text[2:], 2, 64)
		}
	}
	return strconv.ParseUint(text, 10, 64)
}

// Value decodes the literal.
func (e *IntLit) Value() (uint64, error) {
	return ParseUint(e.Text)
}
