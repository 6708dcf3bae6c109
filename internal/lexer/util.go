package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"
)

// ASCII byte classes.
const (
	classIdentStart uint8 = 1 << iota
	classIdentCont
	classDec
	classHex
)

var asciiClass = func() (tab [utf8.RuneSelf]uint8) {
	for b := 0; b < utf8.RuneSelf; b++ {
		c := byte(b)
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
			tab[b] = classIdentStart | classIdentCont
			if (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') {
				tab[b] |= classHex
			}
		case c >= '0' && c <= '9':
			tab[b] = classIdentCont | classDec | classHex
		}
	}
	return tab
}()

func hasClass(b byte, class uint8) bool {
	return b < utf8.RuneSelf && asciiClass[b]&class != 0
}

func isIdentStartByte(b byte) bool { return hasClass(b, classIdentStart) }

func isDec(b byte) bool { return hasClass(b, classDec) }

func isHex(b byte) bool { return hasClass(b, classHex) }

func isIdentStartRune(r rune) bool {
	if r < utf8.RuneSelf {
		return hasClass(byte(r), classIdentStart)
	}
	return unicode.IsLetter(r)
}

func isIdentContinueRune(r rune) bool {
	if r < utf8.RuneSelf {
		return hasClass(byte(r), classIdentCont)
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// peekRune decodes the rune at the cursor; size is 0 at EOF.
func (lx *Lexer) peekRune() (r rune, size int) {
	if lx.cursor.EOF() {
		return utf8.RuneError, 0
	}
	if b := lx.cursor.Peek(); b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
}

func (lx *Lexer) bumpRune() {
	_, sz := lx.peekRune()
	if sz == 0 {
		return
	}
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("rune size overflow: %w", err))
	}
	lx.cursor.Off += usz
}
