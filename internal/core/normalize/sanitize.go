package normalize

import (
	"strings"
	"unicode/utf8"
)

// XMLText removes runes that XML 1.0 cannot carry, even escaped:
// - ASCII controls except '\n', '\r', '\t'
// - U+FFFE and U+FFFF
// - invalid UTF-8 bytes
// Dumps occasionally contain these inside post bodies; an encoder that copies them
// through produces a document no parser will read back.
// Fast path returns s unchanged when no cleaning is needed.
func XMLText(s string) string {
	if s == "" {
		return s
	}

	n := len(s)
	i := 0

	// Fast path: scan until first "bad" byte/rune
	for i < n {
		b := s[i]
		if b < 0x20 {
			if b == '\n' || b == '\r' || b == '\t' {
				i++
				continue
			}
			break
		}
		if b < 0x80 {
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if !legalRune(r, size) {
			break
		}
		i += size
	}
	if i == n {
		return s
	}

	// Slow path: build cleaned string from here on
	var bldr strings.Builder
	bldr.Grow(n)
	bldr.WriteString(s[:i])

	for i < n {
		c := s[i]
		if c < 0x20 {
			if c == '\n' || c == '\r' || c == '\t' {
				bldr.WriteByte(c)
			}
			i++
			continue
		}
		if c < 0x80 {
			bldr.WriteByte(c)
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if legalRune(r, size) {
			bldr.WriteString(s[i : i+size])
		}
		i += size
	}
	return bldr.String()
}

func legalRune(r rune, size int) bool {
	if r == utf8.RuneError && size == 1 {
		return false
	}
	return r != 0xFFFE && r != 0xFFFF
}
