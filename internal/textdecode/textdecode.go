// Package textdecode holds the small set of lossy string decoders the
// musicdb and itl formats both need: UTF-16LE for "wide" string
// containers, and plain UTF-8 passthrough with replacement-on-error
// behavior matching the reference implementation's use of Python's
// str.decode(..., errors="replace").
package textdecode

import (
	"unicode/utf16"
	"unicode/utf8"
)

// UTF16LE decodes b, a little-endian UTF-16 byte string, to a Go string.
// Unpaired surrogates decode to the Unicode replacement character rather
// than failing, matching the reference parser's "replace" error policy.
func UTF16LE(b []byte) string {
	if len(b)%2 != 0 {
		b = b[:len(b)-1]
	}
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = uint16(b[2*i]) | uint16(b[2*i+1])<<8
	}
	return string(utf16.Decode(units))
}

// UTF8 decodes b as UTF-8, replacing any invalid byte sequence with the
// Unicode replacement character.
func UTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	runes := make([]rune, 0, len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		runes = append(runes, r)
		b = b[size:]
	}
	return string(runes)
}
