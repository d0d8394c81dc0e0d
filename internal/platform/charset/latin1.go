// Package charset converts text between UTF-8 and ISO-8859-1 (Latin-1), the
// 8-bit encoding some SMS gateways still speak on the wire.
package charset

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Replacement is written for runes Latin-1 cannot represent.
const Replacement = '?'

// EncodeLatin1 converts s to ISO-8859-1 bytes. Runes outside Latin-1 become
// Replacement.
func EncodeLatin1(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := charmap.ISO8859_1.EncodeRune(r)
		if !ok {
			b = Replacement
		}
		out = append(out, b)
	}
	return out
}

// DecodeLatin1 converts ISO-8859-1 bytes to a UTF-8 string. Every byte is a
// valid Latin-1 code point, so decoding cannot fail.
func DecodeLatin1(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		sb.WriteRune(charmap.ISO8859_1.DecodeByte(c))
	}
	return sb.String()
}

// DecodeLatin1String decodes s, a string holding raw Latin-1 bytes.
func DecodeLatin1String(s string) string {
	return DecodeLatin1([]byte(s))
}
