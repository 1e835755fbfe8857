package dltext

import (
	"golang.org/x/text/encoding/charmap"
)

// Mode selects how EncodeText handles runes outside the code page.
type Mode int

const (
	// ModeStrict fails with an *EncodingError on the first unmappable rune.
	ModeStrict Mode = iota
	// ModeReplace substitutes ReplacementByte for unmappable runes.
	ModeReplace
)

// ReplacementByte is written for unmappable runes in ModeReplace.
const ReplacementByte = '?'

var codePage = charmap.Windows1252

// DecodeText maps every byte through the Windows-1252 code page.
func DecodeText(b []byte) string {
	out := make([]rune, len(b))
	for i, c := range b {
		out[i] = codePage.DecodeByte(c)
	}
	return string(out)
}

// EncodeText maps text back to Windows-1252 bytes, one byte per rune.
func EncodeText(text string, mode Mode) ([]byte, error) {
	return appendText(make([]byte, 0, len(text)), text, mode)
}

func appendText(dst []byte, text string, mode Mode) ([]byte, error) {
	pos := 0
	for _, r := range text {
		c, ok := codePage.EncodeRune(r)
		if !ok {
			if mode != ModeReplace {
				return nil, &EncodingError{Rune: r, Pos: pos}
			}
			c = ReplacementByte
		}
		dst = append(dst, c)
		pos++
	}
	return dst, nil
}
