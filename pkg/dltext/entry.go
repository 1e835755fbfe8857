package dltext

import "unicode/utf8"

// Entry is one localisable string and the identifier the game looks it up by.
//
// Text assignment is guarded: text containing a rune outside
// [0x00,0x7F] or [0xA0,0xFF] is rejected, the previous text is kept and
// Valid reports false until the next accepted assignment.
type Entry struct {
	ID uint32

	text  string
	valid bool
}

// Assignment is the outcome of Entry.SetText.
// When Accepted is false, Text holds the retained previous value and
// Rune/Pos identify the first disallowed rune.
type Assignment struct {
	Accepted bool
	Text     string
	Rune     rune
	Pos      int
}

// NewEntry returns an entry with text assigned through SetText.
func NewEntry(id uint32, text string) *Entry {
	e := &Entry{ID: id}
	e.SetText(text)
	return e
}

// SetText assigns text if every rune is allowed.
func (e *Entry) SetText(text string) Assignment {
	if r, pos, ok := checkRunes(text); !ok {
		e.valid = false
		return Assignment{Text: e.text, Rune: r, Pos: pos}
	}
	e.text = text
	e.valid = true
	return Assignment{Accepted: true, Text: text}
}

func (e *Entry) Text() string { return e.text }

// Valid reports whether the last SetText was accepted.
func (e *Entry) Valid() bool { return e.valid }

// ByteLen is the encoded size of the entry including its null terminator.
func (e *Entry) ByteLen() int {
	return utf8.RuneCountInString(e.text) + 1
}

// AllowedRune reports whether r may appear in entry text.
func AllowedRune(r rune) bool {
	return (r >= 0x00 && r <= 0x7F) || (r >= 0xA0 && r <= 0xFF)
}

func checkRunes(s string) (rune, int, bool) {
	pos := 0
	for _, r := range s {
		if !AllowedRune(r) {
			return r, pos, false
		}
		pos++
	}
	return 0, 0, true
}
