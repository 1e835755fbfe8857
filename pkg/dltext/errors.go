package dltext

import (
	"errors"
	"fmt"
)

var (
	ErrConstruction   = errors.New("dltext: invalid text definition offset")
	ErrLength         = errors.New("dltext: invalid length")
	ErrLengthMismatch = errors.New("dltext: metadata and string count mismatch")
	ErrEncoding       = errors.New("dltext: character not representable")
	ErrTruncated      = errors.New("dltext: buffer shorter than text definition offset")
	ErrUnterminated   = errors.New("dltext: unterminated string")
)

// ConstructionError reports a text definition offset that does not sit on a
// tuple boundary.
type ConstructionError struct {
	Offset int
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("dltext: text definition offset %#x is not %d plus a multiple of %d", e.Offset, HeaderSize, TupleSize)
}

func (e *ConstructionError) Unwrap() error { return ErrConstruction }

// LengthError reports a byte run that does not fit the fixed widths of the format.
type LengthError struct {
	What string
	Got  int
	Want int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("dltext: %s: got %d bytes, want %s", e.What, e.Got, e.want())
}

func (e *LengthError) want() string {
	if e.What == "metadata region" {
		return fmt.Sprintf("a multiple of %d", e.Want)
	}
	return fmt.Sprintf("%d", e.Want)
}

func (e *LengthError) Unwrap() error { return ErrLength }

type LengthMismatchError struct {
	Tuples  int
	Strings int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("dltext: metadata length %d does not match strings length %d", e.Tuples, e.Strings)
}

func (e *LengthMismatchError) Unwrap() error { return ErrLengthMismatch }

// EncodingError reports the first rune that has no Windows-1252 byte.
// Pos is the rune index within the text.
type EncodingError struct {
	Rune rune
	Pos  int
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("dltext: rune %q (%U) at position %d has no Windows-1252 representation", e.Rune, e.Rune, e.Pos)
}

func (e *EncodingError) Unwrap() error { return ErrEncoding }
