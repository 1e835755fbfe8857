// Package dltext implements the DL text resource format.
//
// A DL text file is a 4-byte magic header, a table of (id, offset) tuples
// and a block of null-terminated Windows-1252 strings. The package decodes a
// whole buffer into an ordered list of entries and encodes the list back.
// It performs no I/O.
package dltext

// Layout constants must never change.
const (
	// HeaderSize is the size of the opaque magic header.
	HeaderSize = 4

	// TupleSize is the size of one (id, offset) metadata tuple.
	TupleSize = 8

	// u32Size is the size of every integer in the format.
	u32Size = 4
)

// MetadataLength returns the size of the header plus n metadata tuples.
// It is also the absolute offset of the first string once n entries are encoded.
func MetadataLength(n int) int {
	return n*TupleSize + HeaderSize
}
