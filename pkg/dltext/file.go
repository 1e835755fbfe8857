package dltext

import (
	"fmt"
	"slices"
)

// File is a decoded DL text resource.
//
// The format carries no separator between the metadata and string regions,
// so TextDefinitionOffset must be supplied by the caller. Offsets found in
// the metadata are discarded on decode and recomputed from entry order on
// encode; Entries may be freely edited in between.
type File struct {
	Magic                [HeaderSize]byte
	TextDefinitionOffset int
	Entries              []*Entry

	// StrictTrailing makes Decode fail on bytes after the last null
	// instead of discarding them.
	StrictTrailing bool

	// Dropped is the number of trailing bytes discarded by the last Decode.
	Dropped int
}

// NewFile returns an empty File whose string region starts at
// textDefinitionOffset.
func NewFile(textDefinitionOffset int) (*File, error) {
	if textDefinitionOffset < HeaderSize || (textDefinitionOffset-HeaderSize)%TupleSize != 0 {
		return nil, &ConstructionError{Offset: textDefinitionOffset}
	}
	return &File{TextDefinitionOffset: textDefinitionOffset}, nil
}

// MetadataLength returns the header plus tuple size for the current entries.
func (f *File) MetadataLength() int {
	return MetadataLength(len(f.Entries))
}

// Decode replaces the header and entries with the contents of data.
// On error the file is left unchanged.
func (f *File) Decode(data []byte) error {
	if f.TextDefinitionOffset < HeaderSize || (f.TextDefinitionOffset-HeaderSize)%TupleSize != 0 {
		return &ConstructionError{Offset: f.TextDefinitionOffset}
	}
	if len(data) < f.TextDefinitionOffset {
		return fmt.Errorf("%w: have %d bytes, offset %#x", ErrTruncated, len(data), f.TextDefinitionOffset)
	}

	tuples, err := ParseMetadata(data[HeaderSize:f.TextDefinitionOffset])
	if err != nil {
		return err
	}
	strs, trailing := ParseStrings(data[f.TextDefinitionOffset:])
	if trailing > 0 && f.StrictTrailing {
		return fmt.Errorf("%w: %d bytes after last terminator", ErrUnterminated, trailing)
	}
	if len(tuples) != len(strs) {
		return &LengthMismatchError{Tuples: len(tuples), Strings: len(strs)}
	}

	entries := make([]*Entry, len(strs))
	for i, s := range strs {
		entries[i] = NewEntry(tuples[i].ID, s)
	}

	copy(f.Magic[:], data[:HeaderSize])
	f.Entries = entries
	f.Dropped = trailing
	return nil
}

// Encode builds the binary form of the file. The first string is placed at
// MetadataLength(); each following string directly after its predecessor's
// terminator.
func (f *File) Encode() ([]byte, error) {
	offset := f.MetadataLength()
	tuples := make([]Tuple, len(f.Entries))
	texts := make([]string, len(f.Entries))
	size := offset
	for i, e := range f.Entries {
		tuples[i] = Tuple{ID: e.ID, Offset: uint32(size)}
		texts[i] = e.Text()
		size += e.ByteLen()
	}

	out := make([]byte, 0, size)
	out = append(out, f.Magic[:]...)
	out = AppendMetadata(out, tuples)
	out, err := AppendStrings(out, texts, ModeStrict)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Invalid returns the indices of entries whose last assignment was rejected.
func (f *File) Invalid() []int {
	var idx []int
	for i, e := range f.Entries {
		if !e.Valid() {
			idx = append(idx, i)
		}
	}
	return idx
}

// Insert places e at index i, shifting later entries. i == len(Entries) appends.
func (f *File) Insert(i int, e *Entry) error {
	if i < 0 || i > len(f.Entries) {
		return fmt.Errorf("dltext: insert index %d out of range [0,%d]", i, len(f.Entries))
	}
	f.Entries = slices.Insert(f.Entries, i, e)
	return nil
}

// Remove deletes the entry at index i.
func (f *File) Remove(i int) error {
	if i < 0 || i >= len(f.Entries) {
		return fmt.Errorf("dltext: remove index %d out of range [0,%d)", i, len(f.Entries))
	}
	f.Entries = slices.Delete(f.Entries, i, i+1)
	return nil
}
