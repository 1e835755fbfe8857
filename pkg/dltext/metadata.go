package dltext

// Tuple is one metadata record. Offset is read as found and never validated.
type Tuple struct {
	ID     uint32
	Offset uint32
}

// ParseMetadata splits a metadata region into tuples, id first then offset.
// The region length must be a multiple of TupleSize.
func ParseMetadata(region []byte) ([]Tuple, error) {
	if len(region)%TupleSize != 0 {
		return nil, &LengthError{What: "metadata region", Got: len(region), Want: TupleSize}
	}
	tuples := make([]Tuple, 0, len(region)/TupleSize)
	for i := 0; i < len(region); i += TupleSize {
		id, err := BytesToU32(region[i : i+u32Size])
		if err != nil {
			return nil, err
		}
		off, err := BytesToU32(region[i+u32Size : i+TupleSize])
		if err != nil {
			return nil, err
		}
		tuples = append(tuples, Tuple{ID: id, Offset: off})
	}
	return tuples, nil
}

// AppendMetadata appends TupleSize bytes per tuple to dst in input order.
// No terminator is written.
func AppendMetadata(dst []byte, tuples []Tuple) []byte {
	for _, t := range tuples {
		dst = appendU32(dst, t.ID)
		dst = appendU32(dst, t.Offset)
	}
	return dst
}
