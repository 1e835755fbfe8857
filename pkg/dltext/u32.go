package dltext

import "encoding/binary"

// BytesToU32 interprets exactly four bytes as a little-endian uint32.
func BytesToU32(b []byte) (uint32, error) {
	if len(b) != u32Size {
		return 0, &LengthError{What: "uint32", Got: len(b), Want: u32Size}
	}
	return binary.LittleEndian.Uint32(b), nil
}

// U32ToBytes returns v as four little-endian bytes.
func U32ToBytes(v uint32) [u32Size]byte {
	var b [u32Size]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return b
}

func appendU32(dst []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, v)
}
