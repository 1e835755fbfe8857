package dltext

import "bytes"

// ParseStrings splits a string region on null bytes and decodes each run.
// Bytes after the last null are not returned; their count is reported as
// trailing so callers can decide whether that is acceptable.
func ParseStrings(region []byte) (strs []string, trailing int) {
	for {
		i := bytes.IndexByte(region, 0)
		if i < 0 {
			return strs, len(region)
		}
		strs = append(strs, DecodeText(region[:i]))
		region = region[i+1:]
	}
}

// AppendStrings appends each text followed by one null byte.
func AppendStrings(dst []byte, texts []string, mode Mode) ([]byte, error) {
	var err error
	for _, s := range texts {
		if dst, err = appendText(dst, s, mode); err != nil {
			return nil, err
		}
		dst = append(dst, 0)
	}
	return dst, nil
}
