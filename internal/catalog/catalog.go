// Package catalog converts decoded text files to and from editable
// translation catalogs in JSON or YAML.
package catalog

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/samcharles93/dltext/pkg/dltext"
)

var (
	ErrUnknownFormat = errors.New("catalog: unknown format")
	ErrBadMagic      = errors.New("catalog: magic must be 4 hex-encoded bytes")
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Catalog is the editable form of a text file.
type Catalog struct {
	Magic      string  `json:"magic" yaml:"magic"`
	TextOffset int     `json:"text_offset" yaml:"text_offset"`
	Entries    []Entry `json:"entries" yaml:"entries"`
}

// Entry is one catalog row. Index is the position in the file; Valid is
// informational on export and ignored on import.
type Entry struct {
	Index int    `json:"index" yaml:"index"`
	ID    uint32 `json:"id" yaml:"id"`
	Text  string `json:"text" yaml:"text"`
	Valid bool   `json:"valid" yaml:"valid"`
}

// Export snapshots tf. TextOffset is the offset the file will have once
// encoded, which differs from tf.TextDefinitionOffset after edits.
func Export(tf *dltext.File) Catalog {
	c := Catalog{
		Magic:      hex.EncodeToString(tf.Magic[:]),
		TextOffset: tf.MetadataLength(),
		Entries:    make([]Entry, len(tf.Entries)),
	}
	for i, e := range tf.Entries {
		c.Entries[i] = Entry{Index: i, ID: e.ID, Text: e.Text(), Valid: e.Valid()}
	}
	return c
}

// DecodeMagic parses the hex magic field.
func (c Catalog) DecodeMagic() ([dltext.HeaderSize]byte, error) {
	var magic [dltext.HeaderSize]byte
	b, err := hex.DecodeString(c.Magic)
	if err != nil || len(b) != dltext.HeaderSize {
		return magic, ErrBadMagic
	}
	copy(magic[:], b)
	return magic, nil
}

func Marshal(c Catalog, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return json.MarshalIndent(c, "", "  ")
	case FormatYAML:
		return yaml.Marshal(c)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

func Unmarshal(data []byte, f Format) (Catalog, error) {
	var c Catalog
	var err error
	switch f {
	case FormatJSON:
		err = json.Unmarshal(data, &c)
	case FormatYAML:
		err = yaml.Unmarshal(data, &c)
	default:
		return c, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return c, fmt.Errorf("catalog: %w", err)
	}
	return c, nil
}
