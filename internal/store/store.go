// Package store moves DL text buffers between disk and dltext.File values.
package store

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"
	"golang.org/x/sys/unix"

	"github.com/samcharles93/dltext/pkg/dltext"
)

var ErrTooLarge = errors.New("store: file too large to index in memory")

// Options control how a buffer is decoded.
type Options struct {
	TextOffset     int
	StrictTrailing bool
}

// Open maps path read-only and decodes it. If mmap is unavailable it
// falls back to ReadAt. The mapping is released before Open returns;
// decoded entries do not reference it.
func Open(path string, opts Options) (*dltext.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := st.Size()
	if size > math.MaxInt {
		return nil, ErrTooLarge
	}
	if size == 0 {
		return Decode(nil, opts)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err == nil {
		defer func() { _ = unix.Munmap(data) }()
		return Decode(data, opts)
	}

	return Load(f, size, opts)
}

// Load reads size bytes from r and decodes them.
func Load(r io.ReaderAt, size int64, opts Options) (*dltext.File, error) {
	if size < 0 || size > math.MaxInt {
		return nil, ErrTooLarge
	}
	data, err := ReadAll(r, int(size))
	if err != nil {
		return nil, err
	}
	return Decode(data, opts)
}

// Decode builds a File from an in-memory buffer.
func Decode(data []byte, opts Options) (*dltext.File, error) {
	tf, err := dltext.NewFile(opts.TextOffset)
	if err != nil {
		return nil, err
	}
	tf.StrictTrailing = opts.StrictTrailing
	if err := tf.Decode(data); err != nil {
		return nil, err
	}
	return tf, nil
}

// ReadAll reads exactly size bytes from the start of r.
func ReadAll(r io.ReaderAt, size int) ([]byte, error) {
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		return nil, err
	}
	return out, nil
}

// WriteFile writes data to path through a temporary file in the same
// directory so readers never observe a partially written resource.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	cleanup := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("store: replace %s: %w", path, err)
	}
	return nil
}

// Save encodes tf and writes it to path.
func Save(path string, tf *dltext.File) ([]byte, error) {
	data, err := tf.Encode()
	if err != nil {
		return nil, err
	}
	if err := WriteFile(path, data, 0o644); err != nil {
		return nil, err
	}
	return data, nil
}

// Digest returns the hex BLAKE3-256 digest of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
