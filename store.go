package objcodec

import (
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"
)

// CompressedExt marks destinations that FileStore keeps zstd-compressed.
const CompressedExt = ".zst"

// Store reads and writes whole named resources.
type Store interface {
	// ReadAll returns the full contents of name.
	ReadAll(name string) ([]byte, error)
	// WriteAll replaces the contents of name with data, creating it if
	// needed and truncating what was there.
	WriteAll(name string, data []byte) error
}

// FileStore is a Store on an afero file system. Names ending in
// CompressedExt are compressed with zstd on write and decompressed on read.
// All failures match ErrIOFailure.
type FileStore struct {
	fs afero.Fs
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore on fs.
func NewFileStore(fs afero.Fs) *FileStore {
	return &FileStore{fs: fs}
}

// NewOSFileStore creates a FileStore on the operating system's file system.
func NewOSFileStore() *FileStore {
	return NewFileStore(afero.NewOsFs())
}

func (s *FileStore) ReadAll(name string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, name)
	if err != nil {
		return nil, ioFailure(err, "read %s", name)
	}
	if !compressed(name) {
		return data, nil
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, ioFailure(err, "zstd reader")
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, ioFailure(err, "decompress %s", name)
	}
	return out, nil
}

func (s *FileStore) WriteAll(name string, data []byte) error {
	if compressed(name) {
		enc, err := zstd.NewWriter(nil, zstd.WithZeroFrames(true))
		if err != nil {
			return ioFailure(err, "zstd writer")
		}
		defer enc.Close()
		data = enc.EncodeAll(data, nil)
	}
	if err := afero.WriteFile(s.fs, name, data, 0o644); err != nil {
		return ioFailure(err, "write %s", name)
	}
	return nil
}

func compressed(name string) bool {
	return strings.HasSuffix(name, CompressedExt)
}
