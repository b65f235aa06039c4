package repository

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kundanmehta01/UniNotes-sub001/domain"
)

// diskFileStore keeps uploaded binaries in a flat directory keyed by opaque
// storage keys.
type diskFileStore struct {
	root string
}

func NewDiskFileStore(root string) (domain.FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &diskFileStore{root: root}, nil
}

func (s *diskFileStore) path(key string) string {
	// Keys are server-generated UUIDs, but never trust them as paths.
	return filepath.Join(s.root, filepath.Base(strings.TrimSpace(key)))
}

func (s *diskFileStore) Save(key string, data []byte) error {
	return os.WriteFile(s.path(key), data, 0o644)
}

func (s *diskFileStore) Open(key string) (io.ReadSeekCloser, int64, error) {
	f, err := os.Open(s.path(key))
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}

func (s *diskFileStore) Delete(key string) error {
	return os.Remove(s.path(key))
}
