package repository

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskFileStoreRoundTrip(t *testing.T) {
	store, err := NewDiskFileStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	require.NoError(t, store.Save("abc.pdf", []byte("%PDF-1.7 data")))

	f, size, err := store.Open("abc.pdf")
	require.NoError(t, err)
	defer f.Close()
	assert.EqualValues(t, 13, size)

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7 data"), data)

	require.NoError(t, store.Delete("abc.pdf"))
	_, _, err = store.Open("abc.pdf")
	assert.True(t, os.IsNotExist(err))
}

func TestDiskFileStoreNeverEscapesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	store, err := NewDiskFileStore(root)
	require.NoError(t, err)

	require.NoError(t, store.Save("../../escape.pdf", []byte("x")))

	_, statErr := os.Stat(filepath.Join(root, "escape.pdf"))
	assert.NoError(t, statErr, "traversal keys collapse to their base name inside the root")
}
