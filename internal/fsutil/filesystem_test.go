package fsutil

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFileSystem(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	var fsys FileSystem = OSFileSystem{}

	data, err := fsys.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	info, err := fsys.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size())

	assert.True(t, fsys.Exists(path))
	assert.False(t, fsys.Exists(filepath.Join(dir, "missing")))

	f, err := fsys.Open(path)
	require.NoError(t, err)
	defer f.Close()
	out, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), out)
}

func TestMemoryFileSystem(t *testing.T) {
	t.Parallel()

	t.Run("read write", func(t *testing.T) {
		t.Parallel()
		m := NewMemoryFileSystem()
		m.WriteFile("data/seq/frame.bin", []byte{1, 2, 3})

		data, err := m.ReadFile("data/seq/frame.bin")
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3}, data)

		// Returned slices are copies.
		data[0] = 99
		again, err := m.ReadFile("data/seq/frame.bin")
		require.NoError(t, err)
		assert.Equal(t, byte(1), again[0])
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		m := NewMemoryFileSystem()
		_, err := m.ReadFile("nope")
		require.Error(t, err)
		assert.True(t, errors.Is(err, fs.ErrNotExist))

		_, err = m.Stat("nope")
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("implicit directories", func(t *testing.T) {
		t.Parallel()
		m := NewMemoryFileSystem()
		m.WriteFile("root/data/seq/frame.bin", nil)

		assert.True(t, m.Exists("root/data/seq"))
		assert.True(t, m.Exists("root/data"))
		assert.False(t, m.Exists("root/other"))

		info, err := m.Stat("root/data")
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("open reads full contents", func(t *testing.T) {
		t.Parallel()
		m := NewMemoryFileSystem()
		m.WriteFile("a.txt", []byte("contents"))

		f, err := m.Open("a.txt")
		require.NoError(t, err)
		defer f.Close()

		data, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, []byte("contents"), data)

		info, err := f.Stat()
		require.NoError(t, err)
		assert.Equal(t, int64(8), info.Size())
		assert.Equal(t, "a.txt", info.Name())
	})
}
