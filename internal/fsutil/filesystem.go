// Package fsutil abstracts the read-side filesystem operations the dataset
// index depends on, so loaders can be tested against an in-memory tree.
package fsutil

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileSystem is the read-oriented view of a dataset root. Use OSFileSystem
// in production and MemoryFileSystem in tests.
type FileSystem interface {
	// Open opens the named file for reading.
	Open(name string) (fs.File, error)

	// ReadFile reads the named file and returns its contents.
	ReadFile(name string) ([]byte, error)

	// Stat returns a FileInfo describing the named file.
	Stat(name string) (fs.FileInfo, error)

	// Exists checks if a file or directory exists.
	Exists(name string) bool
}

// OSFileSystem implements FileSystem using the os package.
type OSFileSystem struct{}

func (OSFileSystem) Open(name string) (fs.File, error)     { return os.Open(name) }
func (OSFileSystem) ReadFile(name string) ([]byte, error)  { return os.ReadFile(name) }
func (OSFileSystem) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

func (OSFileSystem) Exists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}

// MemoryFileSystem holds an in-memory file tree for tests. The zero value
// is not usable; call NewMemoryFileSystem.
type MemoryFileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemoryFileSystem creates an empty in-memory filesystem.
func NewMemoryFileSystem() *MemoryFileSystem {
	return &MemoryFileSystem{files: make(map[string][]byte)}
}

// WriteFile stores data under name. Parent directories are implicit.
func (m *MemoryFileSystem) WriteFile(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	m.files[filepath.Clean(name)] = buf
}

func (m *MemoryFileSystem) Open(name string) (fs.File, error) {
	data, err := m.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return &memFile{name: filepath.Clean(name), r: bytes.NewReader(data)}, nil
}

func (m *MemoryFileSystem) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name = filepath.Clean(name)
	data, ok := m.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MemoryFileSystem) Stat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name = filepath.Clean(name)
	if data, ok := m.files[name]; ok {
		return &memFileInfo{name: filepath.Base(name), size: int64(len(data))}, nil
	}
	if m.hasDirLocked(name) {
		return &memFileInfo{name: filepath.Base(name), isDir: true}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
}

func (m *MemoryFileSystem) Exists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name = filepath.Clean(name)
	if _, ok := m.files[name]; ok {
		return true
	}
	return m.hasDirLocked(name)
}

// hasDirLocked reports whether name is an implicit parent directory of any
// stored file. Callers must hold mu.
func (m *MemoryFileSystem) hasDirLocked(name string) bool {
	prefix := name + string(filepath.Separator)
	for f := range m.files {
		if len(f) > len(prefix) && f[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

type memFile struct {
	name string
	r    *bytes.Reader
}

func (f *memFile) Read(p []byte) (int, error) { return f.r.Read(p) }
func (f *memFile) Close() error               { return nil }

func (f *memFile) Stat() (fs.FileInfo, error) {
	return &memFileInfo{name: filepath.Base(f.name), size: f.r.Size()}, nil
}

type memFileInfo struct {
	name  string
	size  int64
	isDir bool
}

func (i *memFileInfo) Name() string       { return i.name }
func (i *memFileInfo) Size() int64        { return i.size }
func (i *memFileInfo) Mode() fs.FileMode  { return 0o644 }
func (i *memFileInfo) ModTime() time.Time { return time.Time{} }
func (i *memFileInfo) IsDir() bool        { return i.isDir }
func (i *memFileInfo) Sys() any           { return nil }
