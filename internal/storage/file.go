package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
)

// File persists each key as one file under a root directory. Writes go
// through a temp file plus rename so a crash never leaves a partial
// value behind. Values are optionally gzip-compressed on disk.
type File struct {
	root     string
	compress bool
	mu       sync.Mutex
}

// NewFile creates a file-backed store rooted at dir, creating the
// directory if needed.
func NewFile(dir string, compress bool) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &File{root: dir, compress: compress}, nil
}

// Get reads the value stored under key.
func (f *File) Get(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read key %q: %w", key, err)
	}

	if f.compress {
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, false, fmt.Errorf("failed to decompress key %q: %w", key, err)
		}
		defer r.Close()
		data, err = io.ReadAll(r)
		if err != nil {
			return nil, false, fmt.Errorf("failed to decompress key %q: %w", key, err)
		}
	}
	return data, true, nil
}

// Set durably stores value under key.
func (f *File) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.compress {
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(value); err != nil {
			return fmt.Errorf("failed to compress key %q: %w", key, err)
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("failed to compress key %q: %w", key, err)
		}
		value = buf.Bytes()
	}

	path := f.path(key)
	tmp, err := os.CreateTemp(f.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to stage key %q: %w", key, err)
	}
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to stage key %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to stage key %q: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// path maps a key to a filename; path separators in keys are flattened
// so a key can never escape the root.
func (f *File) path(key string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_").Replace(key)
	return filepath.Join(f.root, safe+".store")
}
