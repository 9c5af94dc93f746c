package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/renameio/v2"
)

// File keeps the snapshot as a JSON document on disk. Saves write a
// temporary file and rename it over the target, so a crash never leaves a
// truncated snapshot behind.
type File struct {
	mu     sync.Mutex
	path   string
	closed bool
}

func NewFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("store: create state directory: %w", err)
	}
	return &File{path: path}, nil
}

// Path returns the location of the snapshot file.
func (f *File) Path() string {
	return f.path
}

func (f *File) Load() (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, ErrClosed
	}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", f.path, err)
	}
	return Decode(data)
}

func (f *File) Save(s Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}
	if err := renameio.WriteFile(f.path, data, 0644); err != nil {
		return fmt.Errorf("store: replace %s: %w", f.path, err)
	}
	return nil
}

func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}
