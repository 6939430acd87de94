package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileBackend stores each key as <dir>/<key>.json.
type FileBackend struct {
	dir string
}

// NewFileBackend creates a FileBackend rooted at dir.
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

// Path returns the file path used for key.
func (f *FileBackend) Path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// Get reads the file for key.
// Returns ErrNotFound if the file doesn't exist.
func (f *FileBackend) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(f.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Set replaces the file for key. The value is written to a temp file in
// the same directory and renamed over the old one, so readers never see a
// partly written file.
func (f *FileBackend) Set(key string, value []byte) (err error) {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), f.Path(key)); err != nil {
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}
