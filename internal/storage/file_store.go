package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps each storage key as a JSON file under a base directory.
// Writes go through a temp file and rename so a crash mid-write leaves the
// previous snapshot intact.
type FileStore struct {
	basePath string
}

func NewFileStore(basePath string) (*FileStore, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &FileStore{basePath: basePath}, nil
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.basePath, key+".json")
}

func (f *FileStore) Read(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read snapshot %s: %w", key, err)
	}
	return data, true, nil
}

func (f *FileStore) Write(key string, data []byte) error {
	tmp := f.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", key, err)
	}
	if err := os.Rename(tmp, f.path(key)); err != nil {
		return fmt.Errorf("failed to commit snapshot %s: %w", key, err)
	}
	return nil
}

func (f *FileStore) Delete(key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete snapshot %s: %w", key, err)
	}
	return nil
}
