package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirStore is the os-backed FileStore, scoped to a root directory. Writes
// fully replace the file contents.
type DirStore struct {
	Root string
}

func (s DirStore) Read(path string) (string, error) {
	b, err := os.ReadFile(filepath.Join(s.Root, path))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(b), nil
}

func (s DirStore) Write(path string, text string) error {
	if err := os.WriteFile(filepath.Join(s.Root, path), []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
