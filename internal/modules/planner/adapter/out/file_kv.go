package out

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	plannerout "studyhub/internal/modules/planner/port/out"
)

// FileKVStore keeps one file per key under dir. Writes go through a temp
// file and a rename.
type FileKVStore struct {
	dir string
}

func NewFileKVStore(dir string) plannerout.KVStore {
	return &FileKVStore{dir: dir}
}

func (s *FileKVStore) Get(_ context.Context, key string) (string, bool, error) {
	payload, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return string(payload), true, nil
}

func (s *FileKVStore) Set(_ context.Context, key, value string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

func (s *FileKVStore) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+".json")
}
