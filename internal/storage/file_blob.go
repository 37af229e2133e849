package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/sandeepkv93/tasktimer/internal/filelock"
)

const lockFileName = ".tasktimer.lock"

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FileBlobStore keeps one JSON file per key inside a directory. Writes go to a
// temp file and are renamed into place while holding an advisory lock, so
// concurrent processes see whole snapshots and the last writer wins.
type FileBlobStore struct {
	dir string
}

func NewFileBlobStore(dir string) (*FileBlobStore, error) {
	if dir == "" {
		return nil, errors.New("storage: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileBlobStore{dir: dir}, nil
}

func (s *FileBlobStore) Dir() string { return s.dir }

// Path returns the file backing key.
func (s *FileBlobStore) Path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return raw, nil
}

func (s *FileBlobStore) Put(ctx context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	target := s.Path(key)
	return filelock.With(filepath.Join(s.dir, lockFileName), func() error {
		tmp := target + ".tmp"
		if err := os.WriteFile(tmp, value, 0o644); err != nil {
			return err
		}
		return os.Rename(tmp, target)
	})
}

// UpdatedAt is the modification time of the file backing key.
func (s *FileBlobStore) UpdatedAt(_ context.Context, key string) (time.Time, error) {
	if err := checkKey(key); err != nil {
		return time.Time{}, err
	}
	info, err := os.Stat(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

func (s *FileBlobStore) Close() error { return nil }

func checkKey(key string) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("storage: invalid key %q", key)
	}
	return nil
}
