package session

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// FileStore keeps one JSON file per player key under a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns a FileStore.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating session dir %q: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the session directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// FileName returns the file name used for key. Characters outside
// [A-Za-z0-9_-] are replaced with '_'. When that changes the key, '~' and a
// short blake2b digest of the raw key are appended. '~' never survives
// sanitizing, so derived names cannot collide with clean keys.
func FileName(key string) string {
	clean := sanitize(key)
	if clean == key {
		return clean + ".json"
	}
	sum := blake2b.Sum256([]byte(key))
	return clean + "~" + hex.EncodeToString(sum[:6]) + ".json"
}

func sanitize(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, key)
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, FileName(key))
}

func (s *FileStore) Load(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading session %q: %w", key, err)
	}
	return data, nil
}

// Save writes data to a temporary file and renames it over the target, so
// readers never see a partial document.
func (s *FileStore) Save(_ context.Context, key string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing session %q: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing session %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing session %q: %w", key, err)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		return fmt.Errorf("renaming session %q: %w", key, err)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting session %q: %w", key, err)
	}
	return nil
}
