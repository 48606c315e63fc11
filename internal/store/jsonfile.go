package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/NataKl/weather-API/internal/domain"
)

// JSONFile keeps all users in one JSON document on disk.
type JSONFile struct {
	path string
	log  *zap.Logger
}

// NewJSONFile creates a backend for the document at path.
func NewJSONFile(path string, log *zap.Logger) *JSONFile {
	return &JSONFile{path: path, log: log}
}

// Load reads the document; a missing file yields an empty map.
func (f *JSONFile) Load(_ context.Context) (map[int64]domain.User, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[int64]domain.User), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	users, skipped, err := decodeDocument(b)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		f.log.Warn("skipped malformed user entries", zap.Int("skipped", skipped))
	}
	return users, nil
}

// Save writes the document through a temp file and rename so a crash never
// leaves a truncated file behind.
func (f *JSONFile) Save(_ context.Context, users map[int64]domain.User) error {
	b, err := encodeDocument(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}

func (f *JSONFile) Close() error { return nil }
