package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Store is the boundary to the external file storage platform: persist a
// blob, get a reference back.
//
//go:generate mockgen -source=filestore.go -destination=mock/filestore_mock.go -package=mock
type Store interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// LocalStore writes files under a base directory and returns a file:// URL.
// Used for development and as the default when no cloud storage is wired.
type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create filestore dir: %w", err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

func (s *LocalStore) Save(_ context.Context, name string, data []byte) (string, error) {
	path := filepath.Join(s.baseDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return "file://" + path, nil
}
