package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/tastestack/backend/config"
)

// FileStore persists uploaded blobs (profile pictures, recipe images) and
// returns a URL to reference from a record. Callers write the blob before
// the record so a failed blob write aborts the whole operation.
type FileStore interface {
	Save(ctx context.Context, data []byte, originalName string) (string, error)
}

// NewFileStore builds the configured storage backend.
func NewFileStore(ctx context.Context, cfg *config.Config) (FileStore, error) {
	switch cfg.StorageBackend {
	case "s3":
		return NewS3Store(ctx, cfg)
	default:
		return NewLocalStore(cfg.StoragePath)
	}
}

// LocalStore writes blobs under a base directory with content-addressed
// names, so re-uploading identical data is harmless.
type LocalStore struct {
	basePath string
}

func NewLocalStore(basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStore{basePath: basePath}, nil
}

// Save writes data to disk and returns the serving path.
func (s *LocalStore) Save(ctx context.Context, data []byte, originalName string) (string, error) {
	name := contentName(data, originalName)
	fullPath := filepath.Join(s.basePath, name)

	f, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return path.Join("/media", name), nil
}

// contentName derives a stable file name from the blob's content hash,
// keeping the original extension.
func contentName(data []byte, originalName string) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:16]) + filepath.Ext(originalName)
}
