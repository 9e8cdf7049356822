package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fieldledger/backend/internal/domain/shared"
)

var _ shared.FileStore = (*LocalFileStore)(nil)

// LocalFileStore stores attachments on the local filesystem. Intended for
// development and single-instance deployments.
type LocalFileStore struct {
	root string
	log  *zap.Logger
}

// NewLocalFileStore creates a filesystem-backed file store rooted at dir
func NewLocalFileStore(dir string, log *zap.Logger) (*LocalFileStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalFileStore{root: dir, log: log}, nil
}

// Save writes the content under a tenant-prefixed relative path
func (s *LocalFileStore) Save(ctx context.Context, tenantID uuid.UUID, originalName string, content io.Reader) (shared.StoredFile, error) {
	generatedID := uuid.New().String()
	relPath := objectKey(tenantID, generatedID, originalName)
	fullPath := filepath.Join(s.root, filepath.FromSlash(relPath))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return shared.StoredFile{}, fmt.Errorf("failed to create tenant directory: %w", err)
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return shared.StoredFile{}, fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		os.Remove(fullPath)
		return shared.StoredFile{}, fmt.Errorf("failed to write file: %w", err)
	}

	return shared.StoredFile{
		GeneratedID:  generatedID,
		RelativePath: relPath,
		OriginalName: originalName,
	}, nil
}

// Delete removes a stored file. Deleting an absent file is not an error.
func (s *LocalFileStore) Delete(ctx context.Context, file shared.StoredFile) error {
	if file.IsZero() {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(file.RelativePath)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
