package shared

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// StoredFile is the descriptor handed over by the upload collaborator.
// The core only persists the path and asks the storage layer to delete the
// old path when a file is replaced or its owner is deleted.
type StoredFile struct {
	GeneratedID  string `gorm:"type:varchar(64)" json:"generated_id"`
	RelativePath string `gorm:"type:varchar(500)" json:"relative_path"`
	OriginalName string `gorm:"type:varchar(255)" json:"original_name"`
}

// IsZero reports whether no file is attached
func (f StoredFile) IsZero() bool {
	return f.RelativePath == ""
}

// FileStore saves and deletes stored files. Paths are tenant-prefixed so one
// tenant can never address another tenant's files.
type FileStore interface {
	Save(ctx context.Context, tenantID uuid.UUID, originalName string, content io.Reader) (StoredFile, error)
	Delete(ctx context.Context, file StoredFile) error
}

// NopFileStore is a FileStore that stores nothing
type NopFileStore struct{}

// Save implements FileStore
func (NopFileStore) Save(_ context.Context, _ uuid.UUID, originalName string, _ io.Reader) (StoredFile, error) {
	return StoredFile{OriginalName: originalName}, nil
}

// Delete implements FileStore
func (NopFileStore) Delete(context.Context, StoredFile) error { return nil }
