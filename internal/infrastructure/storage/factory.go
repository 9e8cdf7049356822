package storage

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/fieldledger/backend/internal/infrastructure/config"
)

// NewFileStore selects a file store backend from configuration
func NewFileStore(cfg config.StorageConfig, log *zap.Logger) (shared.FileStore, error) {
	switch cfg.Backend {
	case "s3":
		return NewS3FileStore(cfg, log)
	case "local":
		return NewLocalFileStore(cfg.LocalPath, log)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
