// Package storage provides the attachment file stores.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fieldledger/backend/internal/domain/shared"
	infraconfig "github.com/fieldledger/backend/internal/infrastructure/config"
)

var _ shared.FileStore = (*S3FileStore)(nil)

// S3FileStore stores attachments in an S3 bucket. Works with any
// S3-compatible backend (AWS S3, MinIO) via a custom endpoint.
type S3FileStore struct {
	client *s3.Client
	bucket string
	log    *zap.Logger
}

// NewS3FileStore creates an S3-backed file store. Static credentials are
// used when configured, otherwise the default AWS credential chain.
func NewS3FileStore(cfg infraconfig.StorageConfig, log *zap.Logger) (*S3FileStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3FileStore{client: client, bucket: cfg.Bucket, log: log}, nil
}

// Save uploads the content under a tenant-prefixed key. The generated ID is
// prepended to the sanitized original name so repeated uploads of the same
// file never collide.
func (s *S3FileStore) Save(ctx context.Context, tenantID uuid.UUID, originalName string, content io.Reader) (shared.StoredFile, error) {
	generatedID := uuid.New().String()
	key := objectKey(tenantID, generatedID, originalName)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   content,
	})
	if err != nil {
		return shared.StoredFile{}, fmt.Errorf("failed to upload file: %w", err)
	}

	s.log.Debug("stored file",
		zap.String("tenant_id", tenantID.String()),
		zap.String("key", key))

	return shared.StoredFile{
		GeneratedID:  generatedID,
		RelativePath: key,
		OriginalName: originalName,
	}, nil
}

// Delete removes a stored file. Deleting an absent key is not an error.
func (s *S3FileStore) Delete(ctx context.Context, file shared.StoredFile) error {
	if file.IsZero() {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(file.RelativePath),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// objectKey builds the tenant-prefixed storage key. The original name is
// flattened to its base name so callers cannot escape the tenant prefix.
func objectKey(tenantID uuid.UUID, generatedID, originalName string) string {
	name := path.Base(strings.ReplaceAll(originalName, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "file"
	}
	return fmt.Sprintf("%s/%s-%s", tenantID, generatedID, name)
}
