package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/salesboard/salesboard/internal/config"
)

// Archiver stores a copy of an uploaded spreadsheet before the local
// artifact is cleaned up.
type Archiver interface {
	Archive(ctx context.Context, path, objectName string) error
}

// MinioArchive archives upload artifacts into an object storage bucket.
type MinioArchive struct {
	client *minio.Client
	bucket string
}

// NewMinioArchive connects to object storage and ensures the archive
// bucket exists.
func NewMinioArchive(cfg config.Archive) (*MinioArchive, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to object storage: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", cfg.Bucket, err)
		}
	}

	return &MinioArchive{client: client, bucket: cfg.Bucket}, nil
}

// Archive uploads the file at path under objectName.
func (m *MinioArchive) Archive(ctx context.Context, path, objectName string) error {
	_, err := m.client.FPutObject(ctx, m.bucket, objectName, path, minio.PutObjectOptions{
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	})
	if err != nil {
		return fmt.Errorf("failed to archive %q: %w", objectName, err)
	}

	return nil
}

// NopArchive is used when archiving is disabled.
type NopArchive struct{}

func (NopArchive) Archive(ctx context.Context, path, objectName string) error {
	return nil
}
