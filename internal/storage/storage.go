// Package storage uploads ad images to S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Config describes the bucket connection.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL overrides the base of generated object URLs, e.g. a CDN host.
	PublicURL string
}

// MinioStorage stores objects in a MinIO (or any S3) bucket.
type MinioStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string
	log       *zap.Logger
}

// NewMinioStorage connects to the endpoint and ensures the bucket exists.
func NewMinioStorage(ctx context.Context, cfg Config, log *zap.Logger) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client for %s: %w", cfg.Endpoint, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("make bucket %s: %w", cfg.Bucket, err)
		}
		log.Info("bucket created", zap.String("bucket", cfg.Bucket))
	}

	base := strings.TrimRight(cfg.PublicURL, "/")
	if base == "" {
		base = client.EndpointURL().String() + "/" + cfg.Bucket
	}

	return &MinioStorage{client: client, bucket: cfg.Bucket, publicURL: base, log: log}, nil
}

// Upload stores data under key and returns its public URL.
func (s *MinioStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	info, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	s.log.Debug("object uploaded",
		zap.String("bucket", info.Bucket),
		zap.String("key", info.Key),
		zap.Int64("size", info.Size))
	return s.PublicURL(key), nil
}

// PublicURL resolves the public address of key.
func (s *MinioStorage) PublicURL(key string) string {
	return PublicURL(s.publicURL, key)
}

// PublicURL joins a base URL and an object key.
func PublicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
