// Package objectstore provides ObjectStore adapters: a MinIO client for
// real deployments and an in-memory store for tests.
package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"docsearch/internal/domain"
	"docsearch/internal/port"
)

// MinioStore implements the ObjectStore port over a MinIO (or any
// S3-compatible) endpoint.
type MinioStore struct {
	client *minio.Client
}

func NewMinioStore(endpoint, accessKey, secretKey string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrObjectStore, err)
	}
	return &MinioStore{client: client}, nil
}

func (s *MinioStore) BucketExists(ctx context.Context, bucket string) (bool, error) {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrObjectStore, err)
	}
	return exists, nil
}

func (s *MinioStore) MakeBucket(ctx context.Context, bucket string) error {
	if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrObjectStore, err)
	}
	return nil
}

func (s *MinioStore) PutObject(ctx context.Context, bucket, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrObjectStore, err)
	}
	return nil
}

func (s *MinioStore) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrObjectStore, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrObjectStore, err)
	}
	return data, nil
}

func (s *MinioStore) ListObjects(ctx context.Context, bucket, prefix string) ([]port.ObjectInfo, error) {
	var objects []port.ObjectInfo
	for obj := range s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrObjectStore, obj.Err)
		}
		objects = append(objects, port.ObjectInfo{
			Key:  obj.Key,
			Size: obj.Size,
		})
	}
	return objects, nil
}
