package port

import "context"

// ObjectInfo describes one stored object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStore is durable byte-blob storage grouped into buckets.
type ObjectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)

	MakeBucket(ctx context.Context, bucket string) error

	// PutObject stores data under key, overwriting any existing object.
	PutObject(ctx context.Context, bucket, key string, data []byte) error

	GetObject(ctx context.Context, bucket, key string) ([]byte, error)

	// ListObjects returns objects whose keys start with prefix.
	ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
}
