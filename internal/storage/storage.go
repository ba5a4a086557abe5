package storage

import (
	"context"
	"io"
	"time"
)

type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// PutOptions describes a single object write.
type PutOptions struct {
	Key         string
	ContentType string
	Size        int64
}

// Service stores portfolio media in remote object storage. Implementations
// are bound to a single bucket.
type Service interface {
	Put(ctx context.Context, body io.Reader, opts PutOptions) error
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	GetObjectURL(ctx context.Context, key string, expires time.Duration) (string, error)
}
