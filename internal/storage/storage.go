// Package storage holds the object storage abstraction used to offload
// document content to an S3-compatible backend.
package storage

import (
	"context"
	"io"
	"time"
)

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known, -1 otherwise.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is an S3-compatible object storage client.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
}

// DocumentKey is the object key holding the content of document id.
func DocumentKey(id string) string {
	return "documents/" + id
}
