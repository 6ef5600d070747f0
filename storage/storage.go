// Package storage abstracts binary blob persistence behind a single
// interface so artifact files and progress-update images share one
// backend: S3 in production, a local directory in development and tests.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no blob exists under the key.
var ErrNotFound = errors.New("blob not found")

// BlobStore stores and retrieves opaque binary payloads by key.
type BlobStore interface {
	// Put stores data under key and returns a URL the blob can be
	// referenced by.
	Put(ctx context.Context, key string, data []byte, contentType string) (url string, err error)
	// Get returns the blob bytes and content type for key.
	Get(ctx context.Context, key string) (data []byte, contentType string, err error)
	// Delete removes the blob under key. Deleting a missing key is not an
	// error.
	Delete(ctx context.Context, key string) error
}
