// Package storage abstracts where uploaded tenancy documents live.
// The local filesystem implementation is the default; the interface is
// the seam where an object-store implementation (S3 and friends) would
// slot in without touching the handlers.
package storage

import (
	"context"
	"io"
)

// Storage saves, serves, and deletes document blobs by key.
type Storage interface {
	// Save writes the blob under key and returns the public URL it will
	// be served from. Key is a unique path such as
	// "tenant/<id>/<uuid>.pdf".
	Save(ctx context.Context, key string, data io.Reader, contentType string) (url string, err error)

	// Open returns a reader for the blob at key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the blob at key. Deleting a missing key is not an
	// error.
	Delete(ctx context.Context, key string) error
}
