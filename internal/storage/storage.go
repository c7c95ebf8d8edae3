// Package storage provides durable blob storage for uploaded source assets
// and re-hosted output videos. It defines the Store port and two
// implementations: S3 for production and local disk for development.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned when a stored object cannot be found by key.
var ErrObjectNotFound = errors.New("storage: object not found")

// Store defines the interface for durable blob storage.
type Store interface {
	// Upload writes an object and returns its durable public URL.
	Upload(ctx context.Context, key, contentType string, body io.Reader) (url string, err error)

	// PresignUpload issues a scoped, time-limited URL the client can PUT the
	// object to directly, plus the durable public URL the object will have
	// once uploaded.
	PresignUpload(ctx context.Context, key, contentType string) (uploadURL, publicURL string, err error)
}
