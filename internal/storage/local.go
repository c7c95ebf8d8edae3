package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore implements Store using local disk. It exists so the service runs
// without AWS credentials in development; objects are served back through the
// server's /files routes, and "presigned" upload URLs simply point at the
// same routes.
type LocalStore struct {
	baseDir string
	baseURL string
}

// NewLocalStore creates a new LocalStore rooted at baseDir.
// The public URLs it returns are built from baseURL (the address this
// service is reachable at). The directory is created if it doesn't exist.
func NewLocalStore(baseDir, baseURL string) (*LocalStore, error) {
	if baseDir == "" {
		baseDir = filepath.Join(os.TempDir(), "vidswap")
	}
	if err := os.MkdirAll(baseDir, 0750); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStore{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// BaseDir returns the storage root.
func (s *LocalStore) BaseDir() string {
	return s.baseDir
}

// Upload writes an object to disk and returns its served URL.
func (s *LocalStore) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	path, err := s.objectPath(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return "", fmt.Errorf("create object directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0640)
	if err != nil {
		return "", fmt.Errorf("create object file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(f, body); err != nil {
		return "", fmt.Errorf("write object: %w", err)
	}
	return s.publicURL(key), nil
}

// PresignUpload returns the /files PUT URL for the key. There is no
// signature; the local backend is development-only.
func (s *LocalStore) PresignUpload(_ context.Context, key, _ string) (string, string, error) {
	url := s.publicURL(key)
	return url, url, nil
}

// Open returns a reader for a stored object, for the /files GET handler.
func (s *LocalStore) Open(key string) (io.ReadCloser, error) {
	path, err := s.objectPath(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("open object: %w", err)
	}
	return f, nil
}

// objectPath resolves a key under baseDir, rejecting path traversal.
func (s *LocalStore) objectPath(key string) (string, error) {
	cleaned := filepath.Clean("/" + key)
	if cleaned == "/" {
		return "", fmt.Errorf("storage: invalid object key %q", key)
	}
	return filepath.Join(s.baseDir, cleaned), nil
}

func (s *LocalStore) publicURL(key string) string {
	return fmt.Sprintf("%s/files/%s", s.baseURL, strings.TrimLeft(key, "/"))
}

// Compile-time check that LocalStore implements Store.
var _ Store = (*LocalStore)(nil)
