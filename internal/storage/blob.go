package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"firebase.google.com/go/v4/storage"
)

// BlobStore accepts an uploaded file and returns an opaque URL. The rest of
// the system never interprets the URL beyond non-emptiness.
type BlobStore interface {
	Upload(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
}

// FirebaseBlobStore implements BlobStore on Firebase Cloud Storage
type FirebaseBlobStore struct {
	client *storage.Client
	bucket string
}

// NewFirebaseBlobStore creates a new FirebaseBlobStore
func NewFirebaseBlobStore(client *storage.Client, bucket string) *FirebaseBlobStore {
	return &FirebaseBlobStore{client: client, bucket: bucket}
}

// Upload writes the file into the default bucket and returns its public URL
func (s *FirebaseBlobStore) Upload(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	bkt, err := s.client.DefaultBucket()
	if err != nil {
		return "", fmt.Errorf("failed to open storage bucket: %w", err)
	}

	object := fmt.Sprintf("uploads/%d_%s", time.Now().UnixNano(), filepath.Base(filename))
	w := bkt.Object(object).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload: %w", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, object), nil
}
