package storage

import (
	"context"
	"io"
)

// UploadResult describes a stored object.
type UploadResult struct {
	Key      string `json:"key"`
	Location string `json:"location"`
	ETag     string `json:"etag,omitempty"`
}

// FileUploader stores exported files under a key and exposes them by public URL.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	GetPublicURL(key string) string
}
