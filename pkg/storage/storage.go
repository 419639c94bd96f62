package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Store persists uploaded documents and hands back a stable reference key.
type Store interface {
	// Save writes the document under key and returns a public URL for it.
	Save(ctx context.Context, key, contentType string, r io.Reader) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// Config selects and configures a storage backend.
type Config struct {
	Provider string // "local" or "s3"

	LocalBasePath string
	LocalBaseURL  string

	S3Region    string
	S3Bucket    string
	S3CDNDomain string
}

// New builds the configured storage backend.
func New(cfg Config) (Store, error) {
	switch cfg.Provider {
	case "", "local":
		return NewLocalStore(cfg.LocalBasePath, cfg.LocalBaseURL)
	case "s3":
		return NewS3Store(cfg.S3Region, cfg.S3Bucket, cfg.S3CDNDomain)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}

// ContentTypeFor guesses a content type from the file extension.
func ContentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
