// Package storage stores files on a local directory or an S3-compatible
// bucket (AWS S3, MinIO, R2, Spaces).
//
//	disk, err := storage.Open(storage.ConfigFromEnv())
//	err = disk.Put(ctx, "barcodes/12.png", png, "image/png")
//	url := disk.URL("barcodes/12.png")
package storage

import (
	"context"
	"errors"
)

// ErrNotExist is returned by Get for a missing path.
var ErrNotExist = errors.New("storage: file does not exist")

// Disk is implemented by every storage driver. Paths are slash-separated and
// relative to the disk root.
type Disk interface {
	// Put writes content to path, creating parents as needed.
	Put(ctx context.Context, path string, content []byte, contentType string) error

	// Get returns the content at path or ErrNotExist.
	Get(ctx context.Context, path string) ([]byte, error)

	Exists(ctx context.Context, path string) bool

	// Delete removes path. Missing files are not an error.
	Delete(ctx context.Context, path string) error

	// URL is the public address of path.
	URL(path string) string

	// Name is the driver name ("local" or "s3").
	Name() string
}
