/*
Package storage provides the file storage service behind the upload
endpoint and room teardown.

This file defines the Service interface and the factory that selects the
concrete backend (local disk or S3-compatible) from configuration.
*/
package storage

import (
	"context"
	"io"
	"time"
)

// ServiceConfig holds the configuration required to build a storage backend.
type ServiceConfig struct {
	// Backend selects the implementation: "disk" or "s3".
	Backend string

	// UploadDir is the directory for the disk backend.
	UploadDir string

	// S3 settings, used only by the s3 backend.
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// Service is the storage contract the rest of the server depends on.
// Names are flat stored file names (no directories); callers obtain them
// from the upload endpoint and hand them back verbatim.
type Service interface {
	// Save stores the content under name.
	Save(ctx context.Context, name string, contentType string, content io.Reader, size int64) error

	// Delete removes the file with the given name. Deleting a name that
	// does not exist is not an error.
	Delete(ctx context.Context, name string) error

	// Sweep deletes every stored file older than maxAge and reports how
	// many were removed. Uploaded files are the only artifact that outlives
	// a room, so an age bound is the backstop against orphans.
	Sweep(ctx context.Context, maxAge time.Duration) (int, error)
}

// NewService is the factory for Service implementations.
func NewService(cfg ServiceConfig) (Service, error) {
	if cfg.Backend == "s3" {
		return newS3Store(cfg)
	}
	return newDiskStore(cfg.UploadDir)
}
