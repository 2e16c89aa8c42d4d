/*
Package storage provides the file storage service behind the upload
endpoint and room teardown.

This file implements the local-disk backend: uploads live as flat files in
one directory, served statically by the HTTP layer and removed either at
room teardown or by the age sweep.
*/
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"slidecast/internal/pkg/logx"
)

// diskStore implements Service on a single local directory.
type diskStore struct {
	dir    string
	logger zerolog.Logger
}

// newDiskStore creates the upload directory if needed and returns the store.
func newDiskStore(dir string) (*diskStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("disk storage requires an upload directory")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}

	return &diskStore{
		dir:    dir,
		logger: logx.Logger().With().Str("component", "DiskStore").Logger(),
	}, nil
}

// resolve confines name to the upload directory. Names arrive from our own
// upload handler, but a path separator smuggled into one must not escape.
func (d *diskStore) resolve(name string) (string, error) {
	base := filepath.Base(name)
	if base != name || base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("invalid stored file name %q", name)
	}
	return filepath.Join(d.dir, base), nil
}

// Save writes the content to a file under the upload directory.
func (d *diskStore) Save(ctx context.Context, name string, contentType string, content io.Reader, size int64) error {
	target, err := d.resolve(name)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}

	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(target)
		return fmt.Errorf("failed to write %s: %w", target, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", target, err)
	}

	d.logger.Info().Str("file", name).Int64("size", size).Msg("File stored.")
	return nil
}

// Delete removes the named file; a missing file is not an error.
func (d *diskStore) Delete(ctx context.Context, name string) error {
	target, err := d.resolve(name)
	if err != nil {
		return err
	}

	if err := os.Remove(target); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete %s: %w", target, err)
	}

	d.logger.Info().Str("file", name).Msg("File deleted.")
	return nil
}

// Sweep removes every file in the upload directory older than maxAge.
func (d *diskStore) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read upload directory: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().After(cutoff) {
			continue
		}

		if err := os.Remove(filepath.Join(d.dir, entry.Name())); err != nil {
			d.logger.Warn().Err(err).Str("file", entry.Name()).Msg("Sweep failed to delete file.")
			continue
		}
		removed++
	}

	return removed, nil
}
