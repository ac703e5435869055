// Package artifact persists rendered script files.
//
// Two destinations are supported: a local directory, where each file is
// staged to a hidden temp file and renamed into place so a failed run
// never leaves a partially written artifact, and an object-storage
// bucket for distributing generated route sets. Buckets are addressed
// through gocloud.dev/blob, so s3://, gs://, file:// and mem:// all work
// as long as the matching driver is linked into the binary.
package artifact

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"gocloud.dev/blob"

	"github.com/Clouded-Sabre/chnroutes/internal/script"
)

// WriteDir writes the files into dir, creating the directory if needed.
func WriteDir(dir string, files []script.File) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	for _, f := range files {
		if err := writeFile(dir, f); err != nil {
			return fmt.Errorf("write %s: %w", f.Name, err)
		}
	}

	return nil
}

// writeFile stages f to a temp file in dir and renames it over the
// final name once the content is on disk.
func writeFile(dir string, f script.File) error {
	tmp, err := os.CreateTemp(dir, "."+f.Name+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(f.Data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	mode := f.Mode
	if mode == 0 {
		mode = 0644
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return fmt.Errorf("set mode: %w", err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(dir, f.Name)); err != nil {
		return fmt.Errorf("replace file: %w", err)
	}

	return nil
}

// Publish writes the files to the bucket, keyed under prefix. The
// caller owns the bucket handle.
func Publish(ctx context.Context, bkt *blob.Bucket, prefix string, files []script.File) error {
	for _, f := range files {
		key := f.Name
		if prefix != "" {
			key = path.Join(prefix, f.Name)
		}

		opts := &blob.WriterOptions{ContentType: "text/plain; charset=utf-8"}
		if err := bkt.WriteAll(ctx, key, f.Data, opts); err != nil {
			return fmt.Errorf("write %s: %w", key, err)
		}
	}

	return nil
}
