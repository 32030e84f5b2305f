package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemStore lays buckets out as directories under a single root. Paths
// are validated against traversal before touching the disk.
type FilesystemStore struct {
	root string
}

func NewFilesystemStore(root string) (*FilesystemStore, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("empty storage root")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &FilesystemStore{root: root}, nil
}

func (s *FilesystemStore) Upload(ctx context.Context, bucket, path string, data []byte, opts UploadOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rel, err := cleanObjectPath(bucket, path)
	if err != nil {
		return "", err
	}

	full := filepath.Join(s.root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !opts.Overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}

	f, err := os.OpenFile(full, flags, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return "", ErrAlreadyExists
		}
		return "", err
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(full)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	return path, nil
}

func cleanObjectPath(bucket, path string) (string, error) {
	bucket = strings.TrimSpace(bucket)
	path = strings.Trim(strings.TrimSpace(path), "/")
	if bucket == "" || path == "" {
		return "", ErrInvalidPath
	}

	joined := filepath.Join(bucket, filepath.FromSlash(path))
	if joined != filepath.Clean(joined) || strings.Contains(path, "..") {
		return "", ErrInvalidPath
	}
	return joined, nil
}
