package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) (*FilesystemStore, string) {
	t.Helper()
	root := t.TempDir()
	store, err := NewFilesystemStore(root)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store, root
}

func TestUpload_WritesUnderBucket(t *testing.T) {
	store, root := newTestStore(t)

	path, err := store.Upload(context.Background(), "documents", "nin/abc/front.jpg", []byte("img"), UploadOptions{})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if path != "nin/abc/front.jpg" {
		t.Fatalf("returned path %q", path)
	}

	b, err := os.ReadFile(filepath.Join(root, "documents", "nin", "abc", "front.jpg"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(b) != "img" {
		t.Fatalf("content %q", b)
	}
}

func TestUpload_NoOverwriteByDefault(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Upload(ctx, "documents", "nin/abc/front.jpg", []byte("one"), UploadOptions{}); err != nil {
		t.Fatalf("first upload: %v", err)
	}
	_, err := store.Upload(ctx, "documents", "nin/abc/front.jpg", []byte("two"), UploadOptions{})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestUpload_OverwriteReplaces(t *testing.T) {
	store, root := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Upload(ctx, "avatars", "abc/profile.png", []byte("old"), UploadOptions{}); err != nil {
		t.Fatalf("first upload: %v", err)
	}
	if _, err := store.Upload(ctx, "avatars", "abc/profile.png", []byte("new"), UploadOptions{Overwrite: true}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(root, "avatars", "abc", "profile.png"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(b) != "new" {
		t.Fatalf("content %q", b)
	}
}

func TestUpload_RejectsBadPaths(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for _, tc := range []struct {
		name   string
		bucket string
		path   string
	}{
		{"traversal", "documents", "../outside.txt"},
		{"nested traversal", "documents", "nin/../../outside.txt"},
		{"empty path", "documents", ""},
		{"empty bucket", "", "nin/abc/front.jpg"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := store.Upload(ctx, tc.bucket, tc.path, []byte("x"), UploadOptions{}); !errors.Is(err, ErrInvalidPath) {
				t.Fatalf("expected ErrInvalidPath, got %v", err)
			}
		})
	}
}
