package storage

import (
	"context"
	"errors"
)

var (
	ErrAlreadyExists = errors.New("object already exists")
	ErrInvalidPath   = errors.New("invalid object path")
)

type UploadOptions struct {
	// Overwrite allows replacing an existing object. Registration uploads
	// leave it false, matching the one-shot nature of KYC slots.
	Overwrite bool
}

// Store is the blob-store contract: content addressed by bucket and path,
// referenced (never embedded) by profile records. Upload returns the stored
// path.
type Store interface {
	Upload(ctx context.Context, bucket, path string, data []byte, opts UploadOptions) (string, error)
}
