package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("profile not found")
	ErrAlreadyExists = errors.New("profile already exists")
)

// Repository is the one-row-per-identity profile store. The id column is
// both primary key and foreign key into the identity store, so Insert fails
// with ErrAlreadyExists on a second profile for the same identity.
type Repository interface {
	Insert(ctx context.Context, p Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (Profile, error)

	// GetRoleByID selects only the role column; the login flow needs
	// nothing else.
	GetRoleByID(ctx context.Context, id uuid.UUID) (Role, error)
}
