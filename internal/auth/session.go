package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"errandgo/internal/domain/profile"
)

// ErrNoSession is returned when a token does not resolve to a live session
// record, whether because it never existed, expired, or was signed out.
var ErrNoSession = errors.New("no active session")

type Session struct {
	ID         string       `json:"id"`
	Token      string       `json:"-"`
	IdentityID uuid.UUID    `json:"identity_id"`
	Email      string       `json:"email"`
	Role       profile.Role `json:"role"`
	ExpiresAt  time.Time    `json:"expires_at"`
}

type EventType string

// EventSignedOut is delivered to watchers when a session belonging to the
// watched identity is invalidated.
const EventSignedOut EventType = "signed_out"

type Event struct {
	Type       EventType `json:"type"`
	IdentityID uuid.UUID `json:"identity_id"`
	At         time.Time `json:"at"`
}

// Subscription is a handle on a stream of session events. Events is closed
// once the subscription is released. Close is idempotent: releasing an
// already-released subscription is a no-op.
type Subscription interface {
	Events() <-chan Event
	Close() error
}

// SessionStore holds live session records and carries the signed-out
// notification channel. Delete on a missing record is not an error.
type SessionStore interface {
	Save(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	Touch(ctx context.Context, id string, ttl time.Duration) error
	Delete(ctx context.Context, id string) error

	PublishSignedOut(ctx context.Context, identityID uuid.UUID) error
	Subscribe(ctx context.Context, identityID uuid.UUID) (Subscription, error)
}
