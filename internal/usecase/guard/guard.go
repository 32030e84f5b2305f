package guard

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"errandgo/internal/auth"
	"errandgo/internal/domain/profile"
)

type State int

const (
	StateRedirect State = iota
	StateReady
)

// UserContext is the merged session + profile view handed to a protected
// page once the guard admits it.
type UserContext struct {
	IdentityID         uuid.UUID    `json:"identity_id"`
	Email              string       `json:"email"`
	FullName           string       `json:"full_name"`
	PhoneNumber        string       `json:"phone_number"`
	Role               profile.Role `json:"role"`
	ProfilePictureURL  *string      `json:"profile_picture_url"`
	RelationshipStatus string       `json:"relationship_status"`
	Address            string       `json:"address"`
	Bio                string       `json:"bio"`
	SessionExpiresAt   time.Time    `json:"session_expires_at"`
}

type Decision struct {
	State      State
	RedirectTo string
	User       UserContext
}

type SessionSource interface {
	GetSession(ctx context.Context, token string) (auth.Session, error)
	Subscribe(ctx context.Context, identityID uuid.UUID) (auth.Subscription, error)
}

type ProfileSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (profile.Profile, error)
}

// Guard gates protected views for one role. Both dashboards use the same
// implementation with a different expected role injected at construction.
type Guard struct {
	expected profile.Role
	sessions SessionSource
	profiles ProfileSource
	logger   *log.Logger
}

func New(expected profile.Role, sessions SessionSource, profiles ProfileSource, logger *log.Logger) *Guard {
	if logger == nil {
		logger = log.Default()
	}
	return &Guard{expected: expected, sessions: sessions, profiles: profiles, logger: logger}
}

func (g *Guard) ExpectedRole() profile.Role { return g.expected }

// Check resolves token -> session -> profile -> decision. Every rejection
// redirects to the expected role's login route; the protected view is never
// rendered on a rejection path.
func (g *Guard) Check(ctx context.Context, token string) Decision {
	redirect := Decision{State: StateRedirect, RedirectTo: g.expected.LoginRoute()}

	sess, err := g.sessions.GetSession(ctx, token)
	if err != nil {
		return redirect
	}

	p, err := g.profiles.GetByID(ctx, sess.IdentityID)
	if err != nil {
		g.logger.Printf("guard profile lookup failed | identity=%s err=%v", sess.IdentityID, err)
		return redirect
	}

	if p.Role != g.expected {
		g.logger.Printf("guard role mismatch | identity=%s have=%s want=%s", sess.IdentityID, p.Role, g.expected)
		return redirect
	}

	return Decision{
		State: StateReady,
		User: UserContext{
			IdentityID:         sess.IdentityID,
			Email:              p.Email,
			FullName:           p.FullName,
			PhoneNumber:        p.PhoneNumber,
			Role:               p.Role,
			ProfilePictureURL:  p.ProfilePictureURL,
			RelationshipStatus: p.RelationshipStatus,
			Address:            p.Address,
			Bio:                p.Bio,
			SessionExpiresAt:   sess.ExpiresAt,
		},
	}
}

// Notice tells a watching page that its session ended and where to go.
type Notice struct {
	Type       auth.EventType `json:"type"`
	RedirectTo string         `json:"redirect_to"`
	At         time.Time      `json:"at"`
}

// Watch subscribes to session invalidation for the given identity for the
// lifetime of one page instance. Close releases the subscription and is
// idempotent; it must be called on every exit path.
func (g *Guard) Watch(ctx context.Context, identityID uuid.UUID) (*Watch, error) {
	sub, err := g.sessions.Subscribe(ctx, identityID)
	if err != nil {
		return nil, err
	}

	w := &Watch{
		sub:     sub,
		notices: make(chan Notice, 1),
	}
	go w.pump()
	return w, nil
}

type Watch struct {
	sub     auth.Subscription
	notices chan Notice

	closeOnce sync.Once
}

func (w *Watch) Notices() <-chan Notice {
	return w.notices
}

func (w *Watch) pump() {
	defer close(w.notices)
	for ev := range w.sub.Events() {
		if ev.Type != auth.EventSignedOut {
			continue
		}
		w.notices <- Notice{
			Type:       ev.Type,
			RedirectTo: profile.HomeRoute,
			At:         ev.At,
		}
		return
	}
}

func (w *Watch) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.sub.Close()
	})
	return err
}
