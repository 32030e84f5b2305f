package auth

import (
	"context"
	"errors"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"errandgo/internal/domain/identity"
	"errandgo/internal/domain/profile"
	"errandgo/internal/pkg/jwt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password too short")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInternal           = errors.New("internal error")
)

const minPasswordLength = 6

// Metadata is the auxiliary identity data recorded at signup, alongside the
// credentials, so the identity record alone says which role it was created
// for.
type Metadata struct {
	FullName    string
	PhoneNumber string
	Role        profile.Role
}

type SignUpInput struct {
	Email    string
	Password string
	Metadata Metadata

	// RedirectTarget is the dashboard the caller wants the user sent to
	// once the account is usable.
	RedirectTarget string
}

// Service implements the session-store contract: identity creation, password
// login, token-to-session resolution, sign-out and session-event
// subscription.
type Service struct {
	identities identity.Repository
	sessions   SessionStore
	tokens     jwt.Service

	sessionTTL time.Duration
	logger     *log.Logger
	now        func() time.Time
}

func NewService(identities identity.Repository, sessions SessionStore, tokens jwt.Service, sessionTTL time.Duration, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	if sessionTTL <= 0 {
		sessionTTL = time.Hour
	}
	return &Service{
		identities: identities,
		sessions:   sessions,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *Service) SignUp(ctx context.Context, in SignUpInput) (identity.Identity, error) {
	email := normalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return identity.Identity{}, ErrInvalidEmail
	}
	if len(strings.TrimSpace(in.Password)) < minPasswordLength {
		return identity.Identity{}, ErrWeakPassword
	}

	exists, err := s.identities.ExistsByEmail(ctx, email)
	if err != nil {
		return identity.Identity{}, ErrInternal
	}
	if exists {
		return identity.Identity{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return identity.Identity{}, ErrInternal
	}

	id := identity.Identity{
		ID:             uuid.New(),
		Email:          email,
		PasswordHash:   string(hash),
		FullName:       in.Metadata.FullName,
		PhoneNumber:    in.Metadata.PhoneNumber,
		Role:           in.Metadata.Role,
		RedirectTarget: in.RedirectTarget,
	}

	if err := s.identities.Create(ctx, id); err != nil {
		if errors.Is(err, identity.ErrDuplicateEmail) {
			return identity.Identity{}, ErrEmailTaken
		}
		return identity.Identity{}, ErrInternal
	}

	s.logger.Printf("auth signup | identity=%s role=%s", id.ID, id.Role)
	return id, nil
}

// SignInWithPassword authenticates and opens a session. Unknown email and
// wrong password collapse into the same error so callers cannot probe which
// addresses are registered.
func (s *Service) SignInWithPassword(ctx context.Context, email, password string) (Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}

	id, err := s.identities.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(id.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	sess := Session{
		ID:         uuid.NewString(),
		IdentityID: id.ID,
		Email:      id.Email,
		Role:       id.Role,
		ExpiresAt:  s.now().UTC().Add(s.sessionTTL),
	}

	tok, err := s.tokens.GenerateSessionToken(sess.ID, sess.IdentityID, sess.Email, string(sess.Role), sess.ExpiresAt)
	if err != nil {
		return Session{}, ErrInternal
	}
	sess.Token = tok

	if err := s.sessions.Save(ctx, sess); err != nil {
		return Session{}, ErrInternal
	}

	s.logger.Printf("auth signin | identity=%s session=%s", id.ID, sess.ID)
	return sess, nil
}

// GetSession resolves a bearer token to its live session record. A valid
// token whose record has been deleted (sign-out, expiry) yields
// ErrNoSession. Successful resolution slides the record's TTL so an active
// page keeps its session alive.
func (s *Service) GetSession(ctx context.Context, token string) (Session, error) {
	if strings.TrimSpace(token) == "" {
		return Session{}, ErrNoSession
	}

	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return Session{}, ErrNoSession
	}

	sess, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return Session{}, ErrNoSession
		}
		return Session{}, err
	}
	sess.Token = token

	if err := s.sessions.Touch(ctx, sess.ID, s.sessionTTL); err != nil {
		s.logger.Printf("auth touch failed | session=%s err=%v", sess.ID, err)
	}

	return sess, nil
}

// SignOut invalidates the session behind the token and publishes a
// signed-out event for the identity. Signing out an already-dead session is
// not an error.
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil
	}

	if err := s.sessions.Delete(ctx, claims.SessionID); err != nil {
		return err
	}

	if err := s.sessions.PublishSignedOut(ctx, claims.IdentityID); err != nil {
		s.logger.Printf("auth signout publish failed | identity=%s err=%v", claims.IdentityID, err)
	}

	s.logger.Printf("auth signout | identity=%s session=%s", claims.IdentityID, claims.SessionID)
	return nil
}

func (s *Service) Subscribe(ctx context.Context, identityID uuid.UUID) (Subscription, error) {
	return s.sessions.Subscribe(ctx, identityID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
