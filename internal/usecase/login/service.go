package login

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"errandgo/internal/auth"
	"errandgo/internal/domain/profile"
)

// ErrAccessDenied is returned when the stored role does not match the login
// route the user came through. The session opened for the attempt is closed
// before this is returned.
var ErrAccessDenied = errors.New("role does not match login route")

type Authenticator interface {
	SignInWithPassword(ctx context.Context, email, password string) (auth.Session, error)
	SignOut(ctx context.Context, token string) error
}

type RoleReader interface {
	GetRoleByID(ctx context.Context, id uuid.UUID) (profile.Role, error)
}

type Input struct {
	Email         string
	Password      string
	RequestedRole profile.Role
}

type Result struct {
	Session    auth.Session
	RedirectTo string
}

// Service is the role-gated login flow, shared by both entry points; the
// requested role comes from the route the user submitted through.
type Service struct {
	auth     Authenticator
	profiles RoleReader
	logger   *log.Logger
}

func NewService(authSvc Authenticator, profiles RoleReader, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{auth: authSvc, profiles: profiles, logger: logger}
}

func (s *Service) Login(ctx context.Context, in Input) (Result, error) {
	if !in.RequestedRole.Valid() {
		return Result{}, auth.ErrInvalidCredentials
	}

	sess, err := s.auth.SignInWithPassword(ctx, in.Email, in.Password)
	if err != nil {
		return Result{}, err
	}

	role, err := s.profiles.GetRoleByID(ctx, sess.IdentityID)
	if err != nil {
		// An authenticated identity without a profile is an aborted
		// registration; the caller sees it as a plain auth failure.
		s.logger.Printf("login profile lookup failed | identity=%s err=%v", sess.IdentityID, err)
		_ = s.auth.SignOut(ctx, sess.Token)
		return Result{}, auth.ErrInvalidCredentials
	}

	if role != in.RequestedRole {
		// The session must not outlive a rejected login.
		if err := s.auth.SignOut(ctx, sess.Token); err != nil {
			s.logger.Printf("login signout failed | identity=%s err=%v", sess.IdentityID, err)
		}
		s.logger.Printf("login role mismatch | identity=%s have=%s want=%s", sess.IdentityID, role, in.RequestedRole)
		return Result{}, ErrAccessDenied
	}

	s.logger.Printf("login ok | identity=%s role=%s", sess.IdentityID, role)
	return Result{
		Session:    sess,
		RedirectTo: role.DashboardRoute(),
	}, nil
}
