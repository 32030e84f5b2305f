package login

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"errandgo/internal/auth"
	"errandgo/internal/domain/profile"
)

type fakeAuth struct {
	signInErr   error
	session     auth.Session
	signOutN    int
	signOutTok  string
	signOutErr  error
	signInCalls int
}

func (f *fakeAuth) SignInWithPassword(ctx context.Context, email, password string) (auth.Session, error) {
	f.signInCalls++
	if f.signInErr != nil {
		return auth.Session{}, f.signInErr
	}
	return f.session, nil
}

func (f *fakeAuth) SignOut(ctx context.Context, token string) error {
	f.signOutN++
	f.signOutTok = token
	return f.signOutErr
}

type fakeRoles struct {
	role profile.Role
	err  error
}

func (f *fakeRoles) GetRoleByID(ctx context.Context, id uuid.UUID) (profile.Role, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.role, nil
}

func testSession() auth.Session {
	return auth.Session{
		ID:         uuid.NewString(),
		Token:      "token-abc",
		IdentityID: uuid.New(),
		Email:      "runner@example.com",
		Role:       profile.RoleRunner,
		ExpiresAt:  time.Now().Add(time.Hour),
	}
}

func TestLogin_Success(t *testing.T) {
	a := &fakeAuth{session: testSession()}
	svc := NewService(a, &fakeRoles{role: profile.RoleRunner}, nil)

	res, err := svc.Login(context.Background(), Input{
		Email:         "runner@example.com",
		Password:      "secret-pass",
		RequestedRole: profile.RoleRunner,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.RedirectTo != "/dashboard-runner" {
		t.Fatalf("unexpected redirect %q", res.RedirectTo)
	}
	if res.Session.Token != "token-abc" {
		t.Fatalf("session token not carried through")
	}
	if a.signOutN != 0 {
		t.Fatalf("successful login must not sign out")
	}
}

func TestLogin_InvalidCredentialsPassThrough(t *testing.T) {
	a := &fakeAuth{signInErr: auth.ErrInvalidCredentials}
	svc := NewService(a, &fakeRoles{role: profile.RoleSender}, nil)

	_, err := svc.Login(context.Background(), Input{
		Email:         "nobody@example.com",
		Password:      "wrong",
		RequestedRole: profile.RoleSender,
	})
	if !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_RoleMismatch_ClosesSessionFirst(t *testing.T) {
	sess := testSession() // stored role: runner
	a := &fakeAuth{session: sess}
	svc := NewService(a, &fakeRoles{role: profile.RoleRunner}, nil)

	res, err := svc.Login(context.Background(), Input{
		Email:         sess.Email,
		Password:      "secret-pass",
		RequestedRole: profile.RoleSender,
	})
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
	if a.signOutN != 1 {
		t.Fatalf("expected exactly one sign-out, got %d", a.signOutN)
	}
	if a.signOutTok != sess.Token {
		t.Fatalf("signed out wrong token %q", a.signOutTok)
	}
	if res.RedirectTo != "" {
		t.Fatalf("rejected login must not redirect to a dashboard, got %q", res.RedirectTo)
	}
}

func TestLogin_RoleMismatch_SignOutFailureStillDenied(t *testing.T) {
	a := &fakeAuth{session: testSession(), signOutErr: errors.New("redis down")}
	svc := NewService(a, &fakeRoles{role: profile.RoleRunner}, nil)

	_, err := svc.Login(context.Background(), Input{
		Email:         "runner@example.com",
		Password:      "secret-pass",
		RequestedRole: profile.RoleSender,
	})
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

func TestLogin_MissingProfile_TreatedAsInvalidCredentials(t *testing.T) {
	a := &fakeAuth{session: testSession()}
	svc := NewService(a, &fakeRoles{err: profile.ErrNotFound}, nil)

	_, err := svc.Login(context.Background(), Input{
		Email:         "runner@example.com",
		Password:      "secret-pass",
		RequestedRole: profile.RoleRunner,
	})
	if !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if a.signOutN != 1 {
		t.Fatalf("orphaned-identity session must be closed, signOut=%d", a.signOutN)
	}
}

func TestLogin_UnknownRequestedRole(t *testing.T) {
	a := &fakeAuth{session: testSession()}
	svc := NewService(a, &fakeRoles{role: profile.RoleRunner}, nil)

	_, err := svc.Login(context.Background(), Input{
		Email:         "runner@example.com",
		Password:      "secret-pass",
		RequestedRole: profile.Role("admin"),
	})
	if !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if a.signInCalls != 0 {
		t.Fatalf("invalid role must fail before authentication")
	}
}
