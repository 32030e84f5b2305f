package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"errandgo/internal/auth"
	"errandgo/internal/domain/identity"
	"errandgo/internal/domain/profile"
	"errandgo/internal/storage"
)

type fakeAuth struct {
	calls int
	err   error
	last  auth.SignUpInput
	id    uuid.UUID
}

func (f *fakeAuth) SignUp(ctx context.Context, in auth.SignUpInput) (identity.Identity, error) {
	f.calls++
	f.last = in
	if f.err != nil {
		return identity.Identity{}, f.err
	}
	if f.id == uuid.Nil {
		f.id = uuid.New()
	}
	return identity.Identity{
		ID:          f.id,
		Email:       strings.ToLower(in.Email),
		FullName:    in.Metadata.FullName,
		PhoneNumber: in.Metadata.PhoneNumber,
		Role:        in.Metadata.Role,
	}, nil
}

type uploadCall struct {
	bucket string
	path   string
}

type fakeBlobs struct {
	calls   []uploadCall
	failAt  string // path substring that triggers a failure
	failErr error
}

func (f *fakeBlobs) Upload(ctx context.Context, bucket, path string, data []byte, opts storage.UploadOptions) (string, error) {
	f.calls = append(f.calls, uploadCall{bucket: bucket, path: path})
	if f.failAt != "" && strings.Contains(path, f.failAt) {
		if f.failErr != nil {
			return "", f.failErr
		}
		return "", errors.New("blob store down")
	}
	return path, nil
}

type fakeProfiles struct {
	inserts   int
	insertErr error
	last      profile.Profile
}

func (f *fakeProfiles) Insert(ctx context.Context, p profile.Profile) error {
	f.inserts++
	f.last = p
	return f.insertErr
}

func (f *fakeProfiles) GetByID(context.Context, uuid.UUID) (profile.Profile, error) {
	return profile.Profile{}, profile.ErrNotFound
}

func (f *fakeProfiles) GetRoleByID(context.Context, uuid.UUID) (profile.Role, error) {
	return "", profile.ErrNotFound
}

func validInput() Input {
	return Input{
		FullName:           "Adebayo Johnson",
		Email:              "adebayo@example.com",
		PhoneNumber:        "+234 801 234 5678",
		Password:           "secret-pass",
		RelationshipStatus: "Single",
		Address:            "12 Oba Adesida Road",
		Area:               "Alagbaka",
		Bio:                "I need help with daily errands",
		AgreeToTerms:       true,
		NINFront:           &File{Name: "front.jpg", Data: []byte("front")},
		NINBack:            &File{Name: "back.png", Data: []byte("back")},
	}
}

func newTestService(a *fakeAuth, b *fakeBlobs, p *fakeProfiles, policy AvatarFailurePolicy) *Service {
	return NewService(a, b, p, policy, nil)
}

func TestRegister_TermsNotAccepted_NoCollaboratorCalls(t *testing.T) {
	a, b, p := &fakeAuth{}, &fakeBlobs{}, &fakeProfiles{}
	svc := newTestService(a, b, p, AvatarFailureAbort)

	in := validInput()
	in.AgreeToTerms = false

	_, err := svc.Register(context.Background(), profile.RoleSender, in)
	if !errors.Is(err, ErrTermsNotAccepted) {
		t.Fatalf("expected ErrTermsNotAccepted, got %v", err)
	}
	if a.calls != 0 || len(b.calls) != 0 || p.inserts != 0 {
		t.Fatalf("expected no collaborator calls, got auth=%d blobs=%d profiles=%d", a.calls, len(b.calls), p.inserts)
	}
}

func TestRegister_MissingKYCDocuments_FailsBeforeNetwork(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Input)
	}{
		{"no front", func(in *Input) { in.NINFront = nil }},
		{"no back", func(in *Input) { in.NINBack = nil }},
		{"neither", func(in *Input) { in.NINFront, in.NINBack = nil, nil }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, b, p := &fakeAuth{}, &fakeBlobs{}, &fakeProfiles{}
			svc := newTestService(a, b, p, AvatarFailureAbort)

			in := validInput()
			tc.mutate(&in)

			_, err := svc.Register(context.Background(), profile.RoleSender, in)
			if !errors.Is(err, ErrMissingDocuments) {
				t.Fatalf("expected ErrMissingDocuments, got %v", err)
			}
			if a.calls != 0 || len(b.calls) != 0 {
				t.Fatalf("expected no network calls, got auth=%d blobs=%d", a.calls, len(b.calls))
			}
		})
	}
}

func TestRegister_ValidationOrder_TermsBeforeDocuments(t *testing.T) {
	a, b, p := &fakeAuth{}, &fakeBlobs{}, &fakeProfiles{}
	svc := newTestService(a, b, p, AvatarFailureAbort)

	in := validInput()
	in.AgreeToTerms = false
	in.NINFront = nil

	_, err := svc.Register(context.Background(), profile.RoleSender, in)
	if !errors.Is(err, ErrTermsNotAccepted) {
		t.Fatalf("terms check must win, got %v", err)
	}
}

func TestRegister_UnknownSelections_Rejected(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(*Input)
	}{
		{"unknown area", func(in *Input) { in.Area = "Lagos Island" }},
		{"empty area", func(in *Input) { in.Area = "" }},
		{"unknown relationship", func(in *Input) { in.RelationshipStatus = "Complicated" }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			a, b, p := &fakeAuth{}, &fakeBlobs{}, &fakeProfiles{}
			svc := newTestService(a, b, p, AvatarFailureAbort)

			in := validInput()
			tc.mutate(&in)

			_, err := svc.Register(context.Background(), profile.RoleSender, in)
			if !errors.Is(err, ErrMissingRequiredField) {
				t.Fatalf("expected ErrMissingRequiredField, got %v", err)
			}
			if a.calls != 0 {
				t.Fatalf("expected no signup call, got %d", a.calls)
			}
		})
	}
}

func TestRegister_SenderSuccess(t *testing.T) {
	a, b, p := &fakeAuth{}, &fakeBlobs{}, &fakeProfiles{}
	svc := newTestService(a, b, p, AvatarFailureAbort)

	in := validInput()
	in.ProfilePicture = &File{Name: "me.jpeg", Data: []byte("pic")}

	res, err := svc.Register(context.Background(), profile.RoleSender, in)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if a.calls != 1 {
		t.Fatalf("expected 1 signup call, got %d", a.calls)
	}
	if a.last.Metadata.Role != profile.RoleSender {
		t.Fatalf("expected sender metadata role, got %s", a.last.Metadata.Role)
	}
	if a.last.RedirectTarget != "/dashboard-sender" {
		t.Fatalf("unexpected redirect target %q", a.last.RedirectTarget)
	}

	wantUploads := []uploadCall{
		{bucket: "documents", path: fmt.Sprintf("nin/%s/front.jpg", res.IdentityID)},
		{bucket: "documents", path: fmt.Sprintf("nin/%s/back.png", res.IdentityID)},
		{bucket: "avatars", path: fmt.Sprintf("%s/profile.jpeg", res.IdentityID)},
	}
	if len(b.calls) != len(wantUploads) {
		t.Fatalf("expected %d uploads, got %d", len(wantUploads), len(b.calls))
	}
	for i, want := range wantUploads {
		if b.calls[i] != want {
			t.Fatalf("upload %d: want %+v, got %+v", i, want, b.calls[i])
		}
	}

	if p.inserts != 1 {
		t.Fatalf("expected 1 profile insert, got %d", p.inserts)
	}
	if p.last.Role != profile.RoleSender {
		t.Fatalf("expected role sender, got %s", p.last.Role)
	}
	if p.last.Address != "12 Oba Adesida Road, Alagbaka, Akure, Ondo State" {
		t.Fatalf("unexpected address %q", p.last.Address)
	}
	if p.last.NINFrontURL == nil || p.last.NINBackURL == nil || p.last.ProfilePictureURL == nil {
		t.Fatalf("expected all document urls set")
	}
	if res.RedirectTo != "/dashboard-sender" {
		t.Fatalf("unexpected redirect %q", res.RedirectTo)
	}
}

func TestRegister_NoAvatar_ProfilePictureNull(t *testing.T) {
	a, b, p := &fakeAuth{}, &fakeBlobs{}, &fakeProfiles{}
	svc := newTestService(a, b, p, AvatarFailureAbort)

	_, err := svc.Register(context.Background(), profile.RoleRunner, validInput())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(b.calls) != 2 {
		t.Fatalf("expected only KYC uploads, got %d", len(b.calls))
	}
	if p.last.ProfilePictureURL != nil {
		t.Fatalf("expected nil profile picture url")
	}
	if p.last.Role != profile.RoleRunner {
		t.Fatalf("expected runner role, got %s", p.last.Role)
	}
}

func TestRegister_BackUploadFails_IdentityOrphaned(t *testing.T) {
	a := &fakeAuth{}
	b := &fakeBlobs{failAt: "/back"}
	p := &fakeProfiles{}
	svc := newTestService(a, b, p, AvatarFailureAbort)

	_, err := svc.Register(context.Background(), profile.RoleSender, validInput())

	var upErr *UploadError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UploadError, got %v", err)
	}
	if upErr.Slot != "back" {
		t.Fatalf("expected slot back, got %q", upErr.Slot)
	}
	if a.calls != 1 {
		t.Fatalf("identity should have been created, calls=%d", a.calls)
	}
	if p.inserts != 0 {
		t.Fatalf("profile must not be inserted, inserts=%d", p.inserts)
	}

	// The identity survived, so resubmitting the form now dies on the
	// duplicate email instead of completing.
	a.err = auth.ErrEmailTaken
	_, err = svc.Register(context.Background(), profile.RoleSender, validInput())
	if !errors.Is(err, auth.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken on retry, got %v", err)
	}
	if p.inserts != 0 {
		t.Fatalf("retry must not insert a profile")
	}
}

func TestRegister_AvatarFailure_Policies(t *testing.T) {
	in := validInput()
	in.ProfilePicture = &File{Name: "me.png", Data: []byte("pic")}

	t.Run("abort", func(t *testing.T) {
		a, p := &fakeAuth{}, &fakeProfiles{}
		b := &fakeBlobs{failAt: "/profile"}
		svc := newTestService(a, b, p, AvatarFailureAbort)

		_, err := svc.Register(context.Background(), profile.RoleSender, in)
		var upErr *UploadError
		if !errors.As(err, &upErr) || upErr.Slot != "avatar" {
			t.Fatalf("expected avatar UploadError, got %v", err)
		}
		if p.inserts != 0 {
			t.Fatalf("abort policy must skip the profile insert")
		}
	})

	t.Run("skip", func(t *testing.T) {
		a, p := &fakeAuth{}, &fakeProfiles{}
		b := &fakeBlobs{failAt: "/profile"}
		svc := newTestService(a, b, p, AvatarFailureSkip)

		_, err := svc.Register(context.Background(), profile.RoleSender, in)
		if err != nil {
			t.Fatalf("skip policy should complete, got %v", err)
		}
		if p.inserts != 1 {
			t.Fatalf("expected profile insert, got %d", p.inserts)
		}
		if p.last.ProfilePictureURL != nil {
			t.Fatalf("expected nil avatar url under skip policy")
		}
	})
}

func TestRegister_ProfileInsertConflict(t *testing.T) {
	a, b := &fakeAuth{}, &fakeBlobs{}
	p := &fakeProfiles{insertErr: profile.ErrAlreadyExists}
	svc := newTestService(a, b, p, AvatarFailureAbort)

	_, err := svc.Register(context.Background(), profile.RoleSender, validInput())
	if !errors.Is(err, profile.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}
