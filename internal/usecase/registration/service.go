package registration

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"errandgo/internal/auth"
	"errandgo/internal/domain/identity"
	"errandgo/internal/domain/profile"
	"errandgo/internal/storage"
)

var (
	ErrTermsNotAccepted     = errors.New("terms not accepted")
	ErrMissingDocuments     = errors.New("missing KYC documents")
	ErrMissingRequiredField = errors.New("missing required field")
)

// UploadError marks a blob-store failure during registration, carrying the
// slot ("front", "back", "avatar") that failed.
type UploadError struct {
	Slot string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Slot, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// AvatarFailurePolicy decides what a profile-picture upload failure does to
// the rest of the flow. There is no business rule either way, so it is a
// deployment choice rather than a hard-coded behavior.
type AvatarFailurePolicy string

const (
	// AvatarFailureAbort propagates the error and stops before the
	// profile insert (the observed legacy behavior).
	AvatarFailureAbort AvatarFailurePolicy = "abort"
	// AvatarFailureSkip degrades to a profile without an avatar.
	AvatarFailureSkip AvatarFailurePolicy = "skip"
)

const (
	documentsBucket = "documents"
	avatarsBucket   = "avatars"
)

type File struct {
	Name string
	Data []byte
}

// ext preserves the extension of the uploaded filename, dot included.
func (f *File) ext() string {
	return filepath.Ext(f.Name)
}

type Input struct {
	FullName           string
	Email              string
	PhoneNumber        string
	Password           string
	RelationshipStatus string
	Address            string
	Area               string
	Bio                string
	AgreeToTerms       bool

	NINFront       *File
	NINBack        *File
	ProfilePicture *File
}

type Result struct {
	IdentityID uuid.UUID
	RedirectTo string

	// RedirectAfter is a cosmetic pause so the client can show a
	// confirmation before navigating. Not a correctness requirement.
	RedirectAfter time.Duration
}

type IdentityCreator interface {
	SignUp(ctx context.Context, in auth.SignUpInput) (identity.Identity, error)
}

// Service runs sender/runner registration: identity creation, KYC document
// upload and profile insertion, strictly in that order. The sequence is not
// transactional; a failed upload or insert leaves the identity behind, and a
// resubmission then fails on the duplicate email.
type Service struct {
	auth     IdentityCreator
	blobs    storage.Store
	profiles profile.Repository

	avatarPolicy  AvatarFailurePolicy
	redirectAfter time.Duration
	logger        *log.Logger
}

func NewService(authSvc IdentityCreator, blobs storage.Store, profiles profile.Repository, avatarPolicy AvatarFailurePolicy, logger *log.Logger) *Service {
	if avatarPolicy != AvatarFailureSkip {
		avatarPolicy = AvatarFailureAbort
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		auth:          authSvc,
		blobs:         blobs,
		profiles:      profiles,
		avatarPolicy:  avatarPolicy,
		redirectAfter: 2 * time.Second,
		logger:        logger,
	}
}

func (s *Service) Register(ctx context.Context, role profile.Role, in Input) (Result, error) {
	if err := validate(role, in); err != nil {
		return Result{}, err
	}

	s.logger.Printf("registration start | role=%s email=%s", role, in.Email)

	id, err := s.auth.SignUp(ctx, auth.SignUpInput{
		Email:    in.Email,
		Password: in.Password,
		Metadata: auth.Metadata{
			FullName:    in.FullName,
			PhoneNumber: in.PhoneNumber,
			Role:        role,
		},
		RedirectTarget: role.DashboardRoute(),
	})
	if err != nil {
		return Result{}, err
	}

	ninFrontPath, err := s.upload(ctx, documentsBucket, fmt.Sprintf("nin/%s/front%s", id.ID, in.NINFront.ext()), in.NINFront, "front")
	if err != nil {
		return Result{}, err
	}

	ninBackPath, err := s.upload(ctx, documentsBucket, fmt.Sprintf("nin/%s/back%s", id.ID, in.NINBack.ext()), in.NINBack, "back")
	if err != nil {
		return Result{}, err
	}

	var avatarPath *string
	if in.ProfilePicture != nil {
		p, err := s.upload(ctx, avatarsBucket, fmt.Sprintf("%s/profile%s", id.ID, in.ProfilePicture.ext()), in.ProfilePicture, "avatar")
		if err != nil {
			if s.avatarPolicy == AvatarFailureAbort {
				return Result{}, err
			}
			s.logger.Printf("registration avatar skipped | identity=%s err=%v", id.ID, err)
		} else {
			avatarPath = &p
		}
	}

	p := profile.Profile{
		ID:                 id.ID,
		Email:              id.Email,
		FullName:           in.FullName,
		PhoneNumber:        in.PhoneNumber,
		Role:               role,
		NINFrontURL:        &ninFrontPath,
		NINBackURL:         &ninBackPath,
		ProfilePictureURL:  avatarPath,
		RelationshipStatus: in.RelationshipStatus,
		Address:            profile.ComposeAddress(in.Address, in.Area),
		Bio:                in.Bio,
	}

	if err := s.profiles.Insert(ctx, p); err != nil {
		return Result{}, err
	}

	s.logger.Printf("registration complete | identity=%s role=%s", id.ID, role)

	return Result{
		IdentityID:    id.ID,
		RedirectTo:    role.DashboardRoute(),
		RedirectAfter: s.redirectAfter,
	}, nil
}

// validate applies the pre-flight checks in their fixed order: terms, KYC
// files, then required field selections. The first failure aborts before any
// collaborator is called.
func validate(role profile.Role, in Input) error {
	if !in.AgreeToTerms {
		return ErrTermsNotAccepted
	}

	if in.NINFront == nil || in.NINBack == nil {
		return ErrMissingDocuments
	}

	if !profile.KnownRelationshipStatus(in.RelationshipStatus) || !profile.KnownArea(in.Area) {
		return ErrMissingRequiredField
	}

	for _, v := range []string{in.FullName, in.Email, in.PhoneNumber, in.Password, in.Address, in.Bio} {
		if strings.TrimSpace(v) == "" {
			return ErrMissingRequiredField
		}
	}

	if !role.Valid() {
		return ErrMissingRequiredField
	}

	return nil
}

func (s *Service) upload(ctx context.Context, bucket, path string, f *File, slot string) (string, error) {
	p, err := s.blobs.Upload(ctx, bucket, path, f.Data, storage.UploadOptions{Overwrite: false})
	if err != nil {
		s.logger.Printf("registration upload failed | bucket=%s path=%s err=%v", bucket, path, err)
		return "", &UploadError{Slot: slot, Err: err}
	}
	return p, nil
}
