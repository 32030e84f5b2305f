package profile

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleSender Role = "sender"
	RoleRunner Role = "runner"
)

var ErrInvalidRole = errors.New("invalid role")

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSender, RoleRunner:
		return Role(s), nil
	default:
		return "", ErrInvalidRole
	}
}

func (r Role) Valid() bool {
	return r == RoleSender || r == RoleRunner
}

func (r Role) Other() Role {
	if r == RoleSender {
		return RoleRunner
	}
	return RoleSender
}

// Route helpers keep the per-role URL surface in one place; every flow that
// redirects derives its target from the role instead of hard-coding paths.
func (r Role) DashboardRoute() string { return "/dashboard-" + string(r) }
func (r Role) LoginRoute() string     { return "/login-" + string(r) }
func (r Role) SignupRoute() string    { return "/signup-" + string(r) }

// HomeRoute is where a signed-out user lands.
const HomeRoute = "/"

// Areas is the fixed set of known Akure zones a user may register under.
var Areas = []string{
	"Alagbaka", "Aule", "Ayedun", "Oba-Ile", "Ilesa Road", "Ondo Road",
	"Ijapo", "Ijoka", "Ikere Road", "Isikan", "Orita Obele", "FUTA Area",
	"Shagari Village", "Igoba", "Isolo Road",
}

var RelationshipStatuses = []string{
	"Single", "Married", "Divorced", "Widowed", "In a relationship",
}

func KnownArea(s string) bool {
	for _, a := range Areas {
		if a == s {
			return true
		}
	}
	return false
}

func KnownRelationshipStatus(s string) bool {
	for _, r := range RelationshipStatuses {
		if r == s {
			return true
		}
	}
	return false
}

// ComposeAddress builds the stored address from the street portion and the
// selected area. The city and state are fixed: the marketplace serves Akure
// only.
func ComposeAddress(street, area string) string {
	return fmt.Sprintf("%s, %s, Akure, Ondo State", street, area)
}

type Profile struct {
	ID                 uuid.UUID
	Email              string
	FullName           string
	PhoneNumber        string
	Role               Role
	NINFrontURL        *string
	NINBackURL         *string
	ProfilePictureURL  *string
	RelationshipStatus string
	Address            string
	Bio                string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
