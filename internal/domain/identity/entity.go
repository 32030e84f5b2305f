package identity

import (
	"time"

	"github.com/google/uuid"

	"errandgo/internal/domain/profile"
)

// Identity is the credential-side record of a user. The role, full name and
// phone number are carried as signup metadata so a profile can be
// reconstructed if the registration flow dies between identity creation and
// profile insertion.
type Identity struct {
	ID             uuid.UUID
	Email          string
	PasswordHash   string
	FullName       string
	PhoneNumber    string
	Role           profile.Role
	RedirectTarget string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
