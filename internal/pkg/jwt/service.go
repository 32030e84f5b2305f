package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims bind a signed token to one server-side session record. The session
// id is the store key; identity id, email and role are carried so a guard
// can build its user context from the token plus one profile read.
type Claims struct {
	SessionID  string    `json:"session_id"`
	IdentityID uuid.UUID `json:"identity_id"`
	Email      string    `json:"email,omitempty"`
	Role       string    `json:"role"`

	jwtlib.RegisteredClaims
}

type Service interface {
	GenerateSessionToken(sessionID string, identityID uuid.UUID, email, role string, expiresAt time.Time) (string, error)
	ValidateToken(tokenString string) (Claims, error)
}

type HMACService struct {
	secret []byte

	now func() time.Time
}

func NewHMACService(secret string) *HMACService {
	return &HMACService{
		secret: []byte(secret),
		now:    time.Now,
	}
}

func (s *HMACService) GenerateSessionToken(sessionID string, identityID uuid.UUID, email, role string, expiresAt time.Time) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrTokenInvalid
	}

	now := s.now().UTC()
	c := Claims{
		SessionID:  sessionID,
		IdentityID: identityID,
		Email:      email,
		Role:       role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(expiresAt.UTC()),
			Subject:   identityID.String(),
			ID:        sessionID,
		},
	}

	t := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c)
	return t.SignedString(s.secret)
}

func (s *HMACService) ValidateToken(tokenString string) (Claims, error) {
	p := jwtlib.NewParser(jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))

	var c Claims
	tok, err := p.ParseWithClaims(tokenString, &c, func(token *jwtlib.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if tok == nil || !tok.Valid {
		return Claims{}, ErrTokenInvalid
	}

	if c.SessionID == "" || c.IdentityID == uuid.Nil {
		return Claims{}, ErrTokenInvalid
	}

	return c, nil
}
