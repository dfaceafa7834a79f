// Package token issues and verifies the signed session tokens that carry a
// user's identity between requests. Tokens are HS256 JWTs with a 15 minute
// lifetime by default; expiry is the only invalidation path, there is no
// revocation. Verification applies no clock-skew leeway.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for any token that fails verification:
// bad signature, malformed input, or expired.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the user claim embedded in every session token and attached
// to the request context by the auth middleware.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Claims is the full JWT claim set: the registered claims plus the identity.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Service signs and verifies session tokens with a process-wide secret.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService returns a Service signing with secret and issuing tokens valid
// for ttl.
func NewService(secret []byte, ttl time.Duration) *Service {
	return &Service{secret: secret, ttl: ttl, now: time.Now}
}

// Issue produces a signed token embedding the identity, expiring ttl from
// now. Every token gets a unique jti.
func (s *Service) Issue(ident *Identity) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   ident.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Username: ident.Username,
		Email:    ident.Email,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates tokenString, returning the embedded identity.
// Any failure maps to ErrInvalidToken.
func (s *Service) Verify(tokenString string) (*Identity, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	return &Identity{ID: claims.Subject, Username: claims.Username, Email: claims.Email}, nil
}
