package auth

import (
	"errors"
	"time"

	"green-kart/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the session token lifetime unless configured
// otherwise.
const DefaultTokenTTL = 24 * time.Hour

// Claims is the payload embedded in a session token. The permission set
// is a snapshot taken at issue time.
type Claims struct {
	UID         string   `json:"uid"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HMAC-signed session tokens. The secret
// is shared between issuing and verifying instances and supplied out of
// band.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a token service. A non-positive ttl falls back
// to DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue creates a signed token for the identity, embedding the role's
// expanded permission set. A refreshed session is a new token; issued
// tokens are never edited.
func (s *TokenService) Issue(uid, email string, role model.Role) (string, error) {
	now := s.now()
	claims := Claims{
		UID:         uid,
		Email:       email,
		Role:        string(role),
		Permissions: PermissionsFor(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks the token's signature and expiry and returns its claims.
// Malformed tokens and bad signatures yield ErrInvalidToken; expired
// tokens yield ErrTokenExpired.
func (s *TokenService) Verify(token string) (*Claims, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, model.ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, model.ErrTokenExpired
		}
		return nil, model.ErrInvalidToken
	}

	if !parsed.Valid {
		return nil, model.ErrInvalidToken
	}

	return claims, nil
}
