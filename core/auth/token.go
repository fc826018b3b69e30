package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"wwjtop/model"
)

const tokenIssuer = "wwjtop"

// ErrInvalidToken covers every verification failure: bad signature, malformed
// token, wrong issuer or elapsed expiry. Callers must not distinguish.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims are the session token claims. Role is baked into the token, so a
// role change only takes effect once the holder logs in again. Stateless by
// design: there is no server-side revocation list.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// TokenService issues and verifies signed session tokens. It holds no mutable
// state and is safe for concurrent use.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService signing with the given secret.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue produces a signed, time-bounded token for the user. The returned
// expiry is used to align the session cookie lifetime with the token.
func (s *TokenService) Issue(userID int64, username, role string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:   userID,
		Username: username,
		Role:     role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify checks the token signature and expiry and returns the decoded
// identity. Verification is self-contained and never consults storage.
func (s *TokenService) Verify(tokenString string) (model.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return model.Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return model.Identity{}, ErrInvalidToken
	}

	return model.Identity{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}
