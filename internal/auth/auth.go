package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/codeclash/codeclash/internal/errors"
)

type Claims struct {
	IsAdmin bool `json:"isAdmin,omitempty"`
	jwt.RegisteredClaims
}

// Manager issues and verifies the HS256 session tokens the API accepts.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue signs a token for the user. The user ID rides in the subject claim.
func (m *Manager) Issue(userID string, isAdmin bool) (string, error) {
	now := time.Now()

	claims := Claims{
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify parses the token and returns its claims. Any signature, algorithm
// or expiry failure surfaces as an unauthenticated error.
func (m *Manager) Verify(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New(errors.CodeUnauthenticated,
					errors.WithMessagef("unexpected signing method: %s", t.Method.Alg()))
			}
			return m.secret, nil
		},
	)
	if err != nil {
		return nil, errors.New(errors.CodeUnauthenticated,
			errors.WithMessagef("invalid token"),
			errors.WithCause(err))
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return nil, errors.New(errors.CodeUnauthenticated,
			errors.WithMessagef("invalid token claims"))
	}

	return claims, nil
}
