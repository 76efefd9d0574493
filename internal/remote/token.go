package remote

import (
	"context"
	"strings"
	"time"

	"go-staff-permissions/pkg/jwt"
)

// TokenProvider hands out the bearer token for the current user.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenProvider.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// StaticToken serves a fixed token and reports ErrAuthMissing once it is
// empty, malformed or past its expiry.
type StaticToken struct {
	token string
	now   func() time.Time
}

func NewStaticToken(token string) *StaticToken {
	return &StaticToken{token: strings.TrimSpace(token), now: time.Now}
}

func (s *StaticToken) Token(ctx context.Context) (string, error) {
	if s.token == "" {
		return "", ErrAuthMissing
	}
	exp, err := jwt.ExpiresAt(s.token)
	if err != nil {
		return "", ErrAuthMissing
	}
	if !exp.IsZero() && !s.now().Before(exp) {
		return "", ErrAuthMissing
	}
	return s.token, nil
}
