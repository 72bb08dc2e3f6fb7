// Package auth provides bearer-token sources for authenticated event
// streams. Because SSE connections are long-lived and reconnect repeatedly,
// a token fetched once at construction can expire mid-session; the JWT
// source inspects the token's exp claim and refreshes before each connect
// attempt when needed.
package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// TokenSource supplies the bearer token attached to each connect attempt.
type TokenSource interface {
	// Token returns a token valid for an immediate request.
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

// Token returns the static token.
func (s StaticToken) Token(context.Context) (string, error) { return string(s), nil }

// RefreshFunc obtains a fresh token from the issuing service.
type RefreshFunc func(ctx context.Context) (string, error)

// expirySlack is how long before exp a token is treated as stale, covering
// clock skew and the time the connect attempt itself takes.
const expirySlack = 30 * time.Second

// JWTSource is a TokenSource for JWT bearer tokens. It caches the current
// token and calls the refresh function when the token's exp claim is within
// expirySlack of now. Tokens are only inspected, never verified; signature
// validation is the server's job.
type JWTSource struct {
	refresh RefreshFunc

	mu      sync.Mutex
	current string
	expires time.Time
}

// NewJWTSource creates a JWT token source backed by the given refresh
// function.
func NewJWTSource(refresh RefreshFunc) (*JWTSource, error) {
	if refresh == nil {
		return nil, errors.New("auth: refresh function is required")
	}
	return &JWTSource{refresh: refresh}, nil
}

// Token returns the cached token, refreshing it first if it is missing or
// about to expire.
func (j *JWTSource) Token(ctx context.Context) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.current != "" && (j.expires.IsZero() || time.Until(j.expires) > expirySlack) {
		return j.current, nil
	}

	token, err := j.refresh(ctx)
	if err != nil {
		return "", err
	}

	j.current = token
	j.expires = tokenExpiry(token)
	return token, nil
}

// tokenExpiry extracts the exp claim from an unverified JWT. A zero time
// means the token carries no expiry and is cached indefinitely.
func tokenExpiry(token string) time.Time {
	claims := gojwt.RegisteredClaims{}
	parser := gojwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
