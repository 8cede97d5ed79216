// Package session implements cookie-based sessions backed by a pluggable
// token store.
//
// A Session is loaded for every request by Manager.Load and travels in the
// request context. Handlers mutate it and call Manager.Save to persist it, or
// Manager.Destroy to end it. Unknown or expired tokens yield an empty,
// logged-out session.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"
)

// ErrNotFound is returned by a Store when the token is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Data holds the session attributes kept in the store.
type Data struct {
	LoggedIn bool  `json:"loggedIn"`
	UserID   int64 `json:"userId"`
}

// Store maps opaque tokens to session data.
type Store interface {
	Get(ctx context.Context, token string) (Data, error)
	Set(ctx context.Context, token string, data Data, expiresAt time.Time) error
	Delete(ctx context.Context, token string) error
}

// Sweeper is implemented by stores that need expired entries purged
// explicitly. Stores with native expiry (Redis) do not implement it.
type Sweeper interface {
	DeleteExpired(ctx context.Context) error
}

// Session is the per-request view of a client's session.
type Session struct {
	Data

	token  string
	rotate bool
}

// Token returns the current opaque token, or "" for a session that was never
// saved.
func (s *Session) Token() string {
	return s.token
}

// Authenticate marks the session as logged in for userID. The token is
// replaced on the next Save so a pre-login token cannot be reused.
func (s *Session) Authenticate(userID int64) {
	s.LoggedIn = true
	s.UserID = userID
	s.rotate = true
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session attached to ctx. It never returns nil: a
// context without a session yields a fresh logged-out one.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(ctxKey{}).(*Session); ok && s != nil {
		return s
	}
	return &Session{}
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
