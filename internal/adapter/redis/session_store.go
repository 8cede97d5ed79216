// Package redis implements session.Store on Redis with native key expiry.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/internal/session"
)

const sessionKeyPrefix = "session:"

// SessionStore keeps sessions as JSON values under expiring keys.
type SessionStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewSessionStore wraps a Redis client as a session store.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client, now: time.Now}
}

var _ session.Store = (*SessionStore)(nil)

// Get returns a session by token.
func (s *SessionStore) Get(ctx context.Context, token string) (session.Data, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return session.Data{}, session.ErrNotFound
	}
	if err != nil {
		return session.Data{}, err
	}
	var data session.Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return session.Data{}, fmt.Errorf("decode session: %w", err)
	}
	return data, nil
}

// Set stores a session until expiresAt. A deadline already in the past
// removes the key.
func (s *SessionStore) Set(ctx context.Context, token string, data session.Data, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return s.Delete(ctx, token)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.client.Set(ctx, sessionKeyPrefix+token, raw, ttl).Err()
}

// Delete deletes a session by token.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKeyPrefix+token).Err()
}
