package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"
	"storefront/internal/session"
)

// GetByUsername retrieves a user by username.
func (d *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := d.sql.QueryRowContext(ctx,
		"SELECT id, username, password, created_at FROM users WHERE username = ?",
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create creates a new user. created_at is written by the insert itself so a
// committed row is never reported as a failure by a follow-up read.
func (d *DB) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	createdAt := time.Now().UTC().Truncate(time.Microsecond)
	res, err := d.sql.ExecContext(ctx,
		"INSERT INTO users (username, password, created_at) VALUES (?, ?, ?)",
		username, passwordHash, createdAt,
	)
	if isDuplicateEntry(err) {
		return nil, domain.ErrDuplicateUsername
	}
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return &domain.User{ID: id, Username: username, PasswordHash: passwordHash, CreatedAt: createdAt}, nil
}

// SessionStore implements session.Store on the sessions table.
type SessionStore struct {
	db *DB
}

// NewSessionStore wraps a DB as a session store.
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

var _ session.Store = (*SessionStore)(nil)
var _ session.Sweeper = (*SessionStore)(nil)

// Get returns an unexpired session by token.
func (s *SessionStore) Get(ctx context.Context, token string) (session.Data, error) {
	var data session.Data
	err := s.db.sql.QueryRowContext(ctx,
		"SELECT logged_in, user_id FROM sessions WHERE token = ? AND expires_at > ?",
		token, time.Now().UTC(),
	).Scan(&data.LoggedIn, &data.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Data{}, session.ErrNotFound
	}
	if err != nil {
		return session.Data{}, err
	}
	return data, nil
}

// Set creates or replaces a session.
func (s *SessionStore) Set(ctx context.Context, token string, data session.Data, expiresAt time.Time) error {
	_, err := s.db.sql.ExecContext(ctx,
		`INSERT INTO sessions (token, logged_in, user_id, expires_at) VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE logged_in = VALUES(logged_in), user_id = VALUES(user_id), expires_at = VALUES(expires_at)`,
		token, data.LoggedIn, data.UserID, expiresAt.UTC(),
	)
	return err
}

// Delete deletes a session by token.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	_, err := s.db.sql.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token)
	return err
}

// DeleteExpired deletes all expired sessions.
func (s *SessionStore) DeleteExpired(ctx context.Context) error {
	_, err := s.db.sql.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= ?", time.Now().UTC())
	return err
}
