package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"storefront/internal/logger"
)

// DefaultCookieName is used when Options.CookieName is empty.
const DefaultCookieName = "sid"

// Options configures the session cookie.
type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Manager loads, saves and destroys sessions.
type Manager struct {
	store Store
	opts  Options
	now   func() time.Time
}

// NewManager creates a Manager persisting sessions in store.
func NewManager(store Store, opts Options) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	return &Manager{store: store, opts: opts, now: time.Now}
}

// Load is middleware that resolves the session cookie and attaches the
// session to the request context.
func (m *Manager) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := &Session{}
		if c, err := r.Cookie(m.opts.CookieName); err == nil && c.Value != "" {
			data, err := m.store.Get(r.Context(), c.Value)
			switch {
			case err == nil:
				s.token = c.Value
				s.Data = data
			case errors.Is(err, ErrNotFound):
			default:
				logger.FromContext(r.Context()).Warn("session lookup failed", zap.Error(err))
			}
		}
		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), s)))
	})
}

// Save persists s and sets the session cookie. A new token is issued for a
// session that has none or was just authenticated.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, s *Session) error {
	if s.token == "" || s.rotate {
		if s.token != "" {
			if err := m.store.Delete(ctx, s.token); err != nil {
				return fmt.Errorf("drop previous session: %w", err)
			}
		}
		token, err := generateToken()
		if err != nil {
			return fmt.Errorf("generate session token: %w", err)
		}
		s.token = token
		s.rotate = false
	}

	expiresAt := m.now().Add(m.opts.TTL)
	if err := m.store.Set(ctx, s.token, s.Data, expiresAt); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    s.token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.opts.TTL.Seconds()),
	})
	return nil
}

// Destroy removes s from the store and expires the cookie. The cookie is
// cleared even when the store fails.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, s *Session) error {
	var err error
	if s.token != "" {
		err = m.store.Delete(ctx, s.token)
	}
	s.token = ""
	s.rotate = false
	s.Data = Data{}

	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.opts.Secure,
		MaxAge:   -1,
	})
	return err
}

// Sweep calls DeleteExpired on every tick until ctx is done.
func Sweep(ctx context.Context, s Sweeper, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.DeleteExpired(ctx); err != nil {
				logger.FromContext(ctx).Warn("session sweep failed", zap.Error(err))
			}
		}
	}
}
