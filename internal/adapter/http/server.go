// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront/internal/app"
	"storefront/internal/metrics"
	"storefront/internal/session"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	accounts *app.AccountService
	carts    *app.CartService
	sessions *session.Manager
	db       Pinger
	sso      *SSO
}

// New creates a Server wired to the given application services. sso may be
// nil, in which case the SSO routes answer 404.
func New(accounts *app.AccountService, carts *app.CartService, sessions *session.Manager, db Pinger, sso *SSO) *Server {
	return &Server{accounts: accounts, carts: carts, sessions: sessions, db: db, sso: sso}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestLogger)
	r.Use(metrics.Middleware)
	r.Use(withNoCache)
	r.Use(s.sessions.Load)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/inventory", s.handleListInventory)

	r.Post("/user", s.handleRegister)
	r.Post("/login", s.handleLogin)
	r.Get("/logout", s.handleLogout)

	r.Get("/auth/sso/login", s.handleSSOLogin)
	r.Get("/auth/sso/callback", s.handleSSOCallback)

	r.Group(func(r chi.Router) {
		r.Use(requireLogin)

		r.Get("/cart", s.handleGetCart)
		r.Post("/cart", s.handleAddToCart)
		r.Delete("/cart", s.handleClearCart)
		r.Put("/cart/{cartId}", s.handleUpdateCartLine)
		r.Delete("/cart/{cartId}", s.handleDeleteCartLine)
	})

	return r
}
