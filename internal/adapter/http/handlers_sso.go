package adapthttp

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"storefront/internal/app"
	"storefront/internal/config"
	"storefront/internal/metrics"
	"storefront/internal/session"
)

const stateCookieName = "oauth_state"

// SSO holds the OpenID Connect client used for single sign-on.
type SSO struct {
	OAuth2   oauth2.Config
	Verifier *oidc.IDTokenVerifier
}

// NewSSO discovers the issuer and builds the OIDC client.
func NewSSO(ctx context.Context, cfg config.OIDCConfig) (*SSO, error) {
	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("discover oidc provider: %w", err)
	}
	return &SSO{
		OAuth2: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		Verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

func (s *Server) handleSSOLogin(w http.ResponseWriter, r *http.Request) {
	if s.sso == nil {
		http.Error(w, ErrMsgSSODisabled, http.StatusNotFound)
		return
	}
	state, err := generateState()
	if err != nil {
		internalError(w, r, "generate oauth state failed", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode, // Lax required for cross-site redirect returns
		MaxAge:   300,
	})
	http.Redirect(w, r, s.sso.OAuth2.AuthCodeURL(state), http.StatusFound)
}

func (s *Server) handleSSOCallback(w http.ResponseWriter, r *http.Request) {
	if s.sso == nil {
		http.Error(w, ErrMsgSSODisabled, http.StatusNotFound)
		return
	}

	state, err := r.Cookie(stateCookieName)
	if err != nil || state.Value == "" || r.URL.Query().Get("state") != state.Value {
		metrics.RecordAuth(metrics.OpSSO, metrics.OutcomeRejected)
		http.Error(w, ErrMsgInvalidState, http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, MaxAge: -1, Path: "/"})

	issuer, subject, err := s.ssoIdentity(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		metrics.RecordAuth(metrics.OpSSO, metrics.OutcomeError)
		internalError(w, r, "sso exchange failed", err)
		return
	}

	user, err := s.accounts.ProvisionUser(r.Context(), issuer, subject)
	switch {
	case err == nil:
	case errors.Is(err, app.ErrAccountConflict):
		metrics.RecordAuth(metrics.OpSSO, metrics.OutcomeRejected)
		http.Error(w, ErrMsgSSOAccountConflict, http.StatusConflict)
		return
	default:
		metrics.RecordAuth(metrics.OpSSO, metrics.OutcomeError)
		internalError(w, r, "sso provisioning failed", err)
		return
	}

	sess := session.FromContext(r.Context())
	sess.Authenticate(user.ID)
	if err := s.sessions.Save(r.Context(), w, sess); err != nil {
		metrics.RecordAuth(metrics.OpSSO, metrics.OutcomeError)
		internalError(w, r, "session save failed", err)
		return
	}

	metrics.RecordAuth(metrics.OpSSO, metrics.OutcomeSuccess)
	http.Redirect(w, r, "/", http.StatusFound)
}

// ssoIdentity exchanges an authorization code and returns the issuer and
// subject of the verified ID token. Profile claims such as email are not
// trusted for account identity.
func (s *Server) ssoIdentity(ctx context.Context, code string) (string, string, error) {
	token, err := s.sso.OAuth2.Exchange(ctx, code)
	if err != nil {
		return "", "", fmt.Errorf("exchange code: %w", err)
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return "", "", errors.New("no id_token in token response")
	}
	idToken, err := s.sso.Verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return "", "", fmt.Errorf("verify id token: %w", err)
	}
	if idToken.Subject == "" {
		return "", "", errors.New("id token has no subject")
	}
	return idToken.Issuer, idToken.Subject, nil
}

func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
