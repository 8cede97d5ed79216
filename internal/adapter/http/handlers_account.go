package adapthttp

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"storefront/internal/app"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/session"
)

type credentialsRequest struct {
	Username string `validate:"required,max=255"`
	Password string `validate:"required"`
}

// readCredentials returns ok=false after answering 400 itself.
func readCredentials(w http.ResponseWriter, r *http.Request) (credentialsRequest, bool) {
	fields, err := readFields(w, r)
	if err != nil {
		http.Error(w, ErrMsgMissingCredentials, http.StatusBadRequest)
		return credentialsRequest{}, false
	}
	req := credentialsRequest{Username: fields["username"], Password: fields["password"]}
	if err := validate.Struct(req); err != nil {
		http.Error(w, ErrMsgMissingCredentials, http.StatusBadRequest)
		return credentialsRequest{}, false
	}
	return req, true
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	req, ok := readCredentials(w, r)
	if !ok {
		metrics.RecordAuth(metrics.OpRegister, metrics.OutcomeRejected)
		return
	}

	_, err := s.accounts.Register(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		metrics.RecordAuth(metrics.OpRegister, metrics.OutcomeSuccess)
		http.Redirect(w, r, "/login", http.StatusFound)
	case errors.Is(err, app.ErrInvalidInput):
		metrics.RecordAuth(metrics.OpRegister, metrics.OutcomeRejected)
		http.Error(w, ErrMsgMissingCredentials, http.StatusBadRequest)
	case errors.Is(err, app.ErrReservedUsername):
		metrics.RecordAuth(metrics.OpRegister, metrics.OutcomeRejected)
		http.Error(w, ErrMsgReservedUsername, http.StatusBadRequest)
	case errors.Is(err, app.ErrUsernameTaken):
		metrics.RecordAuth(metrics.OpRegister, metrics.OutcomeRejected)
		http.Error(w, ErrMsgUsernameTaken, http.StatusConflict)
	default:
		metrics.RecordAuth(metrics.OpRegister, metrics.OutcomeError)
		internalError(w, r, "register failed", err)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := readCredentials(w, r)
	if !ok {
		metrics.RecordAuth(metrics.OpLogin, metrics.OutcomeRejected)
		return
	}

	user, err := s.accounts.Authenticate(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, app.ErrInvalidInput):
		metrics.RecordAuth(metrics.OpLogin, metrics.OutcomeRejected)
		http.Error(w, ErrMsgMissingCredentials, http.StatusBadRequest)
		return
	case errors.Is(err, app.ErrInvalidCredentials):
		metrics.RecordAuth(metrics.OpLogin, metrics.OutcomeRejected)
		http.Error(w, ErrMsgInvalidCredentials, http.StatusBadRequest)
		return
	default:
		metrics.RecordAuth(metrics.OpLogin, metrics.OutcomeError)
		internalError(w, r, "login failed", err)
		return
	}

	sess := session.FromContext(r.Context())
	sess.Authenticate(user.ID)
	if err := s.sessions.Save(r.Context(), w, sess); err != nil {
		metrics.RecordAuth(metrics.OpLogin, metrics.OutcomeError)
		internalError(w, r, "session save failed", err)
		return
	}

	metrics.RecordAuth(metrics.OpLogin, metrics.OutcomeSuccess)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Destroy(r.Context(), w, session.FromContext(r.Context())); err != nil {
		metrics.RecordAuth(metrics.OpLogout, metrics.OutcomeError)
		logger.FromContext(r.Context()).Warn("session destroy failed", zap.Error(err))
	} else {
		metrics.RecordAuth(metrics.OpLogout, metrics.OutcomeSuccess)
	}
	http.Redirect(w, r, "/", http.StatusFound)
}
