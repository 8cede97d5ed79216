// Package app holds the application services and business logic.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHashCost is the bcrypt work factor for stored passwords.
const PasswordHashCost = 10

// maxPasswordBytes is the bcrypt input limit. Longer passwords are truncated
// before hashing and comparing.
const maxPasswordBytes = 72

// SSOUsernamePrefix marks usernames owned by single sign-on identities.
// Registration refuses usernames carrying it.
const SSOUsernamePrefix = "sso:"

var (
	// ErrInvalidInput indicates a missing or malformed request field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials is returned for an unknown username and for a
	// wrong password alike.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUsernameTaken indicates that registration hit an existing username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrReservedUsername indicates a registration attempt inside the SSO
	// namespace.
	ErrReservedUsername = errors.New("username is reserved")
	// ErrAccountConflict indicates that an SSO identity maps to an account
	// that has a password and so was not created by SSO.
	ErrAccountConflict = errors.New("sso identity conflicts with a local account")
)

// SSOUsername returns the username under which an SSO identity is stored.
// The issuer is part of it so two providers never share an account.
func SSOUsername(issuer, subject string) string {
	return SSOUsernamePrefix + issuer + "|" + subject
}

func passwordBytes(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

// AccountService handles registration and password authentication.
type AccountService struct {
	users domain.UserRepository
	cost  int
}

// NewAccountService creates a new account service.
func NewAccountService(users domain.UserRepository) *AccountService {
	return &AccountService{users: users, cost: PasswordHashCost}
}

// Register stores a new user with a bcrypt hash of password.
func (s *AccountService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}
	if strings.HasPrefix(username, SSOUsernamePrefix) {
		return nil, ErrReservedUsername
	}

	hash, err := bcrypt.GenerateFromPassword(passwordBytes(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, username, string(hash))
	if errors.Is(err, domain.ErrDuplicateUsername) {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate verifies a username/password pair and returns the user.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), passwordBytes(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// ProvisionUser returns the account of an SSO identity, creating it without
// a usable password on first login.
func (s *AccountService) ProvisionUser(ctx context.Context, issuer, subject string) (*domain.User, error) {
	if issuer == "" || subject == "" {
		return nil, ErrInvalidInput
	}
	username := SSOUsername(issuer, subject)

	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		user, err = s.users.Create(ctx, username, "")
		if errors.Is(err, domain.ErrDuplicateUsername) {
			// Lost a race with a concurrent first login.
			user, err = s.users.GetByUsername(ctx, username)
		}
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if user.PasswordHash != "" {
		return nil, ErrAccountConflict
	}
	return user, nil
}
