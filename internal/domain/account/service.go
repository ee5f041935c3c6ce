package account

import (
	"context"
	"strings"

	"github.com/frontdesk/frontdesk/internal/platform/apperr"
	"github.com/frontdesk/frontdesk/internal/platform/auth"
)

type Service struct {
	users UserRepository
}

func NewService(users UserRepository) *Service {
	return &Service{users: users}
}

// CreateUser validates and stores a new account. Duplicate usernames fail
// with Conflict.
func (s *Service) CreateUser(ctx context.Context, username, password string, role auth.Role) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperr.Validation("username is required")
	}
	if !role.Valid() {
		return nil, apperr.Validation("role must be one of Admin, User1, User2")
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{Username: username, PasswordHash: hash, Role: role}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ChangePassword replaces the password of an existing account.
func (s *Service) ChangePassword(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" {
		return apperr.Validation("username is required")
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, username, hash)
}

// SeedDefaults upserts the given accounts, resetting passwords of accounts
// that already exist.
func (s *Service) SeedDefaults(ctx context.Context, accounts []SeedAccount) ([]*User, error) {
	out := make([]*User, 0, len(accounts))
	for _, a := range accounts {
		if !a.Role.Valid() {
			return nil, apperr.Validation("unknown role %q for %s", a.Role, a.Username)
		}
		hash, err := hashPassword(a.Password)
		if err != nil {
			return nil, err
		}
		u := &User{Username: a.Username, PasswordHash: hash, Role: a.Role}
		if err := s.users.Upsert(ctx, u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.users.List(ctx)
}

// LookupCredential implements auth.CredentialStore.
func (s *Service) LookupCredential(ctx context.Context, username string) (*auth.Credential, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, auth.ErrCredentialNotFound
		}
		return nil, err
	}
	return u.Credential(), nil
}

func hashPassword(password string) (string, error) {
	if len(password) < auth.MinPasswordLength {
		return "", apperr.Validation("password must be at least %d characters", auth.MinPasswordLength)
	}
	if len(password) > auth.MaxPasswordBytes {
		return "", apperr.Validation("password must be at most %d bytes", auth.MaxPasswordBytes)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", apperr.Internal("hash password", err)
	}
	return hash, nil
}
