package account

import (
	"context"
)

// UserRepository defines the persistence interface for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	UpdatePassword(ctx context.Context, username, passwordHash string) error
	Upsert(ctx context.Context, user *User) error
	List(ctx context.Context) ([]*User, error)
}
