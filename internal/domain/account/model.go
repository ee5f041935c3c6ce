package account

import (
	"time"

	"github.com/google/uuid"

	"github.com/frontdesk/frontdesk/internal/platform/auth"
)

// User maps to the app_user table.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         auth.Role `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Credential converts the user into what the session manager verifies.
func (u *User) Credential() *auth.Credential {
	return &auth.Credential{
		UserID:       u.ID.String(),
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
	}
}

// SeedAccount is one of the fixed front-office accounts.
type SeedAccount struct {
	Username string
	Password string
	Role     auth.Role
}

// DefaultAccounts returns the admin, user1 and user2 accounts.
func DefaultAccounts(adminPassword, userPassword string) []SeedAccount {
	return []SeedAccount{
		{Username: "admin", Password: adminPassword, Role: auth.RoleAdmin},
		{Username: "user1", Password: userPassword, Role: auth.RoleUser1},
		{Username: "user2", Password: userPassword, Role: auth.RoleUser2},
	}
}
