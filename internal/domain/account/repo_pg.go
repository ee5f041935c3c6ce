package account

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/frontdesk/frontdesk/internal/platform/apperr"
	"github.com/frontdesk/frontdesk/internal/platform/db"
)

type userRepoPG struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) UserRepository {
	return &userRepoPG{pool: pool}
}

func (r *userRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

const userColumns = `id, username, password_hash, role, created_at, updated_at`

func (r *userRepoPG) Create(ctx context.Context, u *User) error {
	u.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO app_user (id, username, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		u.ID, u.Username, u.PasswordHash, u.Role,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	return apperr.FromPG(err, "user")
}

func (r *userRepoPG) GetByUsername(ctx context.Context, username string) (*User, error) {
	u, err := r.scanUser(r.conn(ctx).QueryRow(ctx,
		`SELECT `+userColumns+` FROM app_user WHERE username = $1`, username))
	if err != nil {
		return nil, apperr.FromPG(err, "user")
	}
	return u, nil
}

func (r *userRepoPG) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE app_user SET password_hash = $2, updated_at = NOW() WHERE username = $1`,
		username, passwordHash)
	if err != nil {
		return apperr.FromPG(err, "user")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

// Upsert creates the user or, when the username exists, resets its password
// and role.
func (r *userRepoPG) Upsert(ctx context.Context, u *User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO app_user (id, username, password_hash, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (username) DO UPDATE
			SET password_hash = EXCLUDED.password_hash,
			    role = EXCLUDED.role,
			    updated_at = NOW()
		RETURNING id, created_at, updated_at`,
		u.ID, u.Username, u.PasswordHash, u.Role,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	return apperr.FromPG(err, "user")
}

func (r *userRepoPG) List(ctx context.Context) ([]*User, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+userColumns+` FROM app_user ORDER BY username`)
	if err != nil {
		return nil, apperr.FromPG(err, "user")
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, apperr.FromPG(err, "user")
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepoPG) scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
