package doctor

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/frontdesk/frontdesk/internal/platform/apperr"
	"github.com/frontdesk/frontdesk/internal/platform/db"
	"github.com/frontdesk/frontdesk/pkg/pagination"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

const doctorColumns = `id, name, specialization, phone, email, qualifications, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, d *Doctor) error {
	d.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO doctor (id, name, specialization, phone, email, qualifications)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		d.ID, d.Name, d.Specialization, d.Phone, d.Email, d.Qualifications,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	return apperr.FromPG(err, "doctor")
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	d, err := r.scanDoctor(r.conn(ctx).QueryRow(ctx,
		`SELECT `+doctorColumns+` FROM doctor WHERE id = $1`, id))
	if err != nil {
		return nil, apperr.FromPG(err, "doctor")
	}
	if err := r.attach(ctx, []*Doctor{d}); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *repoPG) Update(ctx context.Context, d *Doctor) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE doctor SET
			name = $2, specialization = $3, phone = $4, email = $5,
			qualifications = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		d.ID, d.Name, d.Specialization, d.Phone, d.Email, d.Qualifications,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	return apperr.FromPG(err, "doctor")
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM doctor WHERE id = $1`, id)
	if err != nil {
		return apperr.FromPG(err, "doctor")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("doctor")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, params pagination.Params) ([]*Doctor, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM doctor`).Scan(&total); err != nil {
		return nil, 0, apperr.FromPG(err, "doctor")
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+doctorColumns+` FROM doctor ORDER BY created_at `+params.Direction()+`, id
		LIMIT $1 OFFSET $2`, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, apperr.FromPG(err, "doctor")
	}
	defer rows.Close()

	var doctors []*Doctor
	for rows.Next() {
		d, err := r.scanDoctor(rows)
		if err != nil {
			return nil, 0, apperr.FromPG(err, "doctor")
		}
		doctors = append(doctors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.FromPG(err, "doctor")
	}
	rows.Close()

	if err := r.attach(ctx, doctors); err != nil {
		return nil, 0, err
	}
	return doctors, total, nil
}

func (r *repoPG) attach(ctx context.Context, doctors []*Doctor) error {
	if len(doctors) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(doctors))
	byID := make(map[uuid.UUID]*Doctor, len(doctors))
	for i, d := range doctors {
		ids[i] = d.ID
		byID[d.ID] = d
		d.ReportTemplates = []*ReportTemplate{}
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, doctor_id, name, content_template, created_at
		FROM report_template
		WHERE doctor_id = ANY($1)
		ORDER BY name`, ids)
	if err != nil {
		return apperr.FromPG(err, "template")
	}
	defer rows.Close()
	for rows.Next() {
		var t ReportTemplate
		var doctorID uuid.UUID
		if err := rows.Scan(&t.ID, &doctorID, &t.Name, &t.ContentTemplate, &t.CreatedAt); err != nil {
			return apperr.FromPG(err, "template")
		}
		byID[doctorID].ReportTemplates = append(byID[doctorID].ReportTemplates, &t)
	}
	return apperr.FromPG(rows.Err(), "template")
}

func (r *repoPG) scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.Name, &d.Specialization, &d.Phone, &d.Email, &d.Qualifications,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
