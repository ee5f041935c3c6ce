package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/frontdesk/frontdesk/internal/platform/apperr"
	"github.com/frontdesk/frontdesk/internal/platform/db"
	"github.com/frontdesk/frontdesk/pkg/numeric"
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

const paymentSelect = `
	SELECT dp.id, dp.doctor_id, dp.amount, dp.notes, dp.date, dp.created_at,
	       d.id, d.name, d.specialization, d.phone, d.email
	FROM doctor_payment dp
	JOIN doctor d ON d.id = dp.doctor_id`

func (r *repoPG) Create(ctx context.Context, p *DoctorPayment) error {
	p.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO doctor_payment (id, doctor_id, amount, notes, date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		p.ID, p.DoctorID, p.Amount, p.Notes, p.Date,
	).Scan(&p.CreatedAt)
	return apperr.FromPG(err, "payment")
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*DoctorPayment, error) {
	p, err := scanPayment(r.conn(ctx).QueryRow(ctx, paymentSelect+` WHERE dp.id = $1`, id))
	if err != nil {
		return nil, apperr.FromPG(err, "payment")
	}
	return p, nil
}

func (r *repoPG) Update(ctx context.Context, p *DoctorPayment) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE doctor_payment SET doctor_id = $2, amount = $3, notes = $4, date = $5
		WHERE id = $1
		RETURNING created_at`,
		p.ID, p.DoctorID, p.Amount, p.Notes, p.Date,
	).Scan(&p.CreatedAt)
	return apperr.FromPG(err, "payment")
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM doctor_payment WHERE id = $1`, id)
	if err != nil {
		return apperr.FromPG(err, "payment")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("payment")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, f Filter, params pagination.Params) ([]*DoctorPayment, int, error) {
	where, args := f.where()

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM doctor_payment dp`+where, args...).Scan(&total); err != nil {
		return nil, 0, apperr.FromPG(err, "payment")
	}

	query := paymentSelect + where +
		fmt.Sprintf(` ORDER BY dp.date %s, dp.id LIMIT $%d OFFSET $%d`, params.Direction(), len(args)+1, len(args)+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, params.Limit, params.Offset)...)
	if err != nil {
		return nil, 0, apperr.FromPG(err, "payment")
	}
	payments, err := collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

func (r *repoPG) All(ctx context.Context, f Filter) ([]*DoctorPayment, error) {
	where, args := f.where()
	rows, err := r.conn(ctx).Query(ctx, paymentSelect+where+` ORDER BY dp.date DESC, dp.id`, args...)
	if err != nil {
		return nil, apperr.FromPG(err, "payment")
	}
	return collect(rows)
}

func (r *repoPG) Summarize(ctx context.Context, f Filter) (*Summary, error) {
	where, args := f.where()
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT d.id, d.name, d.specialization, COUNT(*), COALESCE(SUM(dp.amount), 0)
		FROM doctor_payment dp
		JOIN doctor d ON d.id = dp.doctor_id`+where+`
		GROUP BY d.id, d.name, d.specialization
		ORDER BY 5 DESC, d.name`, args...)
	if err != nil {
		return nil, apperr.FromPG(err, "payment")
	}
	defer rows.Close()

	s := &Summary{Doctors: []*DoctorTotal{}}
	for rows.Next() {
		var t DoctorTotal
		if err := rows.Scan(&t.DoctorID, &t.DoctorName, &t.Specialization, &t.Count, &t.Total); err != nil {
			return nil, apperr.FromPG(err, "payment")
		}
		s.Count += t.Count
		s.Total = numeric.Round2(s.Total + t.Total)
		s.Doctors = append(s.Doctors, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromPG(err, "payment")
	}
	return s, nil
}

// where renders the filter against the payment alias dp.
func (f Filter) where() (string, []any) {
	if f.DoctorID == uuid.Nil {
		return "", nil
	}
	return " WHERE dp.doctor_id = $1", []any{f.DoctorID}
}

func collect(rows pgx.Rows) ([]*DoctorPayment, error) {
	defer rows.Close()
	var payments []*DoctorPayment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, apperr.FromPG(err, "payment")
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromPG(err, "payment")
	}
	return payments, nil
}

func scanPayment(row pgx.Row) (*DoctorPayment, error) {
	var p DoctorPayment
	var d Doctor
	err := row.Scan(&p.ID, &p.DoctorID, &p.Amount, &p.Notes, &p.Date, &p.CreatedAt,
		&d.ID, &d.Name, &d.Specialization, &d.Phone, &d.Email)
	if err != nil {
		return nil, err
	}
	p.Doctor = &d
	return &p, nil
}
