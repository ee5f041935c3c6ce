package billing

import (
	"context"
	"fmt"
	"strings"

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

const billSelect = `
	SELECT b.id, b.patient_id, b.services, b.amount, b.status, b.date, b.created_at, b.updated_at,
	       p.id, p.patient_id, p.mr_id, p.name, p.age, p.gender, p.contact
	FROM bill b
	JOIN patient p ON p.id = b.patient_id`

func (r *repoPG) Create(ctx context.Context, b *Bill) error {
	b.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO bill (id, patient_id, services, amount, status, date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		b.ID, b.PatientID, b.Services, b.Amount, b.Status, b.Date,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	return apperr.FromPG(err, "bill")
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Bill, error) {
	b, err := r.scanBill(r.conn(ctx).QueryRow(ctx, billSelect+` WHERE b.id = $1`, id))
	if err != nil {
		return nil, apperr.FromPG(err, "bill")
	}
	return b, nil
}

func (r *repoPG) Update(ctx context.Context, b *Bill) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE bill SET
			services = $2, amount = $3, status = $4, date = $5,
			updated_at = NOW()
		WHERE id = $1
		RETURNING patient_id, created_at, updated_at`,
		b.ID, b.Services, b.Amount, b.Status, b.Date,
	).Scan(&b.PatientID, &b.CreatedAt, &b.UpdatedAt)
	return apperr.FromPG(err, "bill")
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM bill WHERE id = $1`, id)
	if err != nil {
		return apperr.FromPG(err, "bill")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("bill")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, f Filter, params pagination.Params) ([]*Bill, int, error) {
	where, args := f.where()

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM bill b`+where, args...).Scan(&total); err != nil {
		return nil, 0, apperr.FromPG(err, "bill")
	}

	query := billSelect + where +
		fmt.Sprintf(` ORDER BY b.date %s, b.id LIMIT $%d OFFSET $%d`, params.Direction(), len(args)+1, len(args)+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, params.Limit, params.Offset)...)
	if err != nil {
		return nil, 0, apperr.FromPG(err, "bill")
	}
	bills, err := r.collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return bills, total, nil
}

func (r *repoPG) All(ctx context.Context, f Filter) ([]*Bill, error) {
	where, args := f.where()
	rows, err := r.conn(ctx).Query(ctx, billSelect+where+` ORDER BY b.date DESC, b.id`, args...)
	if err != nil {
		return nil, apperr.FromPG(err, "bill")
	}
	return r.collect(rows)
}

func (r *repoPG) Summarize(ctx context.Context, f Filter) (*Summary, error) {
	where, args := f.where()
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT b.status, COUNT(*), COALESCE(SUM(b.amount), 0) FROM bill b`+where+` GROUP BY b.status`, args...)
	if err != nil {
		return nil, apperr.FromPG(err, "bill")
	}
	defer rows.Close()

	s := &Summary{}
	for rows.Next() {
		var status Status
		var count int
		var sum float64
		if err := rows.Scan(&status, &count, &sum); err != nil {
			return nil, apperr.FromPG(err, "bill")
		}
		s.Count += count
		s.Total = numeric.Round2(s.Total + sum)
		switch status {
		case StatusPaid:
			s.Paid, s.PaidCount = sum, count
		case StatusUnpaid:
			s.Unpaid, s.UnpaidCount = sum, count
		case StatusPartial:
			s.Partial, s.PartialCount = sum, count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromPG(err, "bill")
	}
	return s, nil
}

// where renders the filter against the bill alias b.
func (f Filter) where() (string, []any) {
	var clauses []string
	var args []any
	if f.PatientID != uuid.Nil {
		args = append(args, f.PatientID)
		clauses = append(clauses, fmt.Sprintf("b.patient_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		clauses = append(clauses, fmt.Sprintf("b.status = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *repoPG) collect(rows pgx.Rows) ([]*Bill, error) {
	defer rows.Close()
	var bills []*Bill
	for rows.Next() {
		b, err := r.scanBill(rows)
		if err != nil {
			return nil, apperr.FromPG(err, "bill")
		}
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromPG(err, "bill")
	}
	return bills, nil
}

func (r *repoPG) scanBill(row pgx.Row) (*Bill, error) {
	var b Bill
	var p Patient
	err := row.Scan(&b.ID, &b.PatientID, &b.Services, &b.Amount, &b.Status, &b.Date, &b.CreatedAt, &b.UpdatedAt,
		&p.ID, &p.PatientID, &p.MRID, &p.Name, &p.Age, &p.Gender, &p.Contact)
	if err != nil {
		return nil, err
	}
	b.Patient = &p
	return &b, nil
}
