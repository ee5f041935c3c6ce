package dashboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/frontdesk/frontdesk/internal/platform/apperr"
	"github.com/frontdesk/frontdesk/internal/platform/db"
)

// Store evaluates measures against the database.
type Store interface {
	Value(ctx context.Context, m *Measure, start, end time.Time) (float64, error)
	PatientsBetween(ctx context.Context, start, end time.Time) ([]*RecentPatient, error)
}

type storePG struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) Store {
	return &storePG{pool: pool}
}

func (s *storePG) Value(ctx context.Context, m *Measure, start, end time.Time) (float64, error) {
	var args []any
	if m.Daily {
		args = []any{start, end}
	}
	var v float64
	if err := db.Conn(ctx, s.pool).QueryRow(ctx, m.SQL, args...).Scan(&v); err != nil {
		return 0, apperr.FromPG(err, "measure")
	}
	return v, nil
}

func (s *storePG) PatientsBetween(ctx context.Context, start, end time.Time) ([]*RecentPatient, error) {
	rows, err := db.Conn(ctx, s.pool).Query(ctx, `
		SELECT id::text, patient_id, name, age, gender, contact, doctor_name, department, created_at
		FROM patient
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at DESC`, start, end)
	if err != nil {
		return nil, apperr.FromPG(err, "patient")
	}
	defer rows.Close()

	patients := []*RecentPatient{}
	for rows.Next() {
		var p RecentPatient
		if err := rows.Scan(&p.ID, &p.PatientID, &p.Name, &p.Age, &p.Gender, &p.Contact,
			&p.DoctorName, &p.Department, &p.CreatedAt); err != nil {
			return nil, apperr.FromPG(err, "patient")
		}
		patients = append(patients, &p)
	}
	return patients, apperr.FromPG(rows.Err(), "patient")
}
