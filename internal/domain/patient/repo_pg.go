package patient

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

const patientColumns = `id, patient_id, mr_id, name, age, gender, contact, address,
	medical_history, doctor_name, department, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patient (
			id, patient_id, mr_id, name, age, gender, contact, address,
			medical_history, doctor_name, department
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`,
		p.ID, p.PatientID, p.MRID, p.Name, p.Age, p.Gender, p.Contact, p.Address,
		p.MedicalHistory, p.DoctorName, p.Department,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return apperr.FromPG(err, "patient")
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := r.scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientColumns+` FROM patient WHERE id = $1`, id))
	if err != nil {
		return nil, apperr.FromPG(err, "patient")
	}
	if err := r.attach(ctx, []*Patient{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// Update writes every field except patient_id.
func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE patient SET
			mr_id = $2, name = $3, age = $4, gender = $5, contact = $6,
			address = $7, medical_history = $8, doctor_name = $9,
			department = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING patient_id, created_at, updated_at`,
		p.ID, p.MRID, p.Name, p.Age, p.Gender, p.Contact,
		p.Address, p.MedicalHistory, p.DoctorName, p.Department,
	).Scan(&p.PatientID, &p.CreatedAt, &p.UpdatedAt)
	return apperr.FromPG(err, "patient")
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	if err != nil {
		return apperr.FromPG(err, "patient")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("patient")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, params pagination.Params) ([]*Patient, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patient`).Scan(&total); err != nil {
		return nil, 0, apperr.FromPG(err, "patient")
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+patientColumns+` FROM patient ORDER BY created_at `+params.Direction()+`, id
		LIMIT $1 OFFSET $2`, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, apperr.FromPG(err, "patient")
	}
	patients, err := r.collect(rows)
	if err != nil {
		return nil, 0, err
	}
	if err := r.attach(ctx, patients); err != nil {
		return nil, 0, err
	}
	return patients, total, nil
}

func (r *repoPG) All(ctx context.Context) ([]*Patient, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+patientColumns+` FROM patient ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, apperr.FromPG(err, "patient")
	}
	return r.collect(rows)
}

func (r *repoPG) collect(rows pgx.Rows) ([]*Patient, error) {
	defer rows.Close()
	var patients []*Patient
	for rows.Next() {
		p, err := r.scanPatient(rows)
		if err != nil {
			return nil, apperr.FromPG(err, "patient")
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromPG(err, "patient")
	}
	return patients, nil
}

// attach loads reports (with their templates) and bills for the given
// patients in two queries.
func (r *repoPG) attach(ctx context.Context, patients []*Patient) error {
	if len(patients) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(patients))
	byID := make(map[uuid.UUID]*Patient, len(patients))
	for i, p := range patients {
		ids[i] = p.ID
		byID[p.ID] = p
		p.Reports = []*Report{}
		p.Bills = []*Bill{}
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT r.id, r.patient_id, r.template_id, r.content, r.generated_at,
		       t.id, t.name, t.content_template, t.doctor_id
		FROM report r
		JOIN report_template t ON t.id = r.template_id
		WHERE r.patient_id = ANY($1)
		ORDER BY r.generated_at DESC`, ids)
	if err != nil {
		return apperr.FromPG(err, "report")
	}
	for rows.Next() {
		var rep Report
		var tmpl Template
		if err := rows.Scan(&rep.ID, &rep.PatientID, &rep.TemplateID, &rep.Content, &rep.GeneratedAt,
			&tmpl.ID, &tmpl.Name, &tmpl.ContentTemplate, &tmpl.DoctorID); err != nil {
			rows.Close()
			return apperr.FromPG(err, "report")
		}
		rep.Template = &tmpl
		byID[rep.PatientID].Reports = append(byID[rep.PatientID].Reports, &rep)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return apperr.FromPG(err, "report")
	}

	rows, err = r.conn(ctx).Query(ctx, `
		SELECT id, patient_id, services, amount, status, date
		FROM bill
		WHERE patient_id = ANY($1)
		ORDER BY date DESC`, ids)
	if err != nil {
		return apperr.FromPG(err, "bill")
	}
	defer rows.Close()
	for rows.Next() {
		var b Bill
		if err := rows.Scan(&b.ID, &b.PatientID, &b.Services, &b.Amount, &b.Status, &b.Date); err != nil {
			return apperr.FromPG(err, "bill")
		}
		byID[b.PatientID].Bills = append(byID[b.PatientID].Bills, &b)
	}
	return apperr.FromPG(rows.Err(), "bill")
}

func (r *repoPG) scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.PatientID, &p.MRID, &p.Name, &p.Age, &p.Gender, &p.Contact, &p.Address,
		&p.MedicalHistory, &p.DoctorName, &p.Department, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
