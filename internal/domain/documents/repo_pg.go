package documents

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/frontdesk/frontdesk/internal/platform/apperr"
	"github.com/frontdesk/frontdesk/internal/platform/db"
	"github.com/frontdesk/frontdesk/pkg/pagination"
)

// -- Template Repository --

type templateRepoPG struct {
	pool *pgxpool.Pool
}

func NewTemplateRepo(pool *pgxpool.Pool) TemplateRepository {
	return &templateRepoPG{pool: pool}
}

func (r *templateRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

const templateSelect = `
	SELECT t.id, t.name, t.content_template, t.doctor_id, t.created_at, t.updated_at,
	       d.id, d.name, d.specialization, d.phone, d.email
	FROM report_template t
	LEFT JOIN doctor d ON d.id = t.doctor_id`

func (r *templateRepoPG) Create(ctx context.Context, t *ReportTemplate) error {
	t.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO report_template (id, name, content_template, doctor_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		t.ID, t.Name, t.ContentTemplate, t.DoctorID,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	return apperr.FromPG(err, "template")
}

func (r *templateRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*ReportTemplate, error) {
	t, err := scanTemplate(r.conn(ctx).QueryRow(ctx, templateSelect+` WHERE t.id = $1`, id))
	if err != nil {
		return nil, apperr.FromPG(err, "template")
	}
	return t, nil
}

func (r *templateRepoPG) Update(ctx context.Context, t *ReportTemplate) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE report_template SET
			name = $2, content_template = $3, doctor_id = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		t.ID, t.Name, t.ContentTemplate, t.DoctorID,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	return apperr.FromPG(err, "template")
}

func (r *templateRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM report_template WHERE id = $1`, id)
	if err != nil {
		return apperr.FromPG(err, "template")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("template")
	}
	return nil
}

func (r *templateRepoPG) List(ctx context.Context, f TemplateFilter, params pagination.Params) ([]*ReportTemplate, int, error) {
	var where string
	var args []any
	if f.DoctorID != uuid.Nil {
		args = append(args, f.DoctorID)
		where = ` WHERE t.doctor_id = $1`
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM report_template t`+where, args...).Scan(&total); err != nil {
		return nil, 0, apperr.FromPG(err, "template")
	}

	query := templateSelect + where +
		fmt.Sprintf(` ORDER BY t.created_at %s, t.id LIMIT $%d OFFSET $%d`, params.Direction(), len(args)+1, len(args)+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, params.Limit, params.Offset)...)
	if err != nil {
		return nil, 0, apperr.FromPG(err, "template")
	}
	defer rows.Close()

	var templates []*ReportTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, 0, apperr.FromPG(err, "template")
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.FromPG(err, "template")
	}
	return templates, total, nil
}

// doctorCols receives the nullable LEFT JOIN doctor columns.
type doctorCols struct {
	id             *uuid.UUID
	name           *string
	specialization *string
	phone          *string
	email          *string
}

func (d *doctorCols) dest() []any {
	return []any{&d.id, &d.name, &d.specialization, &d.phone, &d.email}
}

func (d *doctorCols) doctor() *Doctor {
	if d.id == nil {
		return nil
	}
	return &Doctor{
		ID:             *d.id,
		Name:           deref(d.name),
		Specialization: deref(d.specialization),
		Phone:          deref(d.phone),
		Email:          deref(d.email),
	}
}

func scanTemplate(row pgx.Row) (*ReportTemplate, error) {
	var t ReportTemplate
	var d doctorCols
	dest := append([]any{&t.ID, &t.Name, &t.ContentTemplate, &t.DoctorID, &t.CreatedAt, &t.UpdatedAt}, d.dest()...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	t.Doctor = d.doctor()
	return &t, nil
}

// -- Report Repository --

type reportRepoPG struct {
	pool *pgxpool.Pool
}

func NewReportRepo(pool *pgxpool.Pool) ReportRepository {
	return &reportRepoPG{pool: pool}
}

func (r *reportRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

const reportSelect = `
	SELECT r.id, r.patient_id, r.template_id, r.content, r.generated_at,
	       p.id, p.patient_id, p.mr_id, p.name, p.age, p.gender, p.contact,
	       t.id, t.name, t.content_template, t.doctor_id, t.created_at, t.updated_at,
	       d.id, d.name, d.specialization, d.phone, d.email
	FROM report r
	JOIN patient p ON p.id = r.patient_id
	JOIN report_template t ON t.id = r.template_id
	LEFT JOIN doctor d ON d.id = t.doctor_id`

func (r *reportRepoPG) Create(ctx context.Context, rep *Report) error {
	rep.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO report (id, patient_id, template_id, content, generated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		rep.ID, rep.PatientID, rep.TemplateID, rep.Content, rep.GeneratedAt,
	)
	return apperr.FromPG(err, "report")
}

func (r *reportRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Report, error) {
	rep, err := scanReport(r.conn(ctx).QueryRow(ctx, reportSelect+` WHERE r.id = $1`, id))
	if err != nil {
		return nil, apperr.FromPG(err, "report")
	}
	return rep, nil
}

func (r *reportRepoPG) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	var updated uuid.UUID
	err := r.conn(ctx).QueryRow(ctx,
		`UPDATE report SET content = $2 WHERE id = $1 RETURNING id`, id, content,
	).Scan(&updated)
	return apperr.FromPG(err, "report")
}

func (r *reportRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM report WHERE id = $1`, id)
	if err != nil {
		return apperr.FromPG(err, "report")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("report")
	}
	return nil
}

func (r *reportRepoPG) List(ctx context.Context, f ReportFilter, params pagination.Params) ([]*Report, int, error) {
	where, args := f.where()

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM report r`+where, args...).Scan(&total); err != nil {
		return nil, 0, apperr.FromPG(err, "report")
	}

	query := reportSelect + where +
		fmt.Sprintf(` ORDER BY r.generated_at %s, r.id LIMIT $%d OFFSET $%d`, params.Direction(), len(args)+1, len(args)+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, params.Limit, params.Offset)...)
	if err != nil {
		return nil, 0, apperr.FromPG(err, "report")
	}
	defer rows.Close()

	var reports []*Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, 0, apperr.FromPG(err, "report")
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.FromPG(err, "report")
	}
	return reports, total, nil
}

// where renders the filter against the report alias r.
func (f ReportFilter) where() (string, []any) {
	var clauses []string
	var args []any
	if f.PatientID != uuid.Nil {
		args = append(args, f.PatientID)
		clauses = append(clauses, fmt.Sprintf("r.patient_id = $%d", len(args)))
	}
	if f.TemplateID != uuid.Nil {
		args = append(args, f.TemplateID)
		clauses = append(clauses, fmt.Sprintf("r.template_id = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanReport(row pgx.Row) (*Report, error) {
	var rep Report
	var p Patient
	var t ReportTemplate
	var d doctorCols
	dest := []any{
		&rep.ID, &rep.PatientID, &rep.TemplateID, &rep.Content, &rep.GeneratedAt,
		&p.ID, &p.PatientID, &p.MRID, &p.Name, &p.Age, &p.Gender, &p.Contact,
		&t.ID, &t.Name, &t.ContentTemplate, &t.DoctorID, &t.CreatedAt, &t.UpdatedAt,
	}
	if err := row.Scan(append(dest, d.dest()...)...); err != nil {
		return nil, err
	}
	t.Doctor = d.doctor()
	rep.Patient = &p
	rep.Template = &t
	return &rep, nil
}

// -- Patient Reader --

type patientReaderPG struct {
	pool *pgxpool.Pool
}

func NewPatientReader(pool *pgxpool.Pool) PatientReader {
	return &patientReaderPG{pool: pool}
}

func (r *patientReaderPG) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	var p Patient
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		SELECT id, patient_id, mr_id, name, age, gender, contact
		FROM patient WHERE id = $1`, id,
	).Scan(&p.ID, &p.PatientID, &p.MRID, &p.Name, &p.Age, &p.Gender, &p.Contact)
	if err != nil {
		return nil, apperr.FromPG(err, "patient")
	}
	return &p, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
