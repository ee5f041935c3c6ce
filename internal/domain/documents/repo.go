package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/frontdesk/frontdesk/pkg/pagination"
)

// TemplateFilter narrows template listings. Zero values match everything.
type TemplateFilter struct {
	DoctorID uuid.UUID
}

// ReportFilter narrows report listings. Zero values match everything.
type ReportFilter struct {
	PatientID  uuid.UUID
	TemplateID uuid.UUID
}

// TemplateRepository persists report templates. Reads attach the assigned
// doctor.
type TemplateRepository interface {
	Create(ctx context.Context, t *ReportTemplate) error
	GetByID(ctx context.Context, id uuid.UUID) (*ReportTemplate, error)
	Update(ctx context.Context, t *ReportTemplate) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f TemplateFilter, params pagination.Params) ([]*ReportTemplate, int, error)
}

// ReportRepository persists reports. Reads attach the patient and the
// template with its doctor.
type ReportRepository interface {
	Create(ctx context.Context, r *Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*Report, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f ReportFilter, params pagination.Params) ([]*Report, int, error)
}

// PatientReader loads the patient a template is rendered against.
type PatientReader interface {
	GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error)
}
