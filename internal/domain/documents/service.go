package documents

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/frontdesk/frontdesk/internal/platform/apperr"
	"github.com/frontdesk/frontdesk/internal/platform/placeholder"
	"github.com/frontdesk/frontdesk/pkg/pagination"
)

type Service struct {
	templates TemplateRepository
	reports   ReportRepository
	patients  PatientReader
	now       func() time.Time
}

func NewService(templates TemplateRepository, reports ReportRepository, patients PatientReader) *Service {
	return &Service{templates: templates, reports: reports, patients: patients, now: time.Now}
}

// -- Report Templates --

func (s *Service) CreateTemplate(ctx context.Context, in *TemplateInput) (*ReportTemplate, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	t := &ReportTemplate{}
	in.Apply(t)
	if err := s.templates.Create(ctx, t); err != nil {
		return nil, err
	}
	return s.templates.GetByID(ctx, t.ID)
}

func (s *Service) GetTemplate(ctx context.Context, id uuid.UUID) (*ReportTemplate, error) {
	return s.templates.GetByID(ctx, id)
}

// UpdateTemplate replaces a template. Reports generated from it keep their
// stored content.
func (s *Service) UpdateTemplate(ctx context.Context, id uuid.UUID, in *TemplateInput) (*ReportTemplate, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	t := &ReportTemplate{ID: id}
	in.Apply(t)
	if err := s.templates.Update(ctx, t); err != nil {
		return nil, err
	}
	return s.templates.GetByID(ctx, id)
}

// DeleteTemplate removes a template that no report references.
func (s *Service) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	err := s.templates.Delete(ctx, id)
	if apperr.Is(err, apperr.KindValidation) {
		return apperr.Conflict("template is still used by reports")
	}
	return err
}

func (s *Service) ListTemplates(ctx context.Context, f TemplateFilter, params pagination.Params) ([]*ReportTemplate, int, error) {
	return s.templates.List(ctx, f, params)
}

// PreviewTemplate renders a template against a patient without storing it.
func (s *Service) PreviewTemplate(ctx context.Context, templateID, patientID uuid.UUID) (*Preview, error) {
	t, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	p, err := s.patient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return &Preview{
		TemplateID: t.ID,
		PatientID:  p.ID,
		Content:    placeholder.Render(t.ContentTemplate, p.subject(), now),
		RenderedAt: now,
	}, nil
}

// -- Reports --

// CreateReport stores a report. Without explicit content the template is
// rendered against the patient as of now; explicit content is kept verbatim.
func (s *Service) CreateReport(ctx context.Context, in *ReportInput) (*Report, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	t, err := s.templates.GetByID(ctx, in.TemplateID)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, apperr.Validation("template does not exist")
	}
	if err != nil {
		return nil, err
	}
	p, err := s.patient(ctx, in.PatientID)
	if err != nil {
		return nil, err
	}

	r := &Report{
		PatientID:   p.ID,
		TemplateID:  t.ID,
		Content:     in.Content,
		GeneratedAt: s.now(),
	}
	if r.Content == "" {
		r.Content = placeholder.Render(t.ContentTemplate, p.subject(), r.GeneratedAt)
	}
	if err := s.reports.Create(ctx, r); err != nil {
		return nil, err
	}
	return s.reports.GetByID(ctx, r.ID)
}

func (s *Service) GetReport(ctx context.Context, id uuid.UUID) (*Report, error) {
	return s.reports.GetByID(ctx, id)
}

// UpdateReportContent replaces the content of a report. Nothing else changes.
func (s *Service) UpdateReportContent(ctx context.Context, id uuid.UUID, in *ContentInput) (*Report, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.reports.UpdateContent(ctx, id, *in.Content); err != nil {
		return nil, err
	}
	return s.reports.GetByID(ctx, id)
}

func (s *Service) DeleteReport(ctx context.Context, id uuid.UUID) error {
	return s.reports.Delete(ctx, id)
}

func (s *Service) ListReports(ctx context.Context, f ReportFilter, params pagination.Params) ([]*Report, int, error) {
	return s.reports.List(ctx, f, params)
}

func (s *Service) patient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := s.patients.GetPatient(ctx, id)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, apperr.Validation("patient does not exist")
	}
	return p, err
}
