package doctor

import (
	"context"

	"github.com/google/uuid"

	"github.com/frontdesk/frontdesk/internal/platform/apperr"
	"github.com/frontdesk/frontdesk/pkg/pagination"
)

type Service struct {
	doctors Repository
}

func NewService(doctors Repository) *Service {
	return &Service{doctors: doctors}
}

// CreateDoctor validates and stores a doctor. A duplicate email fails with
// Conflict.
func (s *Service) CreateDoctor(ctx context.Context, in *Input) (*Doctor, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	d := &Doctor{}
	in.Apply(d)
	if err := s.doctors.Create(ctx, d); err != nil {
		return nil, err
	}
	d.ReportTemplates = []*ReportTemplate{}
	return d, nil
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) UpdateDoctor(ctx context.Context, id uuid.UUID, in *Input) (*Doctor, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	d := &Doctor{ID: id}
	in.Apply(d)
	if err := s.doctors.Update(ctx, d); err != nil {
		return nil, err
	}
	return s.doctors.GetByID(ctx, id)
}

// DeleteDoctor removes a doctor. Templates assigned to the doctor are kept
// and lose the assignment; a doctor with recorded payments cannot be deleted.
// DeleteDoctor removes a doctor. Templates keep existing without a doctor;
// a doctor with recorded payments cannot be deleted.
func (s *Service) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	err := s.doctors.Delete(ctx, id)
	if apperr.Is(err, apperr.KindValidation) {
		return apperr.Conflict("doctor has recorded payments")
	}
	return err
}

func (s *Service) ListDoctors(ctx context.Context, params pagination.Params) ([]*Doctor, int, error) {
	return s.doctors.List(ctx, params)
}
