package patient

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/frontdesk/frontdesk/internal/platform/db"
	"github.com/frontdesk/frontdesk/pkg/pagination"
)

type Service struct {
	patients Repository
	ids      *Allocator
	tx       db.Beginner
	logger   zerolog.Logger
}

// NewService wires the patient service. tx may be nil, in which case
// creation runs without an enclosing transaction.
func NewService(patients Repository, ids *Allocator, tx db.Beginner, logger zerolog.Logger) *Service {
	return &Service{patients: patients, ids: ids, tx: tx, logger: logger}
}

// CreatePatient validates the input, reserves the next PAT-NNNNN identifier
// and inserts the patient in one transaction. A duplicate MR ID or an
// identifier collision fails with Conflict.
func (s *Service) CreatePatient(ctx context.Context, in *Input) (*Patient, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p := &Patient{}
	in.Apply(p)

	err := s.withTx(ctx, func(ctx context.Context) error {
		id, err := s.ids.Next(ctx)
		if err != nil {
			return err
		}
		p.PatientID = id
		return s.patients.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	p.Reports = []*Report{}
	p.Bills = []*Bill{}

	s.logger.Info().Str("patient_id", p.PatientID).Str("id", p.ID.String()).Msg("patient registered")
	return p, nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

// UpdatePatient replaces the writable fields. The PAT identifier is kept.
func (s *Service) UpdatePatient(ctx context.Context, id uuid.UUID, in *Input) (*Patient, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p := &Patient{ID: id}
	in.Apply(p)
	if err := s.patients.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.patients.GetByID(ctx, id)
}

// DeletePatient removes the patient with its reports and bills.
func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, params pagination.Params) ([]*Patient, int, error) {
	return s.patients.List(ctx, params)
}

func (s *Service) AllPatients(ctx context.Context) ([]*Patient, error) {
	return s.patients.All(ctx)
}

func (s *Service) withTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return db.WithTx(ctx, s.tx, fn)
}
