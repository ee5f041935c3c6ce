package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/frontdesk/frontdesk/pkg/pagination"
)

type Service struct {
	payments Repository
	logger   zerolog.Logger
	now      func() time.Time
}

func NewService(payments Repository, logger zerolog.Logger) *Service {
	return &Service{payments: payments, logger: logger, now: time.Now}
}

// CreatePayment records a payout. An unknown doctor fails with Validation.
func (s *Service) CreatePayment(ctx context.Context, in *Input) (*DoctorPayment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p := &DoctorPayment{}
	in.Apply(p, s.now())
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("payment_id", p.ID.String()).
		Str("doctor_id", p.DoctorID.String()).
		Float64("amount", p.Amount).
		Msg("doctor payment recorded")
	return s.payments.GetByID(ctx, p.ID)
}

func (s *Service) GetPayment(ctx context.Context, id uuid.UUID) (*DoctorPayment, error) {
	return s.payments.GetByID(ctx, id)
}

func (s *Service) UpdatePayment(ctx context.Context, id uuid.UUID, in *Input) (*DoctorPayment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.Apply(p, s.now())
	if err := s.payments.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.payments.GetByID(ctx, id)
}

func (s *Service) DeletePayment(ctx context.Context, id uuid.UUID) error {
	return s.payments.Delete(ctx, id)
}

func (s *Service) ListPayments(ctx context.Context, f Filter, params pagination.Params) ([]*DoctorPayment, int, error) {
	return s.payments.List(ctx, f, params)
}

func (s *Service) AllPayments(ctx context.Context, f Filter) ([]*DoctorPayment, error) {
	return s.payments.All(ctx, f)
}

func (s *Service) Summary(ctx context.Context, f Filter) (*Summary, error) {
	return s.payments.Summarize(ctx, f)
}
