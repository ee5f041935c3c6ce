package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/frontdesk/frontdesk/pkg/pagination"
)

type Service struct {
	bills Repository
	now   func() time.Time
}

func NewService(bills Repository) *Service {
	return &Service{bills: bills, now: time.Now}
}

// CreateBill validates and stores a bill. An unknown patient fails with
// Validation.
func (s *Service) CreateBill(ctx context.Context, in *Input) (*Bill, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	b := &Bill{}
	in.Apply(b, s.now())
	if err := s.bills.Create(ctx, b); err != nil {
		return nil, err
	}
	return s.bills.GetByID(ctx, b.ID)
}

func (s *Service) GetBill(ctx context.Context, id uuid.UUID) (*Bill, error) {
	return s.bills.GetByID(ctx, id)
}

// UpdateBill replaces the charge of a bill. The patient stays and an omitted
// date keeps the stored one.
func (s *Service) UpdateBill(ctx context.Context, id uuid.UUID, in *UpdateInput) (*Bill, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.bills.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b := &Bill{ID: id, PatientID: existing.PatientID, Date: existing.Date}
	in.Apply(b, s.now())
	if err := s.bills.Update(ctx, b); err != nil {
		return nil, err
	}
	return s.bills.GetByID(ctx, id)
}

func (s *Service) DeleteBill(ctx context.Context, id uuid.UUID) error {
	return s.bills.Delete(ctx, id)
}

func (s *Service) ListBills(ctx context.Context, f Filter, params pagination.Params) ([]*Bill, int, error) {
	return s.bills.List(ctx, f, params)
}

func (s *Service) AllBills(ctx context.Context, f Filter) ([]*Bill, error) {
	return s.bills.All(ctx, f)
}

// Summary returns paid, unpaid and partial totals.
func (s *Service) Summary(ctx context.Context, f Filter) (*Summary, error) {
	return s.bills.Summarize(ctx, f)
}
