package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/frontdesk/frontdesk/pkg/pagination"
)

// Filter narrows payment listings. Zero values match everything.
type Filter struct {
	DoctorID uuid.UUID
}

// Repository defines the persistence interface for doctor payments. Reads
// attach the doctor.
type Repository interface {
	Create(ctx context.Context, p *DoctorPayment) error
	GetByID(ctx context.Context, id uuid.UUID) (*DoctorPayment, error)
	Update(ctx context.Context, p *DoctorPayment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f Filter, params pagination.Params) ([]*DoctorPayment, int, error)
	All(ctx context.Context, f Filter) ([]*DoctorPayment, error)
	Summarize(ctx context.Context, f Filter) (*Summary, error)
}
