package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/frontdesk/frontdesk/pkg/pagination"
)

// Filter narrows bill listings. Zero values match everything.
type Filter struct {
	PatientID uuid.UUID
	Status    Status
}

// Repository defines the persistence interface for bills. Reads attach the
// billed patient.
type Repository interface {
	Create(ctx context.Context, b *Bill) error
	GetByID(ctx context.Context, id uuid.UUID) (*Bill, error)
	Update(ctx context.Context, b *Bill) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f Filter, params pagination.Params) ([]*Bill, int, error)
	// All returns every matching bill, newest first, for export.
	All(ctx context.Context, f Filter) ([]*Bill, error)
	Summarize(ctx context.Context, f Filter) (*Summary, error)
}
