package patient

import (
	"context"

	"github.com/google/uuid"

	"github.com/frontdesk/frontdesk/pkg/pagination"
)

// Repository defines the persistence interface for patients. Get and List
// return patients with their reports and bills attached.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params pagination.Params) ([]*Patient, int, error)
	// All returns every patient without relations, newest first.
	All(ctx context.Context) ([]*Patient, error)
}
