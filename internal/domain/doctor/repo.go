package doctor

import (
	"context"

	"github.com/google/uuid"

	"github.com/frontdesk/frontdesk/pkg/pagination"
)

// Repository defines the persistence interface for doctors. Get and List
// attach the doctor's report templates.
type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params pagination.Params) ([]*Doctor, int, error)
}
