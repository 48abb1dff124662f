package stallRepo

import (
	"context"

	"bookfair/models"
)

// StallRepository defines methods for stall catalog access. It holds no
// reservation state.
type StallRepository interface {
	// GetByID retrieves a stall by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Stall, error)
	// GetByName retrieves a stall by its display name.
	GetByName(ctx context.Context, name string) (*models.Stall, error)
	// GetAll retrieves every stall ordered by name.
	GetAll(ctx context.Context) ([]models.Stall, error)
	// GetBySize retrieves the stalls of one size category ordered by name.
	GetBySize(ctx context.Context, size models.StallSize) ([]models.Stall, error)
	// Create inserts a new stall; names are unique.
	Create(ctx context.Context, stall *models.Stall) error
	// Update replaces the catalog attributes of an existing stall.
	Update(ctx context.Context, stall *models.Stall) error
	// Count returns the number of stalls.
	Count(ctx context.Context) (int, error)
}
