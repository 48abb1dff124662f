package staffRepo

import (
	"context"

	"bookfair/models"
)

// StaffRepository defines methods for organiser account data access.
type StaffRepository interface {
	GetByID(ctx context.Context, id string) (*models.Staff, error)
	GetByEmail(ctx context.Context, email string) (*models.Staff, error)
	Create(ctx context.Context, staff *models.Staff) error
}
