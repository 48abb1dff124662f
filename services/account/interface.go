package account

import (
	"context"

	"bookfair/database/repository"
	"bookfair/models"
	"bookfair/utils"

	"go.uber.org/zap"
)

// AccountService manages vendor and staff accounts and vendor genres.
type AccountService interface {
	RegisterVendor(ctx context.Context, req models.VendorRegistration) (*models.Vendor, *models.AuthResult, error)
	AuthenticateVendor(ctx context.Context, email, password string) (*models.Vendor, *models.AuthResult, error)
	GetVendor(ctx context.Context, vendorID string) (*models.Vendor, error)
	ListVendors(ctx context.Context) ([]models.Vendor, error)
	UpdateProfile(ctx context.Context, vendorID string, update models.VendorProfileUpdate) (*models.Vendor, error)
	ChangePassword(ctx context.Context, vendorID, currentPassword, newPassword string) error

	ListGenres(ctx context.Context) ([]models.Genre, error)
	GetGenre(ctx context.Context, genreID string) (*models.Genre, error)
	CreateGenre(ctx context.Context, genre models.Genre) (*models.Genre, error)
	VendorGenres(ctx context.Context, vendorID string) ([]models.Genre, error)
	SetGenres(ctx context.Context, vendorID string, genreIDs []string) ([]models.Genre, error)
	AddGenre(ctx context.Context, vendorID, genreID string) ([]models.Genre, error)
	RemoveGenre(ctx context.Context, vendorID, genreID string) ([]models.Genre, error)

	RegisterStaff(ctx context.Context, req models.StaffRegistration, registrationKey string) (*models.Staff, *models.AuthResult, error)
	AuthenticateStaff(ctx context.Context, email, password string) (*models.Staff, *models.AuthResult, error)
	GetStaff(ctx context.Context, staffID string) (*models.Staff, error)
}

// DefaultAccountService implements AccountService.
type DefaultAccountService struct {
	Vendors repository.VendorRepository
	Genres  repository.GenreRepository
	Staff   repository.StaffRepository
	Tokens  *utils.TokenManager
	Logger  *zap.Logger

	// StaffRegistrationKey must be presented to create staff accounts. Empty
	// disables staff self-registration.
	StaffRegistrationKey string
}

func NewDefaultAccountService(repos *repository.Repositories, tokens *utils.TokenManager, staffKey string, logger *zap.Logger) *DefaultAccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultAccountService{
		Vendors:              repos.Vendors,
		Genres:               repos.Genres,
		Staff:                repos.Staff,
		Tokens:               tokens,
		Logger:               logger,
		StaffRegistrationKey: staffKey,
	}
}

const minPasswordLength = 6
