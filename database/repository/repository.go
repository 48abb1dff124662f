package repository

import (
	"context"
	"fmt"

	reservationRepo "bookfair/database/repository/reservation"
	staffRepo "bookfair/database/repository/staff"
	stallRepo "bookfair/database/repository/stall"
	vendorRepo "bookfair/database/repository/vendor"

	"go.mongodb.org/mongo-driver/mongo"
)

// Re-export the repository interfaces so callers depend on one package.
type (
	StallRepository  = stallRepo.StallRepository
	Ledger           = reservationRepo.Ledger
	EventOutbox      = reservationRepo.EventOutbox
	VendorRepository = vendorRepo.VendorRepository
	GenreRepository  = vendorRepo.GenreRepository
	StaffRepository  = staffRepo.StaffRepository
)

// Repositories bundles every store the services need.
type Repositories struct {
	Stalls  StallRepository
	Ledger  Ledger
	Vendors VendorRepository
	Genres  GenreRepository
	Staff   StaffRepository
}

// NewMemoryRepositories returns process-local stores.
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Stalls:  stallRepo.NewMemoryStallRepo(),
		Ledger:  reservationRepo.NewMemoryLedger(),
		Vendors: vendorRepo.NewMemoryVendorRepo(),
		Genres:  vendorRepo.NewMemoryGenreRepo(),
		Staff:   staffRepo.NewMemoryStaffRepo(),
	}
}

// NewMongoRepositories builds the MongoDB stores and ensures their indexes.
func NewMongoRepositories(ctx context.Context, db *mongo.Database) (*Repositories, error) {
	stalls, err := stallRepo.NewMongoStallRepo(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("stall repository: %w", err)
	}
	ledger, err := reservationRepo.NewMongoLedger(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("reservation ledger: %w", err)
	}
	vendors, err := vendorRepo.NewMongoVendorRepo(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("vendor repository: %w", err)
	}
	genres, err := vendorRepo.NewMongoGenreRepo(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("genre repository: %w", err)
	}
	staff, err := staffRepo.NewMongoStaffRepo(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("staff repository: %w", err)
	}
	return &Repositories{
		Stalls:  stalls,
		Ledger:  ledger,
		Vendors: vendors,
		Genres:  genres,
		Staff:   staff,
	}, nil
}

// Open selects the storage driver by name.
func Open(ctx context.Context, driver string, client *mongo.Client, dbName string) (*Repositories, error) {
	switch driver {
	case "", "memory":
		return NewMemoryRepositories(), nil
	case "mongo":
		if client == nil {
			return nil, fmt.Errorf("mongo storage driver requires a connected client")
		}
		return NewMongoRepositories(ctx, client.Database(dbName))
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
