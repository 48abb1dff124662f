package reservationRepo

import (
	"context"
	"time"

	"bookfair/models"
)

// Ledger is the single source of truth for who holds what. Transition is the
// only way to change a reservation's status; it enforces the lifecycle table
// but not cross-entity invariants, which belong to the allocation engine.
type Ledger interface {
	// Create inserts a new pending reservation. It refuses a second active
	// reservation on the same stall.
	Create(ctx context.Context, r *models.Reservation) error
	// GetByID retrieves a reservation by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	// ListByVendor returns a vendor's reservations oldest first.
	ListByVendor(ctx context.Context, vendorID string) ([]models.Reservation, error)
	// ListByStatus returns the reservations currently in status oldest first.
	ListByStatus(ctx context.Context, status models.ReservationStatus) ([]models.Reservation, error)
	// ListAll returns every reservation oldest first.
	ListAll(ctx context.Context) ([]models.Reservation, error)
	// ActiveByStall returns the pending or confirmed reservation on a stall,
	// or nil when the stall is free.
	ActiveByStall(ctx context.Context, stallID string) (*models.Reservation, error)
	// ActiveIndex returns a consistent snapshot of stall ID to active status.
	ActiveIndex(ctx context.Context) (map[string]models.ReservationStatus, error)
	// CountByVendor counts a vendor's reservations in status.
	CountByVendor(ctx context.Context, vendorID string, status models.ReservationStatus) (int, error)
	// Transition atomically applies t to reservation id together with its
	// credential change and outbox event.
	Transition(ctx context.Context, id string, t models.Transition) (*models.Reservation, error)
	// RevokeCredential marks the reservation's credential unverifiable.
	RevokeCredential(ctx context.Context, id string, at time.Time) error

	EventOutbox
}

// EventOutbox is the delivery bookkeeping over committed transition events.
type EventOutbox interface {
	// PendingEvents returns up to limit undelivered events oldest first.
	PendingEvents(ctx context.Context, limit int) ([]models.ReservationEvent, error)
	// EventsForReservation returns every event emitted for a reservation.
	EventsForReservation(ctx context.Context, reservationID string) ([]models.ReservationEvent, error)
	// MarkDelivered records a successful hand-off of an event.
	MarkDelivered(ctx context.Context, eventID string, at time.Time) error
	// RecordFailure counts a failed delivery attempt.
	RecordFailure(ctx context.Context, eventID string, reason string) error
}
