package allocation

import (
	"context"
	"strings"
	"time"

	"bookfair/database/repository"
	"bookfair/models"
	"bookfair/services/lock"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultMaxConfirmed is the per-vendor cap on confirmed reservations.
const DefaultMaxConfirmed = 3

const defaultRejectReason = "No reason provided"

// CredentialIssuer mints the entry credential stored on confirmation.
type CredentialIssuer interface {
	Issue(r models.Reservation) (string, error)
}

// Options tunes the engine.
type Options struct {
	MaxConfirmedPerVendor int
	Clock                 func() time.Time
}

// Engine executes reservation commands. Every mutation runs under the stall
// lock, and under the vendor lock when the vendor's confirmed count can
// change, so check-then-write pairs are indivisible.
type Engine struct {
	ledger  repository.Ledger
	stalls  repository.StallRepository
	vendors repository.VendorRepository
	issuer  CredentialIssuer
	locker  lock.Locker
	logger  *zap.Logger

	maxConfirmed int
	now          func() time.Time
}

func NewEngine(
	ledger repository.Ledger,
	stalls repository.StallRepository,
	vendors repository.VendorRepository,
	issuer CredentialIssuer,
	locker lock.Locker,
	logger *zap.Logger,
	opts Options,
) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxConfirmedPerVendor <= 0 {
		opts.MaxConfirmedPerVendor = DefaultMaxConfirmed
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Engine{
		ledger:       ledger,
		stalls:       stalls,
		vendors:      vendors,
		issuer:       issuer,
		locker:       locker,
		logger:       logger,
		maxConfirmed: opts.MaxConfirmedPerVendor,
		now:          opts.Clock,
	}
}

// Request creates a pending reservation for vendorID on stallID.
func (e *Engine) Request(ctx context.Context, actor models.Actor, vendorID, stallID, note string) (*models.Reservation, error) {
	if vendorID == "" && actor.Role == models.RoleVendor {
		vendorID = actor.ID
	}
	if !actor.IsStaff() && !actor.Owns(vendorID) {
		return nil, models.NewError(models.CodeForbidden, "vendors may only request stalls for themselves")
	}
	vendor, err := e.vendors.GetByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if !vendor.IsActive {
		return nil, models.NewError(models.CodeForbidden, "vendor %s is not active", vendorID)
	}
	if _, err := e.stalls.GetByID(ctx, stallID); err != nil {
		return nil, err
	}

	release, err := e.locker.Acquire(ctx, lock.StallKey(stallID))
	if err != nil {
		return nil, err
	}
	defer release()

	holder, err := e.ledger.ActiveByStall(ctx, stallID)
	if err != nil {
		return nil, err
	}
	if holder != nil {
		return nil, models.NewError(models.CodeStallUnavailable, "stall %s is already reserved", stallID)
	}

	now := e.now()
	r := &models.Reservation{
		ID:        uuid.New().String(),
		VendorID:  vendorID,
		StallID:   stallID,
		Status:    models.StatusPending,
		Note:      strings.TrimSpace(note),
		CreatedAt: now,
		UpdatedAt: now,
		History: []models.StatusChange{{
			To:    models.StatusPending,
			Actor: actor,
			At:    now,
		}},
	}
	if err := e.ledger.Create(ctx, r); err != nil {
		return nil, err
	}
	e.logger.Info("Reservation requested",
		zap.String("reservationID", r.ID),
		zap.String("vendorID", vendorID),
		zap.String("stallID", stallID))
	return r, nil
}

// Approve confirms a pending reservation and issues its credential.
func (e *Engine) Approve(ctx context.Context, actor models.Actor, reservationID string) (*models.Reservation, error) {
	if !actor.IsStaff() {
		return nil, models.NewError(models.CodeForbidden, "only staff may approve reservations")
	}
	r, release, err := e.lockReservation(ctx, reservationID, true)
	if err != nil {
		return nil, err
	}
	defer release()

	if r.Status != models.StatusPending {
		return nil, models.NewError(models.CodeInvalidTransition, "reservation %s is %s, only pending reservations can be approved", r.ID, r.Status)
	}
	holder, err := e.ledger.ActiveByStall(ctx, r.StallID)
	if err != nil {
		return nil, err
	}
	if holder != nil && holder.ID != r.ID {
		return nil, models.NewError(models.CodeConflict, "stall %s is held by reservation %s", r.StallID, holder.ID)
	}
	confirmed, err := e.ledger.CountByVendor(ctx, r.VendorID, models.StatusConfirmed)
	if err != nil {
		return nil, err
	}
	if confirmed >= e.maxConfirmed {
		return nil, models.NewError(models.CodeCapacityExceeded, "vendor %s already holds %d confirmed reservations", r.VendorID, confirmed)
	}

	token, err := e.issuer.Issue(*r)
	if err != nil {
		return nil, err
	}
	out, err := e.commit(ctx, r, models.Transition{
		From:            models.StatusPending,
		To:              models.StatusConfirmed,
		Actor:           actor,
		CredentialToken: token,
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info("Reservation approved", zap.String("reservationID", out.ID), zap.String("vendorID", out.VendorID))
	return out, nil
}

// Reject moves a pending reservation to rejected and frees its stall.
func (e *Engine) Reject(ctx context.Context, actor models.Actor, reservationID, reason string) (*models.Reservation, error) {
	if !actor.IsStaff() {
		return nil, models.NewError(models.CodeForbidden, "only staff may reject reservations")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultRejectReason
	}
	r, release, err := e.lockReservation(ctx, reservationID, false)
	if err != nil {
		return nil, err
	}
	defer release()

	if r.Status != models.StatusPending {
		return nil, models.NewError(models.CodeInvalidTransition, "reservation %s is %s, only pending reservations can be rejected", r.ID, r.Status)
	}
	out, err := e.commit(ctx, r, models.Transition{
		From:   models.StatusPending,
		To:     models.StatusRejected,
		Actor:  actor,
		Reason: reason,
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info("Reservation rejected", zap.String("reservationID", out.ID), zap.String("reason", reason))
	return out, nil
}

// Cancel withdraws a pending or confirmed reservation. A confirmed
// reservation's credential is revoked but kept.
func (e *Engine) Cancel(ctx context.Context, actor models.Actor, reservationID string) (*models.Reservation, error) {
	r, release, err := e.lockReservation(ctx, reservationID, true)
	if err != nil {
		return nil, err
	}
	defer release()

	if !actor.IsStaff() && !actor.Owns(r.VendorID) {
		return nil, models.NewError(models.CodeForbidden, "reservation %s belongs to another vendor", r.ID)
	}
	if !r.Status.Active() {
		return nil, models.NewError(models.CodeInvalidTransition, "reservation %s is already %s", r.ID, r.Status)
	}
	out, err := e.commit(ctx, r, models.Transition{
		From:             r.Status,
		To:               models.StatusCancelled,
		Actor:            actor,
		RevokeCredential: r.Status == models.StatusConfirmed,
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info("Reservation cancelled",
		zap.String("reservationID", out.ID),
		zap.String("previousStatus", string(r.Status)),
		zap.String("actorRole", string(actor.Role)))
	return out, nil
}

// Get returns a reservation visible to actor.
func (e *Engine) Get(ctx context.Context, actor models.Actor, reservationID string) (*models.Reservation, error) {
	r, err := e.ledger.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && !actor.Owns(r.VendorID) {
		return nil, models.NewError(models.CodeForbidden, "reservation %s belongs to another vendor", r.ID)
	}
	return r, nil
}

// ListForVendor returns a vendor's reservations oldest first.
func (e *Engine) ListForVendor(ctx context.Context, actor models.Actor, vendorID string) ([]models.Reservation, error) {
	if !actor.IsStaff() && !actor.Owns(vendorID) {
		return nil, models.NewError(models.CodeForbidden, "cannot list another vendor's reservations")
	}
	return e.ledger.ListByVendor(ctx, vendorID)
}

// ListByStatus returns every reservation in status. Staff only.
func (e *Engine) ListByStatus(ctx context.Context, actor models.Actor, status models.ReservationStatus) ([]models.Reservation, error) {
	if !actor.IsStaff() {
		return nil, models.NewError(models.CodeForbidden, "only staff may list all reservations")
	}
	if !status.Valid() {
		return nil, models.NewError(models.CodeValidation, "unknown reservation status %q", status)
	}
	return e.ledger.ListByStatus(ctx, status)
}

// ListAll returns every reservation. Staff only.
func (e *Engine) ListAll(ctx context.Context, actor models.Actor) ([]models.Reservation, error) {
	if !actor.IsStaff() {
		return nil, models.NewError(models.CodeForbidden, "only staff may list all reservations")
	}
	return e.ledger.ListAll(ctx)
}

// lockReservation loads the reservation, takes its stall lock (and vendor
// lock when withVendor) and reloads it so the caller sees the locked state.
func (e *Engine) lockReservation(ctx context.Context, id string, withVendor bool) (*models.Reservation, func(), error) {
	r, err := e.ledger.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	keys := []string{lock.StallKey(r.StallID)}
	if withVendor {
		keys = append(keys, lock.VendorKey(r.VendorID))
	}
	release, err := e.locker.Acquire(ctx, keys...)
	if err != nil {
		return nil, nil, err
	}
	r, err = e.ledger.GetByID(ctx, id)
	if err != nil {
		release()
		return nil, nil, err
	}
	return r, release, nil
}

// commit stamps t, attaches its outbox event and hands it to the ledger.
func (e *Engine) commit(ctx context.Context, r *models.Reservation, t models.Transition) (*models.Reservation, error) {
	t.At = e.now()
	if eventType, ok := models.EventTypeFor(t.To); ok {
		t.Event = e.buildEvent(ctx, r, eventType, t)
	}
	out, err := e.ledger.Transition(ctx, r.ID, t)
	if err != nil {
		e.logger.Warn("Reservation transition failed",
			zap.String("reservationID", r.ID),
			zap.String("from", string(t.From)),
			zap.String("to", string(t.To)),
			zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (e *Engine) buildEvent(ctx context.Context, r *models.Reservation, eventType models.EventType, t models.Transition) *models.ReservationEvent {
	ev := &models.ReservationEvent{
		ID:              uuid.New().String(),
		Type:            eventType,
		ReservationID:   r.ID,
		VendorID:        r.VendorID,
		StallID:         r.StallID,
		Reason:          t.Reason,
		CredentialToken: t.CredentialToken,
		OccurredAt:      t.At,
	}
	// Contact details are best effort; the IDs are always present.
	if vendor, err := e.vendors.GetByID(ctx, r.VendorID); err == nil {
		ev.VendorEmail = vendor.Email
		ev.VendorName = vendor.BusinessName
	} else {
		e.logger.Warn("Vendor lookup for event failed", zap.String("vendorID", r.VendorID), zap.Error(err))
	}
	if stall, err := e.stalls.GetByID(ctx, r.StallID); err == nil {
		ev.StallName = stall.Name
	}
	return ev
}
