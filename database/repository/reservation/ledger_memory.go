package reservationRepo

import (
	"context"
	"sync"
	"time"

	"bookfair/models"

	"github.com/google/uuid"
)

// MemoryLedger implements Ledger in process memory. All state lives behind a
// single RWMutex so readers only ever observe committed transitions.
type MemoryLedger struct {
	mu            sync.RWMutex
	reservations  map[string]models.Reservation
	order         []string
	activeByStall map[string]string

	events   []models.ReservationEvent
	eventIdx map[string]int
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		reservations:  make(map[string]models.Reservation),
		activeByStall: make(map[string]string),
		eventIdx:      make(map[string]int),
	}
}

func (l *MemoryLedger) Create(_ context.Context, r *models.Reservation) error {
	if r.Status != models.StatusPending {
		return models.NewError(models.CodeInvalidTransition, "reservations start pending, got %s", r.Status)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.reservations[r.ID]; exists {
		return models.NewError(models.CodeConflict, "reservation %s already exists", r.ID)
	}
	if holder, taken := l.activeByStall[r.StallID]; taken {
		return models.NewError(models.CodeStallUnavailable, "stall %s is held by reservation %s", r.StallID, holder)
	}
	l.reservations[r.ID] = r.Clone()
	l.order = append(l.order, r.ID)
	l.activeByStall[r.StallID] = r.ID
	return nil
}

func (l *MemoryLedger) GetByID(_ context.Context, id string) (*models.Reservation, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	r, ok := l.reservations[id]
	if !ok {
		return nil, models.NewError(models.CodeNotFound, "reservation %s not found", id)
	}
	out := r.Clone()
	return &out, nil
}

func (l *MemoryLedger) ListByVendor(_ context.Context, vendorID string) ([]models.Reservation, error) {
	return l.list(func(r models.Reservation) bool { return r.VendorID == vendorID }), nil
}

func (l *MemoryLedger) ListByStatus(_ context.Context, status models.ReservationStatus) ([]models.Reservation, error) {
	return l.list(func(r models.Reservation) bool { return r.Status == status }), nil
}

func (l *MemoryLedger) ListAll(context.Context) ([]models.Reservation, error) {
	return l.list(func(models.Reservation) bool { return true }), nil
}

func (l *MemoryLedger) list(keep func(models.Reservation) bool) []models.Reservation {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := []models.Reservation{}
	for _, id := range l.order {
		if r := l.reservations[id]; keep(r) {
			out = append(out, r.Clone())
		}
	}
	return out
}

func (l *MemoryLedger) ActiveByStall(_ context.Context, stallID string) (*models.Reservation, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	id, ok := l.activeByStall[stallID]
	if !ok {
		return nil, nil
	}
	out := l.reservations[id].Clone()
	return &out, nil
}

func (l *MemoryLedger) ActiveIndex(context.Context) (map[string]models.ReservationStatus, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	index := make(map[string]models.ReservationStatus, len(l.activeByStall))
	for stallID, id := range l.activeByStall {
		index[stallID] = l.reservations[id].Status
	}
	return index, nil
}

func (l *MemoryLedger) CountByVendor(_ context.Context, vendorID string, status models.ReservationStatus) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := 0
	for _, r := range l.reservations {
		if r.VendorID == vendorID && r.Status == status {
			n++
		}
	}
	return n, nil
}

func (l *MemoryLedger) Transition(_ context.Context, id string, t models.Transition) (*models.Reservation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	current, ok := l.reservations[id]
	if !ok {
		return nil, models.NewError(models.CodeNotFound, "reservation %s not found", id)
	}
	next, err := t.Apply(current)
	if err != nil {
		return nil, err
	}
	if next.Status.Active() && l.activeByStall[next.StallID] != id {
		return nil, models.NewError(models.CodeConflict, "stall %s is held by another reservation", next.StallID)
	}

	// Nothing below can fail, so the record, index and outbox change together.
	l.reservations[id] = next
	if !next.Status.Active() && l.activeByStall[next.StallID] == id {
		delete(l.activeByStall, next.StallID)
	}
	if t.Event != nil {
		l.appendEventLocked(*t.Event, next, t.At)
	}

	out := next.Clone()
	return &out, nil
}

func (l *MemoryLedger) appendEventLocked(ev models.ReservationEvent, r models.Reservation, at time.Time) {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	ev.ReservationID = r.ID
	ev.VendorID = r.VendorID
	ev.StallID = r.StallID
	ev.OccurredAt = at
	ev.Delivered = false
	l.eventIdx[ev.ID] = len(l.events)
	l.events = append(l.events, ev)
}

func (l *MemoryLedger) RevokeCredential(_ context.Context, id string, at time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, ok := l.reservations[id]
	if !ok {
		return models.NewError(models.CodeNotFound, "reservation %s not found", id)
	}
	if r.CredentialToken == "" {
		return models.NewError(models.CodeInvalidCredential, "reservation %s has no credential", id)
	}
	r.CredentialRevoked = true
	r.UpdatedAt = at
	l.reservations[id] = r
	return nil
}

func (l *MemoryLedger) PendingEvents(_ context.Context, limit int) ([]models.ReservationEvent, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := []models.ReservationEvent{}
	for _, ev := range l.events {
		if limit > 0 && len(out) >= limit {
			break
		}
		if !ev.Delivered {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (l *MemoryLedger) EventsForReservation(_ context.Context, reservationID string) ([]models.ReservationEvent, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := []models.ReservationEvent{}
	for _, ev := range l.events {
		if ev.ReservationID == reservationID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (l *MemoryLedger) MarkDelivered(_ context.Context, eventID string, at time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.eventIdx[eventID]
	if !ok {
		return models.NewError(models.CodeNotFound, "event %s not found", eventID)
	}
	l.events[i].Delivered = true
	l.events[i].DeliveredAt = &at
	l.events[i].Attempts++
	l.events[i].LastError = ""
	return nil
}

func (l *MemoryLedger) RecordFailure(_ context.Context, eventID string, reason string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.eventIdx[eventID]
	if !ok {
		return models.NewError(models.CodeNotFound, "event %s not found", eventID)
	}
	l.events[i].Attempts++
	l.events[i].LastError = reason
	return nil
}
