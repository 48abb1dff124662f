package allocation

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"bookfair/database/repository"
	reservationRepo "bookfair/database/repository/reservation"
	"bookfair/models"
	"bookfair/services/credential"
	"bookfair/services/lock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var staff = models.StaffActor("staff-1")

type fixture struct {
	engine *Engine
	repos  *repository.Repositories
	issuer *credential.Issuer
	locker *lock.KeyedMutex
}

func newFixture(t *testing.T, stalls int, vendors ...string) *fixture {
	t.Helper()
	ctx := context.Background()
	repos := repository.NewMemoryRepositories()
	for i := 0; i < stalls; i++ {
		name := fmt.Sprintf("S%d", i+1)
		require.NoError(t, repos.Stalls.Create(ctx, &models.Stall{ID: name, Name: name, Size: models.SizeSmall, Price: 5000}))
	}
	for _, v := range vendors {
		require.NoError(t, repos.Vendors.Create(ctx, &models.Vendor{
			ID: v, Username: v, Email: v + "@example.com", BusinessName: "Books " + v, IsActive: true,
		}))
	}
	issuer := credential.NewIssuer("test-secret", repos.Ledger)
	locker := lock.NewKeyedMutex(time.Second)
	engine := NewEngine(repos.Ledger, repos.Stalls, repos.Vendors, issuer, locker, nil, Options{})
	return &fixture{engine: engine, repos: repos, issuer: issuer, locker: locker}
}

func (f *fixture) request(t *testing.T, vendorID, stallID string) *models.Reservation {
	t.Helper()
	r, err := f.engine.Request(context.Background(), models.VendorActor(vendorID), vendorID, stallID, "")
	require.NoError(t, err)
	return r
}

func (f *fixture) events(t *testing.T, reservationID string) []models.ReservationEvent {
	t.Helper()
	events, err := f.repos.Ledger.EventsForReservation(context.Background(), reservationID)
	require.NoError(t, err)
	return events
}

func TestEngine_RequestAndApprove(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1, "x")

	r, err := f.engine.Request(ctx, models.VendorActor("x"), "", "S1", " near the entrance ")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, r.Status)
	assert.Equal(t, "x", r.VendorID)
	assert.Equal(t, "near the entrance", r.Note)
	assert.Empty(t, r.CredentialToken)

	approved, err := f.engine.Approve(ctx, staff, r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, approved.Status)
	assert.NotEmpty(t, approved.CredentialToken)
	require.NotNil(t, approved.ConfirmedAt)

	verified, err := f.issuer.Verify(ctx, approved.CredentialToken)
	require.NoError(t, err)
	assert.Equal(t, r.ID, verified.ID)

	events := f.events(t, r.ID)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventReservationConfirmed, events[0].Type)
	assert.Equal(t, "x@example.com", events[0].VendorEmail)
	assert.Equal(t, "S1", events[0].StallName)
	assert.Equal(t, approved.CredentialToken, events[0].CredentialToken)
}

func TestEngine_RequestPreconditions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1, "x", "y")

	_, err := f.engine.Request(ctx, models.VendorActor("x"), "x", "missing", "")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = f.engine.Request(ctx, models.VendorActor("ghost"), "ghost", "S1", "")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = f.engine.Request(ctx, models.VendorActor("x"), "y", "S1", "")
	assert.ErrorIs(t, err, models.ErrForbidden)

	onBehalf, err := f.engine.Request(ctx, staff, "y", "S1", "")
	require.NoError(t, err)
	assert.Equal(t, "y", onBehalf.VendorID)

	_, err = f.engine.Request(ctx, models.VendorActor("x"), "x", "S1", "")
	assert.ErrorIs(t, err, models.ErrStallUnavailable)
}

func TestEngine_RequestRefusesInactiveVendor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1)
	require.NoError(t, f.repos.Vendors.Create(ctx, &models.Vendor{ID: "z", Username: "z", Email: "z@example.com"}))

	_, err := f.engine.Request(ctx, models.VendorActor("z"), "z", "S1", "")
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestEngine_CapacityExceededLeavesPending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 4, "x")

	for i := 1; i <= 3; i++ {
		r := f.request(t, "x", fmt.Sprintf("S%d", i))
		_, err := f.engine.Approve(ctx, staff, r.ID)
		require.NoError(t, err)
	}
	fourth := f.request(t, "x", "S4")

	_, err := f.engine.Approve(ctx, staff, fourth.ID)
	assert.ErrorIs(t, err, models.ErrCapacityExceeded)

	stored, err := f.repos.Ledger.GetByID(ctx, fourth.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Empty(t, stored.CredentialToken)
	assert.Empty(t, f.events(t, fourth.ID))
}

func TestEngine_ConcurrentApprovalsRespectCap(t *testing.T) {
	ctx := context.Background()
	const n = 6
	f := newFixture(t, n, "x")

	ids := make([]string, n)
	for i := range ids {
		ids[i] = f.request(t, "x", fmt.Sprintf("S%d", i+1)).ID
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.engine.Approve(ctx, staff, ids[i])
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, models.ErrorCode(err) == models.CodeCapacityExceeded || models.ErrorCode(err) == models.CodeConflict, err.Error())
	}
	assert.Equal(t, DefaultMaxConfirmed, succeeded)

	count, err := f.repos.Ledger.CountByVendor(ctx, "x", models.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxConfirmed, count)
}

func TestEngine_ConcurrentRequestsSingleWinner(t *testing.T) {
	ctx := context.Background()
	vendors := make([]string, 16)
	for i := range vendors {
		vendors[i] = fmt.Sprintf("v%d", i)
	}
	f := newFixture(t, 1, vendors...)

	var wg sync.WaitGroup
	errs := make([]error, len(vendors))
	for i, v := range vendors {
		wg.Add(1)
		go func(i int, v string) {
			defer wg.Done()
			_, errs[i] = f.engine.Request(ctx, models.VendorActor(v), v, "S1", "")
		}(i, v)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		assert.ErrorIs(t, err, models.ErrStallUnavailable)
	}
	assert.Equal(t, 1, winners)

	index, err := f.repos.Ledger.ActiveIndex(ctx)
	require.NoError(t, err)
	assert.Len(t, index, 1)
}

func TestEngine_RejectFreesStall(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1, "x", "y")
	r := f.request(t, "x", "S1")

	rejected, err := f.engine.Reject(ctx, staff, r.ID, "duplicate")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
	assert.Equal(t, "duplicate", rejected.RejectionReason)

	events := f.events(t, r.ID)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventReservationRejected, events[0].Type)
	assert.Equal(t, "duplicate", events[0].Reason)

	second := f.request(t, "y", "S1")
	assert.Equal(t, models.StatusPending, second.Status)
}

func TestEngine_RejectDefaultReason(t *testing.T) {
	f := newFixture(t, 1, "x")
	r := f.request(t, "x", "S1")

	rejected, err := f.engine.Reject(context.Background(), staff, r.ID, "  ")
	require.NoError(t, err)
	assert.Equal(t, "No reason provided", rejected.RejectionReason)
}

func TestEngine_CancelConfirmedRevokesCredential(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1, "x")
	r := f.request(t, "x", "S1")
	approved, err := f.engine.Approve(ctx, staff, r.ID)
	require.NoError(t, err)

	cancelled, err := f.engine.Cancel(ctx, models.VendorActor("x"), r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.True(t, cancelled.CredentialRevoked)
	assert.Equal(t, approved.CredentialToken, cancelled.CredentialToken)

	_, err = f.issuer.Verify(ctx, approved.CredentialToken)
	assert.ErrorIs(t, err, models.ErrInvalidCredential)

	cancelEvents := 0
	for _, ev := range f.events(t, r.ID) {
		if ev.Type == models.EventReservationCancelled {
			cancelEvents++
		}
	}
	assert.Equal(t, 1, cancelEvents)
}

func TestEngine_CancelPermissions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 2, "x", "y")
	r := f.request(t, "x", "S1")

	_, err := f.engine.Cancel(ctx, models.VendorActor("y"), r.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = f.engine.Cancel(ctx, staff, r.ID)
	require.NoError(t, err)

	_, err = f.engine.Cancel(ctx, staff, r.ID)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestEngine_InvalidTransitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1, "x")
	r := f.request(t, "x", "S1")
	_, err := f.engine.Approve(ctx, staff, r.ID)
	require.NoError(t, err)

	_, err = f.engine.Approve(ctx, staff, r.ID)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	_, err = f.engine.Reject(ctx, staff, r.ID, "late")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	_, err = f.engine.Approve(ctx, models.VendorActor("x"), r.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = f.engine.Approve(ctx, staff, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

// stolenStallLedger reports a different active holder for every stall.
type stolenStallLedger struct {
	*reservationRepo.MemoryLedger
}

func (l stolenStallLedger) ActiveByStall(_ context.Context, stallID string) (*models.Reservation, error) {
	return &models.Reservation{ID: "intruder", StallID: stallID, Status: models.StatusPending}, nil
}

func TestEngine_ApproveConflictWhenStallTaken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1, "x")
	r := f.request(t, "x", "S1")

	ledger := stolenStallLedger{f.repos.Ledger.(*reservationRepo.MemoryLedger)}
	engine := NewEngine(ledger, f.repos.Stalls, f.repos.Vendors, f.issuer, f.locker, nil, Options{})

	_, err := engine.Approve(ctx, staff, r.ID)
	assert.ErrorIs(t, err, models.ErrConflict)

	stored, err := f.repos.Ledger.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestEngine_LockTimeout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1, "x")
	engine := NewEngine(f.repos.Ledger, f.repos.Stalls, f.repos.Vendors, f.issuer, lock.NewKeyedMutex(20*time.Millisecond), nil, Options{})

	release, err := engine.locker.Acquire(ctx, lock.StallKey("S1"))
	require.NoError(t, err)
	defer release()

	_, err = engine.Request(ctx, models.VendorActor("x"), "x", "S1", "")
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestEngine_ReadVisibility(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 2, "x", "y")
	r := f.request(t, "x", "S1")
	f.request(t, "y", "S2")

	_, err := f.engine.Get(ctx, models.VendorActor("y"), r.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	own, err := f.engine.ListForVendor(ctx, models.VendorActor("x"), "x")
	require.NoError(t, err)
	assert.Len(t, own, 1)

	_, err = f.engine.ListForVendor(ctx, models.VendorActor("x"), "y")
	assert.ErrorIs(t, err, models.ErrForbidden)

	pending, err := f.engine.ListByStatus(ctx, staff, models.StatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	_, err = f.engine.ListByStatus(ctx, staff, models.ReservationStatus("bogus"))
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = f.engine.ListAll(ctx, models.VendorActor("x"))
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestEngine_ConfigurableCap(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 2, "x")
	engine := NewEngine(f.repos.Ledger, f.repos.Stalls, f.repos.Vendors, f.issuer, f.locker, nil, Options{MaxConfirmedPerVendor: 1})

	first := f.request(t, "x", "S1")
	second := f.request(t, "x", "S2")
	_, err := engine.Approve(ctx, staff, first.ID)
	require.NoError(t, err)
	_, err = engine.Approve(ctx, staff, second.ID)
	assert.ErrorIs(t, err, models.ErrCapacityExceeded)
}
