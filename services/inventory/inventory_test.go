package inventory

import (
	"context"
	"testing"
	"time"

	reservationRepo "bookfair/database/repository/reservation"
	stallRepo "bookfair/database/repository/stall"
	"bookfair/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixture(t *testing.T) (*Service, *reservationRepo.MemoryLedger) {
	t.Helper()
	ledger := reservationRepo.NewMemoryLedger()
	svc := NewService(stallRepo.NewMemoryStallRepo(), ledger, nil)
	ctx := context.Background()
	for _, st := range []models.Stall{
		{ID: "A1", Name: "A1", Size: models.SizeSmall, Price: 100},
		{ID: "B1", Name: "B1", Size: models.SizeMedium, Price: 200},
		{ID: "C1", Name: "C1", Size: models.SizeLarge, Price: 300},
	} {
		_, err := svc.Create(ctx, st)
		require.NoError(t, err)
	}
	return svc, ledger
}

func TestInventory_IsReservedFollowsLedger(t *testing.T) {
	ctx := context.Background()
	svc, ledger := newFixture(t)

	view, err := svc.Get(ctx, "A1")
	require.NoError(t, err)
	assert.False(t, view.IsReserved)

	now := time.Now()
	require.NoError(t, ledger.Create(ctx, &models.Reservation{ID: "r1", VendorID: "v1", StallID: "A1", Status: models.StatusPending, CreatedAt: now}))

	view, err = svc.Get(ctx, "A1")
	require.NoError(t, err)
	assert.True(t, view.IsReserved)
	assert.Equal(t, models.StatusPending, view.ReservationStatus)

	_, err = ledger.Transition(ctx, "r1", models.Transition{From: models.StatusPending, To: models.StatusRejected, Actor: models.StaffActor("s1"), At: now})
	require.NoError(t, err)

	view, err = svc.Get(ctx, "A1")
	require.NoError(t, err)
	assert.False(t, view.IsReserved)
}

func TestInventory_ListBySize(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture(t)

	views, err := svc.ListBySize(ctx, "Medium")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "B1", views[0].ID)

	_, err = svc.ListBySize(ctx, "huge")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestInventory_GetUnknown(t *testing.T) {
	svc, _ := newFixture(t)
	_, err := svc.Get(context.Background(), "Z9")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestInventory_CreateValidates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture(t)

	_, err := svc.Create(ctx, models.Stall{Name: "D1", Size: models.SizeSmall, Price: 0})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.Create(ctx, models.Stall{Name: "A1", Size: models.SizeSmall, Price: 50})
	assert.ErrorIs(t, err, models.ErrConflict)

	created, err := svc.Create(ctx, models.Stall{Name: " D1 ", Size: models.SizeSmall, Price: 50})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "D1", created.Name)
}

func TestInventory_UpdateKeepsOccupancy(t *testing.T) {
	ctx := context.Background()
	svc, ledger := newFixture(t)
	require.NoError(t, ledger.Create(ctx, &models.Reservation{ID: "r1", VendorID: "v1", StallID: "C1", Status: models.StatusPending}))

	price := 350.0
	view, err := svc.Update(ctx, "C1", models.StallUpdate{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 350.0, view.Price)
	assert.True(t, view.IsReserved)

	bad := -1.0
	_, err = svc.Update(ctx, "C1", models.StallUpdate{Price: &bad})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestInventory_Stats(t *testing.T) {
	ctx := context.Background()
	svc, ledger := newFixture(t)
	require.NoError(t, ledger.Create(ctx, &models.Reservation{ID: "r1", VendorID: "v1", StallID: "B1", Status: models.StatusPending}))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StallStats{Total: 3, Reserved: 1, Available: 2}, stats)
}
