package reservationRepo

import (
	"context"
	"testing"
	"time"

	"bookfair/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func mockLedger(mt *mtest.T) (*MongoLedger, string) {
	ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
	return &MongoLedger{reservations: mt.Coll, events: mt.Coll}, ns
}

func duplicateKey() bson.D {
	return mtest.CreateWriteErrorsResponse(mtest.WriteError{
		Index:   0,
		Code:    11000,
		Message: "E11000 duplicate key error index: stall_active_unique",
	})
}

func TestMongoLedger_Writes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	pending := models.Reservation{ID: "r1", VendorID: "v1", StallID: "A1", Status: models.StatusPending}

	mt.Run("create maps the active stall index to stall unavailable", func(mt *mtest.T) {
		l, _ := mockLedger(mt)
		mt.AddMockResponses(duplicateKey())

		r := pending
		err := l.Create(ctx, &r)
		assert.ErrorIs(mt, err, models.ErrStallUnavailable)
	})

	mt.Run("create refuses non pending records without a round trip", func(mt *mtest.T) {
		l, _ := mockLedger(mt)
		r := pending
		r.Status = models.StatusConfirmed
		assert.ErrorIs(mt, l.Create(ctx, &r), models.ErrInvalidTransition)
	})

	mt.Run("guarded replace loses to a concurrent writer", func(mt *mtest.T) {
		l, _ := mockLedger(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		next := pending
		next.Status = models.StatusConfirmed
		err := l.replaceGuarded(ctx, models.StatusPending, next)
		assert.ErrorIs(mt, err, models.ErrConflict)
	})

	mt.Run("guarded replace maps a held stall to conflict", func(mt *mtest.T) {
		l, _ := mockLedger(mt)
		mt.AddMockResponses(duplicateKey())

		next := pending
		next.Status = models.StatusConfirmed
		err := l.replaceGuarded(ctx, models.StatusPending, next)
		assert.ErrorIs(mt, err, models.ErrConflict)
	})

	mt.Run("guarded replace succeeds when the status still matches", func(mt *mtest.T) {
		l, _ := mockLedger(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		next := pending
		next.Status = models.StatusConfirmed
		require.NoError(mt, l.replaceGuarded(ctx, models.StatusPending, next))
	})

	mt.Run("revoke on an unknown reservation is not found", func(mt *mtest.T) {
		l, ns := mockLedger(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
		)
		assert.ErrorIs(mt, l.RevokeCredential(ctx, "missing", time.Now()), models.ErrNotFound)
	})

	mt.Run("revoke without a credential is invalid", func(mt *mtest.T) {
		l, ns := mockLedger(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
				{Key: "id", Value: "r1"}, {Key: "stall_id", Value: "A1"}, {Key: "status", Value: "pending"},
			}),
		)
		assert.ErrorIs(mt, l.RevokeCredential(ctx, "r1", time.Now()), models.ErrInvalidCredential)
	})

	mt.Run("marking an unknown event delivered is not found", func(mt *mtest.T) {
		l, _ := mockLedger(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))
		assert.ErrorIs(mt, l.MarkDelivered(ctx, "ev-1", time.Now()), models.ErrNotFound)
	})
}

func TestMongoLedger_Reads(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("get maps no documents to not found", func(mt *mtest.T) {
		l, ns := mockLedger(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := l.GetByID(ctx, "missing")
		assert.ErrorIs(mt, err, models.ErrNotFound)
	})

	mt.Run("free stall has no active reservation", func(mt *mtest.T) {
		l, ns := mockLedger(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		r, err := l.ActiveByStall(ctx, "A1")
		require.NoError(mt, err)
		assert.Nil(mt, r)
	})

	mt.Run("active index maps stalls to status", func(mt *mtest.T) {
		l, ns := mockLedger(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "stall_id", Value: "A1"}, {Key: "status", Value: "pending"}},
			bson.D{{Key: "stall_id", Value: "B1"}, {Key: "status", Value: "confirmed"}},
		))

		index, err := l.ActiveIndex(ctx)
		require.NoError(mt, err)
		assert.Equal(mt, map[string]models.ReservationStatus{
			"A1": models.StatusPending,
			"B1": models.StatusConfirmed,
		}, index)
	})

	mt.Run("count by vendor", func(mt *mtest.T) {
		l, ns := mockLedger(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(2)}}))

		n, err := l.CountByVendor(ctx, "v1", models.StatusConfirmed)
		require.NoError(mt, err)
		assert.Equal(mt, 2, n)
	})
}
