package reservationRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookfair/database"
	"bookfair/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var activeStatuses = bson.A{models.StatusPending, models.StatusConfirmed}

// MongoLedger implements Ledger using MongoDB. Transitions run in a
// multi-document transaction so the reservation and its event commit together.
type MongoLedger struct {
	reservations *mongo.Collection
	events       *mongo.Collection
}

// NewMongoLedger creates the ledger and ensures its indexes. MongoDB must run
// as a replica set for transactions.
func NewMongoLedger(ctx context.Context, db *mongo.Database) (*MongoLedger, error) {
	l := &MongoLedger{
		reservations: db.Collection("reservations"),
		events:       db.Collection("reservation_events"),
	}
	if err := l.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *MongoLedger) ensureIndexes(ctx context.Context) error {
	ctx, cancel := database.NewContext(ctx, 10*time.Second)
	defer cancel()

	reservationIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "vendor_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		// At most one active reservation per stall.
		{
			Keys: bson.D{{Key: "stall_id", Value: 1}},
			Options: options.Index().
				SetName("stall_active_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": bson.M{"$in": activeStatuses}}),
		},
	}
	if _, err := l.reservations.Indexes().CreateMany(ctx, reservationIndexes); err != nil {
		return fmt.Errorf("failed to create reservation indexes: %w", err)
	}

	eventIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "delivered", Value: 1}, {Key: "occurred_at", Value: 1}}},
		{Keys: bson.D{{Key: "reservation_id", Value: 1}}},
	}
	if _, err := l.events.Indexes().CreateMany(ctx, eventIndexes); err != nil {
		return fmt.Errorf("failed to create event indexes: %w", err)
	}
	return nil
}

func (l *MongoLedger) Create(ctx context.Context, r *models.Reservation) error {
	if r.Status != models.StatusPending {
		return models.NewError(models.CodeInvalidTransition, "reservations start pending, got %s", r.Status)
	}
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	if _, err := l.reservations.InsertOne(ctx, r); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.NewError(models.CodeStallUnavailable, "stall %s already has an active reservation", r.StallID)
		}
		return fmt.Errorf("insert reservation failed: %w", err)
	}
	return nil
}

func (l *MongoLedger) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()
	return l.findOne(ctx, bson.M{"id": id})
}

func (l *MongoLedger) findOne(ctx context.Context, filter bson.M) (*models.Reservation, error) {
	var r models.Reservation
	if err := l.reservations.FindOne(ctx, filter).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewError(models.CodeNotFound, "reservation not found")
		}
		return nil, fmt.Errorf("failed to fetch reservation: %w", err)
	}
	return &r, nil
}

func (l *MongoLedger) ListByVendor(ctx context.Context, vendorID string) ([]models.Reservation, error) {
	return l.find(ctx, bson.M{"vendor_id": vendorID})
}

func (l *MongoLedger) ListByStatus(ctx context.Context, status models.ReservationStatus) ([]models.Reservation, error) {
	return l.find(ctx, bson.M{"status": status})
}

func (l *MongoLedger) ListAll(ctx context.Context) ([]models.Reservation, error) {
	return l.find(ctx, bson.M{})
}

func (l *MongoLedger) find(ctx context.Context, filter bson.M) ([]models.Reservation, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	cursor, err := l.reservations.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	defer cursor.Close(ctx)

	out := []models.Reservation{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}
	return out, nil
}

func (l *MongoLedger) ActiveByStall(ctx context.Context, stallID string) (*models.Reservation, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	r, err := l.findOne(ctx, bson.M{"stall_id": stallID, "status": bson.M{"$in": activeStatuses}})
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	return r, err
}

func (l *MongoLedger) ActiveIndex(ctx context.Context) (map[string]models.ReservationStatus, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"stall_id": 1, "status": 1})
	cursor, err := l.reservations.Find(ctx, bson.M{"status": bson.M{"$in": activeStatuses}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query active reservations: %w", err)
	}
	defer cursor.Close(ctx)

	index := make(map[string]models.ReservationStatus)
	for cursor.Next(ctx) {
		var row struct {
			StallID string                   `bson:"stall_id"`
			Status  models.ReservationStatus `bson:"status"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode active reservation: %w", err)
		}
		index[row.StallID] = row.Status
	}
	return index, cursor.Err()
}

func (l *MongoLedger) CountByVendor(ctx context.Context, vendorID string, status models.ReservationStatus) (int, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	n, err := l.reservations.CountDocuments(ctx, bson.M{"vendor_id": vendorID, "status": status})
	if err != nil {
		return 0, fmt.Errorf("failed to count reservations: %w", err)
	}
	return int(n), nil
}

func (l *MongoLedger) Transition(ctx context.Context, id string, t models.Transition) (*models.Reservation, error) {
	ctx, cancel := database.NewContext(ctx, 10*time.Second)
	defer cancel()

	sess, err := l.reservations.Database().Client().StartSession()
	if err != nil {
		return nil, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	var committed models.Reservation
	txnFn := func(sc mongo.SessionContext) error {
		current, err := l.findOne(sc, bson.M{"id": id})
		if err != nil {
			return err
		}
		next, err := t.Apply(*current)
		if err != nil {
			return err
		}

		if err := l.replaceGuarded(sc, t.From, next); err != nil {
			return err
		}

		if t.Event != nil {
			ev := *t.Event
			if ev.ID == "" {
				ev.ID = uuid.New().String()
			}
			ev.ReservationID = next.ID
			ev.VendorID = next.VendorID
			ev.StallID = next.StallID
			ev.OccurredAt = t.At
			ev.Delivered = false
			if _, err := l.events.InsertOne(sc, ev); err != nil {
				return fmt.Errorf("insert event failed: %w", err)
			}
		}
		committed = next
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if models.ErrorCode(err) != "" {
			return nil, err
		}
		return nil, fmt.Errorf("reservation transaction failed: %w", err)
	}
	return &committed, nil
}

// replaceGuarded writes next only while the stored status is still from, so a
// concurrent writer loses instead of overwriting.
func (l *MongoLedger) replaceGuarded(ctx context.Context, from models.ReservationStatus, next models.Reservation) error {
	res, err := l.reservations.ReplaceOne(ctx, bson.M{"id": next.ID, "status": from}, next)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.NewError(models.CodeConflict, "stall %s is held by another reservation", next.StallID)
		}
		return fmt.Errorf("update reservation failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.NewError(models.CodeConflict, "reservation %s changed concurrently", next.ID)
	}
	return nil
}

func (l *MongoLedger) RevokeCredential(ctx context.Context, id string, at time.Time) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "credential_token": bson.M{"$exists": true, "$ne": ""}}
	update := bson.M{"$set": bson.M{"credential_revoked": true, "updated_at": at}}
	res, err := l.reservations.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to revoke credential for reservation %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		if _, err := l.findOne(ctx, bson.M{"id": id}); err != nil {
			return err
		}
		return models.NewError(models.CodeInvalidCredential, "reservation %s has no credential", id)
	}
	return nil
}

func (l *MongoLedger) PendingEvents(ctx context.Context, limit int) ([]models.ReservationEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return l.findEvents(ctx, bson.M{"delivered": false}, opts)
}

func (l *MongoLedger) EventsForReservation(ctx context.Context, reservationID string) ([]models.ReservationEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: 1}})
	return l.findEvents(ctx, bson.M{"reservation_id": reservationID}, opts)
}

func (l *MongoLedger) findEvents(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.ReservationEvent, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	cursor, err := l.events.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer cursor.Close(ctx)

	out := []models.ReservationEvent{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	return out, nil
}

func (l *MongoLedger) MarkDelivered(ctx context.Context, eventID string, at time.Time) error {
	return l.updateEvent(ctx, eventID, bson.M{
		"$set": bson.M{"delivered": true, "delivered_at": at, "last_error": ""},
		"$inc": bson.M{"attempts": 1},
	})
}

func (l *MongoLedger) RecordFailure(ctx context.Context, eventID string, reason string) error {
	return l.updateEvent(ctx, eventID, bson.M{
		"$set": bson.M{"last_error": reason},
		"$inc": bson.M{"attempts": 1},
	})
}

func (l *MongoLedger) updateEvent(ctx context.Context, eventID string, update bson.M) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	res, err := l.events.UpdateOne(ctx, bson.M{"id": eventID}, update)
	if err != nil {
		return fmt.Errorf("failed to update event %s: %w", eventID, err)
	}
	if res.MatchedCount == 0 {
		return models.NewError(models.CodeNotFound, "event %s not found", eventID)
	}
	return nil
}
