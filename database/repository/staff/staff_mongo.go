package staffRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookfair/database"
	"bookfair/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStaffRepo implements StaffRepository using MongoDB.
type MongoStaffRepo struct {
	coll *mongo.Collection
}

func NewMongoStaffRepo(ctx context.Context, db *mongo.Database) (*MongoStaffRepo, error) {
	repo := &MongoStaffRepo{coll: db.Collection("staff")}

	ctx, cancel := database.NewContext(ctx, 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create staff indexes: %w", err)
	}
	return repo, nil
}

func (r *MongoStaffRepo) GetByID(ctx context.Context, id string) (*models.Staff, error) {
	return r.findOne(ctx, bson.M{"id": id}, "staff "+id)
}

func (r *MongoStaffRepo) GetByEmail(ctx context.Context, email string) (*models.Staff, error) {
	return r.findOne(ctx, bson.M{"email": email}, "staff with email "+email)
}

func (r *MongoStaffRepo) findOne(ctx context.Context, filter bson.M, what string) (*models.Staff, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	var staff models.Staff
	if err := r.coll.FindOne(ctx, filter).Decode(&staff); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewError(models.CodeNotFound, "%s not found", what)
		}
		return nil, fmt.Errorf("failed to fetch %s: %w", what, err)
	}
	return &staff, nil
}

func (r *MongoStaffRepo) Create(ctx context.Context, staff *models.Staff) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, staff); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.NewError(models.CodeConflict, "a staff member with this email or username already exists")
		}
		return fmt.Errorf("failed to create staff: %w", err)
	}
	return nil
}
