package stallRepo

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

// MongoStallRepo implements StallRepository using MongoDB.
type MongoStallRepo struct {
	coll *mongo.Collection
}

// NewMongoStallRepo creates the repository and ensures its indexes.
func NewMongoStallRepo(ctx context.Context, db *mongo.Database) (*MongoStallRepo, error) {
	repo := &MongoStallRepo{coll: db.Collection("stalls")}
	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoStallRepo) ensureIndexes(ctx context.Context) error {
	ctx, cancel := database.NewContext(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "size", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create stall indexes: %w", err)
	}
	return nil
}

func (r *MongoStallRepo) GetByID(ctx context.Context, id string) (*models.Stall, error) {
	return r.findOne(ctx, bson.M{"id": id}, "stall "+id)
}

func (r *MongoStallRepo) GetByName(ctx context.Context, name string) (*models.Stall, error) {
	return r.findOne(ctx, bson.M{"name": name}, "stall named "+name)
}

func (r *MongoStallRepo) findOne(ctx context.Context, filter bson.M, what string) (*models.Stall, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	var stall models.Stall
	if err := r.coll.FindOne(ctx, filter).Decode(&stall); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewError(models.CodeNotFound, "%s not found", what)
		}
		return nil, fmt.Errorf("failed to fetch %s: %w", what, err)
	}
	return &stall, nil
}

func (r *MongoStallRepo) GetAll(ctx context.Context) ([]models.Stall, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoStallRepo) GetBySize(ctx context.Context, size models.StallSize) ([]models.Stall, error) {
	return r.find(ctx, bson.M{"size": size})
}

func (r *MongoStallRepo) find(ctx context.Context, filter bson.M) ([]models.Stall, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query stalls: %w", err)
	}
	defer cursor.Close(ctx)

	stalls := []models.Stall{}
	if err := cursor.All(ctx, &stalls); err != nil {
		return nil, fmt.Errorf("failed to decode stalls: %w", err)
	}
	return stalls, nil
}

func (r *MongoStallRepo) Create(ctx context.Context, stall *models.Stall) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, stall); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.NewError(models.CodeConflict, "stall %s already exists", stall.Name)
		}
		return fmt.Errorf("failed to create stall: %w", err)
	}
	return nil
}

func (r *MongoStallRepo) Update(ctx context.Context, stall *models.Stall) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.ReplaceOne(ctx, bson.M{"id": stall.ID}, stall)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.NewError(models.CodeConflict, "stall name %s already exists", stall.Name)
		}
		return fmt.Errorf("failed to update stall with id %s: %w", stall.ID, err)
	}
	if result.MatchedCount == 0 {
		return models.NewError(models.CodeNotFound, "stall %s not found", stall.ID)
	}
	return nil
}

func (r *MongoStallRepo) Count(ctx context.Context) (int, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count stalls: %w", err)
	}
	return int(n), nil
}
