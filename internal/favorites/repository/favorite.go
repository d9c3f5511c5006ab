package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"homecare/pkg/config"
	"homecare/pkg/model"
)

const (
	CollectionName = "Favorite_staff"
)

var ErrNotFound = errors.New("favorite not found")

type mongoFavoriteRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type FavoriteRepository interface {
	Create(ctx context.Context, favorite *model.FavoriteStaff) error
	Delete(ctx context.Context, customerID, staffID string) error
	FindByCustomer(ctx context.Context, customerID string) ([]*model.FavoriteStaff, error)
	StaffIDSet(ctx context.Context, customerID string) (map[string]bool, error)
	EnsureIndexes(ctx context.Context) error
}

func NewMongoFavoriteRepository(cfg *config.Config) FavoriteRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoFavoriteRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// EnsureIndexes creates the unique (customer_id, staff_id) compound index
// that makes favoriting idempotent at the storage layer.
func (r *mongoFavoriteRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "customer_id", Value: 1},
			{Key: "staff_id", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create favorite index: %w", err)
	}
	return nil
}

// Create returns a duplicate key error when the pair already exists; the
// service maps that to a conflict.
func (r *mongoFavoriteRepository) Create(ctx context.Context, favorite *model.FavoriteStaff) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	favorite.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, favorite)
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		favorite.ID = oid.Hex()
	}
	return nil
}

func (r *mongoFavoriteRepository) Delete(ctx context.Context, customerID, staffID string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{
		"customer_id": customerID,
		"staff_id":    staffID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoFavoriteRepository) FindByCustomer(ctx context.Context, customerID string) ([]*model.FavoriteStaff, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"customer_id": customerID})
	if err != nil {
		return nil, fmt.Errorf("failed to find favorites: %w", err)
	}
	defer cursor.Close(ctx)

	var favorites []*model.FavoriteStaff
	if err = cursor.All(ctx, &favorites); err != nil {
		return nil, fmt.Errorf("failed to decode favorites: %w", err)
	}

	return favorites, nil
}

// StaffIDSet returns the customer's favorited staff IDs as a set for fast
// membership checks in availability ranking.
func (r *mongoFavoriteRepository) StaffIDSet(ctx context.Context, customerID string) (map[string]bool, error) {
	favorites, err := r.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(favorites))
	for _, f := range favorites {
		set[f.StaffID] = true
	}
	return set, nil
}
