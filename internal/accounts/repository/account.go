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

	accountserrors "homecare/internal/accounts/errors"
	"homecare/pkg/config"
	"homecare/pkg/model"
)

const (
	CollectionName = "Accounts"
)

type mongoAccountRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	FindByID(ctx context.Context, id string) (*model.Account, error)
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	FindActiveStaffByService(ctx context.Context, serviceID, address string) ([]*model.Account, error)
	FindInactiveStaff(ctx context.Context, limit int, offset int64) ([]*model.Account, error)
	CountInactiveStaff(ctx context.Context) (int64, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

func NewMongoAccountRepository(cfg *config.Config) AccountRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoAccountRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoAccountRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create account index: %w", err)
	}
	return nil
}

func (r *mongoAccountRepository) Create(ctx context.Context, account *model.Account) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	account.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, account)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return accountserrors.ErrEmailTaken
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		account.ID = oid.Hex()
	}
	return nil
}

func (r *mongoAccountRepository) FindByID(ctx context.Context, id string) (*model.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", accountserrors.ErrInvalidID, id)
	}

	var account model.Account
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, accountserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	return &account, nil
}

func (r *mongoAccountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var account model.Account
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, accountserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by email: %w", err)
	}

	return &account, nil
}

// FindActiveStaffByService returns the approved staff offering the given
// service. Address, when present, narrows the candidates to the customer's
// area by exact match on the normalized value.
func (r *mongoAccountRepository) FindActiveStaffByService(ctx context.Context, serviceID, address string) ([]*model.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"role":        model.RoleStaff,
		"active":      true,
		"service_ids": serviceID,
	}
	if address != "" {
		filter["address"] = address
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find staff by service: %w", err)
	}
	defer cursor.Close(ctx)

	var staff []*model.Account
	if err = cursor.All(ctx, &staff); err != nil {
		return nil, fmt.Errorf("failed to decode staff accounts: %w", err)
	}

	return staff, nil
}

func (r *mongoAccountRepository) FindInactiveStaff(ctx context.Context, limit int, offset int64) ([]*model.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, inactiveStaffFilter(), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find inactive staff: %w", err)
	}
	defer cursor.Close(ctx)

	var staff []*model.Account
	if err = cursor.All(ctx, &staff); err != nil {
		return nil, fmt.Errorf("failed to decode staff accounts: %w", err)
	}

	return staff, nil
}

func (r *mongoAccountRepository) CountInactiveStaff(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, inactiveStaffFilter())
	if err != nil {
		return 0, fmt.Errorf("failed to count inactive staff: %w", err)
	}

	return count, nil
}

func inactiveStaffFilter() bson.M {
	return bson.M{
		"role":   model.RoleStaff,
		"active": false,
	}
}

func (r *mongoAccountRepository) SetActive(ctx context.Context, id string, active bool) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", accountserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"active": active}},
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	if result.MatchedCount == 0 {
		return accountserrors.ErrNotFound
	}
	return nil
}

func (r *mongoAccountRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", accountserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	if result.DeletedCount == 0 {
		return accountserrors.ErrNotFound
	}
	return nil
}
