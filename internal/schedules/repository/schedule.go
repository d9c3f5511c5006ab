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

	scheduleserrors "homecare/internal/schedules/errors"
	"homecare/pkg/config"
	"homecare/pkg/model"
)

const (
	CollectionName = "Work_schedules"
)

type mongoScheduleRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type ScheduleRepository interface {
	Create(ctx context.Context, schedule *model.WorkSchedule) error
	FindByStaffID(ctx context.Context, staffID string) (*model.WorkSchedule, error)
	FindByStaffIDs(ctx context.Context, staffIDs []string) ([]*model.WorkSchedule, error)
	ReplaceDays(ctx context.Context, staffID string, days []model.DayWindow) error
	EnsureIndexes(ctx context.Context) error
}

func NewMongoScheduleRepository(cfg *config.Config) ScheduleRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoScheduleRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// EnsureIndexes creates the unique staff_id index. One schedule document per
// staff account.
func (r *mongoScheduleRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "staff_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create schedule index: %w", err)
	}
	return nil
}

func (r *mongoScheduleRepository) Create(ctx context.Context, schedule *model.WorkSchedule) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	schedule.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, schedule)
	if err != nil {
		return fmt.Errorf("failed to create work schedule: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		schedule.ID = oid.Hex()
	}
	return nil
}

func (r *mongoScheduleRepository) FindByStaffID(ctx context.Context, staffID string) (*model.WorkSchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if _, err := primitive.ObjectIDFromHex(staffID); err != nil {
		return nil, fmt.Errorf("%w: %s", scheduleserrors.ErrInvalidID, staffID)
	}

	var schedule model.WorkSchedule
	err := r.collection.FindOne(ctx, bson.M{"staff_id": staffID}).Decode(&schedule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, scheduleserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find work schedule: %w", err)
	}

	return &schedule, nil
}

// FindByStaffIDs fetches the schedules for all given staff members in a
// single query. Staff without a schedule are simply absent from the result.
func (r *mongoScheduleRepository) FindByStaffIDs(ctx context.Context, staffIDs []string) ([]*model.WorkSchedule, error) {
	if len(staffIDs) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"staff_id": bson.M{"$in": staffIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to find work schedules: %w", err)
	}
	defer cursor.Close(ctx)

	var schedules []*model.WorkSchedule
	if err = cursor.All(ctx, &schedules); err != nil {
		return nil, fmt.Errorf("failed to decode work schedules: %w", err)
	}

	return schedules, nil
}

// ReplaceDays overwrites the whole days collection for the staff member.
// Updates are wholesale by design: the input always carries all seven days.
func (r *mongoScheduleRepository) ReplaceDays(ctx context.Context, staffID string, days []model.DayWindow) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"staff_id": staffID},
		bson.M{"$set": bson.M{"days": days}},
	)
	if err != nil {
		return fmt.Errorf("failed to update work schedule: %w", err)
	}

	if result.MatchedCount == 0 {
		return scheduleserrors.ErrNotFound
	}
	return nil
}
