package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	catalogerrors "eventbooking/internal/catalog/errors"
	"eventbooking/pkg/config"
	"eventbooking/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	TimeWindowCollectionName = "Time_windows"
)

type TimeWindowRepository interface {
	Create(ctx context.Context, window *model.TimeWindow) error
	FindByID(ctx context.Context, id string) (*model.TimeWindow, error)
	FindByTimes(ctx context.Context, startTime, endTime string) (*model.TimeWindow, error)
	FindAll(ctx context.Context) ([]*model.TimeWindow, error)
	Update(ctx context.Context, id string, window *model.TimeWindow) error
	Count(ctx context.Context) (int64, error)
}

type mongoTimeWindowRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoTimeWindowRepository(cfg *config.Config) TimeWindowRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTimeWindowRepository{
		cfg:        cfg,
		collection: db.Collection(TimeWindowCollectionName),
	}
}

func (r *mongoTimeWindowRepository) Create(ctx context.Context, window *model.TimeWindow) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	window.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.InsertOne(ctx, window)
	if err != nil {
		return fmt.Errorf("failed to create time window: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		window.ID = oid.Hex()
	}
	return nil
}

func (r *mongoTimeWindowRepository) FindByID(ctx context.Context, id string) (*model.TimeWindow, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	var window model.TimeWindow
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&window)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrTimeWindowNotFound
		}
		return nil, fmt.Errorf("failed to find time window: %w", err)
	}

	return &window, nil
}

func (r *mongoTimeWindowRepository) FindByTimes(ctx context.Context, startTime, endTime string) (*model.TimeWindow, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var window model.TimeWindow
	err := r.collection.FindOne(ctx, bson.M{
		"start_time": startTime,
		"end_time":   endTime,
	}).Decode(&window)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrTimeWindowNotFound
		}
		return nil, fmt.Errorf("failed to find time window: %w", err)
	}

	return &window, nil
}

func (r *mongoTimeWindowRepository) FindAll(ctx context.Context) ([]*model.TimeWindow, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find time windows: %w", err)
	}
	defer cursor.Close(ctx)

	var windows []*model.TimeWindow
	if err = cursor.All(ctx, &windows); err != nil {
		return nil, fmt.Errorf("failed to decode time windows: %w", err)
	}

	return windows, nil
}

func (r *mongoTimeWindowRepository) Update(ctx context.Context, id string, window *model.TimeWindow) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{
			"label":      window.Label,
			"start_time": window.StartTime,
			"end_time":   window.EndTime,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update time window: %w", err)
	}

	if result.MatchedCount == 0 {
		return catalogerrors.ErrTimeWindowNotFound
	}

	return nil
}

func (r *mongoTimeWindowRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count time windows: %w", err)
	}
	return count, nil
}
