package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	slotserrors "eventbooking/internal/slots/errors"
	"eventbooking/pkg/config"
	"eventbooking/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Slots"
)

// SlotRegistry is the durable catalog of bookable slots. It only reads and
// writes rows; mutual exclusion comes from SlotLocker and atomicity from the
// transaction manager the callers run under.
type SlotRegistry interface {
	Find(ctx context.Context, date, timeWindowID, categoryID string) (*model.Slot, error)
	FindByID(ctx context.Context, id string) (*model.Slot, error)
	FindByDateWindow(ctx context.Context, date, timeWindowID string) (*model.Slot, error)
	FindByDates(ctx context.Context, dates []string) ([]*model.Slot, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.Slot, error)
	CreateIfAbsent(ctx context.Context, slot *model.Slot) (*model.Slot, error)
	UpdateCategory(ctx context.Context, id, categoryID string) error
	SetStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

type mongoSlotRegistry struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSlotRegistry(cfg *config.Config) SlotRegistry {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotRegistry{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// withTimeout wraps the context with a timeout unless it already carries a
// transaction session; wrapping a session context would break transaction
// semantics.
func (r *mongoSlotRegistry) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if mongo.SessionFromContext(ctx) != nil {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithTimeout(ctx, time.Until(deadline))
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoSlotRegistry) Find(ctx context.Context, date, timeWindowID, categoryID string) (*model.Slot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"date":           date,
		"time_window_id": timeWindowID,
		"category_id":    categoryID,
	}

	return r.findOne(ctx, filter)
}

func (r *mongoSlotRegistry) FindByID(ctx context.Context, id string) (*model.Slot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", slotserrors.ErrInvalidID, id)
	}

	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *mongoSlotRegistry) FindByDateWindow(ctx context.Context, date, timeWindowID string) (*model.Slot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"date":           date,
		"time_window_id": timeWindowID,
	}

	return r.findOne(ctx, filter)
}

func (r *mongoSlotRegistry) findOne(ctx context.Context, filter bson.M) (*model.Slot, error) {
	var slot model.Slot
	err := r.collection.FindOne(ctx, filter).Decode(&slot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, slotserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find slot: %w", err)
	}

	return &slot, nil
}

func (r *mongoSlotRegistry) FindByDates(ctx context.Context, dates []string) ([]*model.Slot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "date", Value: 1},
		{Key: "time_window_id", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{"date": bson.M{"$in": dates}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []*model.Slot
	if err = cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode slots: %w", err)
	}

	return slots, nil
}

func (r *mongoSlotRegistry) FindByIDs(ctx context.Context, ids []string) ([]*model.Slot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objectID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", slotserrors.ErrInvalidID, id)
		}
		objectIDs = append(objectIDs, objectID)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to find slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []*model.Slot
	if err = cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode slots: %w", err)
	}

	return slots, nil
}

// CreateIfAbsent inserts the slot unless one already exists for the same
// (date, window, category) designation, and returns the stored slot either
// way. The unique index on the designation makes concurrent creates safe.
func (r *mongoSlotRegistry) CreateIfAbsent(ctx context.Context, slot *model.Slot) (*model.Slot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"date":           slot.Date,
		"time_window_id": slot.TimeWindowID,
		"category_id":    slot.CategoryID,
	}
	update := bson.M{
		"$setOnInsert": bson.M{
			"date":           slot.Date,
			"time_window_id": slot.TimeWindowID,
			"category_id":    slot.CategoryID,
			"status":         model.SlotAvailable,
			"created_at":     time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var stored model.Slot
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored); err != nil {
		return nil, fmt.Errorf("failed to create slot: %w", err)
	}

	return &stored, nil
}

func (r *mongoSlotRegistry) UpdateCategory(ctx context.Context, id, categoryID string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", slotserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"category_id": categoryID}},
	)
	if err != nil {
		return fmt.Errorf("failed to update slot category: %w", err)
	}

	if result.MatchedCount == 0 {
		return slotserrors.ErrNotFound
	}

	return nil
}

func (r *mongoSlotRegistry) SetStatus(ctx context.Context, id, status string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", slotserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to set slot status: %w", err)
	}

	if result.MatchedCount == 0 {
		return slotserrors.ErrNotFound
	}

	return nil
}

func (r *mongoSlotRegistry) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", slotserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete slot: %w", err)
	}

	if result.DeletedCount == 0 {
		return slotserrors.ErrNotFound
	}

	return nil
}
