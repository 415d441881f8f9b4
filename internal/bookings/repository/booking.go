package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "eventbooking/internal/bookings/errors"
	"eventbooking/pkg/config"
	"eventbooking/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

// BookingLedger is the durable record of booking attempts. HasActiveEntry
// and Create are meant to run inside the coordinator's lock and transaction
// scope; FindOwned scopes lookups to the owning requester so foreign entries
// are indistinguishable from absent ones.
type BookingLedger interface {
	Create(ctx context.Context, booking *model.Booking) error
	HasActiveEntry(ctx context.Context, slotID string) (bool, error)
	FindOwned(ctx context.Context, id, requesterID string) (*model.Booking, error)
	Cancel(ctx context.Context, id string, at time.Time) error
	FindByRequester(ctx context.Context, requesterID string, limit int, offset int64) ([]*model.Booking, error)
	CountByRequester(ctx context.Context, requesterID string) (int64, error)
	FindActiveBySlots(ctx context.Context, slotIDs []string) ([]*model.Booking, error)
	CountBySlot(ctx context.Context, slotID string) (int64, error)
}

type mongoBookingLedger struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBookingLedger(cfg *config.Config) BookingLedger {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingLedger{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// withTimeout wraps the context with a timeout unless it already carries a
// transaction session; wrapping a session context would break transaction
// semantics.
func (r *mongoBookingLedger) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if mongo.SessionFromContext(ctx) != nil {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithTimeout(ctx, time.Until(deadline))
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingLedger) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.Status = model.BookingActive
	booking.BookedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingLedger) HasActiveEntry(ctx context.Context, slotID string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"slot_id": slotID,
		"status":  model.BookingActive,
	}

	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check active bookings: %w", err)
	}

	return count > 0, nil
}

func (r *mongoBookingLedger) FindOwned(ctx context.Context, id, requesterID string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	filter := bson.M{
		"_id":          objectID,
		"requester_id": requesterID,
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, filter).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

// Cancel flips one ACTIVE entry to CANCELLED and stamps the cancellation
// time. The status filter makes cancelled entries immutable: a second cancel
// matches nothing.
func (r *mongoBookingLedger) Cancel(ctx context.Context, id string, at time.Time) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	filter := bson.M{
		"_id":    objectID,
		"status": model.BookingActive,
	}
	update := bson.M{
		"$set": bson.M{
			"status":       model.BookingCancelled,
			"cancelled_at": at.UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	if result.MatchedCount == 0 {
		return bookingserrors.ErrAlreadyCancelled
	}

	return nil
}

func (r *mongoBookingLedger) FindByRequester(ctx context.Context, requesterID string, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "booked_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"requester_id": requesterID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingLedger) CountByRequester(ctx context.Context, requesterID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"requester_id": requesterID})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	return count, nil
}

func (r *mongoBookingLedger) FindActiveBySlots(ctx context.Context, slotIDs []string) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"slot_id": bson.M{"$in": slotIDs},
		"status":  model.BookingActive,
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find active bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode active bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingLedger) CountBySlot(ctx context.Context, slotID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"slot_id": slotID})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings for slot: %w", err)
	}

	return count, nil
}
