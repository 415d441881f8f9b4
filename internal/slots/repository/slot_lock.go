package repository

import (
	"context"
	"time"

	slotserrors "eventbooking/internal/slots/errors"
	"eventbooking/pkg/config"
	"eventbooking/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	LockCollectionName = "Slot_locks"
)

// ReleaseFunc releases a held slot lock.
type ReleaseFunc func(ctx context.Context) error

// SlotLocker is the non-blocking mutual-exclusion capability the booking
// coordinator runs under. Acquire never waits: it either takes the lock or
// reports ErrLockContended immediately, leaving retry policy to the caller.
// The production implementation is storage-backed; tests use an in-memory
// fake.
type SlotLocker interface {
	Acquire(ctx context.Context, key string) (ReleaseFunc, error)
}

type mongoSlotLocker struct {
	collection *mongo.Collection
	ttl        time.Duration
}

func NewMongoSlotLocker(cfg *config.Config) SlotLocker {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotLocker{
		collection: db.Collection(LockCollectionName),
		ttl:        cfg.SlotLockTTL,
	}
}

// Acquire inserts a lock document keyed by the slot designation. The unique
// _id turns a concurrent acquisition into a duplicate-key error, which is
// the contended signal.
func (l *mongoSlotLocker) Acquire(ctx context.Context, key string) (ReleaseFunc, error) {
	now := time.Now()
	lock := &model.SlotLock{
		ID:        key,
		CreatedAt: now,
		ExpiresAt: now.Add(l.ttl),
	}

	if _, err := l.collection.InsertOne(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, slotserrors.ErrLockContended
		}
		return nil, err
	}

	release := func(ctx context.Context) error {
		_, err := l.collection.DeleteOne(ctx, bson.M{"_id": key})
		return err
	}

	return release, nil
}
