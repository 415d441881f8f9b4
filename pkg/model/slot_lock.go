package model

import "time"

// SlotLock is an advisory lock document. Acquisition is a unique-key insert:
// the insert either succeeds (lock held) or fails with a duplicate key
// (contended). ExpiresAt backstops locks leaked by a crashed holder via a
// TTL index.
type SlotLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
