package model

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day format used everywhere a slot date crosses
// a boundary (API, storage, lock keys).
const DateLayout = "2006-01-02"

const (
	SlotAvailable = "AVAILABLE"
	SlotBooked    = "BOOKED"
)

// Slot is one bookable (date, time window, category) unit. Its status is
// BOOKED iff exactly one ACTIVE booking references it; only the booking
// coordinator and the cancellation path may flip it.
type Slot struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Date         string    `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	TimeWindowID string    `json:"time_window_id" bson:"time_window_id" validate:"required,mongodb"`
	CategoryID   string    `json:"category_id" bson:"category_id" validate:"required,mongodb"`
	Status       string    `json:"status" bson:"status" validate:"required,oneof=AVAILABLE BOOKED"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// SlotLockKey derives the advisory-lock identity for a slot designation.
// One key per (date, window, category) triple gives mutual exclusion at
// single-slot granularity.
func SlotLockKey(date, timeWindowID, categoryID string) string {
	return fmt.Sprintf("slot_lock_%s_%s_%s", date, timeWindowID, categoryID)
}

// SlotAvailability is the lock-free read view returned by availability
// listings. BookedBy is set only while an active booking holds the slot.
type SlotAvailability struct {
	SlotID     string      `json:"slot_id"`
	Date       string      `json:"date"`
	TimeWindow *TimeWindow `json:"time_window,omitempty"`
	Category   *Category   `json:"category,omitempty"`
	Status     string      `json:"status"`
	BookedBy   string      `json:"booked_by,omitempty"`
	SelfBooked bool        `json:"self_booked"`
}
