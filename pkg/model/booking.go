package model

import "time"

const (
	BookingActive    = "ACTIVE"
	BookingCancelled = "CANCELLED"
)

// Booking is one durable ledger entry tying a requester to a slot. Entries
// are created ACTIVE by the coordinator and transition to CANCELLED exactly
// once; a cancelled entry is never reactivated.
type Booking struct {
	ID          string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RequesterID string     `json:"requester_id" bson:"requester_id" validate:"required"`
	SlotID      string     `json:"slot_id" bson:"slot_id" validate:"required,mongodb"`
	Status      string     `json:"status" bson:"status" validate:"required,oneof=ACTIVE CANCELLED"`
	BookedAt    time.Time  `json:"booked_at" bson:"booked_at" validate:"omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
}

// BookingRequest is the booking intent as submitted by a caller. The
// requester identity is not part of the body; it comes from the gateway
// identity header.
type BookingRequest struct {
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	TimeWindowID string `json:"time_window_id" validate:"required,mongodb"`
	CategoryID   string `json:"category_id" validate:"required,mongodb"`
}

// BookingView is the read shape for a requester's booking history, with the
// slot designation resolved to its catalog entries.
type BookingView struct {
	BookingID   string      `json:"booking_id"`
	Date        string      `json:"date"`
	TimeWindow  *TimeWindow `json:"time_window,omitempty"`
	Category    *Category   `json:"category,omitempty"`
	Status      string      `json:"status"`
	BookedAt    time.Time   `json:"booked_at"`
	CancelledAt *time.Time  `json:"cancelled_at,omitempty"`
}
