package model

import "time"

// TimeLayout is the 24h wall-clock format used for time window bounds.
const TimeLayout = "15:04"

// Category is a bookable event category, managed by the catalog layer.
type Category struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=256"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// TimeWindow is a fixed intra-day window slots are booked against.
// Bounds use 24h HH:MM.
type TimeWindow struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Label     string    `json:"label" bson:"label" validate:"omitempty,max=64"`
	StartTime string    `json:"start_time" bson:"start_time" validate:"required,datetime=15:04"`
	EndTime   string    `json:"end_time" bson:"end_time" validate:"required,datetime=15:04"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
