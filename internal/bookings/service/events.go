package service

import (
	"context"
	"time"

	"eventbooking/pkg/kafka"
	"eventbooking/pkg/logger"
	"eventbooking/pkg/model"
)

const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"

	eventSource = "booking-service"
)

// BookingEvent is the wire payload for booking lifecycle events. Messages
// are keyed by slot ID so consumers see a slot's history in order.
type BookingEvent struct {
	BookingID    string    `json:"booking_id"`
	SlotID       string    `json:"slot_id"`
	RequesterID  string    `json:"requester_id"`
	Date         string    `json:"date"`
	TimeWindowID string    `json:"time_window_id"`
	CategoryID   string    `json:"category_id"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// EventPublisher emits booking lifecycle events after the owning transaction
// has committed. Publishing is best effort: a publish failure never unwinds
// a committed booking.
type EventPublisher interface {
	PublishConfirmed(ctx context.Context, booking *model.Booking, slot *model.Slot)
	PublishCancelled(ctx context.Context, booking *model.Booking, slot *model.Slot)
}

type kafkaEventPublisher struct {
	producer *kafka.Producer
	logger   *logger.Logger
}

func NewKafkaEventPublisher(producer *kafka.Producer, log *logger.Logger) EventPublisher {
	return &kafkaEventPublisher{
		producer: producer,
		logger:   log,
	}
}

func (p *kafkaEventPublisher) PublishConfirmed(ctx context.Context, booking *model.Booking, slot *model.Slot) {
	p.publish(ctx, EventBookingConfirmed, booking, slot)
}

func (p *kafkaEventPublisher) PublishCancelled(ctx context.Context, booking *model.Booking, slot *model.Slot) {
	p.publish(ctx, EventBookingCancelled, booking, slot)
}

func (p *kafkaEventPublisher) publish(ctx context.Context, eventType string, booking *model.Booking, slot *model.Slot) {
	event := BookingEvent{
		BookingID:    booking.ID,
		SlotID:       slot.ID,
		RequesterID:  booking.RequesterID,
		Date:         slot.Date,
		TimeWindowID: slot.TimeWindowID,
		CategoryID:   slot.CategoryID,
		OccurredAt:   time.Now().UTC(),
	}

	msg := kafka.NewMessage().
		WithKey(slot.ID).
		WithValue(event).
		WithEventType(eventType).
		WithSource(eventSource).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.logger.Error("failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"slot_id", slot.ID,
			"error", err)
		return
	}

	p.logger.Debug("booking event published",
		"event_type", eventType,
		"booking_id", booking.ID,
		"slot_id", slot.ID)
}

// noopEventPublisher drops every event. Used when events are disabled.
type noopEventPublisher struct{}

func NewNoopEventPublisher() EventPublisher {
	return noopEventPublisher{}
}

func (noopEventPublisher) PublishConfirmed(context.Context, *model.Booking, *model.Slot) {}
func (noopEventPublisher) PublishCancelled(context.Context, *model.Booking, *model.Slot) {}
