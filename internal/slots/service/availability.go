package service

import (
	"context"
	"fmt"
	"time"

	bookingsrepo "eventbooking/internal/bookings/repository"
	catalogrepo "eventbooking/internal/catalog/repository"
	"eventbooking/internal/slots/repository"
	apperrors "eventbooking/pkg/errors"
	"eventbooking/pkg/logger"
	"eventbooking/pkg/model"
)

// maxDatesPerQuery bounds a single availability listing. Larger ranges are
// paged by the caller.
const maxDatesPerQuery = 31

// AvailabilityService serves the lock-free read side: per-date slot listings
// with catalog entries resolved and booking holders annotated. Listings are
// a point-in-time snapshot; only a booking attempt decides a race.
type AvailabilityService struct {
	slots      repository.SlotRegistry
	bookings   bookingsrepo.BookingLedger
	categories catalogrepo.CategoryRepository
	windows    catalogrepo.TimeWindowRepository
	logger     *logger.Logger
}

func NewAvailabilityService(
	slots repository.SlotRegistry,
	bookings bookingsrepo.BookingLedger,
	categories catalogrepo.CategoryRepository,
	windows catalogrepo.TimeWindowRepository,
	log *logger.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		slots:      slots,
		bookings:   bookings,
		categories: categories,
		windows:    windows,
		logger:     log,
	}
}

// ListAvailability returns every slot on the given dates with its current
// status. requesterID may be empty; when set, slots held by that requester
// are flagged as self-booked.
func (s *AvailabilityService) ListAvailability(ctx context.Context, dates []string, requesterID string) ([]*model.SlotAvailability, error) {
	if len(dates) == 0 {
		return nil, apperrors.InvalidInput("at least one date is required")
	}
	if len(dates) > maxDatesPerQuery {
		return nil, apperrors.InvalidInput(fmt.Sprintf("at most %d dates per query", maxDatesPerQuery))
	}
	for _, date := range dates {
		if _, err := time.Parse(model.DateLayout, date); err != nil {
			return nil, apperrors.InvalidInput(fmt.Sprintf("invalid date: %s", date))
		}
	}

	slots, err := s.slots.FindByDates(ctx, dates)
	if err != nil {
		return nil, apperrors.Internal("failed to list slots", err)
	}
	if len(slots) == 0 {
		return []*model.SlotAvailability{}, nil
	}

	windowsByID, categoriesByID, err := s.catalogMaps(ctx)
	if err != nil {
		return nil, err
	}

	slotIDs := make([]string, 0, len(slots))
	for _, slot := range slots {
		slotIDs = append(slotIDs, slot.ID)
	}

	active, err := s.bookings.FindActiveBySlots(ctx, slotIDs)
	if err != nil {
		return nil, apperrors.Internal("failed to resolve slot holders", err)
	}
	holderBySlot := make(map[string]string, len(active))
	for _, booking := range active {
		holderBySlot[booking.SlotID] = booking.RequesterID
	}

	views := make([]*model.SlotAvailability, 0, len(slots))
	for _, slot := range slots {
		holder := holderBySlot[slot.ID]
		views = append(views, &model.SlotAvailability{
			SlotID:     slot.ID,
			Date:       slot.Date,
			TimeWindow: windowsByID[slot.TimeWindowID],
			Category:   categoriesByID[slot.CategoryID],
			Status:     slot.Status,
			BookedBy:   holder,
			SelfBooked: requesterID != "" && holder == requesterID,
		})
	}

	return views, nil
}

func (s *AvailabilityService) catalogMaps(ctx context.Context) (map[string]*model.TimeWindow, map[string]*model.Category, error) {
	windows, err := s.windows.FindAll(ctx)
	if err != nil {
		return nil, nil, apperrors.Internal("failed to list time windows", err)
	}
	categories, err := s.categories.FindAll(ctx)
	if err != nil {
		return nil, nil, apperrors.Internal("failed to list categories", err)
	}

	windowsByID := make(map[string]*model.TimeWindow, len(windows))
	for _, window := range windows {
		windowsByID[window.ID] = window
	}
	categoriesByID := make(map[string]*model.Category, len(categories))
	for _, category := range categories {
		categoriesByID[category.ID] = category
	}

	return windowsByID, categoriesByID, nil
}
