package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingsrepo "eventbooking/internal/bookings/repository"
	catalogerrors "eventbooking/internal/catalog/errors"
	"eventbooking/internal/catalog/repository"
	"eventbooking/internal/catalog/validator"
	slotserrors "eventbooking/internal/slots/errors"
	slotsrepo "eventbooking/internal/slots/repository"
	apperrors "eventbooking/pkg/errors"
	"eventbooking/pkg/logger"
	"eventbooking/pkg/model"
)

// defaultTimeWindows are the windows seeded into an empty catalog on
// startup. Existing deployments keep whatever windows they already have.
var defaultTimeWindows = []model.TimeWindow{
	{Label: "Morning", StartTime: "09:00", EndTime: "12:00"},
	{Label: "Midday", StartTime: "12:00", EndTime: "15:00"},
	{Label: "Afternoon", StartTime: "15:00", EndTime: "18:00"},
}

// CatalogService manages categories, time windows and the slot inventory.
// It never flips a slot's BOOKED status; that is the booking coordinator's
// exclusive right.
type CatalogService struct {
	categories repository.CategoryRepository
	windows    repository.TimeWindowRepository
	slots      slotsrepo.SlotRegistry
	bookings   bookingsrepo.BookingLedger
	validator  *validator.CatalogValidator
	logger     *logger.Logger
	now        func() time.Time
}

func NewCatalogService(
	categories repository.CategoryRepository,
	windows repository.TimeWindowRepository,
	slots slotsrepo.SlotRegistry,
	bookings bookingsrepo.BookingLedger,
	catalogValidator *validator.CatalogValidator,
	log *logger.Logger,
) *CatalogService {
	return &CatalogService{
		categories: categories,
		windows:    windows,
		slots:      slots,
		bookings:   bookings,
		validator:  catalogValidator,
		logger:     log,
		now:        time.Now,
	}
}

func (s *CatalogService) CreateCategory(ctx context.Context, category *model.Category) (*model.Category, error) {
	if err := s.validator.ValidateCategory(category); err != nil {
		return nil, apperrors.Validation(err.Error(), nil)
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.Internal("failed to create category", err)
	}

	s.logger.Info("category created", "category_id", category.ID, "name", category.Name)
	return category, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateCatalogError(err, "category", id)
	}
	return category, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*model.Category, error) {
	categories, err := s.categories.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to list categories", err)
	}
	return categories, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id string, category *model.Category) (*model.Category, error) {
	if err := s.validator.ValidateCategory(category); err != nil {
		return nil, apperrors.Validation(err.Error(), nil)
	}

	if err := s.categories.Update(ctx, id, category); err != nil {
		return nil, s.translateCatalogError(err, "category", id)
	}

	category.ID = id
	s.logger.Info("category updated", "category_id", id)
	return category, nil
}

func (s *CatalogService) CreateTimeWindow(ctx context.Context, window *model.TimeWindow) (*model.TimeWindow, error) {
	if err := s.validator.ValidateTimeWindow(window); err != nil {
		return nil, apperrors.Validation(err.Error(), nil)
	}

	if existing, err := s.windows.FindByTimes(ctx, window.StartTime, window.EndTime); err == nil {
		return nil, apperrors.Conflict(fmt.Sprintf("time window %s-%s already exists as %s",
			existing.StartTime, existing.EndTime, existing.ID))
	} else if !errors.Is(err, catalogerrors.ErrTimeWindowNotFound) {
		return nil, apperrors.Internal("failed to check time window", err)
	}

	if err := s.windows.Create(ctx, window); err != nil {
		return nil, apperrors.Internal("failed to create time window", err)
	}

	s.logger.Info("time window created",
		"time_window_id", window.ID,
		"start_time", window.StartTime,
		"end_time", window.EndTime)
	return window, nil
}

// UpdateTimeWindow changes a window's label or bounds. Existing slots keep
// referencing the window by id, so past listings re-render with the new
// bounds; operators curating bounds retroactively is accepted behavior.
func (s *CatalogService) UpdateTimeWindow(ctx context.Context, id string, window *model.TimeWindow) (*model.TimeWindow, error) {
	if err := s.validator.ValidateTimeWindow(window); err != nil {
		return nil, apperrors.Validation(err.Error(), nil)
	}

	if existing, err := s.windows.FindByTimes(ctx, window.StartTime, window.EndTime); err == nil {
		if existing.ID != id {
			return nil, apperrors.Conflict(fmt.Sprintf("time window %s-%s already exists as %s",
				existing.StartTime, existing.EndTime, existing.ID))
		}
	} else if !errors.Is(err, catalogerrors.ErrTimeWindowNotFound) {
		return nil, apperrors.Internal("failed to check time window", err)
	}

	if err := s.windows.Update(ctx, id, window); err != nil {
		return nil, s.translateCatalogError(err, "time window", id)
	}

	window.ID = id
	s.logger.Info("time window updated",
		"time_window_id", id,
		"start_time", window.StartTime,
		"end_time", window.EndTime)
	return window, nil
}

func (s *CatalogService) ListTimeWindows(ctx context.Context) ([]*model.TimeWindow, error) {
	windows, err := s.windows.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to list time windows", err)
	}
	return windows, nil
}

// EnsureDefaultTimeWindows seeds the standard windows into an empty catalog.
// Runs once at startup; a non-empty catalog is left untouched so operators
// can curate their own windows.
func (s *CatalogService) EnsureDefaultTimeWindows(ctx context.Context) error {
	count, err := s.windows.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count time windows: %w", err)
	}
	if count > 0 {
		return nil
	}

	for i := range defaultTimeWindows {
		window := defaultTimeWindows[i]
		if err := s.windows.Create(ctx, &window); err != nil {
			return fmt.Errorf("failed to seed time window %s-%s: %w", window.StartTime, window.EndTime, err)
		}
		s.logger.Info("seeded default time window",
			"time_window_id", window.ID,
			"start_time", window.StartTime,
			"end_time", window.EndTime)
	}

	return nil
}

// UpsertSlot publishes a slot for a (date, time window) pair, pointing it at
// the given category. An existing slot for the pair is re-pointed unless a
// booking already holds it.
func (s *CatalogService) UpsertSlot(ctx context.Context, date, timeWindowID, categoryID string) (*model.Slot, error) {
	slot := &model.Slot{
		Date:         date,
		TimeWindowID: timeWindowID,
		CategoryID:   categoryID,
		Status:       model.SlotAvailable,
	}
	if err := s.validateSlotShape(slot); err != nil {
		return nil, err
	}

	if s.isPastDate(date) {
		return nil, apperrors.Validation("cannot publish a slot for a past date", map[string]any{"date": date})
	}

	if _, err := s.windows.FindByID(ctx, timeWindowID); err != nil {
		return nil, s.translateCatalogError(err, "time window", timeWindowID)
	}
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return nil, s.translateCatalogError(err, "category", categoryID)
	}

	existing, err := s.slots.FindByDateWindow(ctx, date, timeWindowID)
	if err != nil && !errors.Is(err, slotserrors.ErrNotFound) {
		return nil, apperrors.Internal("failed to look up slot", err)
	}

	if existing != nil {
		if existing.CategoryID == categoryID {
			return existing, nil
		}
		if existing.Status == model.SlotBooked {
			return nil, apperrors.Conflict("slot is booked and cannot be re-pointed")
		}
		active, err := s.bookings.HasActiveEntry(ctx, existing.ID)
		if err != nil {
			return nil, apperrors.Internal("failed to check slot bookings", err)
		}
		if active {
			return nil, apperrors.Conflict("slot has an active booking and cannot be re-pointed")
		}
		if err := s.slots.UpdateCategory(ctx, existing.ID, categoryID); err != nil {
			return nil, apperrors.Internal("failed to update slot category", err)
		}
		existing.CategoryID = categoryID
		s.logger.Info("slot re-pointed", "slot_id", existing.ID, "category_id", categoryID)
		return existing, nil
	}

	created, err := s.slots.CreateIfAbsent(ctx, slot)
	if err != nil {
		return nil, apperrors.Internal("failed to create slot", err)
	}

	s.logger.Info("slot published",
		"slot_id", created.ID,
		"date", created.Date,
		"time_window_id", created.TimeWindowID,
		"category_id", created.CategoryID)
	return created, nil
}

// DeleteSlot withdraws a slot from the inventory. Slots that are booked or
// carry any booking history are kept; the ledger must stay resolvable.
func (s *CatalogService) DeleteSlot(ctx context.Context, id string) error {
	slot, err := s.slots.FindByID(ctx, id)
	if err != nil {
		return s.translateSlotError(err, id)
	}

	if slot.Status == model.SlotBooked {
		return apperrors.Conflict("slot is booked and cannot be deleted")
	}

	count, err := s.bookings.CountBySlot(ctx, id)
	if err != nil {
		return apperrors.Internal("failed to check slot bookings", err)
	}
	if count > 0 {
		return apperrors.Conflict("slot has booking history and cannot be deleted")
	}

	if err := s.slots.Delete(ctx, id); err != nil {
		return s.translateSlotError(err, id)
	}

	s.logger.Info("slot withdrawn", "slot_id", id)
	return nil
}

func (s *CatalogService) validateSlotShape(slot *model.Slot) error {
	if _, err := time.Parse(model.DateLayout, slot.Date); err != nil {
		return apperrors.Validation("date must match the 2006-01-02 format", map[string]any{"date": slot.Date})
	}
	return nil
}

func (s *CatalogService) isPastDate(date string) bool {
	parsed, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return false
	}
	today, _ := time.Parse(model.DateLayout, s.now().UTC().Format(model.DateLayout))
	return parsed.Before(today)
}

func (s *CatalogService) translateSlotError(err error, id string) error {
	switch {
	case errors.Is(err, slotserrors.ErrNotFound):
		return apperrors.NotFoundWithID("slot", id)
	case errors.Is(err, slotserrors.ErrInvalidID):
		return apperrors.InvalidInput(fmt.Sprintf("invalid slot id: %s", id))
	default:
		return apperrors.Internal("failed to access slot", err)
	}
}

func (s *CatalogService) translateCatalogError(err error, resource, id string) error {
	switch {
	case errors.Is(err, catalogerrors.ErrCategoryNotFound),
		errors.Is(err, catalogerrors.ErrTimeWindowNotFound):
		return apperrors.NotFoundWithID(resource, id)
	case errors.Is(err, catalogerrors.ErrInvalidID):
		return apperrors.InvalidInput(fmt.Sprintf("invalid %s id: %s", resource, id))
	default:
		return apperrors.Internal(fmt.Sprintf("failed to access %s", resource), err)
	}
}
