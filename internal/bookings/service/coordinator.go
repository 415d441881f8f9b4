package service

import (
	"context"
	"errors"
	"sync"
	"time"

	bookingerrors "eventbooking/internal/bookings/errors"
	"eventbooking/internal/bookings/repository"
	"eventbooking/internal/bookings/validator"
	catalogrepo "eventbooking/internal/catalog/repository"
	slotserrors "eventbooking/internal/slots/errors"
	slotsrepo "eventbooking/internal/slots/repository"
	mongodb "eventbooking/pkg/db/mongo"
	apperrors "eventbooking/pkg/errors"
	"eventbooking/pkg/logger"
	"eventbooking/pkg/model"
	"eventbooking/pkg/outcome"
)

// Sentinels carried out of the booking transaction and translated into
// outcomes once the transaction has resolved.
var (
	errSlotUnknown      = errors.New("no slot exists for the requested designation")
	errSlotTaken        = errors.New("slot is held by an active booking")
	errBookingCancelled = errors.New("booking is already cancelled")
)

// BookingCoordinator is the only writer of booking entries and slot status.
// Every mutation runs with the slot's advisory lock held and inside one
// storage transaction, so at most one active booking ever references a slot.
type BookingCoordinator struct {
	slots      slotsrepo.SlotRegistry
	locker     slotsrepo.SlotLocker
	bookings   repository.BookingLedger
	categories catalogrepo.CategoryRepository
	windows    catalogrepo.TimeWindowRepository
	txManager  mongodb.TransactionManager
	validator  *validator.BookingValidator
	publisher  EventPublisher
	logger     *logger.Logger
	now        func() time.Time
}

func NewBookingCoordinator(
	slots slotsrepo.SlotRegistry,
	locker slotsrepo.SlotLocker,
	bookings repository.BookingLedger,
	categories catalogrepo.CategoryRepository,
	windows catalogrepo.TimeWindowRepository,
	txManager mongodb.TransactionManager,
	bookingValidator *validator.BookingValidator,
	publisher EventPublisher,
	log *logger.Logger,
) *BookingCoordinator {
	return &BookingCoordinator{
		slots:      slots,
		locker:     locker,
		bookings:   bookings,
		categories: categories,
		windows:    windows,
		txManager:  txManager,
		validator:  bookingValidator,
		publisher:  publisher,
		logger:     log,
		now:        time.Now,
	}
}

// Book attempts to claim the slot designated by req for requesterID. It
// returns an outcome, never an error: every way the attempt can end is a
// value the caller branches on. The returned booking is non-nil only on a
// confirmed outcome.
func (c *BookingCoordinator) Book(ctx context.Context, requesterID string, req *model.BookingRequest) (result outcome.Outcome, booked *model.Booking) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("booking attempt panicked",
				"requester_id", requesterID,
				"panic", r)
			result = outcome.Failed(outcome.ReasonInternal, "internal error during booking")
			booked = nil
		}
	}()

	if err := c.validator.ValidateRequest(req); err != nil {
		return outcome.Rejected(outcome.ReasonValidation, err.Error()), nil
	}

	if c.isPastDate(req.Date) {
		return outcome.Rejected(outcome.ReasonPastDate, "cannot book a slot in the past"), nil
	}

	key := model.SlotLockKey(req.Date, req.TimeWindowID, req.CategoryID)
	release, err := c.locker.Acquire(ctx, key)
	if err != nil {
		if errors.Is(err, slotserrors.ErrLockContended) {
			return outcome.Retry("another booking for this slot is in progress"), nil
		}
		c.logger.Error("failed to acquire slot lock", "lock_key", key, "error", err)
		return outcome.Failed(outcome.ReasonStorageFault, "could not acquire slot lock"), nil
	}
	defer c.release(ctx, release, key)

	var booking *model.Booking
	var slot *model.Slot

	err = c.txManager.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		var txErr error
		slot, txErr = c.slots.Find(txCtx, req.Date, req.TimeWindowID, req.CategoryID)
		if txErr != nil {
			if errors.Is(txErr, slotserrors.ErrNotFound) {
				return errSlotUnknown
			}
			return txErr
		}

		taken, txErr := c.bookings.HasActiveEntry(txCtx, slot.ID)
		if txErr != nil {
			return txErr
		}
		if taken || slot.Status == model.SlotBooked {
			return errSlotTaken
		}

		booking = &model.Booking{
			RequesterID: requesterID,
			SlotID:      slot.ID,
		}
		if txErr = c.bookings.Create(txCtx, booking); txErr != nil {
			return txErr
		}

		return c.slots.SetStatus(txCtx, slot.ID, model.SlotBooked)
	})

	switch {
	case err == nil:
	case errors.Is(err, errSlotUnknown):
		return outcome.Rejected(outcome.ReasonNotAvailable, "no slot exists for the requested date, time window and category"), nil
	case errors.Is(err, errSlotTaken):
		return outcome.Rejected(outcome.ReasonAlreadyBooked, "slot is already booked"), nil
	default:
		c.logger.Error("booking transaction failed",
			"requester_id", requesterID,
			"lock_key", key,
			"error", err)
		return outcome.Failed(outcome.ReasonStorageFault, "booking could not be persisted"), nil
	}

	c.logger.Info("booking confirmed",
		"booking_id", booking.ID,
		"slot_id", slot.ID,
		"requester_id", requesterID)

	c.publisher.PublishConfirmed(ctx, booking, slot)

	return outcome.Confirmed(), booking
}

// Cancel releases the slot held by the requester's booking. Only the owner
// can cancel; anyone else gets the same not-found rejection as a missing
// booking, so booking IDs leak nothing about other requesters.
func (c *BookingCoordinator) Cancel(ctx context.Context, requesterID, bookingID string) (result outcome.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("cancellation attempt panicked",
				"requester_id", requesterID,
				"booking_id", bookingID,
				"panic", r)
			result = outcome.Failed(outcome.ReasonInternal, "internal error during cancellation")
		}
	}()

	existing, err := c.bookings.FindOwned(ctx, bookingID, requesterID)
	if err != nil {
		if errors.Is(err, bookingerrors.ErrNotFound) || errors.Is(err, bookingerrors.ErrInvalidID) {
			return outcome.Rejected(outcome.ReasonNotFound, "booking not found")
		}
		return outcome.Failed(outcome.ReasonStorageFault, "could not load booking")
	}
	if existing.Status == model.BookingCancelled {
		return outcome.Rejected(outcome.ReasonAlreadyCancelled, "booking is already cancelled")
	}

	slot, err := c.slots.FindByID(ctx, existing.SlotID)
	if err != nil {
		c.logger.Error("booking references missing slot",
			"booking_id", bookingID,
			"slot_id", existing.SlotID,
			"error", err)
		return outcome.Failed(outcome.ReasonStorageFault, "could not load slot")
	}

	key := model.SlotLockKey(slot.Date, slot.TimeWindowID, slot.CategoryID)
	release, err := c.locker.Acquire(ctx, key)
	if err != nil {
		if errors.Is(err, slotserrors.ErrLockContended) {
			return outcome.Retry("another operation on this slot is in progress")
		}
		c.logger.Error("failed to acquire slot lock", "lock_key", key, "error", err)
		return outcome.Failed(outcome.ReasonStorageFault, "could not acquire slot lock")
	}
	defer c.release(ctx, release, key)

	cancelledAt := c.now().UTC().Truncate(time.Millisecond)

	err = c.txManager.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		booking, txErr := c.bookings.FindOwned(txCtx, bookingID, requesterID)
		if txErr != nil {
			return txErr
		}
		if booking.Status == model.BookingCancelled {
			return errBookingCancelled
		}

		if txErr = c.bookings.Cancel(txCtx, bookingID, cancelledAt); txErr != nil {
			return txErr
		}

		return c.slots.SetStatus(txCtx, booking.SlotID, model.SlotAvailable)
	})

	switch {
	case err == nil:
	case errors.Is(err, errBookingCancelled), errors.Is(err, bookingerrors.ErrAlreadyCancelled):
		return outcome.Rejected(outcome.ReasonAlreadyCancelled, "booking is already cancelled")
	case errors.Is(err, bookingerrors.ErrNotFound):
		return outcome.Rejected(outcome.ReasonNotFound, "booking not found")
	default:
		c.logger.Error("cancellation transaction failed",
			"booking_id", bookingID,
			"requester_id", requesterID,
			"error", err)
		return outcome.Failed(outcome.ReasonStorageFault, "cancellation could not be persisted")
	}

	existing.Status = model.BookingCancelled
	existing.CancelledAt = &cancelledAt

	c.logger.Info("booking cancelled",
		"booking_id", bookingID,
		"slot_id", slot.ID,
		"requester_id", requesterID)

	c.publisher.PublishCancelled(ctx, existing, slot)

	return outcome.Confirmed()
}

// GetForRequester lists the requester's booking history, newest first, with
// each entry's slot designation resolved to its catalog entries.
func (c *BookingCoordinator) GetForRequester(ctx context.Context, requesterID string, limit int, offset int64) ([]*model.BookingView, int64, error) {
	var (
		wg         sync.WaitGroup
		bookings   []*model.Booking
		totalCount int64
		findErr    error
		countErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		bookings, findErr = c.bookings.FindByRequester(ctx, requesterID, limit, offset)
	}()
	go func() {
		defer wg.Done()
		totalCount, countErr = c.bookings.CountByRequester(ctx, requesterID)
	}()
	wg.Wait()

	if findErr != nil {
		return nil, 0, apperrors.Internal("failed to list bookings", findErr)
	}
	if countErr != nil {
		return nil, 0, apperrors.Internal("failed to count bookings", countErr)
	}
	if len(bookings) == 0 {
		return []*model.BookingView{}, totalCount, nil
	}

	views, err := c.resolveViews(ctx, bookings)
	if err != nil {
		return nil, 0, err
	}
	return views, totalCount, nil
}

func (c *BookingCoordinator) resolveViews(ctx context.Context, bookings []*model.Booking) ([]*model.BookingView, error) {
	slotIDs := make([]string, 0, len(bookings))
	for _, booking := range bookings {
		slotIDs = append(slotIDs, booking.SlotID)
	}

	slots, err := c.slots.FindByIDs(ctx, slotIDs)
	if err != nil {
		return nil, apperrors.Internal("failed to resolve slots", err)
	}
	slotByID := make(map[string]*model.Slot, len(slots))
	for _, slot := range slots {
		slotByID[slot.ID] = slot
	}

	windows, err := c.windows.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to list time windows", err)
	}
	windowByID := make(map[string]*model.TimeWindow, len(windows))
	for _, window := range windows {
		windowByID[window.ID] = window
	}

	categories, err := c.categories.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to list categories", err)
	}
	categoryByID := make(map[string]*model.Category, len(categories))
	for _, category := range categories {
		categoryByID[category.ID] = category
	}

	views := make([]*model.BookingView, 0, len(bookings))
	for _, booking := range bookings {
		view := &model.BookingView{
			BookingID:   booking.ID,
			Status:      booking.Status,
			BookedAt:    booking.BookedAt,
			CancelledAt: booking.CancelledAt,
		}
		if slot, ok := slotByID[booking.SlotID]; ok {
			view.Date = slot.Date
			view.TimeWindow = windowByID[slot.TimeWindowID]
			view.Category = categoryByID[slot.CategoryID]
		}
		views = append(views, view)
	}

	return views, nil
}

func (c *BookingCoordinator) release(ctx context.Context, release slotsrepo.ReleaseFunc, key string) {
	if err := release(ctx); err != nil {
		// The TTL index reaps the orphaned lock; the slot stays
		// unavailable until then, not forever.
		c.logger.Error("failed to release slot lock", "lock_key", key, "error", err)
	}
}

func (c *BookingCoordinator) isPastDate(date string) bool {
	parsed, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return false
	}
	today, err := time.Parse(model.DateLayout, c.now().UTC().Format(model.DateLayout))
	if err != nil {
		return false
	}
	return parsed.Before(today)
}
