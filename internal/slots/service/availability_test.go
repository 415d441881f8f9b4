package service

import (
	"context"
	"testing"
	"time"

	apperrors "eventbooking/pkg/errors"
	"eventbooking/pkg/logger"
	"eventbooking/pkg/model"
)

type mockSlotRegistry struct {
	findByDatesFunc func(ctx context.Context, dates []string) ([]*model.Slot, error)
}

func (m *mockSlotRegistry) Find(ctx context.Context, date, timeWindowID, categoryID string) (*model.Slot, error) {
	return nil, nil
}

func (m *mockSlotRegistry) FindByID(ctx context.Context, id string) (*model.Slot, error) {
	return nil, nil
}

func (m *mockSlotRegistry) FindByDateWindow(ctx context.Context, date, timeWindowID string) (*model.Slot, error) {
	return nil, nil
}

func (m *mockSlotRegistry) FindByDates(ctx context.Context, dates []string) ([]*model.Slot, error) {
	if m.findByDatesFunc != nil {
		return m.findByDatesFunc(ctx, dates)
	}
	return []*model.Slot{}, nil
}

func (m *mockSlotRegistry) FindByIDs(ctx context.Context, ids []string) ([]*model.Slot, error) {
	return nil, nil
}

func (m *mockSlotRegistry) CreateIfAbsent(ctx context.Context, slot *model.Slot) (*model.Slot, error) {
	return slot, nil
}

func (m *mockSlotRegistry) UpdateCategory(ctx context.Context, id, categoryID string) error {
	return nil
}

func (m *mockSlotRegistry) SetStatus(ctx context.Context, id, status string) error {
	return nil
}

func (m *mockSlotRegistry) Delete(ctx context.Context, id string) error {
	return nil
}

type mockBookingLedger struct {
	findActiveBySlotsFunc func(ctx context.Context, slotIDs []string) ([]*model.Booking, error)
}

func (m *mockBookingLedger) Create(ctx context.Context, booking *model.Booking) error { return nil }

func (m *mockBookingLedger) HasActiveEntry(ctx context.Context, slotID string) (bool, error) {
	return false, nil
}

func (m *mockBookingLedger) FindOwned(ctx context.Context, id, requesterID string) (*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingLedger) Cancel(ctx context.Context, id string, at time.Time) error { return nil }

func (m *mockBookingLedger) FindByRequester(ctx context.Context, requesterID string, limit int, offset int64) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingLedger) CountByRequester(ctx context.Context, requesterID string) (int64, error) {
	return 0, nil
}

func (m *mockBookingLedger) FindActiveBySlots(ctx context.Context, slotIDs []string) ([]*model.Booking, error) {
	if m.findActiveBySlotsFunc != nil {
		return m.findActiveBySlotsFunc(ctx, slotIDs)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingLedger) CountBySlot(ctx context.Context, slotID string) (int64, error) {
	return 0, nil
}

type mockCategoryRepository struct {
	categories []*model.Category
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	return nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	return nil, nil
}

func (m *mockCategoryRepository) FindAll(ctx context.Context) ([]*model.Category, error) {
	return m.categories, nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, id string, category *model.Category) error {
	return nil
}

type mockTimeWindowRepository struct {
	windows []*model.TimeWindow
}

func (m *mockTimeWindowRepository) Create(ctx context.Context, window *model.TimeWindow) error {
	return nil
}

func (m *mockTimeWindowRepository) FindByID(ctx context.Context, id string) (*model.TimeWindow, error) {
	return nil, nil
}

func (m *mockTimeWindowRepository) FindByTimes(ctx context.Context, startTime, endTime string) (*model.TimeWindow, error) {
	return nil, nil
}

func (m *mockTimeWindowRepository) FindAll(ctx context.Context) ([]*model.TimeWindow, error) {
	return m.windows, nil
}

func (m *mockTimeWindowRepository) Update(ctx context.Context, id string, window *model.TimeWindow) error {
	return nil
}

func (m *mockTimeWindowRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
}

const (
	windowID   = "64f000000000000000000001"
	categoryID = "64f000000000000000000002"
)

func TestListAvailability_AnnotatesHolders(t *testing.T) {
	slots := &mockSlotRegistry{
		findByDatesFunc: func(ctx context.Context, dates []string) ([]*model.Slot, error) {
			return []*model.Slot{
				{ID: "slot-free", Date: "2026-09-20", TimeWindowID: windowID, CategoryID: categoryID, Status: model.SlotAvailable},
				{ID: "slot-mine", Date: "2026-09-20", TimeWindowID: windowID, CategoryID: categoryID, Status: model.SlotBooked},
				{ID: "slot-theirs", Date: "2026-09-21", TimeWindowID: windowID, CategoryID: categoryID, Status: model.SlotBooked},
			}, nil
		},
	}
	ledger := &mockBookingLedger{
		findActiveBySlotsFunc: func(ctx context.Context, slotIDs []string) ([]*model.Booking, error) {
			return []*model.Booking{
				{ID: "b1", SlotID: "slot-mine", RequesterID: "me", Status: model.BookingActive},
				{ID: "b2", SlotID: "slot-theirs", RequesterID: "someone-else", Status: model.BookingActive},
			}, nil
		},
	}
	categories := &mockCategoryRepository{categories: []*model.Category{{ID: categoryID, Name: "Consultation"}}}
	windows := &mockTimeWindowRepository{windows: []*model.TimeWindow{{ID: windowID, StartTime: "09:00", EndTime: "12:00"}}}

	svc := NewAvailabilityService(slots, ledger, categories, windows, testLogger())

	views, err := svc.ListAvailability(context.Background(), []string{"2026-09-20", "2026-09-21"}, "me")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("expected 3 views, got %d", len(views))
	}

	byID := make(map[string]*model.SlotAvailability)
	for _, view := range views {
		byID[view.SlotID] = view
	}

	free := byID["slot-free"]
	if free.Status != model.SlotAvailable || free.BookedBy != "" || free.SelfBooked {
		t.Errorf("free slot annotated incorrectly: %+v", free)
	}
	if free.Category == nil || free.Category.Name != "Consultation" {
		t.Error("expected resolved category on free slot")
	}
	if free.TimeWindow == nil || free.TimeWindow.StartTime != "09:00" {
		t.Error("expected resolved time window on free slot")
	}

	mine := byID["slot-mine"]
	if !mine.SelfBooked || mine.BookedBy != "me" {
		t.Errorf("self-booked slot annotated incorrectly: %+v", mine)
	}

	theirs := byID["slot-theirs"]
	if theirs.SelfBooked {
		t.Error("another requester's slot flagged as self-booked")
	}
	if theirs.BookedBy != "someone-else" {
		t.Errorf("expected holder annotation, got %q", theirs.BookedBy)
	}
}

func TestListAvailability_RejectsBadInput(t *testing.T) {
	svc := NewAvailabilityService(&mockSlotRegistry{}, &mockBookingLedger{}, &mockCategoryRepository{}, &mockTimeWindowRepository{}, testLogger())

	cases := []struct {
		name  string
		dates []string
	}{
		{"no dates", nil},
		{"malformed date", []string{"20-09-2026"}},
		{"too many dates", make([]string, maxDatesPerQuery+1)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ListAvailability(context.Background(), tc.dates, "")
			if err == nil {
				t.Fatal("expected an error")
			}
			appErr := apperrors.AsAppError(err)
			if appErr == nil || appErr.Code != apperrors.CodeInvalidInput {
				t.Fatalf("expected invalid input error, got %v", err)
			}
		})
	}
}

func TestListAvailability_EmptyDatesReturnEmptyList(t *testing.T) {
	svc := NewAvailabilityService(&mockSlotRegistry{}, &mockBookingLedger{}, &mockCategoryRepository{}, &mockTimeWindowRepository{}, testLogger())

	views, err := svc.ListAvailability(context.Background(), []string{"2026-09-20"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if views == nil || len(views) != 0 {
		t.Fatalf("expected empty non-nil list, got %v", views)
	}
}
