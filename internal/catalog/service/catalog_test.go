package service

import (
	"context"
	"testing"
	"time"

	catalogerrors "eventbooking/internal/catalog/errors"
	"eventbooking/internal/catalog/validator"
	slotserrors "eventbooking/internal/slots/errors"
	apperrors "eventbooking/pkg/errors"
	"eventbooking/pkg/logger"
	"eventbooking/pkg/model"
)

type mockCategoryRepository struct {
	createFunc   func(ctx context.Context, category *model.Category) error
	findByIDFunc func(ctx context.Context, id string) (*model.Category, error)
	findAllFunc  func(ctx context.Context) ([]*model.Category, error)
	updateFunc   func(ctx context.Context, id string, category *model.Category) error
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, category)
	}
	category.ID = "64f000000000000000000010"
	return nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Category{ID: id, Name: "Consultation"}, nil
}

func (m *mockCategoryRepository) FindAll(ctx context.Context) ([]*model.Category, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return []*model.Category{}, nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, id string, category *model.Category) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, category)
	}
	return nil
}

type mockTimeWindowRepository struct {
	created []*model.TimeWindow

	createFunc      func(ctx context.Context, window *model.TimeWindow) error
	findByIDFunc    func(ctx context.Context, id string) (*model.TimeWindow, error)
	findByTimesFunc func(ctx context.Context, startTime, endTime string) (*model.TimeWindow, error)
	findAllFunc     func(ctx context.Context) ([]*model.TimeWindow, error)
	countFunc       func(ctx context.Context) (int64, error)
}

func (m *mockTimeWindowRepository) Create(ctx context.Context, window *model.TimeWindow) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, window)
	}
	window.ID = "64f000000000000000000011"
	m.created = append(m.created, window)
	return nil
}

func (m *mockTimeWindowRepository) FindByID(ctx context.Context, id string) (*model.TimeWindow, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.TimeWindow{ID: id, StartTime: "09:00", EndTime: "12:00"}, nil
}

func (m *mockTimeWindowRepository) FindByTimes(ctx context.Context, startTime, endTime string) (*model.TimeWindow, error) {
	if m.findByTimesFunc != nil {
		return m.findByTimesFunc(ctx, startTime, endTime)
	}
	return nil, catalogerrors.ErrTimeWindowNotFound
}

func (m *mockTimeWindowRepository) FindAll(ctx context.Context) ([]*model.TimeWindow, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return []*model.TimeWindow{}, nil
}

func (m *mockTimeWindowRepository) Update(ctx context.Context, id string, window *model.TimeWindow) error {
	return nil
}

func (m *mockTimeWindowRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

type mockSlotRegistry struct {
	findByIDFunc         func(ctx context.Context, id string) (*model.Slot, error)
	findByDateWindowFunc func(ctx context.Context, date, timeWindowID string) (*model.Slot, error)
	createIfAbsentFunc   func(ctx context.Context, slot *model.Slot) (*model.Slot, error)
	updateCategoryFunc   func(ctx context.Context, id, categoryID string) error
	deleteFunc           func(ctx context.Context, id string) error
}

func (m *mockSlotRegistry) Find(ctx context.Context, date, timeWindowID, categoryID string) (*model.Slot, error) {
	return nil, slotserrors.ErrNotFound
}

func (m *mockSlotRegistry) FindByID(ctx context.Context, id string) (*model.Slot, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, slotserrors.ErrNotFound
}

func (m *mockSlotRegistry) FindByDateWindow(ctx context.Context, date, timeWindowID string) (*model.Slot, error) {
	if m.findByDateWindowFunc != nil {
		return m.findByDateWindowFunc(ctx, date, timeWindowID)
	}
	return nil, slotserrors.ErrNotFound
}

func (m *mockSlotRegistry) FindByDates(ctx context.Context, dates []string) ([]*model.Slot, error) {
	return nil, nil
}

func (m *mockSlotRegistry) FindByIDs(ctx context.Context, ids []string) ([]*model.Slot, error) {
	return nil, nil
}

func (m *mockSlotRegistry) CreateIfAbsent(ctx context.Context, slot *model.Slot) (*model.Slot, error) {
	if m.createIfAbsentFunc != nil {
		return m.createIfAbsentFunc(ctx, slot)
	}
	slot.ID = "64f000000000000000000012"
	return slot, nil
}

func (m *mockSlotRegistry) UpdateCategory(ctx context.Context, id, categoryID string) error {
	if m.updateCategoryFunc != nil {
		return m.updateCategoryFunc(ctx, id, categoryID)
	}
	return nil
}

func (m *mockSlotRegistry) SetStatus(ctx context.Context, id, status string) error {
	return nil
}

func (m *mockSlotRegistry) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockBookingLedger struct {
	hasActiveEntryFunc func(ctx context.Context, slotID string) (bool, error)
	countBySlotFunc    func(ctx context.Context, slotID string) (int64, error)
}

func (m *mockBookingLedger) Create(ctx context.Context, booking *model.Booking) error { return nil }

func (m *mockBookingLedger) HasActiveEntry(ctx context.Context, slotID string) (bool, error) {
	if m.hasActiveEntryFunc != nil {
		return m.hasActiveEntryFunc(ctx, slotID)
	}
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
	return nil, nil
}

func (m *mockBookingLedger) CountBySlot(ctx context.Context, slotID string) (int64, error) {
	if m.countBySlotFunc != nil {
		return m.countBySlotFunc(ctx, slotID)
	}
	return 0, nil
}

func newTestService(
	categories *mockCategoryRepository,
	windows *mockTimeWindowRepository,
	slots *mockSlotRegistry,
	bookings *mockBookingLedger,
) *CatalogService {
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	return NewCatalogService(categories, windows, slots, bookings, validator.NewCatalogValidator(log), log)
}

const (
	windowID   = "64f000000000000000000001"
	categoryID = "64f000000000000000000002"
)

func futureDate() string {
	return time.Now().UTC().AddDate(0, 0, 7).Format(model.DateLayout)
}

func TestEnsureDefaultTimeWindows_SeedsEmptyCatalog(t *testing.T) {
	windows := &mockTimeWindowRepository{}
	svc := newTestService(&mockCategoryRepository{}, windows, &mockSlotRegistry{}, &mockBookingLedger{})

	if err := svc.EnsureDefaultTimeWindows(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(windows.created) != 3 {
		t.Fatalf("expected 3 seeded windows, got %d", len(windows.created))
	}

	want := [][2]string{{"09:00", "12:00"}, {"12:00", "15:00"}, {"15:00", "18:00"}}
	for i, bounds := range want {
		if windows.created[i].StartTime != bounds[0] || windows.created[i].EndTime != bounds[1] {
			t.Errorf("window %d: expected %s-%s, got %s-%s",
				i, bounds[0], bounds[1], windows.created[i].StartTime, windows.created[i].EndTime)
		}
	}
}

func TestEnsureDefaultTimeWindows_LeavesPopulatedCatalogAlone(t *testing.T) {
	windows := &mockTimeWindowRepository{
		countFunc: func(ctx context.Context) (int64, error) { return 2, nil },
	}
	svc := newTestService(&mockCategoryRepository{}, windows, &mockSlotRegistry{}, &mockBookingLedger{})

	if err := svc.EnsureDefaultTimeWindows(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(windows.created) != 0 {
		t.Fatalf("expected no windows created, got %d", len(windows.created))
	}
}

func TestCreateCategory_RejectsShortName(t *testing.T) {
	svc := newTestService(&mockCategoryRepository{}, &mockTimeWindowRepository{}, &mockSlotRegistry{}, &mockBookingLedger{})

	_, err := svc.CreateCategory(context.Background(), &model.Category{Name: "x"})
	if err == nil {
		t.Fatal("expected a validation error")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateTimeWindow_RejectsInvertedBounds(t *testing.T) {
	svc := newTestService(&mockCategoryRepository{}, &mockTimeWindowRepository{}, &mockSlotRegistry{}, &mockBookingLedger{})

	_, err := svc.CreateTimeWindow(context.Background(), &model.TimeWindow{StartTime: "15:00", EndTime: "12:00"})
	if err == nil {
		t.Fatal("expected a validation error")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateTimeWindow_RejectsDuplicateBounds(t *testing.T) {
	windows := &mockTimeWindowRepository{
		findByTimesFunc: func(ctx context.Context, startTime, endTime string) (*model.TimeWindow, error) {
			return &model.TimeWindow{ID: windowID, StartTime: startTime, EndTime: endTime}, nil
		},
	}
	svc := newTestService(&mockCategoryRepository{}, windows, &mockSlotRegistry{}, &mockBookingLedger{})

	_, err := svc.CreateTimeWindow(context.Background(), &model.TimeWindow{StartTime: "09:00", EndTime: "12:00"})
	if err == nil {
		t.Fatal("expected a conflict error")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestUpsertSlot_RejectsPastDate(t *testing.T) {
	svc := newTestService(&mockCategoryRepository{}, &mockTimeWindowRepository{}, &mockSlotRegistry{}, &mockBookingLedger{})

	past := time.Now().UTC().AddDate(0, 0, -1).Format(model.DateLayout)
	_, err := svc.UpsertSlot(context.Background(), past, windowID, categoryID)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpsertSlot_CreatesMissingSlot(t *testing.T) {
	slots := &mockSlotRegistry{}
	svc := newTestService(&mockCategoryRepository{}, &mockTimeWindowRepository{}, slots, &mockBookingLedger{})

	slot, err := svc.UpsertSlot(context.Background(), futureDate(), windowID, categoryID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slot.ID == "" {
		t.Fatal("expected created slot with an ID")
	}
	if slot.Status != model.SlotAvailable {
		t.Errorf("expected new slot AVAILABLE, got %s", slot.Status)
	}
}

func TestUpsertSlot_RefusesRepointingHeldSlot(t *testing.T) {
	slots := &mockSlotRegistry{
		findByDateWindowFunc: func(ctx context.Context, date, timeWindowID string) (*model.Slot, error) {
			return &model.Slot{
				ID:           "64f000000000000000000012",
				Date:         date,
				TimeWindowID: timeWindowID,
				CategoryID:   "64f000000000000000000099",
				Status:       model.SlotAvailable,
			}, nil
		},
	}
	bookings := &mockBookingLedger{
		hasActiveEntryFunc: func(ctx context.Context, slotID string) (bool, error) { return true, nil },
	}
	svc := newTestService(&mockCategoryRepository{}, &mockTimeWindowRepository{}, slots, bookings)

	_, err := svc.UpsertSlot(context.Background(), futureDate(), windowID, categoryID)
	if err == nil {
		t.Fatal("expected a conflict error")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestDeleteSlot_RefusesBookedSlot(t *testing.T) {
	slots := &mockSlotRegistry{
		findByIDFunc: func(ctx context.Context, id string) (*model.Slot, error) {
			return &model.Slot{ID: id, Status: model.SlotBooked}, nil
		},
	}
	svc := newTestService(&mockCategoryRepository{}, &mockTimeWindowRepository{}, slots, &mockBookingLedger{})

	err := svc.DeleteSlot(context.Background(), "64f000000000000000000012")
	if err == nil {
		t.Fatal("expected a conflict error")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestDeleteSlot_RefusesSlotWithHistory(t *testing.T) {
	slots := &mockSlotRegistry{
		findByIDFunc: func(ctx context.Context, id string) (*model.Slot, error) {
			return &model.Slot{ID: id, Status: model.SlotAvailable}, nil
		},
	}
	bookings := &mockBookingLedger{
		countBySlotFunc: func(ctx context.Context, slotID string) (int64, error) { return 4, nil },
	}
	svc := newTestService(&mockCategoryRepository{}, &mockTimeWindowRepository{}, slots, bookings)

	err := svc.DeleteSlot(context.Background(), "64f000000000000000000012")
	if err == nil {
		t.Fatal("expected a conflict error")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestDeleteSlot_DeletesIdleSlot(t *testing.T) {
	deleted := ""
	slots := &mockSlotRegistry{
		findByIDFunc: func(ctx context.Context, id string) (*model.Slot, error) {
			return &model.Slot{ID: id, Status: model.SlotAvailable}, nil
		},
		deleteFunc: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	svc := newTestService(&mockCategoryRepository{}, &mockTimeWindowRepository{}, slots, &mockBookingLedger{})

	if err := svc.DeleteSlot(context.Background(), "64f000000000000000000012"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != "64f000000000000000000012" {
		t.Fatalf("expected slot deleted, got %q", deleted)
	}
}

func TestGetCategory_TranslatesNotFound(t *testing.T) {
	categories := &mockCategoryRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Category, error) {
			return nil, catalogerrors.ErrCategoryNotFound
		},
	}
	svc := newTestService(categories, &mockTimeWindowRepository{}, &mockSlotRegistry{}, &mockBookingLedger{})

	_, err := svc.GetCategory(context.Background(), categoryID)
	if err == nil {
		t.Fatal("expected an error")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}
