package validator

import (
	"errors"
	"strings"
	"testing"

	"eventbooking/pkg/logger"
	"eventbooking/pkg/model"
)

func newTestValidator() *BookingValidator {
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	return NewBookingValidator(log)
}

func TestValidateRequest_AcceptsWellFormedRequest(t *testing.T) {
	v := newTestValidator()

	req := &model.BookingRequest{
		Date:         "2026-09-20",
		TimeWindowID: "64f000000000000000000001",
		CategoryID:   "64f000000000000000000002",
	}

	if err := v.ValidateRequest(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRequest_RejectsBadShapes(t *testing.T) {
	v := newTestValidator()

	cases := []struct {
		name   string
		req    *model.BookingRequest
		wantIn string
	}{
		{
			name:   "missing date",
			req:    &model.BookingRequest{TimeWindowID: "64f000000000000000000001", CategoryID: "64f000000000000000000002"},
			wantIn: "Date",
		},
		{
			name:   "wrong date format",
			req:    &model.BookingRequest{Date: "20/09/2026", TimeWindowID: "64f000000000000000000001", CategoryID: "64f000000000000000000002"},
			wantIn: "Date",
		},
		{
			name:   "bad time window id",
			req:    &model.BookingRequest{Date: "2026-09-20", TimeWindowID: "not-an-oid", CategoryID: "64f000000000000000000002"},
			wantIn: "TimeWindowID",
		},
		{
			name:   "bad category id",
			req:    &model.BookingRequest{Date: "2026-09-20", TimeWindowID: "64f000000000000000000001", CategoryID: "??"},
			wantIn: "CategoryID",
		},
		{
			name:   "everything missing",
			req:    &model.BookingRequest{},
			wantIn: "Date",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.ValidateRequest(tc.req)
			if err == nil {
				t.Fatal("expected a validation error")
			}

			var validationErrs ValidationErrors
			if !errors.As(err, &validationErrs) {
				t.Fatalf("expected ValidationErrors, got %T", err)
			}
			if !strings.Contains(err.Error(), tc.wantIn) {
				t.Errorf("expected error to mention %s, got %q", tc.wantIn, err.Error())
			}
		})
	}
}

func TestValidationErrors_MessageAggregation(t *testing.T) {
	errs := ValidationErrors{
		{Field: "Date", Message: "Date is required"},
		{Field: "CategoryID", Message: "CategoryID must be a valid object ID"},
	}

	msg := errs.Error()
	if !strings.Contains(msg, "2 error(s)") {
		t.Errorf("expected count in message, got %q", msg)
	}
	if !strings.Contains(msg, "Date is required") || !strings.Contains(msg, "CategoryID must be a valid object ID") {
		t.Errorf("expected both messages, got %q", msg)
	}

	if (ValidationErrors{}).Error() != "" {
		t.Error("empty ValidationErrors must render as empty string")
	}
}
