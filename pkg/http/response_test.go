package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "eventbooking/pkg/errors"
	"eventbooking/pkg/outcome"
)

var errPlain = errors.New("disk on fire")

func TestWriteOutcome_StatusCodes(t *testing.T) {
	cases := []struct {
		name     string
		o        outcome.Outcome
		data     any
		wantCode int
	}{
		{"confirmed with data", outcome.Confirmed(), map[string]string{"id": "1"}, http.StatusCreated},
		{"confirmed without data", outcome.Confirmed(), nil, http.StatusOK},
		{"contention", outcome.Retry("busy"), nil, http.StatusConflict},
		{"validation rejection", outcome.Rejected(outcome.ReasonValidation, "bad"), nil, http.StatusBadRequest},
		{"past date rejection", outcome.Rejected(outcome.ReasonPastDate, "old"), nil, http.StatusBadRequest},
		{"not found rejection", outcome.Rejected(outcome.ReasonNotFound, "gone"), nil, http.StatusNotFound},
		{"already booked rejection", outcome.Rejected(outcome.ReasonAlreadyBooked, "taken"), nil, http.StatusConflict},
		{"already cancelled rejection", outcome.Rejected(outcome.ReasonAlreadyCancelled, "done"), nil, http.StatusConflict},
		{"storage fault", outcome.Failed(outcome.ReasonStorageFault, "down"), nil, http.StatusInternalServerError},
		{"internal fault", outcome.Failed(outcome.ReasonInternal, "bug"), nil, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			if err := WriteOutcome(rec, tc.o, tc.data); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tc.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantCode)
			}

			var body OutcomeResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON body: %v", err)
			}
			if body.Status != tc.o.Status {
				t.Errorf("body status = %s, want %s", body.Status, tc.o.Status)
			}
			if body.Retryable != tc.o.Retryable() {
				t.Errorf("body retryable = %v, want %v", body.Retryable, tc.o.Retryable())
			}
		})
	}
}

func TestWriteError_UsesAppErrorStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := WriteError(rec, apperrors.NotFound("booking")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestWriteError_DefaultsToInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := WriteError(rec, errPlain); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}
