package http

import (
	"encoding/json"
	"net/http"

	apperrors "eventbooking/pkg/errors"
	"eventbooking/pkg/outcome"
)

type ErrorResponse struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data any `json:"data,omitempty"`
}

type PaginatedResponse struct {
	Data       any   `json:"data"`
	TotalCount int64 `json:"total_count"`
	Limit      int   `json:"limit"`
	Offset     int64 `json:"offset"`
}

// OutcomeResponse is the wire shape of a coordinator outcome. Retryable
// tells the caller whether the same intent may be resubmitted.
type OutcomeResponse struct {
	Status    outcome.Status `json:"status"`
	Reason    outcome.Reason `json:"reason,omitempty"`
	Detail    string         `json:"detail,omitempty"`
	Retryable bool           `json:"retryable"`
	Data      any            `json:"data,omitempty"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

func WriteError(w http.ResponseWriter, err error) error {
	appErr := apperrors.AsAppError(err)
	return WriteJSON(w, appErr.StatusCode(), ErrorResponse{
		Error:   appErr.Message,
		Details: appErr.Details,
	})
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, SuccessResponse{Data: data})
}

func WriteCreated(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusCreated, SuccessResponse{Data: data})
}

func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func WritePaginated(w http.ResponseWriter, data any, totalCount int64, limit int, offset int64) error {
	return WriteJSON(w, http.StatusOK, PaginatedResponse{
		Data:       data,
		TotalCount: totalCount,
		Limit:      limit,
		Offset:     offset,
	})
}

// WriteOutcome maps an outcome to HTTP. Confirmed bookings are 201 when the
// created entity is included, 200 otherwise; rejections map by reason;
// contention and storage faults keep their retryable marker in the body.
func WriteOutcome(w http.ResponseWriter, o outcome.Outcome, data any) error {
	statusCode := outcomeStatusCode(o, data)
	return WriteJSON(w, statusCode, OutcomeResponse{
		Status:    o.Status,
		Reason:    o.Reason,
		Detail:    o.Detail,
		Retryable: o.Retryable(),
		Data:      data,
	})
}

func outcomeStatusCode(o outcome.Outcome, data any) int {
	switch o.Status {
	case outcome.StatusConfirmed:
		if data != nil {
			return http.StatusCreated
		}
		return http.StatusOK
	case outcome.StatusRetry:
		return http.StatusConflict
	case outcome.StatusFailed:
		return http.StatusInternalServerError
	default:
		switch o.Reason {
		case outcome.ReasonValidation, outcome.ReasonPastDate:
			return http.StatusBadRequest
		case outcome.ReasonNotFound:
			return http.StatusNotFound
		default:
			return http.StatusConflict
		}
	}
}
